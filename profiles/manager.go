package profiles

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vinayprograms/vogsphere/errors"
	"github.com/vinayprograms/vogsphere/llm"
)

// Manager owns the in-memory settings and writes every change through to
// its Store. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	store    Store
	settings *Settings
	newID    func() string
}

// NewManager creates a manager over store. Call Init before anything else.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
}

// Init loads settings and migrates them. With no profiles, a single
// "Default Profile" is built from the legacy keys (or the Ollama defaults),
// the legacy keys are cleared and the result saved. A missing or unknown
// active id falls back to the first profile.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.store.Load(ctx)
	if err != nil {
		return err
	}

	if len(s.Profiles) == 0 {
		p := m.migrate(s)
		s.Profiles = []Profile{p}
		s.ActiveProfileID = p.ID
		s.clearLegacy()
		return m.commit(ctx, s)
	}

	dirty := s.hasLegacy()
	s.clearLegacy()
	if indexOf(s.Profiles, s.ActiveProfileID) < 0 {
		s.ActiveProfileID = s.Profiles[0].ID
		dirty = true
	}
	if dirty {
		return m.commit(ctx, s)
	}
	m.settings = s
	return nil
}

func (m *Manager) migrate(s *Settings) Profile {
	d := llm.DefaultsFor(MigrationProvider)
	p := Profile{
		ID:       m.newID(),
		Name:     DefaultProfileName,
		Provider: MigrationProvider,
		Fields: llm.Fields{
			BaseURL: d.BaseURL,
			Model:   d.Model,
			APIKey:  s.LegacyAPIKey,
		},
		Language: DefaultLanguage,
	}
	if s.LegacyProviderPreset != "" {
		p.Provider = llm.Kind(s.LegacyProviderPreset)
	}
	if s.LegacyBaseURL != "" {
		p.Fields.BaseURL = s.LegacyBaseURL
	}
	if s.LegacyModelName != "" {
		p.Fields.Model = s.LegacyModelName
	}
	if s.LegacyTargetLanguage != "" {
		p.Language = s.LegacyTargetLanguage
	}
	return p
}

// Profiles returns a copy of every profile in order.
func (m *Manager) Profiles() []Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil
	}
	return append([]Profile(nil), m.settings.Profiles...)
}

// Active returns the active profile.
func (m *Manager) Active() (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return Profile{}, err
	}
	if i := indexOf(m.settings.Profiles, m.settings.ActiveProfileID); i >= 0 {
		return m.settings.Profiles[i], nil
	}
	return m.settings.Profiles[0], nil
}

// Get returns the profile with the given id.
func (m *Manager) Get(id string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return Profile{}, err
	}
	i := indexOf(m.settings.Profiles, id)
	if i < 0 {
		return Profile{}, notFound(id)
	}
	return m.settings.Profiles[i], nil
}

// Find resolves a profile by id or, failing that, by exact name.
func (m *Manager) Find(ref string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return Profile{}, err
	}
	if i := indexOf(m.settings.Profiles, ref); i >= 0 {
		return m.settings.Profiles[i], nil
	}
	for _, p := range m.settings.Profiles {
		if p.Name == ref {
			return p, nil
		}
	}
	return Profile{}, notFound(ref)
}

// Select makes id the active profile.
func (m *Manager) Select(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return err
	}
	if indexOf(m.settings.Profiles, id) < 0 {
		return notFound(id)
	}
	next := m.settings.clone()
	next.ActiveProfileID = id
	return m.commit(ctx, next)
}

// Create adds a profile with the OpenAI defaults and makes it active.
// An empty name becomes "New Profile".
func (m *Manager) Create(ctx context.Context, name string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return Profile{}, err
	}
	if name == "" {
		name = "New Profile"
	}

	d := llm.DefaultsFor(llm.KindOpenAI)
	p := Profile{
		ID:       m.newID(),
		Name:     name,
		Provider: llm.KindOpenAI,
		Fields:   llm.Fields{BaseURL: d.BaseURL, Model: d.Model},
		Language: DefaultLanguage,
	}
	next := m.settings.clone()
	next.Profiles = append(next.Profiles, p)
	next.ActiveProfileID = p.ID
	if err := m.commit(ctx, next); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Update replaces the stored profile with the same id.
func (m *Manager) Update(ctx context.Context, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return err
	}
	i := indexOf(m.settings.Profiles, p.ID)
	if i < 0 {
		return notFound(p.ID)
	}
	next := m.settings.clone()
	next.Profiles[i] = p
	return m.commit(ctx, next)
}

// Delete removes a profile. The last profile cannot be deleted. Deleting the
// active profile makes the first remaining one active.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return err
	}
	if len(m.settings.Profiles) <= 1 {
		return errors.Precondition("Cannot delete the last profile.",
			errors.WithMetadata("profile_id", id),
		)
	}
	i := indexOf(m.settings.Profiles, id)
	if i < 0 {
		return notFound(id)
	}

	next := m.settings.clone()
	next.Profiles = append(next.Profiles[:i], next.Profiles[i+1:]...)
	if next.ActiveProfileID == id {
		next.ActiveProfileID = next.Profiles[0].ID
	}
	return m.commit(ctx, next)
}

func (m *Manager) ready() error {
	if m.settings == nil || len(m.settings.Profiles) == 0 {
		return errors.Precondition("No active profile found.")
	}
	return nil
}

// commit persists next and only then makes it current, so a failed save
// leaves the previous settings untouched.
func (m *Manager) commit(ctx context.Context, next *Settings) error {
	if err := m.store.Save(ctx, next); err != nil {
		return err
	}
	m.settings = next
	return nil
}

func indexOf(profiles []Profile, id string) int {
	if id == "" {
		return -1
	}
	for i, p := range profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return errors.NotFound(fmt.Sprintf("profile %s not found", id),
		errors.WithMetadata("profile_id", id),
	)
}
