// Package profiles stores named provider connection profiles and tracks
// which one is active.
package profiles

import (
	"github.com/vinayprograms/vogsphere/llm"
)

// Profile is one named provider configuration.
type Profile struct {
	ID       string     `toml:"id" json:"id"`
	Name     string     `toml:"name" json:"name"`
	Provider llm.Kind   `toml:"provider" json:"provider"`
	Fields   llm.Fields `toml:"fields" json:"fields"`
	Language string     `toml:"language" json:"targetLanguage"`
}

// Settings is the persisted state: every profile plus the active id.
// The legacy keys hold a single-profile configuration from older installs
// and are read only by migration.
type Settings struct {
	Profiles        []Profile `toml:"profiles" json:"profiles"`
	ActiveProfileID string    `toml:"active_profile_id" json:"activeProfileId"`

	LegacyAPIKey         string `toml:"api_key,omitempty" json:"apiKey,omitempty"`
	LegacyBaseURL        string `toml:"base_url,omitempty" json:"baseUrl,omitempty"`
	LegacyModelName      string `toml:"model_name,omitempty" json:"modelName,omitempty"`
	LegacyProviderPreset string `toml:"provider_preset,omitempty" json:"providerPreset,omitempty"`
	LegacyTargetLanguage string `toml:"target_language,omitempty" json:"targetLanguage,omitempty"`
}

// hasLegacy reports whether any single-profile key is set.
func (s *Settings) hasLegacy() bool {
	return s.LegacyAPIKey != "" || s.LegacyBaseURL != "" || s.LegacyModelName != "" ||
		s.LegacyProviderPreset != "" || s.LegacyTargetLanguage != ""
}

func (s *Settings) clearLegacy() {
	s.LegacyAPIKey = ""
	s.LegacyBaseURL = ""
	s.LegacyModelName = ""
	s.LegacyProviderPreset = ""
	s.LegacyTargetLanguage = ""
}

// clone returns a deep copy so callers never share the profile slice.
func (s *Settings) clone() *Settings {
	c := *s
	c.Profiles = append([]Profile(nil), s.Profiles...)
	return &c
}

const (
	// DefaultProfileName names the profile created by migration.
	DefaultProfileName = "Default Profile"

	// DefaultLanguage is the output language of new profiles.
	DefaultLanguage = "English"

	// MigrationProvider is assumed when legacy settings name no provider.
	MigrationProvider = llm.KindOllama
)

// ApplyProviderDefaults switches p to provider and fills its suggested base
// URL and model, overwriting what was there. Azure has no default endpoint,
// so its base URL is cleared and the model kept; an empty API version gets
// the Azure default.
func ApplyProviderDefaults(p *Profile, provider llm.Kind) {
	p.Provider = provider
	d := llm.DefaultsFor(provider)

	if provider == llm.KindAzure {
		p.Fields.BaseURL = ""
		if p.Fields.APIVersion == "" {
			p.Fields.APIVersion = d.APIVersion
		}
		return
	}
	p.Fields.BaseURL = d.BaseURL
	p.Fields.Model = d.Model
}
