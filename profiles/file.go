package profiles

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/vinayprograms/vogsphere/errors"
)

// FileStore persists Settings as a TOML file. The file holds API keys, so
// it is written 0600.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. The file need not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// DefaultPath returns ~/.config/vogsphere/profiles.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "profiles.toml"
	}
	return filepath.Join(home, ".config", "vogsphere", "profiles.toml")
}

// Load decodes the file. A missing file yields empty Settings.
func (f *FileStore) Load(ctx context.Context) (*Settings, error) {
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return &Settings{}, nil
	}

	var s Settings
	if _, err := toml.DecodeFile(f.path, &s); err != nil {
		return nil, errors.Configuration("failed to read profiles",
			errors.WithCause(err),
			errors.WithMetadata("path", f.path),
		)
	}
	return &s, nil
}

// Save writes s atomically, creating the parent directory.
func (f *FileStore) Save(ctx context.Context, s *Settings) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "saving profiles")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return errors.Wrap(err, "encoding profiles")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "creating profile directory")
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*.toml")
	if err != nil {
		return errors.Wrap(err, "saving profiles")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrap(err, "saving profiles")
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "saving profiles")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "saving profiles")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrap(err, "saving profiles")
	}
	return nil
}
