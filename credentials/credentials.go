// Package credentials loads provider API keys from credentials.toml and the
// environment, for profiles that leave the key empty.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when the credentials file is readable
// or writable by anyone but its owner.
var ErrInsecurePermissions = fmt.Errorf("credentials file has insecure permissions")

// Credentials holds API keys loaded from credentials.toml.
type Credentials struct {
	// LLM is the generic key used when no provider section matches.
	LLM *ProviderCreds `toml:"llm"`

	providers map[string]*ProviderCreds
}

// ProviderCreds holds the key for a single provider.
type ProviderCreds struct {
	APIKey string `toml:"api_key"`
}

// aliases lets a section use the vendor name instead of the provider kind.
var aliases = map[string]string{
	"claude": "anthropic",
	"grok":   "xai",
	"azure":  "azure_openai",
}

// StandardPaths returns the credential file locations in priority order.
func StandardPaths() []string {
	paths := []string{"credentials.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "vogsphere", "credentials.toml"))
	}
	return paths
}

// Load reads the first credentials file found in StandardPaths. A missing
// file is not an error; the result is nil and lookups fall back to the
// environment.
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			creds, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return creds, path, nil
		}
	}
	return nil, "", nil
}

// LoadFile loads credentials from path. On Unix the file must be 0400.
func LoadFile(path string) (*Credentials, error) {
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if mode := info.Mode().Perm(); mode != 0400 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must be 0400)",
				ErrInsecurePermissions, path, mode)
		}
	}

	var raw map[string]interface{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, err
	}

	creds := &Credentials{providers: make(map[string]*ProviderCreds)}
	for key, value := range raw {
		section, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		apiKey, _ := section["api_key"].(string)
		if apiKey == "" {
			continue
		}
		if key == "llm" {
			creds.LLM = &ProviderCreds{APIKey: apiKey}
			continue
		}
		creds.providers[strings.ToLower(key)] = &ProviderCreds{APIKey: apiKey}
	}
	return creds, nil
}

// GetAPIKey returns the key for a provider.
// Priority: [provider] section > [llm] section > environment variable.
func (c *Credentials) GetAPIKey(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))

	if c != nil {
		if creds, ok := c.providers[provider]; ok {
			return creds.APIKey
		}
		if alias, ok := aliases[provider]; ok {
			if creds, ok := c.providers[alias]; ok {
				return creds.APIKey
			}
		}
		if c.LLM != nil && c.LLM.APIKey != "" {
			return c.LLM.APIKey
		}
	}

	return os.Getenv(EnvVar(provider))
}

// EnvVar returns the environment variable consulted for a provider.
func EnvVar(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "azure":
		return "AZURE_OPENAI_API_KEY"
	case "claude", "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "grok", "xai":
		return "XAI_API_KEY"
	case "ollama":
		return "OLLAMA_API_KEY"
	default:
		return strings.ToUpper(strings.ReplaceAll(provider, "-", "_")) + "_API_KEY"
	}
}
