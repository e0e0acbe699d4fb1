// Package llm builds provider-specific chat requests and normalises the
// replies back to a single string.
package llm

import "strings"

// Kind identifies an LLM vendor or API family.
type Kind string

const (
	KindOpenAI Kind = "openai"
	KindAzure  Kind = "azure"
	KindOllama Kind = "ollama"
	KindGemini Kind = "gemini"
	KindGrok   Kind = "grok"
	KindClaude Kind = "claude"
	KindCustom Kind = "custom"
)

// Kinds lists every supported provider in presentation order.
var Kinds = []Kind{KindOpenAI, KindAzure, KindOllama, KindGemini, KindGrok, KindClaude, KindCustom}

// ParseKind maps a case-insensitive provider name to a Kind.
// The second result is false for names outside Kinds.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return k, false
}

// String returns the provider identifier.
func (k Kind) String() string {
	return string(k)
}

// Fields holds the connection fields of a profile.
type Fields struct {
	BaseURL    string `json:"baseUrl" toml:"base_url"`
	APIKey     string `json:"apiKey" toml:"api_key"`
	Model      string `json:"model" toml:"model"`
	Deployment string `json:"deployment" toml:"deployment"`
	APIVersion string `json:"apiVersion" toml:"api_version"`
}

// Field names as shown to the user.
const (
	FieldBaseURL    = "baseUrl"
	FieldAPIKey     = "apiKey"
	FieldModel      = "model"
	FieldDeployment = "deployment"
	FieldAPIVersion = "apiVersion"
)

var kindFields = map[Kind][]string{
	KindOpenAI: {FieldBaseURL, FieldModel, FieldAPIKey},
	KindAzure:  {FieldBaseURL, FieldDeployment, FieldAPIVersion, FieldAPIKey},
	KindOllama: {FieldBaseURL, FieldModel},
	KindGemini: {FieldAPIKey, FieldModel},
	KindGrok:   {FieldAPIKey, FieldModel},
	KindClaude: {FieldAPIKey, FieldModel},
	KindCustom: {FieldBaseURL, FieldModel, FieldAPIKey},
}

// Fields returns the connection fields meaningful for the provider.
// Unknown kinds get the custom layout.
func (k Kind) Fields() []string {
	if f, ok := kindFields[k]; ok {
		return f
	}
	return kindFields[KindCustom]
}

// Get returns the value of a field by its user-facing name.
func (f Fields) Get(name string) string {
	switch name {
	case FieldBaseURL:
		return f.BaseURL
	case FieldAPIKey:
		return f.APIKey
	case FieldModel:
		return f.Model
	case FieldDeployment:
		return f.Deployment
	case FieldAPIVersion:
		return f.APIVersion
	}
	return ""
}

// Defaults holds the suggested base URL and model for a provider.
type Defaults struct {
	BaseURL    string
	Model      string
	APIVersion string
}

// DefaultModel is used when a profile leaves the model empty.
const DefaultModel = "gpt-4o-mini"

var kindDefaults = map[Kind]Defaults{
	KindOpenAI: {BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
	KindAzure:  {APIVersion: "2023-05-15"},
	KindOllama: {BaseURL: "http://localhost:11434/v1", Model: "llama3"},
	KindGemini: {BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai", Model: "gemini-1.5-flash"},
	KindGrok:   {BaseURL: "https://api.x.ai/v1", Model: "grok-beta"},
	KindClaude: {BaseURL: "https://api.anthropic.com/v1/messages", Model: "claude-3-5-sonnet-20240620"},
	KindCustom: {},
}

// DefaultsFor returns the provider's suggested connection values.
func DefaultsFor(k Kind) Defaults {
	return kindDefaults[k]
}
