package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vinayprograms/vogsphere/errors"
)

// Request is the transport material for one provider call.
// It is built fresh for every call and never reused.
type Request struct {
	Provider Kind
	Model    string
	URL      string
	Headers  map[string]string
	Body     []byte
}

// Prompt is the instruction pair sent to the provider.
type Prompt struct {
	System string
	User   string
}

const (
	// Temperature is fixed for every provider.
	Temperature = 0.3

	// ClaudeMaxTokens is the max_tokens value for Anthropic-style bodies.
	ClaudeMaxTokens = 4096

	// AnthropicVersion is the anthropic-version header value.
	// https://docs.anthropic.com/en/api/versioning
	AnthropicVersion = "2023-06-01"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatBody is the OpenAI chat-completions shape.
type chatBody struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// messagesBody is the Anthropic messages shape.
type messagesBody struct {
	Model       string        `json:"model"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// adapter holds the rules that distinguish one provider family.
type adapter interface {
	validate(f Fields) error
	endpoint(f Fields) string
	headers(f Fields) map[string]string
	body(model string, p Prompt) interface{}
}

var adapters = map[Kind]adapter{
	KindOpenAI: standardAdapter{kind: KindOpenAI},
	KindGemini: standardAdapter{kind: KindGemini},
	KindGrok:   standardAdapter{kind: KindGrok},
	KindOllama: standardAdapter{kind: KindOllama, keyOptional: true, noVersion: true},
	KindCustom: standardAdapter{kind: KindCustom, keyOptional: true, needsBase: true},
	KindAzure:  azureAdapter{},
	KindClaude: claudeAdapter{},
}

func adapterFor(k Kind) adapter {
	if a, ok := adapters[k]; ok {
		return a
	}
	return adapters[KindCustom]
}

// BuildRequest maps a provider and its connection fields to the URL, headers
// and JSON body of one chat call. Missing required fields fail with a
// CONFIGURATION error before anything touches the network.
func BuildRequest(kind Kind, fields Fields, prompt Prompt) (*Request, error) {
	a := adapterFor(kind)
	if err := a.validate(fields); err != nil {
		return nil, err
	}

	model := fields.Model
	if model == "" {
		model = DefaultModel
	}

	body, err := json.Marshal(a.body(model, prompt))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range a.headers(fields) {
		headers[k] = v
	}

	return &Request{
		Provider: kind,
		Model:    model,
		URL:      a.endpoint(fields),
		Headers:  headers,
		Body:     body,
	}, nil
}

func missing(kind Kind, field, message string) error {
	return errors.Configuration(message,
		errors.WithMetadata("provider", string(kind)),
		errors.WithMetadata("field", field),
	)
}

// --- standard: openai, gemini, grok, ollama, custom ---

type standardAdapter struct {
	kind        Kind
	keyOptional bool // custom and ollama may run without a key
	noVersion   bool // never insert /v1 (ollama)
	needsBase   bool // no default base URL to fall back on
}

func (a standardAdapter) validate(f Fields) error {
	if f.APIKey == "" && !a.keyOptional {
		return missing(a.kind, FieldAPIKey, "API Key is required.")
	}
	if f.BaseURL == "" && a.needsBase {
		return missing(a.kind, FieldBaseURL, "Base URL is required.")
	}
	return nil
}

func (a standardAdapter) endpoint(f Fields) string {
	base := f.BaseURL
	if base == "" {
		base = DefaultsFor(a.kind).BaseURL
	}
	return ChatCompletionsURL(base, !a.noVersion)
}

func (a standardAdapter) headers(f Fields) map[string]string {
	if f.APIKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + f.APIKey}
}

func (a standardAdapter) body(model string, p Prompt) interface{} {
	return chatBody{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature: Temperature,
		Stream:      false,
	}
}

// ChatCompletionsURL normalises a base URL to a chat-completions endpoint.
// A URL already containing /chat/completions is returned without trailing
// slashes; otherwise /v1 is inserted when appendVersion is set and the URL
// has none, then /chat/completions is appended.
func ChatCompletionsURL(base string, appendVersion bool) string {
	base = strings.TrimRight(base, "/")
	if strings.Contains(base, "/chat/completions") {
		return base
	}
	if appendVersion && !strings.Contains(base, "/v1") {
		base += "/v1"
	}
	return base + "/chat/completions"
}

// --- azure ---

type azureAdapter struct{}

func (azureAdapter) validate(f Fields) error {
	switch {
	case f.BaseURL == "":
		return missing(KindAzure, FieldBaseURL, "Azure Endpoint (Base URL) is required.")
	case f.Deployment == "":
		return missing(KindAzure, FieldDeployment, "Azure Deployment Name is required.")
	case f.APIVersion == "":
		return missing(KindAzure, FieldAPIVersion, "Azure API Version is required.")
	case f.APIKey == "":
		return missing(KindAzure, FieldAPIKey, "Azure API Key is required.")
	}
	return nil
}

func (azureAdapter) endpoint(f Fields) string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		AzureBaseURL(f.BaseURL), f.Deployment, f.APIVersion)
}

// AzureBaseURL trims trailing slashes and expands a bare resource name to
// https://{resource}.openai.azure.com.
func AzureBaseURL(base string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(base, "http") {
		base = fmt.Sprintf("https://%s.openai.azure.com", base)
	}
	return base
}

func (azureAdapter) headers(f Fields) map[string]string {
	return map[string]string{"api-key": f.APIKey}
}

func (azureAdapter) body(model string, p Prompt) interface{} {
	return standardAdapter{}.body(model, p)
}

// --- claude ---

type claudeAdapter struct{}

func (claudeAdapter) validate(f Fields) error {
	if f.APIKey == "" {
		return missing(KindClaude, FieldAPIKey, "API Key is required.")
	}
	return nil
}

// endpoint uses the base URL verbatim; it is expected to be the full
// messages endpoint.
func (claudeAdapter) endpoint(f Fields) string {
	if f.BaseURL == "" {
		return DefaultsFor(KindClaude).BaseURL
	}
	return f.BaseURL
}

func (claudeAdapter) headers(f Fields) map[string]string {
	return map[string]string{
		"x-api-key":         f.APIKey,
		"anthropic-version": AnthropicVersion,
	}
}

func (claudeAdapter) body(model string, p Prompt) interface{} {
	return messagesBody{
		Model:       model,
		System:      p.System,
		Messages:    []chatMessage{{Role: "user", Content: p.User}},
		MaxTokens:   ClaudeMaxTokens,
		Temperature: Temperature,
	}
}
