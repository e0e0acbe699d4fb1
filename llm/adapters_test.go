package llm

import (
	"encoding/json"
	"testing"

	"github.com/vinayprograms/vogsphere/errors"
)

var testPrompt = Prompt{System: "sys", User: "user prompt"}

func TestBuildRequest_URLs(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		fields  Fields
		wantURL string
	}{
		{
			name:    "azure bare resource",
			kind:    KindAzure,
			fields:  Fields{BaseURL: "myresource", Deployment: "gpt4dep", APIVersion: "2023-05-15", APIKey: "k"},
			wantURL: "https://myresource.openai.azure.com/openai/deployments/gpt4dep/chat/completions?api-version=2023-05-15",
		},
		{
			name:    "azure full endpoint with trailing slashes",
			kind:    KindAzure,
			fields:  Fields{BaseURL: "https://res.openai.azure.com//", Deployment: "d", APIVersion: "v", APIKey: "k"},
			wantURL: "https://res.openai.azure.com/openai/deployments/d/chat/completions?api-version=v",
		},
		{
			name:    "openai v1 root",
			kind:    KindOpenAI,
			fields:  Fields{BaseURL: "https://api.openai.com/v1", APIKey: "k"},
			wantURL: "https://api.openai.com/v1/chat/completions",
		},
		{
			name:    "openai bare host gets v1",
			kind:    KindOpenAI,
			fields:  Fields{BaseURL: "https://api.openai.com/", APIKey: "k"},
			wantURL: "https://api.openai.com/v1/chat/completions",
		},
		{
			name:    "already chat completions",
			kind:    KindGrok,
			fields:  Fields{BaseURL: "https://api.x.ai/v1/chat/completions", APIKey: "k"},
			wantURL: "https://api.x.ai/v1/chat/completions",
		},
		{
			name:    "gemini openai-compat path keeps its shape",
			kind:    KindGemini,
			fields:  Fields{BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai", APIKey: "k"},
			wantURL: "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
		},
		{
			name:    "ollama never gets v1",
			kind:    KindOllama,
			fields:  Fields{BaseURL: "http://localhost:11434"},
			wantURL: "http://localhost:11434/chat/completions",
		},
		{
			name:    "ollama with v1",
			kind:    KindOllama,
			fields:  Fields{BaseURL: "http://localhost:11434/v1/"},
			wantURL: "http://localhost:11434/v1/chat/completions",
		},
		{
			name:    "empty base falls back to provider default",
			kind:    KindGrok,
			fields:  Fields{APIKey: "k"},
			wantURL: "https://api.x.ai/v1/chat/completions",
		},
		{
			name:    "claude verbatim",
			kind:    KindClaude,
			fields:  Fields{BaseURL: "https://proxy.example.com/anthropic/messages/", APIKey: "k"},
			wantURL: "https://proxy.example.com/anthropic/messages/",
		},
		{
			name:    "claude default",
			kind:    KindClaude,
			fields:  Fields{APIKey: "k"},
			wantURL: "https://api.anthropic.com/v1/messages",
		},
		{
			name:    "custom without key",
			kind:    KindCustom,
			fields:  Fields{BaseURL: "http://llm.local:8080"},
			wantURL: "http://llm.local:8080/v1/chat/completions",
		},
		{
			name:    "unknown kind behaves as custom",
			kind:    Kind("mystery"),
			fields:  Fields{BaseURL: "http://llm.local/v1"},
			wantURL: "http://llm.local/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.kind, tt.fields, testPrompt)
			if err != nil {
				t.Fatalf("BuildRequest() error = %v", err)
			}
			if req.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", req.URL, tt.wantURL)
			}
			if req.Headers["Content-Type"] != "application/json" {
				t.Errorf("Content-Type = %q", req.Headers["Content-Type"])
			}
		})
	}
}

func TestChatCompletionsURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://api.openai.com/v1",
		"https://api.openai.com",
		"http://localhost:11434/v1/",
		"https://example.com/openai/chat/completions",
	}
	for _, in := range inputs {
		once := ChatCompletionsURL(in, true)
		twice := ChatCompletionsURL(once, true)
		if once != twice {
			t.Errorf("ChatCompletionsURL(%q) not idempotent: %q then %q", in, once, twice)
		}
	}
}

func TestBuildRequest_Headers(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		fields Fields
		want   map[string]string
		absent []string
	}{
		{
			name:   "openai bearer",
			kind:   KindOpenAI,
			fields: Fields{APIKey: "sk-1"},
			want:   map[string]string{"Authorization": "Bearer sk-1"},
		},
		{
			name:   "ollama without key has no auth",
			kind:   KindOllama,
			fields: Fields{},
			absent: []string{"Authorization"},
		},
		{
			name:   "ollama with key",
			kind:   KindOllama,
			fields: Fields{APIKey: "ok"},
			want:   map[string]string{"Authorization": "Bearer ok"},
		},
		{
			name:   "azure api-key",
			kind:   KindAzure,
			fields: Fields{BaseURL: "r", Deployment: "d", APIVersion: "v", APIKey: "az"},
			want:   map[string]string{"api-key": "az"},
			absent: []string{"Authorization"},
		},
		{
			name:   "claude",
			kind:   KindClaude,
			fields: Fields{APIKey: "ant"},
			want:   map[string]string{"x-api-key": "ant", "anthropic-version": "2023-06-01"},
			absent: []string{"Authorization"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.kind, tt.fields, testPrompt)
			if err != nil {
				t.Fatalf("BuildRequest() error = %v", err)
			}
			for k, v := range tt.want {
				if req.Headers[k] != v {
					t.Errorf("header %s = %q, want %q", k, req.Headers[k], v)
				}
			}
			for _, k := range tt.absent {
				if _, ok := req.Headers[k]; ok {
					t.Errorf("header %s should be absent", k)
				}
			}
		})
	}
}

func TestBuildRequest_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		fields  Fields
		wantMsg string
	}{
		{"azure base", KindAzure, Fields{Deployment: "d", APIVersion: "v", APIKey: "k"}, "Azure Endpoint (Base URL) is required."},
		{"azure deployment", KindAzure, Fields{BaseURL: "r", APIVersion: "v", APIKey: "k"}, "Azure Deployment Name is required."},
		{"azure api version", KindAzure, Fields{BaseURL: "r", Deployment: "d", APIKey: "k"}, "Azure API Version is required."},
		{"azure api key", KindAzure, Fields{BaseURL: "r", Deployment: "d", APIVersion: "v"}, "Azure API Key is required."},
		{"openai key", KindOpenAI, Fields{BaseURL: "https://api.openai.com/v1"}, "API Key is required."},
		{"gemini key", KindGemini, Fields{}, "API Key is required."},
		{"grok key", KindGrok, Fields{}, "API Key is required."},
		{"claude key", KindClaude, Fields{}, "API Key is required."},
		{"custom base", KindCustom, Fields{}, "Base URL is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.kind, tt.fields, testPrompt)
			if err == nil {
				t.Fatalf("BuildRequest() = %+v, want error", req)
			}
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("error code = %v, want CONFIGURATION", errors.Code(err))
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuildRequest_StandardBody(t *testing.T) {
	req, err := BuildRequest(KindOpenAI, Fields{APIKey: "k", Model: "gpt-4o"}, testPrompt)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["model"] != "gpt-4o" {
		t.Errorf("model = %v", body["model"])
	}
	if body["temperature"] != 0.3 {
		t.Errorf("temperature = %v", body["temperature"])
	}
	if body["stream"] != false {
		t.Errorf("stream = %v, want false", body["stream"])
	}
	msgs, _ := body["messages"].([]interface{})
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", body["messages"])
	}
	first := msgs[0].(map[string]interface{})
	second := msgs[1].(map[string]interface{})
	if first["role"] != "system" || first["content"] != "sys" {
		t.Errorf("first message = %v", first)
	}
	if second["role"] != "user" || second["content"] != "user prompt" {
		t.Errorf("second message = %v", second)
	}
	if _, ok := body["max_tokens"]; ok {
		t.Error("standard body should not carry max_tokens")
	}
}

func TestBuildRequest_ClaudeBody(t *testing.T) {
	req, err := BuildRequest(KindClaude, Fields{APIKey: "k", Model: "claude-3-5-sonnet-20240620"}, testPrompt)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	want := `{"model":"claude-3-5-sonnet-20240620","system":"sys","messages":[{"role":"user","content":"user prompt"}],"max_tokens":4096,"temperature":0.3}`
	if string(req.Body) != want {
		t.Errorf("body = %s\nwant   %s", req.Body, want)
	}
}

func TestBuildRequest_DefaultModel(t *testing.T) {
	req, err := BuildRequest(KindAzure, Fields{BaseURL: "r", Deployment: "d", APIVersion: "v", APIKey: "k"}, testPrompt)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if req.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", req.Model, DefaultModel)
	}
	if req.Provider != KindAzure {
		t.Errorf("Provider = %q", req.Provider)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in     string
		want   Kind
		wantOK bool
	}{
		{"openai", KindOpenAI, true},
		{" Claude ", KindClaude, true},
		{"AZURE", KindAzure, true},
		{"foo", Kind("foo"), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKind(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseKind(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKindFields(t *testing.T) {
	if got := KindAzure.Fields(); len(got) != 4 || got[1] != FieldDeployment {
		t.Errorf("azure fields = %v", got)
	}
	if got := KindOllama.Fields(); len(got) != 2 {
		t.Errorf("ollama fields = %v", got)
	}
	if got := Kind("mystery").Fields(); len(got) != len(KindCustom.Fields()) {
		t.Errorf("unknown kind fields = %v, want custom layout", got)
	}

	f := Fields{BaseURL: "b", APIKey: "k", Model: "m", Deployment: "d", APIVersion: "v"}
	for name, want := range map[string]string{
		FieldBaseURL: "b", FieldAPIKey: "k", FieldModel: "m", FieldDeployment: "d", FieldAPIVersion: "v", "other": "",
	} {
		if got := f.Get(name); got != want {
			t.Errorf("Get(%q) = %q, want %q", name, got, want)
		}
	}
}
