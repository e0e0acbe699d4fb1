package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinayprograms/vogsphere/archive"
	"github.com/vinayprograms/vogsphere/llm"
	"github.com/vinayprograms/vogsphere/profiles"
)

const generatedNote = `# Deep Thought

> **Canonical Insight:** The answer is **42**.

## Executive Summary
A supercomputer computes the answer.

## Metadata
- **Source:** [Deep Thought](https://example.com/deep)
- **Date:** 2024-03-07
- **Tags:** #vogsphere #computing
`

type cli struct {
	t      *testing.T
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OPENAI_API_KEY", "")
	return &cli{t: t, dir: dir, config: filepath.Join(dir, "profiles.toml")}
}

func (c *cli) run(stdin string, args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", c.config, "-env", ""}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	c := newCLI(t)
	if code, _, _ := c.run(""); code != 2 {
		t.Errorf("no command exit = %d, want 2", code)
	}
	if code, _, stderr := c.run("", "frobnicate"); code != 2 || !strings.Contains(stderr, "unknown command") {
		t.Errorf("unknown command exit = %d, stderr = %q", code, stderr)
	}
}

func TestProfileLifecycle(t *testing.T) {
	c := newCLI(t)

	code, out, stderr := c.run("", "profile", "list")
	if code != 0 {
		t.Fatalf("list exit = %d: %s", code, stderr)
	}
	if !strings.Contains(out, "Default Profile") || !strings.Contains(out, "ollama") {
		t.Errorf("list output = %q", out)
	}

	if code, _, stderr := c.run("", "profile", "new", "Work"); code != 0 {
		t.Fatalf("new exit = %d: %s", code, stderr)
	}
	code, out, stderr = c.run("", "profile", "set", "provider=azure", "base_url=myresource", "deployment=gpt4", "api_key=sk-secret-1234")
	if code != 0 {
		t.Fatalf("set exit = %d: %s", code, stderr)
	}
	if strings.Contains(out, "sk-secret-1234") || !strings.Contains(out, "****1234") {
		t.Errorf("api key should be masked: %q", out)
	}
	if !strings.Contains(out, "2023-05-15") {
		t.Errorf("azure api version default missing: %q", out)
	}

	m := profiles.NewManager(profiles.NewFileStore(c.config))
	if err := m.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	active, _ := m.Active()
	if active.Name != "Work" || active.Provider != llm.KindAzure || active.Fields.BaseURL != "myresource" {
		t.Errorf("active = %+v", active)
	}

	if code, _, stderr := c.run("", "profile", "use", "Default Profile"); code != 0 {
		t.Fatalf("use exit = %d: %s", code, stderr)
	}
	if code, _, stderr := c.run("", "profile", "delete", "Work"); code != 0 {
		t.Fatalf("delete exit = %d: %s", code, stderr)
	}

	code, _, stderr = c.run("", "profile", "delete", "Default Profile")
	if code != 1 || !strings.Contains(stderr, "Cannot delete the last profile.") {
		t.Errorf("delete last exit = %d, stderr = %q", code, stderr)
	}
}

func TestProfileSet_UnknownField(t *testing.T) {
	c := newCLI(t)
	code, _, stderr := c.run("", "profile", "set", "color=blue")
	if code != 1 || !strings.Contains(stderr, "unknown profile field") {
		t.Errorf("exit = %d, stderr = %q", code, stderr)
	}
}

func TestApplySetting(t *testing.T) {
	p := profiles.Profile{Provider: llm.KindOpenAI}
	for _, kv := range [][2]string{
		{"provider", "Gemini"},
		{"model", "gemini-pro"},
		{"api-key", "k"},
		{"lang", "Dutch"},
	} {
		if err := applySetting(&p, kv[0], kv[1]); err != nil {
			t.Fatalf("applySetting(%s) error = %v", kv[0], err)
		}
	}
	if p.Provider != llm.KindGemini || p.Fields.Model != "gemini-pro" || p.Fields.APIKey != "k" || p.Language != "Dutch" {
		t.Errorf("profile = %+v", p)
	}
	if p.Fields.BaseURL != "https://generativelanguage.googleapis.com/v1beta/openai" {
		t.Errorf("BaseURL = %q", p.Fields.BaseURL)
	}
	if err := applySetting(&p, "provider", "skynet"); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":            "(not set)",
		"abc":         "****",
		"sk-abcdefgh": "****efgh",
	}
	for in, want := range tests {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func fakeProvider(t *testing.T, reply string) (*httptest.Server, *string) {
	t.Helper()
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{"message": map[string]interface{}{"content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &auth
}

func TestProcess_StdinToFileAndArchive(t *testing.T) {
	c := newCLI(t)
	srv, auth := fakeProvider(t, generatedNote)
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	c.run("", "profile", "new", "Test")
	if code, _, stderr := c.run("", "profile", "set", "base_url="+srv.URL); code != 0 {
		t.Fatalf("set exit = %d: %s", code, stderr)
	}

	outDir := filepath.Join(c.dir, "notes")
	archiveDir := filepath.Join(c.dir, "archive")
	input := `{"title":"Deep Thought","content":"The answer is 42.","url":"https://example.com/deep","siteName":"Example"}`

	code, out, stderr := c.run(input, "process", "-out", outDir, "-archive", archiveDir, "-")
	if code != 0 {
		t.Fatalf("process exit = %d: %s", code, stderr)
	}
	if *auth != "Bearer sk-from-env" {
		t.Errorf("Authorization = %q, want env key", *auth)
	}

	path := filepath.Join(outDir, "deep_thought.md")
	if strings.TrimSpace(out) != path {
		t.Errorf("stdout = %q, want %q", out, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != generatedNote {
		t.Errorf("note content = %q", data)
	}

	a, err := archive.Open(archiveDir)
	if err != nil {
		t.Fatal(err)
	}
	hits, err := a.Search(context.Background(), "tags:computing", 10)
	a.Close()
	if err != nil || len(hits) != 1 || hits[0].Filename != "deep_thought.md" {
		t.Errorf("archived hits = %+v, %v", hits, err)
	}

	code, out, stderr = c.run("", "search", "-archive", archiveDir, "supercomputer")
	if code != 0 {
		t.Fatalf("search exit = %d: %s", code, stderr)
	}
	if !strings.Contains(out, "Deep Thought") || !strings.Contains(out, "#vogsphere #computing") {
		t.Errorf("search output = %q", out)
	}
}

func TestProcess_Print(t *testing.T) {
	c := newCLI(t)
	srv, _ := fakeProvider(t, "# Printed\n")

	c.run("", "profile", "new", "Test")
	c.run("", "profile", "set", "base_url="+srv.URL, "api_key=sk-test")

	input := `{"title":"T","content":"C","url":"https://example.com"}`
	code, out, stderr := c.run(input, "process", "-print", "-no-archive", "-")
	if code != 0 {
		t.Fatalf("process exit = %d: %s", code, stderr)
	}
	if out != "# Printed\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestProcess_ExtractorError(t *testing.T) {
	c := newCLI(t)
	code, _, stderr := c.run(`{"error":"Could not extract main content from this page."}`, "process", "-no-archive", "-")
	if code != 1 || !strings.Contains(stderr, "Could not extract main content from this page.") {
		t.Errorf("exit = %d, stderr = %q", code, stderr)
	}
}

func TestProcess_ConfigurationErrorJSON(t *testing.T) {
	c := newCLI(t)
	c.run("", "profile", "new", "Keyless")

	input := `{"title":"T","content":"C","url":"https://example.com"}`
	code, _, stderr := c.run(input, "-json", "process", "-no-archive", "-")
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &decoded); err != nil {
		t.Fatalf("stderr is not JSON: %q", stderr)
	}
	if decoded["code"] != "CONFIGURATION" || decoded["message"] != "API Key is required." {
		t.Errorf("error = %v", decoded)
	}
}

func TestProcess_BadTarget(t *testing.T) {
	c := newCLI(t)
	code, _, stderr := c.run("", "process", "/no/such/file.html")
	if code != 1 || !strings.Contains(stderr, "neither a URL nor a readable file") {
		t.Errorf("exit = %d, stderr = %q", code, stderr)
	}
}
