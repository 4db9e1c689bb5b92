package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig is a helper that writes a TOML config file to a temp directory
// and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
[server]
port = 9090

[auth]
token = "shared-secret"
allow_query_token = true

[openai]
api_key = "sk-test-key-123"
model = "o3-deep-research"
fallback_model = "gpt-4o"
request_style = "developer_tools"
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Auth.Token != "shared-secret" {
		t.Errorf("Auth.Token = %q, want %q", cfg.Auth.Token, "shared-secret")
	}
	if !cfg.Auth.AllowQueryToken {
		t.Error("Auth.AllowQueryToken = false, want true")
	}
	if cfg.OpenAI.APIKey != "sk-test-key-123" {
		t.Errorf("OpenAI.APIKey = %q, want %q", cfg.OpenAI.APIKey, "sk-test-key-123")
	}
	if cfg.OpenAI.Model != "o3-deep-research" {
		t.Errorf("OpenAI.Model = %q, want %q", cfg.OpenAI.Model, "o3-deep-research")
	}
	if cfg.OpenAI.FallbackModel != "gpt-4o" {
		t.Errorf("OpenAI.FallbackModel = %q, want %q", cfg.OpenAI.FallbackModel, "gpt-4o")
	}
	if cfg.OpenAI.RequestStyle != "developer_tools" {
		t.Errorf("OpenAI.RequestStyle = %q, want %q", cfg.OpenAI.RequestStyle, "developer_tools")
	}
}

func TestLoad_MissingFile_CreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	// File should have been created.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not created at %q: %v", path, err)
	}

	// Should have default values.
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.OpenAI.Model != "o4-mini-deep-research" {
		t.Errorf("OpenAI.Model = %q, want %q", cfg.OpenAI.Model, "o4-mini-deep-research")
	}
	if cfg.OpenAI.FallbackModel != "gpt-4o-mini" {
		t.Errorf("OpenAI.FallbackModel = %q, want %q", cfg.OpenAI.FallbackModel, "gpt-4o-mini")
	}
	if cfg.OpenAI.RequestStyle != "input_text" {
		t.Errorf("OpenAI.RequestStyle = %q, want %q", cfg.OpenAI.RequestStyle, "input_text")
	}
	if cfg.Auth.Token != "" {
		t.Errorf("Auth.Token = %q, want empty", cfg.Auth.Token)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
[auth]
token = "file-token"

[openai]
api_key = "file-key"
`
	path := writeTestConfig(t, content)

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("DEEP_TOKEN", "env-token")
	t.Setenv("PORT", "3000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.OpenAI.APIKey != "env-key" {
		t.Errorf("OpenAI.APIKey = %q, want env override %q", cfg.OpenAI.APIKey, "env-key")
	}
	if cfg.Auth.Token != "env-token" {
		t.Errorf("Auth.Token = %q, want env override %q", cfg.Auth.Token, "env-token")
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want env override %d", cfg.Server.Port, 3000)
	}
}

func TestLoad_ExplicitZeroPortRejected(t *testing.T) {
	path := writeTestConfig(t, "[server]\nport = 0\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for explicit port = 0, got nil")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("error = %q, want mention of server.port", err)
	}
}

func TestLoad_InvalidRequestStyleRejected(t *testing.T) {
	path := writeTestConfig(t, "[openai]\nrequest_style = \"chat\"\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown request_style, got nil")
	}
	if !strings.Contains(err.Error(), "request_style") {
		t.Errorf("error = %q, want mention of request_style", err)
	}
}

func TestLoad_InvalidTOMLRejected(t *testing.T) {
	path := writeTestConfig(t, "this is not [valid toml")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
