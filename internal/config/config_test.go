package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "murmur.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  path: "/tmp/entries.db"

reasoning:
  api_key: "sk-test"
  model: "openai/gpt-4o-mini"
  base_url: "http://localhost:8080/v1"
  timeout: "15s"

log:
  level: "debug"
  format: "json"
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Path != "/tmp/entries.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Reasoning.APIKey != "sk-test" {
		t.Errorf("reasoning.api_key = %q", cfg.Reasoning.APIKey)
	}
	if cfg.Reasoning.Model != "openai/gpt-4o-mini" {
		t.Errorf("reasoning.model = %q", cfg.Reasoning.Model)
	}
	if cfg.Reasoning.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("reasoning.base_url = %q", cfg.Reasoning.BaseURL)
	}
	if cfg.Reasoning.Timeout != 15*time.Second {
		t.Errorf("reasoning.timeout = %v, want 15s", cfg.Reasoning.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, writeYAML(t, validYAML))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/tmp/entries.db" {
		t.Errorf("database.path = %q, want value from $%s file", cfg.Database.Path, EnvConfigPath)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	path := writeYAML(t, validYAML)
	t.Setenv("MURMUR_DB", "/var/lib/murmur.db")
	t.Setenv("MURMUR_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/var/lib/murmur.db" {
		t.Errorf("database.path = %q (ENV override)", cfg.Database.Path)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "error")
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Path != "murmur.db" {
		t.Errorf("database.path = %q, want murmur.db", cfg.Database.Path)
	}
	if cfg.Reasoning.Model != "anthropic/claude-sonnet-4.6" {
		t.Errorf("reasoning.model = %q", cfg.Reasoning.Model)
	}
	if cfg.Reasoning.BaseURL != "https://api.ppq.ai" {
		t.Errorf("reasoning.base_url = %q", cfg.Reasoning.BaseURL)
	}
	if cfg.Reasoning.Timeout != 60*time.Second {
		t.Errorf("reasoning.timeout = %v, want 60s", cfg.Reasoning.Timeout)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v, want warn/text", cfg.Log)
	}
}

func TestLoad_APIKeyFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("PPQ_API_KEY", "sk-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Reasoning.APIKey != "sk-env" {
		t.Errorf("reasoning.api_key = %q, want sk-env", cfg.Reasoning.APIKey)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey: %v", err)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeYAML(t, "database: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeYAML(t, "log:\n  level: \"loud\"\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "config: validate: log: level") {
		t.Errorf("error = %v", err)
	}
}

func validConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "murmur.db"},
		Reasoning: ReasoningConfig{
			Model:   "anthropic/claude-sonnet-4.6",
			BaseURL: "https://api.ppq.ai",
			Timeout: time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"upper-case level", func(c *Config) { c.Log.Level = "DEBUG" }, ""},
		{"blank db path", func(c *Config) { c.Database.Path = "  " }, "database.path"},
		{"empty model", func(c *Config) { c.Reasoning.Model = "" }, "reasoning: model"},
		{"zero timeout", func(c *Config) { c.Reasoning.Timeout = 0 }, "reasoning: timeout"},
		{"relative base url", func(c *Config) { c.Reasoning.BaseURL = "api.ppq.ai" }, "reasoning: base_url"},
		{"ftp base url", func(c *Config) { c.Reasoning.BaseURL = "ftp://api.ppq.ai" }, "reasoning: base_url"},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, "log: format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := validConfig()
	if err := cfg.RequireAPIKey(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("RequireAPIKey() = %v, want ErrMissingAPIKey", err)
	}
	cfg.Reasoning.APIKey = "sk"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey() = %v, want nil", err)
	}
}
