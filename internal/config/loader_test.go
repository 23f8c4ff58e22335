package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Provider.Model != def.Provider.Model {
		t.Errorf("expected default model %q, got %q", def.Provider.Model, cfg.Provider.Model)
	}
	if cfg.Server.Port != def.Server.Port {
		t.Errorf("expected default port %d, got %d", def.Server.Port, cfg.Server.Port)
	}
}

func TestLoad_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	data, err := json.Marshal(map[string]any{
		"server":   map[string]any{"port": 9000},
		"provider": map[string]any{"apiKey": "sk-test", "model": "gpt-4o"},
	})
	if err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, dir, "config.json", data)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Provider.Model != "gpt-4o" {
		t.Errorf("model = %q", cfg.Provider.Model)
	}
	if !cfg.ModelEnabled() {
		t.Error("expected model enabled with API key set")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", []byte("server:\n  port: 9100\nchannels:\n  telegram:\n    enabled: true\n    token: tg-token\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if !cfg.Channels.Telegram.Enabled || cfg.Channels.Telegram.Token != "tg-token" {
		t.Errorf("telegram config = %+v", cfg.Channels.Telegram)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.json", []byte("{not valid json"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Provider.Model != def.Provider.Model {
		t.Errorf("expected default model %q, got %q", def.Provider.Model, cfg.Provider.Model)
	}
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	cfg.Server.Port = 4242
	cfg.Auth.Secret = "s3cret"
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Server.Port != 4242 || got.Auth.Secret != "s3cret" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestModelEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ModelEnabled() {
		t.Error("default config has no API key; model must be off")
	}
	cfg.Provider.APIKey = "sk-test"
	if !cfg.ModelEnabled() {
		t.Error("expected model enabled")
	}
	cfg.Provider.Disabled = true
	if cfg.ModelEnabled() {
		t.Error("disabled flag must win over API key")
	}
}
