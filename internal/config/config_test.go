package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable the loader consults so the host
// environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
		if s.altEnv != "" {
			t.Setenv(s.altEnv, "")
		}
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDefaults verifies all default values are applied when no file exists.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newFileBackend(filepath.Join(t.TempDir(), "missing.json")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 10000 {
		t.Errorf("Server.Port = %d, want 10000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("Ollama.BaseURL = %q, want %q", cfg.Ollama.BaseURL, "http://localhost:11434")
	}
	if cfg.Ollama.Model != "qwen2:1.5b" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "qwen2:1.5b")
	}
	if cfg.Ollama.RequestTimeout() != 0 {
		t.Errorf("Ollama.RequestTimeout() = %v, want 0", cfg.Ollama.RequestTimeout())
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	if got := cfg.Storage.ProfilePath(); got != "profile.json" {
		t.Errorf("Storage.ProfilePath() = %q, want %q", got, "profile.json")
	}
	if cfg.Static.Dir != filepath.Join("frontend", "build") {
		t.Errorf("Static.Dir = %q", cfg.Static.Dir)
	}
}

// TestFileParsing verifies that all fields are correctly read from the JSON file.
func TestFileParsing(t *testing.T) {
	clearEnv(t)

	path := writeTempConfig(t, `{
  "server.host": "127.0.0.1",
  "server.port": 5000,
  "ollama.base_url": "http://custom:11434",
  "ollama.model": "llama3",
  "ollama.timeout": "90s",
  "storage.backend": "sqlite",
  "storage.data_dir": "/tmp/resumed-test",
  "storage.profile_file": "me.json",
  "static.dir": "/srv/www",
  "log.level": "debug"
}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:5000" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Ollama.BaseURL != "http://custom:11434" {
		t.Errorf("Ollama.BaseURL = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.Model != "llama3" {
		t.Errorf("Ollama.Model = %q", cfg.Ollama.Model)
	}
	if cfg.Ollama.RequestTimeout() != 90*time.Second {
		t.Errorf("Ollama.RequestTimeout() = %v", cfg.Ollama.RequestTimeout())
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if got := cfg.Storage.ProfilePath(); got != filepath.Join("/tmp/resumed-test", "me.json") {
		t.Errorf("Storage.ProfilePath() = %q", got)
	}
	if cfg.Static.Dir != "/srv/www" {
		t.Errorf("Static.Dir = %q", cfg.Static.Dir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

// TestEnvOverride verifies that environment variables override file values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"ollama.model": "file-model", "server.port": 7000}`)

	t.Setenv("RESUMED_OLLAMA_MODEL", "env-model")
	t.Setenv("RESUMED_SERVER_PORT", "7100")

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ollama.Model != "env-model" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "env-model")
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want 7100", cfg.Server.Port)
	}
}

// TestPortEnv verifies PORT is honored and RESUMED_SERVER_PORT wins over it.
func TestPortEnv(t *testing.T) {
	clearEnv(t)
	b := newFileBackend(filepath.Join(t.TempDir(), "missing.json"))

	t.Setenv("PORT", "8080")
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}

	t.Setenv("RESUMED_SERVER_PORT", "9090")
	cfg, err = loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

// TestInvalidEnvKeepsDefault verifies an unparsable integer is ignored.
func TestInvalidEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	cfg, err := loadWith(newFileBackend(filepath.Join(t.TempDir(), "missing.json")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 10000 {
		t.Errorf("Server.Port = %d, want 10000", cfg.Server.Port)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad backend", `{"storage.backend": "postgres"}`, "storage.backend"},
		{"bad timeout", `{"ollama.timeout": "soon"}`, "ollama.timeout"},
		{"bad port", `{"server.port": 70000}`, "server.port"},
		{"empty model", `{"ollama.model": ""}`, "ollama.model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := loadWith(newFileBackend(writeTempConfig(t, tt.content)))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestSetKeyPersists(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "resumed", "config.json")

	if err := setKeyIn(newFileBackend(path), "server.port", "4321"); err != nil {
		t.Fatalf("setKeyIn: %v", err)
	}
	if err := setKeyIn(newFileBackend(path), "ollama.model", "mistral"); err != nil {
		t.Fatalf("setKeyIn: %v", err)
	}

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4321 {
		t.Errorf("Server.Port = %d, want 4321", cfg.Server.Port)
	}
	if cfg.Ollama.Model != "mistral" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "mistral")
	}
}

func TestSetKeyErrors(t *testing.T) {
	b := newFileBackend(filepath.Join(t.TempDir(), "config.json"))

	if err := setKeyIn(b, "nope.key", "x"); err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("unknown key error = %v", err)
	}
	if err := setKeyIn(b, "server.port", "abc"); err == nil || !strings.Contains(err.Error(), "invalid integer") {
		t.Errorf("bad int error = %v", err)
	}
}

func TestShowAllCoversEveryKey(t *testing.T) {
	keys := ShowAll(defaults())
	if len(keys) != len(ValidKeys()) {
		t.Fatalf("ShowAll returned %d keys, ValidKeys %d", len(keys), len(ValidKeys()))
	}
	for _, k := range keys {
		if k.Key == "server.port" && k.Value != "10000" {
			t.Errorf("server.port value = %q, want 10000", k.Value)
		}
	}
}

func TestShowAllReportsEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("RESUMED_OLLAMA_MODEL", "llama3")

	byKey := map[string]KeyInfo{}
	for _, k := range ShowAll(defaults()) {
		byKey[k.Key] = k
	}

	if k := byKey["server.port"]; !k.FromEnv || k.EnvVar != "PORT" {
		t.Errorf("server.port = %+v, want override from PORT", k)
	}
	if k := byKey["ollama.model"]; !k.FromEnv || k.EnvVar != "RESUMED_OLLAMA_MODEL" {
		t.Errorf("ollama.model = %+v, want override from RESUMED_OLLAMA_MODEL", k)
	}
	if k := byKey["log.level"]; k.FromEnv || k.EnvVar != "RESUMED_LOG_LEVEL" {
		t.Errorf("log.level = %+v, want RESUMED_LOG_LEVEL not set", k)
	}

	t.Setenv("RESUMED_SERVER_PORT", "9000")
	for _, k := range ShowAll(defaults()) {
		if k.Key == "server.port" && k.EnvVar != "RESUMED_SERVER_PORT" {
			t.Errorf("server.port EnvVar = %q, want RESUMED_SERVER_PORT to win over PORT", k.EnvVar)
		}
	}
}
