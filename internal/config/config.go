package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Ollama  OllamaConfig
	Storage StorageConfig
	Static  StaticConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type OllamaConfig struct {
	BaseURL string
	Model   string
	// Timeout bounds a single generate call. "0s" leaves the transport default in place.
	Timeout string
}

type StorageConfig struct {
	Backend     string // "file" or "sqlite"
	DataDir     string
	ProfileFile string
}

type StaticConfig struct {
	Dir string
}

type LogConfig struct {
	Level string
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 10000,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "qwen2:1.5b",
			Timeout: "0s",
		},
		Storage: StorageConfig{
			Backend:     BackendFile,
			DataDir:     ".",
			ProfileFile: "profile.json",
		},
		Static: StaticConfig{
			Dir: filepath.Join("frontend", "build"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the config file backend and environment
// variables. A .env file in the working directory, when present, is loaded
// into the environment first; variables already set are not overwritten.
//
// The backend is a JSON file at $XDG_CONFIG_HOME/resumed/config.json.
// Environment variables (RESUMED_*, plus PORT) override backend values.
func Load() (Config, error) {
	loadDotEnv(".env")
	return loadWith(newPlatformBackend())
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "[WARN] could not load %s: %v\n", path, err)
	}
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range", c.Server.Port)
	}
	if c.Ollama.BaseURL == "" {
		return fmt.Errorf("invalid config: ollama.base_url is required")
	}
	if c.Ollama.Model == "" {
		return fmt.Errorf("invalid config: ollama.model is required")
	}
	if _, err := time.ParseDuration(c.Ollama.Timeout); err != nil {
		return fmt.Errorf("invalid config: ollama.timeout: %w", err)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("invalid config: storage.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Storage.Backend)
	}
	if c.Storage.ProfileFile == "" {
		return fmt.Errorf("invalid config: storage.profile_file is required")
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RequestTimeout returns the parsed generate timeout. Zero means no override.
func (o OllamaConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(o.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ProfilePath is the location of the profile document for the file backend.
func (s StorageConfig) ProfilePath() string {
	return filepath.Join(s.DataDir, s.ProfileFile)
}
