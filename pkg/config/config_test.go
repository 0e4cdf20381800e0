package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("Expected APIURL 'http://localhost:8000', got %q", cfg.APIURL)
	}
	if cfg.APIPrefix != "/api/v1" {
		t.Errorf("Expected APIPrefix '/api/v1', got %q", cfg.APIPrefix)
	}
	if cfg.APITimeoutSeconds != 120 {
		t.Errorf("Expected APITimeoutSeconds 120, got %d", cfg.APITimeoutSeconds)
	}
	if cfg.UploadAccept != ".pdf" {
		t.Errorf("Expected UploadAccept '.pdf', got %q", cfg.UploadAccept)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestLoad_CreateDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".researchmate", "config.json")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected default APIURL, got %q", cfg.APIURL)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
}

func TestLoad_ExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	initialCfg := Default()
	initialCfg.APIURL = "https://research.example.com"
	initialCfg.RequestsPerMinute = 5
	if err := Save(configPath, initialCfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "https://research.example.com" {
		t.Errorf("Expected APIURL to round-trip, got %q", cfg.APIURL)
	}
	if cfg.RequestsPerMinute != 5 {
		t.Errorf("Expected RequestsPerMinute 5, got %d", cfg.RequestsPerMinute)
	}
}

func TestLoad_MissingFieldsKeepDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"api_url": "http://10.0.0.5:8000"}`), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "http://10.0.0.5:8000" {
		t.Errorf("Expected APIURL from file, got %q", cfg.APIURL)
	}
	if cfg.APIPrefix != DefaultAPIPrefix {
		t.Errorf("Expected default APIPrefix, got %q", cfg.APIPrefix)
	}
	if cfg.APITimeoutSeconds != DefaultAPITimeoutSeconds {
		t.Errorf("Expected default timeout, got %d", cfg.APITimeoutSeconds)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.APIURL = "" }, true},
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://host" }, true},
		{"missing host", func(c *Config) { c.APIURL = "http://" }, true},
		{"prefix without slash", func(c *Config) { c.APIPrefix = "api/v1" }, true},
		{"empty prefix", func(c *Config) { c.APIPrefix = "" }, false},
		{"zero timeout", func(c *Config) { c.APITimeoutSeconds = 0 }, true},
		{"rate limit disabled", func(c *Config) { c.RequestsPerMinute = 0 }, false},
		{"negative rate", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"text logs", func(c *Config) { c.LogFormat = "text" }, false},
		{"xml logs", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://env.example.com")
	t.Setenv(EnvAPIPrefix, "/v2")
	t.Setenv(EnvLogLevel, "debug")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.APIURL != "https://env.example.com" {
		t.Errorf("Expected APIURL from env, got %q", cfg.APIURL)
	}
	if cfg.APIPrefix != "/v2" {
		t.Errorf("Expected APIPrefix from env, got %q", cfg.APIPrefix)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel from env, got %q", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")

	// Missing file is fine.
	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv() on missing file: %v", err)
	}

	if err := os.WriteFile(envPath, []byte("RESEARCHMATE_API_PREFIX=/from-dotenv\n"), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	t.Setenv(EnvAPIPrefix, "")
	os.Unsetenv(EnvAPIPrefix)

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv(EnvAPIPrefix); got != "/from-dotenv" {
		t.Errorf("Expected %s from .env, got %q", EnvAPIPrefix, got)
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		url, prefix, path, want string
	}{
		{"http://localhost:8000", "/api/v1", "query", "http://localhost:8000/api/v1/query"},
		{"http://localhost:8000/", "/api/v1/", "/upload", "http://localhost:8000/api/v1/upload"},
		{"https://host", "", "query", "https://host/query"},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.APIURL = tt.url
		cfg.APIPrefix = tt.prefix
		if got := cfg.Endpoint(tt.path); got != tt.want {
			t.Errorf("Endpoint(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
