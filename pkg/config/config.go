package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL            = "http://localhost:8000"
	DefaultAPIPrefix         = "/api/v1"
	DefaultAPITimeoutSeconds = 120
	DefaultRequestsPerMinute = 30
	DefaultUploadAccept      = ".pdf"
)

// Environment variables that override values from the config file.
const (
	EnvAPIURL    = "RESEARCHMATE_API_URL"
	EnvAPIPrefix = "RESEARCHMATE_API_PREFIX"
	EnvLogLevel  = "RESEARCHMATE_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	APIURL            string `json:"api_url"`
	APIPrefix         string `json:"api_prefix"`
	APITimeoutSeconds int    `json:"api_timeout_seconds"`
	RequestsPerMinute int    `json:"requests_per_minute"`
	UploadAccept      string `json:"upload_accept"`
	LogLevel          string `json:"log_level"`
	LogFormat         string `json:"log_format"`
	LogFile           string `json:"log_file"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		APIURL:            DefaultAPIURL,
		APIPrefix:         DefaultAPIPrefix,
		APITimeoutSeconds: DefaultAPITimeoutSeconds,
		RequestsPerMinute: DefaultRequestsPerMinute,
		UploadAccept:      DefaultUploadAccept,
		LogLevel:          "info",
		LogFormat:         "json",
		LogFile:           "",
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Start from defaults so fields missing in older files keep sane values.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// LoadDotEnv loads a .env file from the working directory when present.
// A missing file is not an error; variables already set in the process
// environment are never overwritten.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values from RESEARCHMATE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIPrefix)); v != "" {
		c.APIPrefix = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url must use http or https, got: %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url must include a host, got: %q", c.APIURL)
	}

	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("api_prefix must start with '/', got: %q", c.APIPrefix)
	}

	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.APITimeoutSeconds)
	}

	// Zero disables client-side rate limiting.
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative, got: %d", c.RequestsPerMinute)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("log_format must be 'json' or 'text', got: %q", c.LogFormat)
	}

	return nil
}

// Endpoint joins the API base URL, the API prefix and the given path.
func (c Config) Endpoint(path string) string {
	base := strings.TrimRight(c.APIURL, "/")
	prefix := strings.TrimRight(c.APIPrefix, "/")
	return base + prefix + "/" + strings.TrimLeft(path, "/")
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".researchmate", "config.json")
	}
	return filepath.Join(homeDir, ".researchmate", "config.json")
}
