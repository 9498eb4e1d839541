// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	catalogPath := cfg.Catalog.Path
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Reconcile     ReconcileConfig     `yaml:"reconcile"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Storage       StorageConfig       `yaml:"storage"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ReconcileConfig holds the default matching parameters.
type ReconcileConfig struct {
	WindowDays int     `yaml:"window_days"`
	Tolerance  float64 `yaml:"tolerance"`
	// TrimToOverlap restricts both sources to their overlapping date range
	// before matching, as the interactive surface offers.
	TrimToOverlap bool `yaml:"trim_to_overlap"`
}

// CatalogConfig holds classification-catalog persistence settings.
// Backend is "file" (default) or "sqlite".
type CatalogConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// StorageConfig holds the run-history database configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// OpenAIConfig holds the optional AI classification settings.
type OpenAIConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxClaims int    `yaml:"max_claims"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${OPENAI_API_KEY})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := &Config{
		Reconcile: ReconcileConfig{
			WindowDays: getEnvInt("RECONCILE_WINDOW_DAYS", 5),
		},
		Catalog: CatalogConfig{
			Backend: getEnv("CATALOG_BACKEND", "file"),
			Path:    getEnv("CATALOG_PATH", "catalogo.json"),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RECONCILER_DB_PATH", "conciliador.db"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxClaims: getEnvInt("OPENAI_MAX_CLAIMS", 50),
		},
		API: APIConfig{
			Port: getEnvInt("API_PORT", 8080),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Catalog.Backend == "" {
		c.Catalog.Backend = "file"
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "catalogo.json"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "conciliador.db"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.MaxClaims == 0 {
		c.OpenAI.MaxClaims = 50
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
