// Package config loads and persists application settings.
// Settings live in .dashy/config.yaml under the workspace; logging has its
// own .dashy/config.json read by the logging package.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultModel is used when no model is configured. Voice queries always
// use this model regardless of the configured one, since it is the only
// one validated for audio transcription.
const DefaultModel = "gemini-2.5-flash"

// Config holds all dashy configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Model configuration
	Model ModelConfig `yaml:"model"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage"`

	// Speech narration
	Speech SpeechConfig `yaml:"speech"`
}

// ModelConfig configures the Gemini backend.
type ModelConfig struct {
	APIKey string `yaml:"api_key"`
	Name   string `yaml:"name"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	// DatabasePath is the SQLite file for todos and mail. Empty means
	// in-memory only.
	DatabasePath string `yaml:"database_path"`

	// SeedDemo fills an empty store with demo emails and tasks.
	SeedDemo bool `yaml:"seed_demo"`
}

// SpeechConfig configures voice narration.
type SpeechConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "dashy",
		Version: "1.0.0",

		Model: ModelConfig{
			Name: DefaultModel,
		},

		Storage: StorageConfig{
			DatabasePath: filepath.Join(".dashy", "dashy.db"),
			SeedDemo:     true,
		},

		Speech: SpeechConfig{
			Enabled: true,
		},
	}
}

// Path returns the settings file location under the given workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".dashy", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults rather than an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModel
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Model.APIKey = key
	}
	if name := os.Getenv("DASHY_MODEL"); name != "" {
		c.Model.Name = name
	}
	if path := os.Getenv("DASHY_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}
