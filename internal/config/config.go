package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/wesleywu/routesim/internal/logger"
)

// Config represents the configuration for the router simulator
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Audit log
	AuditLogFile string `yaml:"audit_log_file"`
	AuditEnabled bool   `yaml:"audit_enabled"`

	// Interactive session
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`

	// Route file preloaded at startup
	RoutesFile      string `yaml:"routes_file"`
	LoadConcurrency int    `yaml:"load_concurrency"`
}

// NewDefaultConfig creates a new config with default values
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:        "warn",
		AuditLogFile:    "router.log",
		AuditEnabled:    true,
		Prompt:          "> ",
		LoadConcurrency: 8,
	}
}

// LoadConfig reads a YAML config file on top of the defaults. An empty path
// or a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the config values
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LoadConcurrency < 1 {
		return fmt.Errorf("load concurrency must be at least 1, got %d", c.LoadConcurrency)
	}
	if c.Prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	if c.AuditEnabled && c.AuditLogFile == "" {
		return fmt.Errorf("audit log file must be set when auditing is enabled")
	}
	return nil
}

// Save writes the config as YAML
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
