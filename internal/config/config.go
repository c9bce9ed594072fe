// Package config provides configuration management for xpubkit.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Home       string           `yaml:"home"`
	Derivation DerivationConfig `yaml:"derivation"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DerivationConfig defines address derivation settings.
type DerivationConfig struct {
	// DefaultNetwork is used when a command does not pass --network.
	DefaultNetwork string `yaml:"default_network"`

	// DefaultCount is the batch size used when a range command does not
	// pass --count.
	DefaultCount int `yaml:"default_count"`
}

// DiscoveryConfig defines gap-limit scan settings.
type DiscoveryConfig struct {
	// GapLimit is the number of consecutive unused addresses that ends a
	// scan. 20 is the BIP44 recommendation.
	GapLimit int `yaml:"gap_limit"`

	// BatchSize is how many addresses are derived and checked per round.
	BatchSize int `yaml:"batch_size"`

	// IncludeChange scans the change branch in addition to receive.
	IncludeChange bool `yaml:"include_change"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the xpubkit home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetDefaultNetwork returns the network used when none is given.
func (c *Config) GetDefaultNetwork() string {
	return c.Derivation.DefaultNetwork
}

// GetGapLimit returns the configured discovery gap limit.
func (c *Config) GetGapLimit() int {
	return c.Discovery.GapLimit
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default xpubkit home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xpubkit"
	}
	return filepath.Join(home, ".xpubkit")
}
