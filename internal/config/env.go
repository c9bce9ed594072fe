package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "XPUBKIT_HOME"
	EnvNetwork      = "XPUBKIT_NETWORK"
	EnvGapLimit     = "XPUBKIT_GAP_LIMIT"
	EnvOutputFormat = "XPUBKIT_OUTPUT_FORMAT"
	EnvVerbose      = "XPUBKIT_VERBOSE"
	EnvLogLevel     = "XPUBKIT_LOG_LEVEL"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvNetwork); v != "" {
		cfg.Derivation.DefaultNetwork = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvGapLimit); v != "" {
		if gap, err := strconv.Atoi(v); err == nil && gap > 0 {
			cfg.Discovery.GapLimit = gap
		}
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
