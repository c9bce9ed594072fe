package config

// DefaultGapLimit is the BIP44-recommended gap limit for discovery scans.
const DefaultGapLimit = 20

// DefaultBatchSize is how many addresses a scan derives per round. One
// batch per gap window keeps the final round from overshooting.
const DefaultBatchSize = 20

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.xpubkit",
		Derivation: DerivationConfig{
			DefaultNetwork: "mainnet",
			DefaultCount:   10,
		},
		Discovery: DiscoveryConfig{
			GapLimit:      DefaultGapLimit,
			BatchSize:     DefaultBatchSize,
			IncludeChange: true,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.xpubkit/xpubkit.log",
		},
	}
}
