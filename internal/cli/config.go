package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/mrz1836/xpubkit/internal/config"
	"github.com/mrz1836/xpubkit/internal/output"
	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

// maxKeyTypoDistance is the furthest edit distance that still produces a
// "did you mean" suggestion for a config key.
const maxKeyTypoDistance = 3

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify xpubkit configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.xpubkit/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  xpubkit config init
  xpubkit config init --force`,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration settings.

Example:
  xpubkit config show
  xpubkit config show -o json`,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its dotted key.

Examples:
  xpubkit config get derivation.default_network
  xpubkit config get discovery.gap_limit
  xpubkit config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its dotted key.
The configuration file is updated immediately.

Examples:
  xpubkit config set derivation.default_network testnet
  xpubkit config set discovery.gap_limit 50
  xpubkit config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

// configKey binds a dotted key to its accessors. Using one table for get and
// set keeps the key list, the suggestions, and the validation in a single
// place.
type configKey struct {
	get func(c *config.Config) string
	set func(c *config.Config, value string) error
}

//nolint:gochecknoglobals // Key table is a fixed schema, paired with the Config struct
var configKeys = map[string]configKey{
	"home": {
		get: func(c *config.Config) string { return c.Home },
		set: func(c *config.Config, v string) error { c.Home = v; return nil },
	},
	"derivation.default_network": {
		get: func(c *config.Config) string { return c.Derivation.DefaultNetwork },
		set: func(c *config.Config, v string) error {
			if v != "mainnet" && v != "testnet" {
				return invalidConfigValue(v, "mainnet or testnet")
			}
			c.Derivation.DefaultNetwork = v
			return nil
		},
	},
	"derivation.default_count": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Derivation.DefaultCount) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return invalidConfigValue(v, "a positive integer")
			}
			c.Derivation.DefaultCount = n
			return nil
		},
	},
	"discovery.gap_limit": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Discovery.GapLimit) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return invalidConfigValue(v, "a positive integer")
			}
			c.Discovery.GapLimit = n
			return nil
		},
	},
	"discovery.batch_size": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Discovery.BatchSize) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return invalidConfigValue(v, "a positive integer")
			}
			c.Discovery.BatchSize = n
			return nil
		},
	},
	"discovery.include_change": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Discovery.IncludeChange) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return invalidConfigValue(v, "true or false")
			}
			c.Discovery.IncludeChange = b
			return nil
		},
	},
	"output.default_format": {
		get: func(c *config.Config) string { return c.Output.DefaultFormat },
		set: func(c *config.Config, v string) error {
			if v != "text" && v != "json" && v != "auto" {
				return invalidConfigValue(v, "text, json, or auto")
			}
			c.Output.DefaultFormat = v
			return nil
		},
	},
	"output.verbose": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Output.Verbose) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return invalidConfigValue(v, "true or false")
			}
			c.Output.Verbose = b
			return nil
		},
	},
	"logging.level": {
		get: func(c *config.Config) string { return c.Logging.Level },
		set: func(c *config.Config, v string) error {
			switch v {
			case "off", "error", "info", "debug":
				c.Logging.Level = v
				return nil
			}
			return invalidConfigValue(v, "off, error, info, or debug")
		},
	},
	"logging.file": {
		get: func(c *config.Config) string { return c.Logging.File },
		set: func(c *config.Config, v string) error { c.Logging.File = v; return nil },
	},
}

func invalidConfigValue(value, valid string) error {
	return xpuberr.WithDetails(xpuberr.ErrInvalidInput, map[string]string{
		"value": value,
		"valid": valid,
	})
}

// unknownConfigKey builds the error for an unrecognized key, with a
// closest-match suggestion when one is within typo distance.
func unknownConfigKey(key string) error {
	err := xpuberr.WithDetails(xpuberr.ErrUnknownConfigKey, map[string]string{"key": key})

	bestDist := maxKeyTypoDistance + 1
	best := ""
	for candidate := range configKeys {
		dist := levenshtein.ComputeDistance(key, candidate)
		if dist < bestDist {
			bestDist = dist
			best = candidate
		}
	}
	if best != "" && bestDist <= maxKeyTypoDistance {
		return xpuberr.WithSuggestion(err, fmt.Sprintf("did you mean '%s'?", best))
	}
	return xpuberr.WithSuggestion(err, "run 'xpubkit config show' to list available keys")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.Home)

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return xpuberr.WithSuggestion(
			xpuberr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.Home

	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - derivation.default_network: Network when --network is not passed")
	outln(w, "  - discovery.gap_limit: Consecutive unused addresses that end a scan")
	outln(w, "  - output.default_format: Output format (text/json/auto)")
	outln(w, "  - logging.level: Log level (off/error/info/debug)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, cfg)
	}

	outln(w, "Configuration:")
	outln(w)
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out(w, "  %s = %s\n", key, configKeys[key].get(cfg))
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	entry, ok := configKeys[key]
	if !ok {
		return unknownConfigKey(key)
	}

	w := cmd.OutOrStdout()
	outln(w, entry.get(cfg))

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	entry, ok := configKeys[key]
	if !ok {
		return unknownConfigKey(key)
	}

	// Load current config from file so unrelated keys keep their values.
	configPath := config.Path(cfg.Home)
	currentCfg, err := config.Load(configPath)
	if err != nil {
		currentCfg = config.Defaults()
		currentCfg.Home = cfg.Home
	}

	if err := entry.set(currentCfg, value); err != nil {
		return err
	}

	if err := config.Save(currentCfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Set %s = %s\n", key, value)

	return nil
}
