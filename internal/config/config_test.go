package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "mainnet", cfg.Derivation.DefaultNetwork)
	assert.Equal(t, DefaultGapLimit, cfg.Discovery.GapLimit)
	assert.Equal(t, DefaultBatchSize, cfg.Discovery.BatchSize)
	assert.True(t, cfg.Discovery.IncludeChange)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir)

	cfg := Defaults()
	cfg.Home = dir
	cfg.Derivation.DefaultNetwork = "testnet"
	cfg.Discovery.GapLimit = 50

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testnet", loaded.Derivation.DefaultNetwork)
	assert.Equal(t, 50, loaded.Discovery.GapLimit)
	assert.Equal(t, dir, loaded.Home)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir)
	require.NoError(t, os.WriteFile(path, []byte("derivation:\n  default_network: testnet\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.Derivation.DefaultNetwork)
	// Unspecified sections fall back to defaults.
	assert.Equal(t, DefaultGapLimit, cfg.Discovery.GapLimit)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir)
	require.NoError(t, os.WriteFile(path, []byte("derivation: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/xpubkit-test")
	t.Setenv(EnvNetwork, "Testnet")
	t.Setenv(EnvGapLimit, "35")
	t.Setenv(EnvOutputFormat, "JSON")
	t.Setenv(EnvVerbose, "yes")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, "/tmp/xpubkit-test", cfg.Home)
	assert.Equal(t, "testnet", cfg.Derivation.DefaultNetwork)
	assert.Equal(t, 35, cfg.Discovery.GapLimit)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvironment_InvalidGapLimitIgnored(t *testing.T) {
	t.Setenv(EnvGapLimit, "not-a-number")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, DefaultGapLimit, cfg.Discovery.GapLimit)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "yes", "on", "TRUE", " yes "} {
		assert.True(t, parseBool(v), "value %q", v)
	}
	for _, v := range []string{"0", "false", "no", "off", ""} {
		assert.False(t, parseBool(v), "value %q", v)
	}
}

func TestDefaultHome(t *testing.T) {
	home := DefaultHome()
	assert.NotEmpty(t, home)
	assert.Contains(t, home, ".xpubkit")
}
