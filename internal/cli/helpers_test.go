package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/xpubkit/internal/config"
	"github.com/mrz1836/xpubkit/internal/xpub"
	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

func setTestConfig(t *testing.T, network string) {
	t.Helper()
	previous := cfg
	cfg = config.Defaults()
	cfg.Derivation.DefaultNetwork = network
	t.Cleanup(func() { cfg = previous })
}

func TestBranchFromFlags(t *testing.T) {
	assert.Equal(t, xpub.BranchReceive, branchFromFlags(false))
	assert.Equal(t, xpub.BranchChange, branchFromFlags(true))
}

func TestResolveNetwork_Default(t *testing.T) {
	setTestConfig(t, "mainnet")

	network, override, err := resolveNetwork()
	require.NoError(t, err)
	assert.Equal(t, xpub.Mainnet, network)
	assert.False(t, override)
}

func TestResolveNetwork_TestnetIsOverride(t *testing.T) {
	setTestConfig(t, "testnet")

	network, override, err := resolveNetwork()
	require.NoError(t, err)
	assert.Equal(t, xpub.Testnet, network)
	assert.True(t, override)
}

func TestResolveNetwork_Invalid(t *testing.T) {
	setTestConfig(t, "regtest")

	_, _, err := resolveNetwork()
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrInvalidInput))
}

func TestFormatVersionTag(t *testing.T) {
	assert.Equal(t, "v1.2.3", formatVersionTag("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersionTag("v1.2.3"))
	assert.Equal(t, "dev", formatVersionTag("dev"))
	assert.Equal(t, "dev", formatVersionTag(""))
}

func TestLoadUsedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used.txt")
	content := `# exported from indexer
bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu

bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	source, err := loadUsedFile(path)
	require.NoError(t, err)

	results, err := source.HasActivity(context.Background(), []string{
		"bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		"bc1qunknownaddress",
		"bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g",
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, results)
}

func TestLoadUsedFile_Missing(t *testing.T) {
	_, err := loadUsedFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrActivitySource))
}
