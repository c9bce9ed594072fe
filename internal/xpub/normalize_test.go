package xpub

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

func TestNormalizeToStandard_PassThrough(t *testing.T) {
	// A standard-prefix key on its own network is returned byte for byte.
	normalized, err := NormalizeToStandard(testXpub, Mainnet)
	require.NoError(t, err)
	assert.Equal(t, testXpub, normalized)
}

func TestNormalizeToStandard_ZpubToXpub(t *testing.T) {
	normalized, err := NormalizeToStandard(testZpub, Mainnet)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(normalized, "xpub"))
	assert.NotEqual(t, testZpub, normalized)

	// The payload survives the re-version: both serializations must parse
	// to the same child public keys.
	fromZpub, err := hdkeychain.NewKeyFromString(normalized)
	require.NoError(t, err)

	roundTrip := reencodeVersion(t, normalized, "zpub")
	assert.Equal(t, testZpub, roundTrip, "round trip back to zpub must reproduce the original")

	child, err := fromZpub.Derive(0)
	require.NoError(t, err)
	_, err = child.ECPubKey()
	require.NoError(t, err)
}

func TestNormalizeToStandard_CrossNetwork(t *testing.T) {
	// Re-targeting a mainnet key to testnet yields a tpub serialization.
	normalized, err := NormalizeToStandard(testXpub, Testnet)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(normalized, "tpub"))

	// And it still parses.
	_, err = hdkeychain.NewKeyFromString(normalized)
	require.NoError(t, err)
}

func TestNormalizeToStandard_UnknownPrefix(t *testing.T) {
	_, err := NormalizeToStandard("wpub6BosfCnifzxcFwrSzQiqu2DBVTshkCXacvNsWGY", Mainnet)
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrUnknownPrefix))
}

func TestNormalizeToStandard_Truncated(t *testing.T) {
	_, err := NormalizeToStandard(testZpub[:40], Mainnet)
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrMalformedKey))
}

func TestNormalizeToStandard_ChecksumMismatch(t *testing.T) {
	corrupted := []byte(testZpub)
	if corrupted[30] == 'a' {
		corrupted[30] = 'b'
	} else {
		corrupted[30] = 'a'
	}

	_, err := NormalizeToStandard(string(corrupted), Mainnet)
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrMalformedKey))
}
