package xpub

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

func TestDeriveRange_MatchesIndividualDerivation(t *testing.T) {
	addresses, err := DeriveRange(testZpub, 0, 5, 10)
	require.NoError(t, err)
	require.Len(t, addresses, 10)

	for i, addr := range addresses {
		index := uint32(5 + i) //nolint:gosec // G115: loop bound is tiny
		individual, derr := DeriveAddress(testZpub, 0, index)
		require.NoError(t, derr)

		assert.Equal(t, individual.Address, addr.Address)
		assert.Equal(t, index, addr.Index)
		assert.Equal(t, DerivationPath(0, index), addr.Path)
	}
}

func TestDeriveRange_ParallelPathMatchesSequential(t *testing.T) {
	// 64 is above the parallel threshold, 10 below; both paths must agree.
	large, err := DeriveRange(testZpub, 0, 0, 64)
	require.NoError(t, err)
	require.Len(t, large, 64)

	small, err := DeriveRange(testZpub, 0, 0, 10)
	require.NoError(t, err)

	for i, addr := range small {
		assert.Equal(t, addr.Address, large[i].Address)
	}

	// Index order is preserved regardless of worker scheduling.
	for i, addr := range large {
		assert.Equal(t, uint32(i), addr.Index) //nolint:gosec // G115: loop bound is tiny
	}
}

func TestDeriveRange_CountBounds(t *testing.T) {
	_, err := DeriveRange(testZpub, 0, 0, 0)
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrInvalidInput))

	_, err = DeriveRange(testZpub, 0, 0, MaxRangeCount+1)
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrInvalidInput))

	// The cap itself is fine.
	session, err := NewSession(testZpub)
	require.NoError(t, err)
	addrs, err := session.DeriveRange(0, 0, MaxRangeCount)
	require.NoError(t, err)
	assert.Len(t, addrs, MaxRangeCount)
}

func TestDeriveRange_HardenedBoundary(t *testing.T) {
	// A range that would cross into hardened territory is rejected before
	// any derivation happens.
	_, err := DeriveRange(testZpub, 0, hdkeychain.HardenedKeyStart-5, 10)
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrInvalidDerivationPath))

	_, err = DeriveRange(testZpub, 0, hdkeychain.HardenedKeyStart, 1)
	require.Error(t, err)
	assert.True(t, xpuberr.Is(err, xpuberr.ErrInvalidDerivationPath))
}

func TestDeriveRange_ChangeBranch(t *testing.T) {
	addresses, err := DeriveRange(testZpub, BranchChange, 0, 3)
	require.NoError(t, err)
	require.Len(t, addresses, 3)

	assert.Equal(t, "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el", addresses[0].Address)
	for _, addr := range addresses {
		assert.Equal(t, BranchChange, addr.Branch)
	}
}

func TestDeriveRangeWithNetwork(t *testing.T) {
	addresses, err := DeriveRangeWithNetwork(testZpub, 0, 0, 3, Testnet)
	require.NoError(t, err)
	require.Len(t, addresses, 3)

	for _, addr := range addresses {
		assert.Equal(t, Testnet, addr.Network)
	}
}
