package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/xpubkit/internal/xpub"
)

// BIP84 account key from the standard test mnemonic; its first addresses
// are published vectors.
//
//nolint:gochecknoglobals // Published test vector constant
var scanTestZpub = "zpub6rFR7y4Q2AijBEqTUquhVz398htDFrtymD9xYYfG1m4wAcvPhXNfE3EfH1r1ADqtfSdVCToUG868RvUUkgDKf31mGDtKsAYz2oz2AGutZYs"

// mapSource answers activity from a fixed set of used addresses.
type mapSource struct {
	used  map[string]bool
	calls int
	err   error
}

func (s *mapSource) HasActivity(_ context.Context, addresses []string) ([]bool, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	results := make([]bool, len(addresses))
	for i, addr := range addresses {
		results[i] = s.used[addr]
	}
	return results, nil
}

func newScanSession(t *testing.T) *xpub.Session {
	t.Helper()
	session, err := xpub.NewSession(scanTestZpub)
	require.NoError(t, err)
	return session
}

func TestScan_FindsUsedAddresses(t *testing.T) {
	source := &mapSource{used: map[string]bool{
		"bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu": true, // m/0/0
		"bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g": true, // m/0/1
		"bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el": true, // m/1/0
	}}

	opts := &Options{GapLimit: 5, BatchSize: 5, IncludeChange: true}
	scanner := NewScanner(newScanSession(t), source, opts)

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.True(t, result.HasActivity())
	assert.Equal(t, 3, result.UsedTotal)

	receive := result.Branches[xpub.BranchReceive]
	require.NotNil(t, receive)
	require.Len(t, receive.Used, 2)
	assert.Equal(t, "m/0/0", receive.Used[0].Path)
	assert.Equal(t, "m/0/1", receive.Used[1].Path)
	assert.Equal(t, uint32(2), receive.NextUnused)

	change := result.Branches[xpub.BranchChange]
	require.NotNil(t, change)
	require.Len(t, change.Used, 1)
	assert.Equal(t, "m/1/0", change.Used[0].Path)
	assert.Equal(t, uint32(1), change.NextUnused)
}

func TestScan_NoActivity(t *testing.T) {
	source := &mapSource{used: map[string]bool{}}
	opts := &Options{GapLimit: 5, BatchSize: 5, IncludeChange: false}
	scanner := NewScanner(newScanSession(t), source, opts)

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.False(t, result.HasActivity())
	assert.Equal(t, 0, result.UsedTotal)

	// Only the receive branch was scanned.
	assert.Len(t, result.Branches, 1)
	_, hasChange := result.Branches[xpub.BranchChange]
	assert.False(t, hasChange)
}

func TestScan_GapResetOnUse(t *testing.T) {
	// A used address inside the window resets the unused run, so the scan
	// keeps going past it.
	session := newScanSession(t)
	batch, err := session.DeriveRange(xpub.BranchReceive, 0, 10)
	require.NoError(t, err)

	// Mark index 7 used; gap limit 10 is wide enough to reach it past the
	// seven unused addresses before it.
	source := &mapSource{used: map[string]bool{batch[7].Address: true}}
	opts := &Options{GapLimit: 10, BatchSize: 5, IncludeChange: false}
	scanner := NewScanner(session, source, opts)

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	receive := result.Branches[xpub.BranchReceive]
	require.NotNil(t, receive)
	require.Len(t, receive.Used, 1)
	assert.Equal(t, uint32(7), receive.Used[0].Index)
	assert.Equal(t, uint32(8), receive.NextUnused)
	// After the hit, ten more unused addresses are needed to stop.
	assert.GreaterOrEqual(t, receive.Scanned, 18)
}

func TestScan_SourceErrorIsNonFatal(t *testing.T) {
	source := &mapSource{err: errors.New("indexer down")}
	opts := &Options{GapLimit: 5, BatchSize: 5, IncludeChange: false}
	scanner := NewScanner(newScanSession(t), source, opts)

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "indexer down")
}

func TestScan_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &mapSource{used: map[string]bool{}}
	opts := &Options{GapLimit: 5, BatchSize: 5, IncludeChange: false}
	scanner := NewScanner(newScanSession(t), source, opts)

	result, err := scanner.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], ErrScanCanceled.Message)
}

func TestScan_InvalidOptions(t *testing.T) {
	scanner := NewScanner(newScanSession(t), &mapSource{}, &Options{GapLimit: 0, BatchSize: 5})
	_, err := scanner.Scan(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGapLimit)

	scanner = NewScanner(newScanSession(t), &mapSource{}, &Options{GapLimit: 5, BatchSize: 0})
	_, err = scanner.Scan(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}

func TestScan_ProgressCallback(t *testing.T) {
	var updates []ProgressUpdate
	opts := &Options{
		GapLimit:      5,
		BatchSize:     5,
		IncludeChange: false,
		ProgressCallback: func(u ProgressUpdate) {
			updates = append(updates, u)
		},
	}
	scanner := NewScanner(newScanSession(t), &mapSource{used: map[string]bool{}}, opts)

	_, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, updates)
	assert.Equal(t, xpub.BranchReceive, updates[0].Branch)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, DefaultGapLimit, opts.GapLimit)
	assert.Equal(t, DefaultBatchSize, opts.BatchSize)
	assert.True(t, opts.IncludeChange)
	require.NoError(t, opts.Validate())
}

func TestResult_AllUsed(t *testing.T) {
	result := &Result{
		Branches: map[uint32]*BranchResult{
			0: {Branch: 0, Used: []UsedAddress{{Path: "m/0/0"}, {Path: "m/0/1"}}},
			1: {Branch: 1, Used: []UsedAddress{{Path: "m/1/0"}}},
		},
	}

	all := result.AllUsed()
	require.Len(t, all, 3)
	// Receive branch first, then change.
	assert.Equal(t, "m/0/0", all[0].Path)
	assert.Equal(t, "m/1/0", all[2].Path)
}
