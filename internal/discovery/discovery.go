// Package discovery implements gap-limit address discovery for extended
// public keys. It derives addresses branch by branch and asks an
// ActivitySource which of them have on-chain history, stopping after a
// configurable run of unused addresses.
package discovery

import (
	"context"
	"strconv"
	"time"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

// Default scanning parameters.
const (
	// DefaultGapLimit is the standard HD wallet gap limit.
	// Scanning stops after this many consecutive unused addresses.
	DefaultGapLimit = 20

	// DefaultBatchSize is how many addresses are derived and checked per
	// round trip to the activity source.
	DefaultBatchSize = 20

	// DefaultTimeout is the default context timeout for discovery scans.
	DefaultTimeout = 5 * time.Minute
)

// Errors specific to discovery operations.
var (
	// ErrNoActivityFound indicates the scan found no used addresses.
	ErrNoActivityFound = &xpuberr.XpubError{
		Code:     "NO_ACTIVITY_FOUND",
		Message:  "no used addresses discovered within the gap limit",
		ExitCode: xpuberr.ExitNotFound,
	}

	// ErrScanCanceled indicates the scan was canceled by context.
	ErrScanCanceled = &xpuberr.XpubError{
		Code:     "SCAN_CANCELED",
		Message:  "discovery scan was canceled",
		ExitCode: xpuberr.ExitGeneral,
	}

	// ErrInvalidGapLimit indicates the gap limit is invalid.
	ErrInvalidGapLimit = &xpuberr.XpubError{
		Code:     "INVALID_GAP_LIMIT",
		Message:  "gap limit must be positive",
		ExitCode: xpuberr.ExitInput,
	}

	// ErrInvalidBatchSize indicates the batch size is invalid.
	ErrInvalidBatchSize = &xpuberr.XpubError{
		Code:     "INVALID_BATCH_SIZE",
		Message:  "batch size must be positive",
		ExitCode: xpuberr.ExitInput,
	}
)

// ActivitySource answers whether addresses have on-chain history. The
// scanner batches its questions; implementations are free to answer from
// an indexer API, a local file, or a test fixture.
type ActivitySource interface {
	// HasActivity reports, per address, whether it has ever been used.
	// The returned slice must be the same length as addresses.
	HasActivity(ctx context.Context, addresses []string) ([]bool, error)
}

// ProgressUpdate provides feedback during scanning operations.
type ProgressUpdate struct {
	// Branch is the branch currently being scanned: 0 receive, 1 change.
	Branch uint32

	// AddressesScanned is the number of addresses checked so far.
	AddressesScanned int

	// UsedFound is the number of used addresses discovered so far.
	UsedFound int

	// Message provides additional context about the progress.
	Message string
}

// ProgressCallback is called during scanning to report progress.
type ProgressCallback func(ProgressUpdate)

// Options configures the discovery operation.
type Options struct {
	// GapLimit is the number of consecutive unused addresses before
	// stopping. Default: DefaultGapLimit (20).
	GapLimit int

	// BatchSize is how many addresses are derived and checked per round.
	// Default: DefaultBatchSize (20).
	BatchSize int

	// IncludeChange scans the change branch in addition to receive.
	// Default: true.
	IncludeChange bool

	// ProgressCallback receives updates during scanning.
	ProgressCallback ProgressCallback
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		GapLimit:      DefaultGapLimit,
		BatchSize:     DefaultBatchSize,
		IncludeChange: true,
	}
}

// Validate checks that the options are valid.
func (o *Options) Validate() error {
	if o.GapLimit <= 0 {
		return xpuberr.WithDetails(ErrInvalidGapLimit, map[string]string{
			"value": strconv.Itoa(o.GapLimit),
		})
	}
	if o.BatchSize <= 0 {
		return xpuberr.WithDetails(ErrInvalidBatchSize, map[string]string{
			"value": strconv.Itoa(o.BatchSize),
		})
	}
	return nil
}

// UsedAddress represents an address found with on-chain history.
type UsedAddress struct {
	// Address is the encoded address string.
	Address string `json:"address"`

	// Path is the derivation path below the master key, e.g. "m/0/5".
	Path string `json:"path"`

	// Branch is the first derivation step: 0 receive, 1 change.
	Branch uint32 `json:"branch"`

	// Index is the address index within the branch.
	Index uint32 `json:"index"`
}

// BranchResult holds the scan outcome for one branch.
type BranchResult struct {
	// Branch is the branch this result covers.
	Branch uint32 `json:"branch"`

	// Used lists the used addresses in index order.
	Used []UsedAddress `json:"used"`

	// NextUnused is the first index with no history after the last used
	// address. This is the next index a wallet would hand out.
	NextUnused uint32 `json:"next_unused"`

	// Scanned is the number of addresses checked on this branch.
	Scanned int `json:"scanned"`
}

// Result contains the complete discovery scan results.
type Result struct {
	// Branches maps branch number to its scan outcome.
	Branches map[uint32]*BranchResult `json:"branches"`

	// AddressesScanned is the total number of addresses checked.
	AddressesScanned int `json:"addresses_scanned"`

	// UsedTotal is the total number of used addresses discovered.
	UsedTotal int `json:"used_total"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration_ms"`

	// Errors contains non-fatal errors encountered during scanning.
	Errors []string `json:"errors,omitempty"`
}

// HasActivity returns true if any used address was discovered.
func (r *Result) HasActivity() bool {
	return r.UsedTotal > 0
}

// AllUsed returns a flat list of all used addresses, receive branch first.
func (r *Result) AllUsed() []UsedAddress {
	total := 0
	for _, br := range r.Branches {
		total += len(br.Used)
	}

	all := make([]UsedAddress, 0, total)
	for _, branch := range []uint32{0, 1} {
		if br, ok := r.Branches[branch]; ok {
			all = append(all, br.Used...)
		}
	}
	return all
}
