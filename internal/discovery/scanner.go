package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrz1836/xpubkit/internal/metrics"
	"github.com/mrz1836/xpubkit/internal/xpub"
)

// Scanner performs gap-limit discovery over one parsed extended public key.
type Scanner struct {
	session *xpub.Session
	source  ActivitySource
	opts    *Options
}

// NewScanner creates a new discovery scanner.
func NewScanner(session *xpub.Session, source ActivitySource, opts *Options) *Scanner {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Scanner{
		session: session,
		source:  source,
		opts:    opts,
	}
}

// Scan runs the gap-limit scan. The receive branch is always scanned; the
// change branch is scanned concurrently when IncludeChange is set. Branch
// failures are non-fatal and collected in Result.Errors.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	startTime := time.Now()
	result := &Result{
		Branches: make(map[uint32]*BranchResult),
	}

	branches := []uint32{xpub.BranchReceive}
	if s.opts.IncludeChange {
		branches = append(branches, xpub.BranchChange)
	}

	type branchOutcome struct {
		branch uint32
		res    *BranchResult
		err    error
	}

	// The session shares one parsed key across branches, so the branch
	// scans can run concurrently.
	outcomes := make(chan branchOutcome, len(branches))
	var wg sync.WaitGroup
	for _, branch := range branches {
		wg.Add(1)
		go func(branch uint32) {
			defer wg.Done()
			res, err := s.scanBranch(ctx, branch)
			outcomes <- branchOutcome{branch: branch, res: res, err: err}
		}(branch)
	}
	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		if outcome.res != nil {
			result.Branches[outcome.branch] = outcome.res
			result.AddressesScanned += outcome.res.Scanned
			result.UsedTotal += len(outcome.res.Used)
		}
		if outcome.err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("branch %d: %v", outcome.branch, outcome.err))
		}
	}

	result.Duration = time.Since(startTime)
	metrics.Global.RecordScan(result.AddressesScanned, nil)

	return result, nil
}

// scanBranch scans a single branch until gap-limit consecutive unused
// addresses are seen. Addresses are derived and checked in batches;
// partial results survive a mid-scan failure.
func (s *Scanner) scanBranch(ctx context.Context, branch uint32) (*BranchResult, error) {
	result := &BranchResult{Branch: branch}
	consecutiveUnused := 0
	index := uint32(0)

	for consecutiveUnused < s.opts.GapLimit {
		if ctx.Err() != nil {
			return result, ErrScanCanceled
		}

		batch, err := s.session.DeriveRange(branch, index, uint32(s.opts.BatchSize)) //nolint:gosec // G115: BatchSize validated positive and small
		if err != nil {
			return result, err
		}

		addresses := make([]string, len(batch))
		for i, addr := range batch {
			addresses[i] = addr.Address
		}

		activity, err := s.source.HasActivity(ctx, addresses)
		if err != nil {
			return result, fmt.Errorf("checking activity from index %d: %w", index, err)
		}
		if len(activity) != len(addresses) {
			return result, fmt.Errorf("activity source returned %d results for %d addresses",
				len(activity), len(addresses))
		}

		for i, used := range activity {
			result.Scanned++
			if !used {
				consecutiveUnused++
				if consecutiveUnused >= s.opts.GapLimit {
					break
				}
				continue
			}

			consecutiveUnused = 0
			result.Used = append(result.Used, UsedAddress{
				Address: batch[i].Address,
				Path:    batch[i].Path,
				Branch:  branch,
				Index:   batch[i].Index,
			})
			result.NextUnused = batch[i].Index + 1
		}

		s.reportProgress(ProgressUpdate{
			Branch:           branch,
			AddressesScanned: result.Scanned,
			UsedFound:        len(result.Used),
			Message:          fmt.Sprintf("scanned through index %d", index+uint32(len(batch))-1), //nolint:gosec // G115: batch length bounded by BatchSize
		})

		index += uint32(len(batch)) //nolint:gosec // G115: batch length bounded by BatchSize
	}

	return result, nil
}

// reportProgress sends a progress update if a callback is configured.
func (s *Scanner) reportProgress(update ProgressUpdate) {
	if s.opts.ProgressCallback != nil {
		s.opts.ProgressCallback(update)
	}
}
