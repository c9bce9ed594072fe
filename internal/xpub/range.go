package xpub

import (
	"strconv"
	"sync"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

const (
	// MaxRangeCount bounds a single batch derivation. Gap-limit scans work
	// in far smaller windows; the cap keeps one call from monopolizing CPU.
	MaxRangeCount = 1000

	// parallelThreshold is the batch size above which the range is derived
	// concurrently instead of sequentially.
	parallelThreshold = 32

	// rangeWorkers is the number of concurrent derivation workers.
	rangeWorkers = 4
)

// DeriveRange derives count consecutive addresses starting at start on the
// given branch, in index order. The master key is parsed once and shared
// read-only across the whole batch; each element is identical to what
// Derive(branch, start+i) returns.
func (s *Session) DeriveRange(branch, start, count uint32) ([]*DerivedAddress, error) {
	if count == 0 || count > MaxRangeCount {
		return nil, xpuberr.WithDetails(xpuberr.ErrInvalidInput, map[string]string{
			"count": strconv.FormatUint(uint64(count), 10),
			"max":   strconv.Itoa(MaxRangeCount),
		})
	}

	// The whole range must stay below the hardened boundary.
	if start >= hdkeychain.HardenedKeyStart || count > hdkeychain.HardenedKeyStart-start {
		return nil, xpuberr.WithDetails(xpuberr.ErrInvalidDerivationPath, map[string]string{
			"start": strconv.FormatUint(uint64(start), 10),
			"count": strconv.FormatUint(uint64(count), 10),
		})
	}

	// Derive and warm the branch node up front so workers share it safely.
	if _, err := s.branchKey(branch); err != nil {
		return nil, err
	}

	if count < parallelThreshold {
		return s.deriveRangeSequential(branch, start, count)
	}
	return s.deriveRangeParallel(branch, start, count)
}

func (s *Session) deriveRangeSequential(branch, start, count uint32) ([]*DerivedAddress, error) {
	addresses := make([]*DerivedAddress, 0, count)
	for i := uint32(0); i < count; i++ {
		addr, err := s.Derive(branch, start+i)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// deriveRangeParallel fans the range out over a small worker pool. Results
// land in their offset slot, so the returned order is always index order
// regardless of worker scheduling.
func (s *Session) deriveRangeParallel(branch, start, count uint32) ([]*DerivedAddress, error) {
	addresses := make([]*DerivedAddress, count)
	jobs := make(chan uint32, count)

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	for w := 0; w < rangeWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for offset := range jobs {
				addr, err := s.Derive(branch, start+offset)
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					continue
				}
				addresses[offset] = addr
			}
		}()
	}

	for i := uint32(0); i < count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return addresses, nil
}

// DeriveRange derives count consecutive addresses from a key string. The
// key is classified, normalized and parsed once for the whole batch.
func DeriveRange(key string, branch, start, count uint32) ([]*DerivedAddress, error) {
	session, err := NewSession(key)
	if err != nil {
		return nil, err
	}
	return session.DeriveRange(branch, start, count)
}

// DeriveRangeWithNetwork is DeriveRange with the network overridden.
func DeriveRangeWithNetwork(key string, branch, start, count uint32, network Network) ([]*DerivedAddress, error) {
	session, err := NewSessionWithNetwork(key, network)
	if err != nil {
		return nil, err
	}
	return session.DeriveRange(branch, start, count)
}
