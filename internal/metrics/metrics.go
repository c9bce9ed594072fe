// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
// For production observability, consider integrating with Prometheus or similar.
package metrics

import (
	"sync/atomic"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Derivation metrics
	derivationsTotal  atomic.Int64
	derivationErrors  atomic.Int64
	legacyAddresses   atomic.Int64
	wrappedAddresses  atomic.Int64
	nativeAddresses   atomic.Int64

	// Validation metrics
	validationsTotal  atomic.Int64
	validationsFailed atomic.Int64

	// Discovery scan metrics
	scansTotal       atomic.Int64
	scanErrors       atomic.Int64
	addressesScanned atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordDerivation records one address derivation with its address type and
// success status. The address type is empty when derivation failed before
// encoding.
func (m *Metrics) RecordDerivation(addressType string, err error) {
	m.derivationsTotal.Add(1)

	if err != nil {
		m.derivationErrors.Add(1)
		return
	}

	switch addressType {
	case "legacy":
		m.legacyAddresses.Add(1)
	case "wrapped-segwit":
		m.wrappedAddresses.Add(1)
	case "native-segwit":
		m.nativeAddresses.Add(1)
	}
}

// RecordValidation records one key validation.
func (m *Metrics) RecordValidation(valid bool) {
	m.validationsTotal.Add(1)
	if !valid {
		m.validationsFailed.Add(1)
	}
}

// RecordScan records one gap-limit scan with the number of addresses it
// checked and its success status.
func (m *Metrics) RecordScan(addresses int, err error) {
	m.scansTotal.Add(1)
	m.addressesScanned.Add(int64(addresses))
	if err != nil {
		m.scanErrors.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	DerivationsTotal  int64
	DerivationErrors  int64
	LegacyAddresses   int64
	WrappedAddresses  int64
	NativeAddresses   int64
	ValidationsTotal  int64
	ValidationsFailed int64
	ScansTotal        int64
	ScanErrors        int64
	AddressesScanned  int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		DerivationsTotal:  m.derivationsTotal.Load(),
		DerivationErrors:  m.derivationErrors.Load(),
		LegacyAddresses:   m.legacyAddresses.Load(),
		WrappedAddresses:  m.wrappedAddresses.Load(),
		NativeAddresses:   m.nativeAddresses.Load(),
		ValidationsTotal:  m.validationsTotal.Load(),
		ValidationsFailed: m.validationsFailed.Load(),
		ScansTotal:        m.scansTotal.Load(),
		ScanErrors:        m.scanErrors.Load(),
		AddressesScanned:  m.addressesScanned.Load(),
	}
}

// DerivationsTotal returns the total number of derivations attempted.
func (m *Metrics) DerivationsTotal() int64 {
	return m.derivationsTotal.Load()
}

// DerivationErrorRate returns the fraction of derivations that failed,
// as a percentage (0-100). Returns 0 if no derivations have occurred.
func (m *Metrics) DerivationErrorRate() float64 {
	total := m.derivationsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.derivationErrors.Load()) / float64(total) * 100
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.derivationsTotal.Store(0)
	m.derivationErrors.Store(0)
	m.legacyAddresses.Store(0)
	m.wrappedAddresses.Store(0)
	m.nativeAddresses.Store(0)
	m.validationsTotal.Store(0)
	m.validationsFailed.Store(0)
	m.scansTotal.Store(0)
	m.scanErrors.Store(0)
	m.addressesScanned.Store(0)
}
