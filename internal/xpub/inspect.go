package xpub

import (
	"github.com/mrz1836/xpubkit/internal/metrics"
	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

// Inspection is the structured result of validating an extended public key,
// suitable for user-facing validation messages.
type Inspection struct {
	// Valid reports whether the key classified, normalized and parsed.
	Valid bool `json:"valid"`

	// AddressType is the declared address type (only when valid).
	AddressType AddressType `json:"address_type,omitempty"`

	// Network is the declared network (only when valid).
	Network Network `json:"network,omitempty"`

	// Error is the machine-readable failure code (only when invalid).
	Error string `json:"error,omitempty"`

	// Message is the human-readable failure description (only when invalid).
	Message string `json:"message,omitempty"`
}

// IsValidExtendedKey reports whether key is a well-formed extended public
// key: it classifies, normalizes and parses as a master node. It never
// panics and never returns an error; any failure is false.
func IsValidExtendedKey(key string) bool {
	_, err := NewSession(key)
	metrics.Global.RecordValidation(err == nil)
	return err == nil
}

// Inspect validates a key and returns structured diagnostics instead of a
// boolean. All failures are caught internally.
func Inspect(key string) Inspection {
	session, err := NewSession(key)
	if err != nil {
		metrics.Global.RecordValidation(false)
		return Inspection{
			Valid:   false,
			Error:   xpuberr.Code(err),
			Message: err.Error(),
		}
	}

	metrics.Global.RecordValidation(true)
	return Inspection{
		Valid:       true,
		AddressType: session.info.AddressType,
		Network:     session.info.Network,
	}
}
