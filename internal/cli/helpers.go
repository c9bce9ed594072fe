package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrz1836/xpubkit/internal/xpub"
	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

// out is a helper for formatted CLI output.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

// writeJSON writes indented JSON to the writer.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveNetwork turns the effective network setting into a session override.
// The config default of "mainnet" is not treated as an override unless the
// user passed --network explicitly.
func resolveNetwork() (xpub.Network, bool, error) {
	name := cfg.GetDefaultNetwork()
	if name == "" {
		return xpub.Mainnet, false, nil
	}
	network, ok := xpub.ParseNetwork(name)
	if !ok {
		return "", false, xpuberr.WithDetails(xpuberr.ErrInvalidInput, map[string]string{
			"network": name,
		})
	}
	override := networkFlag != "" || network != xpub.Mainnet
	return network, override, nil
}

// newSessionFromFlags builds a derivation session for the given key,
// honoring the --network flag and config default.
func newSessionFromFlags(key string) (*xpub.Session, error) {
	network, override, err := resolveNetwork()
	if err != nil {
		return nil, err
	}
	if override {
		return xpub.NewSessionWithNetwork(key, network)
	}
	return xpub.NewSession(key)
}

// branchFromFlags maps the --change flag to a branch number.
func branchFromFlags(change bool) uint32 {
	if change {
		return xpub.BranchChange
	}
	return xpub.BranchReceive
}

// logKeyUse writes a redacted audit line for a key operation.
func logKeyUse(op, key string) {
	if logger == nil {
		return
	}
	logger.Info("%s key=%s", op, xpub.Fingerprint(key))
}
