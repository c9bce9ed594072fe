package xpub

import (
	"fmt"

	"github.com/mrz1836/xpubkit/internal/metrics"
)

// DerivedAddress is the immutable result of one derivation. The package
// holds no reference to it after returning.
type DerivedAddress struct {
	// Address is the encoded address string.
	Address string `json:"address"`

	// Path is the derivation path below the master key, e.g. "m/0/42".
	Path string `json:"path"`

	// Branch is the first derivation step: 0 receive, 1 change.
	Branch uint32 `json:"branch"`

	// Index is the second derivation step.
	Index uint32 `json:"index"`

	// AddressType is the encoding actually used for Address.
	AddressType AddressType `json:"address_type"`

	// Network is the network the address belongs to.
	Network Network `json:"network"`
}

// DerivationPath formats the path below the master key.
func DerivationPath(branch, index uint32) string {
	return fmt.Sprintf("m/%d/%d", branch, index)
}

// DeriveAddress derives a single address at m/branch/index, encoded as the
// key's declared address type on the key's declared network.
func DeriveAddress(key string, branch, index uint32) (*DerivedAddress, error) {
	session, err := NewSession(key)
	if err != nil {
		metrics.Global.RecordDerivation("", err)
		return nil, err
	}
	return recordDerive(session.Derive(branch, index))
}

// DeriveAddressWithNetwork is DeriveAddress with the network overridden.
func DeriveAddressWithNetwork(key string, branch, index uint32, network Network) (*DerivedAddress, error) {
	session, err := NewSessionWithNetwork(key, network)
	if err != nil {
		metrics.Global.RecordDerivation("", err)
		return nil, err
	}
	return recordDerive(session.Derive(branch, index))
}

// DeriveNativeSegwitAddress derives at m/branch/index but always encodes as
// native segwit, regardless of the key's prefix. See
// Session.DeriveNativeSegwit for the caveats; this is never the default path.
func DeriveNativeSegwitAddress(key string, branch, index uint32) (string, error) {
	session, err := NewSession(key)
	if err != nil {
		metrics.Global.RecordDerivation("", err)
		return "", err
	}
	addr, err := recordDerive(session.DeriveNativeSegwit(branch, index))
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}

// DeriveNativeSegwitAddressWithNetwork is DeriveNativeSegwitAddress with the
// network overridden.
func DeriveNativeSegwitAddressWithNetwork(key string, branch, index uint32, network Network) (string, error) {
	session, err := NewSessionWithNetwork(key, network)
	if err != nil {
		metrics.Global.RecordDerivation("", err)
		return "", err
	}
	addr, err := recordDerive(session.DeriveNativeSegwit(branch, index))
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}

// recordDerive feeds a derivation result into the global metrics.
func recordDerive(addr *DerivedAddress, err error) (*DerivedAddress, error) {
	if err != nil {
		metrics.Global.RecordDerivation("", err)
		return nil, err
	}
	metrics.Global.RecordDerivation(string(addr.AddressType), nil)
	return addr, nil
}
