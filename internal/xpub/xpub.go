// Package xpub derives Bitcoin receiving and change addresses from
// xpub-family extended public keys. It is watch-only by construction: every
// operation works from public key material alone, using non-hardened BIP32
// derivation, so no private key ever exists in this package.
//
// The pipeline is Classify -> Normalize -> Derive -> Encode. Classification
// is purely string-based (the four-character key prefix), normalization
// re-encodes non-standard serializations (ypub/zpub and their testnet
// counterparts) to the standard xpub/tpub version bytes, derivation applies
// two non-hardened child steps (branch, then index), and encoding produces
// the address format declared by the key's prefix.
package xpub

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

// AddressType identifies the address encoding declared by a key's prefix.
type AddressType string

// Address types.
const (
	// TypeLegacy is P2PKH ("1..." on mainnet, "m"/"n..." on testnet).
	TypeLegacy AddressType = "legacy"

	// TypeWrappedSegwit is P2SH-P2WPKH ("3..." on mainnet, "2..." on testnet).
	TypeWrappedSegwit AddressType = "wrapped-segwit"

	// TypeNativeSegwit is P2WPKH ("bc1q..." on mainnet, "tb1q..." on testnet).
	TypeNativeSegwit AddressType = "native-segwit"
)

// String returns the string representation of the address type.
func (t AddressType) String() string {
	return string(t)
}

// Network identifies the Bitcoin network a key or address belongs to.
type Network string

// Networks.
const (
	// Mainnet is the Bitcoin main network.
	Mainnet Network = "mainnet"

	// Testnet is the Bitcoin test network (testnet3).
	Testnet Network = "testnet"
)

// String returns the string representation of the network.
func (n Network) String() string {
	return string(n)
}

// ParseNetwork parses a network name. Accepts common aliases.
func ParseNetwork(s string) (Network, bool) {
	switch s {
	case "mainnet", "main", "bitcoin":
		return Mainnet, true
	case "testnet", "test", "testnet3":
		return Testnet, true
	default:
		return "", false
	}
}

// Params returns the chaincfg parameters for the network.
func (n Network) Params() *chaincfg.Params {
	if n == Testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// KeyInfo is the classification of an extended public key, read from its
// prefix before any cryptographic parsing.
type KeyInfo struct {
	AddressType AddressType `json:"address_type"`
	Network     Network     `json:"network"`
}

// prefixLen is the number of leading characters that identify a key's
// serialization format.
const prefixLen = 4

// keyPrefixes maps every recognized key prefix to its declared address type
// and network. This table is the single place a new key format (for example
// a future Taproot descriptor export) would be added.
//
//nolint:gochecknoglobals // Version-prefix table is a fixed protocol constant
var keyPrefixes = map[string]KeyInfo{
	"xpub": {AddressType: TypeLegacy, Network: Mainnet},
	"tpub": {AddressType: TypeLegacy, Network: Testnet},
	"ypub": {AddressType: TypeWrappedSegwit, Network: Mainnet},
	"upub": {AddressType: TypeWrappedSegwit, Network: Testnet},
	"zpub": {AddressType: TypeNativeSegwit, Network: Mainnet},
	"vpub": {AddressType: TypeNativeSegwit, Network: Testnet},
}

// standardPrefixes are the serializations the derivation primitive parses
// natively; everything else goes through NormalizeToStandard first.
//
//nolint:gochecknoglobals // Fixed protocol constant, paired with keyPrefixes
var standardPrefixes = map[string]bool{
	"xpub": true,
	"tpub": true,
}

// Classify inspects the leading characters of an extended public key and
// returns its declared address type and network. It never parses the key:
// classification must succeed before normalization, and normalization is a
// precondition of parsing.
func Classify(key string) (KeyInfo, error) {
	if len(key) < prefixLen {
		return KeyInfo{}, xpuberr.WithDetails(xpuberr.ErrUnknownPrefix, map[string]string{
			"reason": "key shorter than prefix",
		})
	}

	prefix := key[:prefixLen]
	info, ok := keyPrefixes[prefix]
	if !ok {
		return KeyInfo{}, xpuberr.WithDetails(xpuberr.ErrUnknownPrefix, map[string]string{
			"prefix": prefix,
		})
	}

	return info, nil
}

// Fingerprint returns a short, log-safe identifier for a key: its prefix and
// last four characters. Extended public keys reveal all future addresses of
// a wallet and must never be logged in full.
func Fingerprint(key string) string {
	if len(key) <= prefixLen+4 {
		return key
	}
	return fmt.Sprintf("%s…%s", key[:prefixLen], key[len(key)-4:])
}
