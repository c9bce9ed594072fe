package xpub

import (
	"bytes"
	"strconv"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

const (
	// serializedKeyLen is the length of a BIP32 extended key payload:
	// 4-byte version, 1-byte depth, 4-byte parent fingerprint, 4-byte child
	// number, 32-byte chain code, 33-byte compressed public key.
	serializedKeyLen = 78

	// checksumLen is the base58check double-SHA256 checksum length.
	checksumLen = 4
)

// NormalizeToStandard re-encodes an extended public key with the standard
// (xpub/tpub) version bytes for the target network. Keys that already carry
// the standard serialization for that network are returned unchanged.
//
// The payload behind the version bytes - depth, fingerprint, child number,
// chain code and public key - is preserved exactly, so the normalized key
// derives the same children as the original.
func NormalizeToStandard(key string, network Network) (string, error) {
	info, err := Classify(key)
	if err != nil {
		return "", err
	}

	if standardPrefixes[key[:prefixLen]] && info.Network == network {
		return key, nil
	}

	payload, err := decodeSerializedKey(key)
	if err != nil {
		return "", err
	}

	// Swap the 4-byte version prefix for the standard HD public key version
	// of the target network and re-encode.
	version := network.Params().HDPublicKeyID
	reversioned := make([]byte, 0, serializedKeyLen+checksumLen)
	reversioned = append(reversioned, version[:]...)
	reversioned = append(reversioned, payload[4:]...)

	checksum := chainhash.DoubleHashB(reversioned)[:checksumLen]
	reversioned = append(reversioned, checksum...)

	return base58.Encode(reversioned), nil
}

// decodeSerializedKey base58check-decodes an extended key and returns its
// 78-byte payload (version bytes included, checksum verified and stripped).
// Any decoding failure is reported as a malformed key; lower-level errors
// never escape.
func decodeSerializedKey(key string) ([]byte, error) {
	decoded := base58.Decode(key)
	if len(decoded) != serializedKeyLen+checksumLen {
		return nil, xpuberr.WithDetails(xpuberr.ErrMalformedKey, map[string]string{
			"reason": "wrong serialized length",
			"length": strconv.Itoa(len(decoded)),
		})
	}

	payload := decoded[:serializedKeyLen]
	checksum := decoded[serializedKeyLen:]

	expected := chainhash.DoubleHashB(payload)[:checksumLen]
	if !bytes.Equal(checksum, expected) {
		// A failed checksum almost always means a typo or truncated paste.
		// A single flipped bit that survived the checksum would derive a
		// different but valid-looking address, so this check is load-bearing.
		return nil, xpuberr.WithDetails(xpuberr.ErrMalformedKey, map[string]string{
			"reason": "checksum mismatch",
		})
	}

	return payload, nil
}
