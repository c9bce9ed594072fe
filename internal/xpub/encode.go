package xpub

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

// encodeAddress encodes a child public key as an address of the given type.
// The switch is exhaustive over AddressType; an unrecognized type is an
// encoding failure, never a silent default. No path returns an empty
// address without an error.
func encodeAddress(pub *btcec.PublicKey, addrType AddressType, params *chaincfg.Params) (string, error) {
	pubKeyHash := btcutil.Hash160(pub.SerializeCompressed())

	switch addrType {
	case TypeLegacy:
		addr, err := btcutil.NewAddressPubKeyHash(pubKeyHash, params)
		if err != nil {
			return "", xpuberr.Wrap(xpuberr.ErrEncodingFailure, "encoding P2PKH address")
		}
		return addr.EncodeAddress(), nil

	case TypeWrappedSegwit:
		// The P2SH payload is the hash of the P2WPKH redeem script
		// (OP_0 <20-byte pubkey hash>), not of the public key itself.
		witness, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, params)
		if err != nil {
			return "", xpuberr.Wrap(xpuberr.ErrEncodingFailure, "building witness program")
		}
		redeemScript, err := txscript.PayToAddrScript(witness)
		if err != nil {
			return "", xpuberr.Wrap(xpuberr.ErrEncodingFailure, "building redeem script")
		}
		addr, err := btcutil.NewAddressScriptHash(redeemScript, params)
		if err != nil {
			return "", xpuberr.Wrap(xpuberr.ErrEncodingFailure, "encoding P2SH address")
		}
		return addr.EncodeAddress(), nil

	case TypeNativeSegwit:
		addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, params)
		if err != nil {
			return "", xpuberr.Wrap(xpuberr.ErrEncodingFailure, "encoding bech32 address")
		}
		return addr.EncodeAddress(), nil

	default:
		return "", xpuberr.WithDetails(xpuberr.ErrEncodingFailure, map[string]string{
			"address_type": string(addrType),
		})
	}
}
