package xpub

import (
	"strconv"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

// Branch selectors for the first derivation step.
const (
	// BranchReceive is the external chain (receiving addresses).
	BranchReceive uint32 = 0

	// BranchChange is the internal chain (change addresses).
	BranchChange uint32 = 1
)

// Session is a caller-owned handle over a parsed extended public key.
// It classifies, normalizes and parses the key once, then derives any number
// of child addresses from the cached master node. Branch nodes are derived
// lazily and cached; the public key caches of cached nodes are pre-computed
// so concurrent derivation from one session is race-free.
//
// A Session is intentionally not a process-wide cache: it lives exactly as
// long as its owner, so key material never outlives a request in a
// multi-tenant server.
type Session struct {
	info    KeyInfo
	network Network
	params  *chaincfg.Params
	master  *hdkeychain.ExtendedKey

	mu       sync.Mutex
	branches [2]*hdkeychain.ExtendedKey
}

// NewSession parses an extended public key using its declared network.
func NewSession(key string) (*Session, error) {
	return newSession(key, "")
}

// NewSessionWithNetwork parses an extended public key, overriding the
// network declared by its prefix. The address type is never overridden; it
// is intrinsic to the key.
func NewSessionWithNetwork(key string, network Network) (*Session, error) {
	if network != Mainnet && network != Testnet {
		return nil, xpuberr.WithDetails(xpuberr.ErrInvalidInput, map[string]string{
			"network": string(network),
		})
	}
	return newSession(key, network)
}

func newSession(key string, override Network) (*Session, error) {
	info, err := Classify(key)
	if err != nil {
		return nil, err
	}

	network := info.Network
	if override != "" {
		network = override
	}

	standard, err := NormalizeToStandard(key, network)
	if err != nil {
		return nil, err
	}

	master, err := hdkeychain.NewKeyFromString(standard)
	if err != nil {
		return nil, xpuberr.Wrap(xpuberr.ErrMalformedKey, "parsing extended key")
	}

	// The prefix table only admits public serializations, but a corrupted
	// payload could still carry private key data under a public version.
	if master.IsPrivate() {
		return nil, xpuberr.WithDetails(xpuberr.ErrMalformedKey, map[string]string{
			"reason": "key contains private material",
		})
	}

	// Force the lazy pubkey computation now so later concurrent Derive
	// calls on the shared master node don't race.
	if _, err := master.ECPubKey(); err != nil {
		return nil, xpuberr.Wrap(xpuberr.ErrMalformedKey, "parsing public key")
	}

	return &Session{
		info:    info,
		network: network,
		params:  network.Params(),
		master:  master,
	}, nil
}

// AddressType returns the address type declared by the key's prefix.
func (s *Session) AddressType() AddressType {
	return s.info.AddressType
}

// Network returns the effective network of the session (the key's declared
// network unless the caller overrode it).
func (s *Session) Network() Network {
	return s.network
}

// Derive derives the address at m/branch/index using the key's declared
// address type.
func (s *Session) Derive(branch, index uint32) (*DerivedAddress, error) {
	return s.derive(branch, index, s.info.AddressType)
}

// DeriveNativeSegwit derives the address at m/branch/index but encodes it as
// native segwit (P2WPKH) regardless of the key's declared type. The child
// key derivation is identical to Derive; only the encoding differs. This is
// a deliberate, separately named entry point: addresses it produces may not
// be scanned by the wallet that exported the key, so it must never be the
// default path.
func (s *Session) DeriveNativeSegwit(branch, index uint32) (*DerivedAddress, error) {
	return s.derive(branch, index, TypeNativeSegwit)
}

func (s *Session) derive(branch, index uint32, addrType AddressType) (*DerivedAddress, error) {
	pub, err := s.childKey(branch, index)
	if err != nil {
		return nil, err
	}

	address, err := encodeAddress(pub, addrType, s.params)
	if err != nil {
		return nil, err
	}

	return &DerivedAddress{
		Address:     address,
		Path:        DerivationPath(branch, index),
		Branch:      branch,
		Index:       index,
		AddressType: addrType,
		Network:     s.network,
	}, nil
}

// childKey performs the two sequential non-hardened derivation steps and
// returns the child's public key. Each call allocates fresh child nodes;
// nothing derived here is shared between calls.
func (s *Session) childKey(branch, index uint32) (*btcec.PublicKey, error) {
	if index >= hdkeychain.HardenedKeyStart {
		return nil, xpuberr.WithSuggestion(
			xpuberr.WithDetails(xpuberr.ErrInvalidDerivationPath, map[string]string{
				"index": strconv.FormatUint(uint64(index), 10),
			}),
			"indices at or above 2^31 require hardened derivation, which is impossible from a public key",
		)
	}

	branchKey, err := s.branchKey(branch)
	if err != nil {
		return nil, err
	}

	child, err := branchKey.Derive(index)
	if err != nil {
		// hdkeychain rejects the ~1 in 2^127 invalid child; per BIP32 the
		// caller proceeds to the next index.
		return nil, xpuberr.WithDetails(xpuberr.ErrInvalidDerivationPath, map[string]string{
			"index":  strconv.FormatUint(uint64(index), 10),
			"reason": "invalid child key, skip this index",
		})
	}

	pub, err := child.ECPubKey()
	if err != nil {
		return nil, xpuberr.Wrap(xpuberr.ErrEncodingFailure, "extracting child public key")
	}

	return pub, nil
}

// branchKey returns the cached node for the given branch, deriving and
// warming it on first use.
func (s *Session) branchKey(branch uint32) (*hdkeychain.ExtendedKey, error) {
	if branch > BranchChange {
		return nil, xpuberr.WithDetails(xpuberr.ErrInvalidDerivationPath, map[string]string{
			"branch": strconv.FormatUint(uint64(branch), 10),
			"reason": "branch must be 0 (receive) or 1 (change)",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.branches[branch] == nil {
		key, err := s.master.Derive(branch)
		if err != nil {
			return nil, xpuberr.WithDetails(xpuberr.ErrInvalidDerivationPath, map[string]string{
				"branch": strconv.FormatUint(uint64(branch), 10),
				"reason": "invalid child key",
			})
		}

		// Warm the pubkey cache so concurrent index derivations from this
		// shared node don't race on its lazy computation.
		if _, err := key.ECPubKey(); err != nil {
			return nil, xpuberr.Wrap(xpuberr.ErrMalformedKey, "warming branch public key")
		}

		s.branches[branch] = key
	}

	return s.branches[branch], nil
}
