package wallet

import (
	"errors"
	"fmt"

	"github.com/scrtkit/walletcore/pkg/crypto"
	"github.com/scrtkit/walletcore/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// BIP-44 derivation path constants.
// Full path: m/44'/529'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeSecret is Secret Network's registered coin type (hardened).
	CoinTypeSecret = bip32.FirstHardenedChild + 529

	// ChangeExternal is the external (receiving) chain.
	ChangeExternal = 0
)

// ErrInvalidPathComponent is returned when an account or index would
// collide with the hardened-derivation bit.
var ErrInvalidPathComponent = errors.New("path component out of range")

// maxDegenerateRetries bounds the skip-forward on degenerate child keys.
// Hitting even one such index has probability ~2^-128 per BIP-32.
const maxDegenerateRetries = 4

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte BIP-39 seed via
// HMAC-SHA512("Bitcoin seed", seed).
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index. For hardened
// derivation, add bip32.FirstHardenedChild to the index.
//
// If the derived scalar at an index is degenerate (zero or beyond the
// curve order), derivation skips to index+1 as BIP-32 requires instead of
// emitting an unusable key.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	for attempt := 0; ; attempt++ {
		child, err := k.key.NewChildKey(index)
		if err == nil {
			return &HDKey{key: child}, nil
		}
		if !errors.Is(err, bip32.ErrInvalidPrivateKey) || attempt >= maxDegenerateRetries {
			return nil, fmt.Errorf("derive child %d: %w", index, err)
		}
		index++
	}
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the key at m/44'/529'/account'/0/index.
// account and index must be below the hardened boundary (2^31).
func (k *HDKey) DeriveAccount(account, index uint32) (*HDKey, error) {
	if account >= bip32.FirstHardenedChild {
		return nil, fmt.Errorf("%w: account %d", ErrInvalidPathComponent, account)
	}
	if index >= bip32.FirstHardenedChild {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidPathComponent, index)
	}
	return k.DerivePath(
		PurposeBIP44,
		CoinTypeSecret,
		bip32.FirstHardenedChild+account,
		ChangeExternal,
		index,
	)
}

// PrivateKeyBytes returns the raw 32-byte private key scalar.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	return k.key.PublicKey().Key
}

// Signer returns a crypto.PrivateKey from this HD key's private scalar.
// Returns an error if this is a public-only key.
func (k *HDKey) Signer() (*crypto.PrivateKey, error) {
	priv := k.PrivateKeyBytes()
	if priv == nil {
		return nil, errors.New("cannot create signer from public-only key")
	}
	return crypto.PrivateKeyFromBytes(priv)
}

// Address derives the Secret Network account address from this key's
// public key: bech32("secret", RIPEMD160(SHA256(pubkey))).
func (k *HDKey) Address() (types.Address, error) {
	return crypto.AddressFromPubKey(k.PublicKeyBytes())
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy (for watch-only use).
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}
