package crypto

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignatureSize is the length of a compact r‖s signature.
const SignatureSize = 64

// Signing errors.
var (
	ErrKeyNotLoaded = errors.New("private key not loaded")
	ErrEmptyMessage = errors.New("message must not be empty")
)

// Signer signs messages with a secp256k1 private key using
// deterministic ECDSA (RFC 6979).
type Signer interface {
	// Sign produces a 64-byte compact low-S signature over SHA256(message).
	Sign(message []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key for ECDSA signing.
// The underlying scalar is guaranteed to be in (0, curve order).
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte scalar.
// It rejects zero and values at or above the curve order.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(b)
	if overflow || scalar.IsZero() {
		return nil, errors.New("private key scalar out of range")
	}
	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// Sign produces a deterministic (RFC 6979) ECDSA signature over
// SHA256(message), encoded as a 64-byte r‖s pair with low S.
func (pk *PrivateKey) Sign(message []byte) ([]byte, error) {
	if pk == nil || pk.key == nil {
		return nil, ErrKeyNotLoaded
	}
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}

	hash := Sha256(message)
	sig := ecdsa.Sign(pk.key, hash[:])

	out := make([]byte, SignatureSize)
	r := sig.R()
	s := sig.S()
	rb := r.Bytes()
	sb := s.Bytes()
	copy(out[:32], rb[:])
	copy(out[32:], sb[:])
	return out, nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	if pk != nil && pk.key != nil {
		pk.key.Zero()
	}
}

// VerifySignature checks a 64-byte compact ECDSA signature over
// SHA256(message) against a compressed public key. Only canonical low-S
// signatures are accepted. Returns false on any error.
func VerifySignature(pubKey, message, signature []byte) bool {
	if len(signature) != SignatureSize || len(message) == 0 {
		return false
	}
	pub, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false
	}

	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(signature[:32]) || r.IsZero() {
		return false
	}
	if s.SetByteSlice(signature[32:]) || s.IsZero() {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}

	hash := Sha256(message)
	return ecdsa.NewSignature(&r, &s).Verify(hash[:], pub)
}
