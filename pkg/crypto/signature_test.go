package crypto

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func testKey(t *testing.T) *PrivateKey {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	return key
}

func TestSignVerify_RoundTrip(t *testing.T) {
	key := testKey(t)
	message := []byte("test")

	sig, err := key.Sign(message)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if len(sig) != SignatureSize {
		t.Fatalf("signature length = %d, want %d", len(sig), SignatureSize)
	}

	if !VerifySignature(key.PublicKey(), message, sig) {
		t.Error("signature should verify")
	}
}

func TestSign_Deterministic(t *testing.T) {
	// RFC 6979: same key + message must always produce the same signature.
	key := testKey(t)
	message := []byte("deterministic nonce check")

	sig1, err := key.Sign(message)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	sig2, err := key.Sign(message)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if !bytes.Equal(sig1, sig2) {
		t.Error("signatures over identical input should be byte-identical")
	}
}

func TestSign_EmptyMessage(t *testing.T) {
	key := testKey(t)
	if _, err := key.Sign(nil); err == nil {
		t.Error("Sign(nil) should fail")
	}
}

func TestVerifySignature_Tampered(t *testing.T) {
	key := testKey(t)
	message := []byte("original message")

	sig, err := key.Sign(message)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if VerifySignature(key.PublicKey(), []byte("different message"), sig) {
		t.Error("signature should not verify against a different message")
	}

	tampered := make([]byte, len(sig))
	copy(tampered, sig)
	tampered[10] ^= 0xff
	if VerifySignature(key.PublicKey(), message, tampered) {
		t.Error("tampered signature should not verify")
	}

	other := testKey(t)
	if VerifySignature(other.PublicKey(), message, sig) {
		t.Error("signature should not verify against another key")
	}
}

func TestVerifySignature_RejectsHighS(t *testing.T) {
	key := testKey(t)
	message := []byte("canonical form only")

	sig, err := key.Sign(message)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	// Negate S mod the curve order: (r, N-s) is a valid ECDSA signature
	// for the same message but is not in canonical low-S form.
	var s secp256k1.ModNScalar
	if s.SetByteSlice(sig[32:]) {
		t.Fatal("signature S overflows curve order")
	}
	s.Negate()
	highS := s.Bytes()

	malleated := make([]byte, len(sig))
	copy(malleated[:32], sig[:32])
	copy(malleated[32:], highS[:])

	if VerifySignature(key.PublicKey(), message, malleated) {
		t.Error("high-S signature should be rejected")
	}
}

func TestVerifySignature_Malformed(t *testing.T) {
	key := testKey(t)
	sig, err := key.Sign([]byte("msg"))
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	tests := []struct {
		name    string
		pub     []byte
		message []byte
		sig     []byte
	}{
		{"empty signature", key.PublicKey(), []byte("msg"), nil},
		{"short signature", key.PublicKey(), []byte("msg"), sig[:40]},
		{"empty message", key.PublicKey(), nil, sig},
		{"bad pubkey", []byte{0x02, 0x01}, []byte("msg"), sig},
		{"zero signature", key.PublicKey(), []byte("msg"), make([]byte, SignatureSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifySignature(tt.pub, tt.message, tt.sig) {
				t.Error("malformed input should not verify")
			}
		})
	}
}

func TestPrivateKeyFromBytes(t *testing.T) {
	key := testKey(t)
	raw := key.Serialize()

	restored, err := PrivateKeyFromBytes(raw)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	if !bytes.Equal(restored.PublicKey(), key.PublicKey()) {
		t.Error("restored key should have the same public key")
	}
}

func TestPrivateKeyFromBytes_Invalid(t *testing.T) {
	// The curve order N, which is out of range for a private scalar.
	order := secp256k1.Params().N.Bytes()
	padded := make([]byte, 32)
	copy(padded[32-len(order):], order)

	tests := []struct {
		name string
		b    []byte
	}{
		{"empty", nil},
		{"short", make([]byte, 16)},
		{"zero scalar", make([]byte, 32)},
		{"curve order", padded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PrivateKeyFromBytes(tt.b); err == nil {
				t.Error("PrivateKeyFromBytes() should reject invalid scalar")
			}
		})
	}
}

func TestPrivateKey_Zero(t *testing.T) {
	key := testKey(t)
	key.Zero()

	raw := key.Serialize()
	for _, b := range raw {
		if b != 0 {
			t.Fatal("serialized key should be zero after Zero()")
		}
	}
}
