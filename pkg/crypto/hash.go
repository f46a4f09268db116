// Package crypto provides the hashing and signing primitives for the
// wallet core.
package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/scrtkit/walletcore/pkg/types"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required by the address format
)

// CompressedPubKeySize is the length of a compressed secp256k1 public key.
const CompressedPubKeySize = 33

// Sha256 computes a SHA-256 hash of the input data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Hash160 computes RIPEMD160(SHA256(data)), the 20-byte hash used for
// account addresses.
func Hash160(data []byte) [types.AddressSize]byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	var out [types.AddressSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// AddressFromPubKey derives the account address from a 33-byte compressed
// public key: bech32 payload = RIPEMD160(SHA256(pubkey)).
func AddressFromPubKey(pubKey []byte) (types.Address, error) {
	if len(pubKey) != CompressedPubKeySize {
		return types.Address{}, fmt.Errorf("public key must be %d bytes, got %d", CompressedPubKeySize, len(pubKey))
	}
	return types.Address(Hash160(pubKey)), nil
}

// Fingerprint returns a short stable identifier for a derived key:
// the first 8 bytes of BLAKE3(address ‖ account ‖ index), hex-encoded.
// It is derived from public data only and is safe to log.
func Fingerprint(addr types.Address, account, index uint32) string {
	var buf [types.AddressSize + 8]byte
	copy(buf[:], addr[:])
	binary.BigEndian.PutUint32(buf[types.AddressSize:], account)
	binary.BigEndian.PutUint32(buf[types.AddressSize+4:], index)
	sum := blake3.Sum256(buf[:])
	return hex.EncodeToString(sum[:8])
}
