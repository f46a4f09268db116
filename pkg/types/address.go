// Package types defines the shared value types for the wallet core.
package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressSize is the length of an address payload in bytes
// (RIPEMD-160 output).
const AddressSize = 20

// AddressHRP is the bech32 human-readable part for Secret Network
// account addresses.
const AddressHRP = "secret"

// ErrInvalidAddress is returned when an address string fails bech32,
// prefix, or length validation.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a 160-bit account address (hash of a compressed public key).
type Address [AddressSize]byte

// AddressFromBytes builds an Address from a 20-byte hash.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("%w: payload must be %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes a bech32 address string, verifying the checksum,
// the "secret" prefix, and the 20-byte payload length.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty string", ErrInvalidAddress)
	}
	hrp, data5, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != AddressHRP {
		return Address{}, fmt.Errorf("%w: prefix %q, want %q", ErrInvalidAddress, hrp, AddressHRP)
	}
	data, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return AddressFromBytes(data)
}

// String returns the bech32-encoded address ("secret1...").
func (a Address) String() string {
	data5, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		// Cannot happen for a fixed-size payload.
		return ""
	}
	s, err := bech32.Encode(AddressHRP, data5)
	if err != nil {
		return ""
	}
	return s
}

// Bytes returns a copy of the 20-byte address payload.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalJSON encodes the address as a bech32 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a bech32 string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
