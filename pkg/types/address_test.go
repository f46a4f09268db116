package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

func testAddress() Address {
	var a Address
	for i := range a {
		a[i] = byte(i + 1)
	}
	return a
}

func TestAddress_RoundTrip(t *testing.T) {
	addr := testAddress()

	s := addr.String()
	if !strings.HasPrefix(s, AddressHRP+"1") {
		t.Fatalf("encoded address = %q, want prefix %q", s, AddressHRP+"1")
	}

	parsed, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress() error: %v", err)
	}
	if parsed != addr {
		t.Errorf("round trip mismatch: got %x, want %x", parsed[:], addr[:])
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	valid := testAddress().String()

	// An address with a foreign prefix but a valid checksum.
	data5, err := bech32.ConvertBits(testAddress().Bytes(), 8, 5, true)
	if err != nil {
		t.Fatalf("ConvertBits() error: %v", err)
	}
	cosmos, err := bech32.Encode("cosmos", data5)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	// A checksum mismatch: flip the final character.
	last := valid[len(valid)-1]
	flip := byte('q')
	if last == 'q' {
		flip = 'p'
	}
	corrupted := valid[:len(valid)-1] + string(flip)

	// A wrong payload length with a valid checksum and prefix.
	short5, err := bech32.ConvertBits(bytes.Repeat([]byte{0xab}, 10), 8, 5, true)
	if err != nil {
		t.Fatalf("ConvertBits() error: %v", err)
	}
	shortAddr, err := bech32.Encode(AddressHRP, short5)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not bech32", "secret1!!!"},
		{"wrong prefix", cosmos},
		{"bad checksum", corrupted},
		{"wrong length", shortAddr},
		{"missing separator", "secretqqqq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAddress(tt.in); err == nil {
				t.Errorf("ParseAddress(%q) should fail", tt.in)
			}
		})
	}
}

func TestAddress_IsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Error("zero address should report IsZero")
	}
	if testAddress().IsZero() {
		t.Error("non-zero address should not report IsZero")
	}
}

func TestAddress_JSON(t *testing.T) {
	addr := testAddress()

	data, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded Address
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded != addr {
		t.Errorf("JSON round trip mismatch: got %x, want %x", decoded[:], addr[:])
	}
}

func TestAddress_JSONEmpty(t *testing.T) {
	var decoded Address
	if err := json.Unmarshal([]byte(`""`), &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !decoded.IsZero() {
		t.Error("empty string should decode to zero address")
	}
}
