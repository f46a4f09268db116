package wallet

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGenerateMnemonicWordCounts(t *testing.T) {
	for _, wc := range ValidWordCounts {
		t.Run(fmt.Sprintf("%d words", wc), func(t *testing.T) {
			mnemonic, err := GenerateMnemonic(wc)
			if err != nil {
				t.Fatalf("GenerateMnemonic(%d): %v", wc, err)
			}
			words := strings.Fields(mnemonic)
			if len(words) != wc {
				t.Fatalf("got %d words, want %d", len(words), wc)
			}
			if err := ValidateMnemonic(mnemonic); err != nil {
				t.Fatalf("generated mnemonic failed validation: %v", err)
			}
		})
	}
}

func TestGenerateMnemonicInvalidWordCount(t *testing.T) {
	for _, wc := range []int{0, 1, 11, 13, 16, 23, 25, -12} {
		if _, err := GenerateMnemonic(wc); !errors.Is(err, ErrInvalidWordCount) {
			t.Errorf("GenerateMnemonic(%d): got %v, want ErrInvalidWordCount", wc, err)
		}
	}
}

func TestGenerateMnemonicUnique(t *testing.T) {
	a, err := GenerateMnemonic(24)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateMnemonic(24)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two generated mnemonics are identical")
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		wantErr  error
	}{
		{
			name:     "valid 12 words",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		},
		{
			name: "valid 24 words",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
				"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
		},
		{
			name:     "empty",
			mnemonic: "",
			wantErr:  ErrInvalidWordCount,
		},
		{
			name:     "wrong word count",
			mnemonic: "abandon abandon abandon",
			wantErr:  ErrInvalidWordCount,
		},
		{
			name:     "unknown word",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon zzzzz",
			wantErr:  ErrUnknownWord,
		},
		{
			name:     "bad checksum",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
			wantErr:  ErrBadChecksum,
		},
		{
			name:     "swapped words break checksum",
			mnemonic: "about abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
			wantErr:  ErrBadChecksum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMnemonic(tt.mnemonic)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMnemonicNeverEchoesWord(t *testing.T) {
	err := ValidateMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon supersecretword")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "supersecretword") {
		t.Fatalf("error leaks mnemonic word: %q", err)
	}
	if !strings.Contains(err.Error(), "12") {
		t.Fatalf("error should report word position, got %q", err)
	}
}

func TestNormalizeMnemonic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abandon about", "abandon about"},
		{"  Abandon   ABOUT \n", "abandon about"},
		{"abandon\tabout", "abandon about"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeMnemonic(tt.in); got != tt.want {
			t.Errorf("NormalizeMnemonic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidMnemonicCaseInsensitive(t *testing.T) {
	if !IsValidMnemonic("ABANDON abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon ABOUT") {
		t.Fatal("mixed-case mnemonic should validate after normalization")
	}
}
