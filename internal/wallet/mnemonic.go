// Package wallet implements HD wallet key management for Secret Network:
// BIP-39 mnemonics, BIP-32/44 derivation at m/44'/529'/account'/0/index,
// and the key-material lifecycle.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scrtkit/walletcore/internal/log"
	"github.com/tyler-smith/go-bip39"
)

// ValidWordCounts are the BIP-39 phrase lengths accepted for generation
// and import.
var ValidWordCounts = []int{12, 15, 18, 21, 24}

// Mnemonic errors.
var (
	ErrInvalidWordCount = errors.New("invalid mnemonic word count")
	ErrUnknownWord      = errors.New("word not in BIP-39 wordlist")
	ErrBadChecksum      = errors.New("mnemonic checksum mismatch")
)

// GenerateMnemonic creates a new BIP-39 mnemonic with the given word count.
// Entropy is wordCount/3*32 bits from the system CSPRNG.
func GenerateMnemonic(wordCount int) (string, error) {
	if !isValidWordCount(wordCount) {
		return "", fmt.Errorf("%w: %d (want one of 12, 15, 18, 21, 24)", ErrInvalidWordCount, wordCount)
	}

	entropyBits := wordCount / 3 * 32
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}

	log.Wallet.Info().Int("word_count", wordCount).Msg("mnemonic generated")
	return mnemonic, nil
}

// NormalizeMnemonic lowercases the phrase and collapses all whitespace to
// single spaces.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// IsValidMnemonic reports whether the phrase is a valid BIP-39 mnemonic.
func IsValidMnemonic(mnemonic string) bool {
	return ValidateMnemonic(mnemonic) == nil
}

// ValidateMnemonic checks word count, wordlist membership, and the entropy
// checksum. Error messages reference word positions, never the words
// themselves.
func ValidateMnemonic(mnemonic string) error {
	normalized := NormalizeMnemonic(mnemonic)
	words := strings.Fields(normalized)

	if !isValidWordCount(len(words)) {
		return fmt.Errorf("%w: %d (want one of 12, 15, 18, 21, 24)", ErrInvalidWordCount, len(words))
	}

	for i, word := range words {
		if _, ok := bip39.GetWordIndex(word); !ok {
			return fmt.Errorf("%w: word %d of %d (check spelling)", ErrUnknownWord, i+1, len(words))
		}
	}

	if !bip39.IsMnemonicValid(normalized) {
		return fmt.Errorf("%w: check word order and spelling", ErrBadChecksum)
	}
	return nil
}

func isValidWordCount(n int) bool {
	for _, c := range ValidWordCounts {
		if n == c {
			return true
		}
	}
	return false
}
