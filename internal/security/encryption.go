// Package security implements the wallet security controls: password-based
// encryption of key material, password strength checks, spending policy,
// and rate limiting.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/scrtkit/walletcore/internal/log"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

// Encryption constants.
const (
	// SaltSize is the PBKDF2 salt length in bytes.
	SaltSize = 16

	// DefaultKDFIterations is the PBKDF2-HMAC-SHA256 iteration count
	// (OWASP recommendation).
	DefaultKDFIterations = 600_000

	// maxKDFIterations bounds the iteration count read from a blob, so a
	// crafted blob cannot stall decryption indefinitely.
	maxKDFIterations = 10_000_000

	// Encrypted layout: salt(16) | iterations(4, LE) | nonce(24) | ciphertext+tag.
	headerSize = SaltSize + 4
)

// ErrDecrypt is returned for every decryption failure. A wrong password and
// a corrupted blob are deliberately indistinguishable to the caller.
var ErrDecrypt = errors.New("decrypt failed: wrong password or corrupted data")

// ErrEmptyPassword is returned when encrypting with an empty password.
var ErrEmptyPassword = errors.New("password must not be empty")

// deriveKey derives a 32-byte symmetric key from the password and salt
// using PBKDF2-HMAC-SHA256.
func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, chacha20poly1305.KeySize, sha256.New)
}

// Encrypt encrypts plaintext with a password-derived key using
// XChaCha20-Poly1305. The aad bytes are authenticated but not encrypted;
// passing the owning wallet's fingerprint binds the blob to that wallet.
//
// Output layout: salt(16) | iterations(4, LE) | nonce(24) | ciphertext+tag.
func Encrypt(plaintext []byte, password string, aad []byte) ([]byte, error) {
	return encrypt(plaintext, password, aad, DefaultKDFIterations)
}

func encrypt(plaintext []byte, password string, aad []byte, iterations int) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey(password, salt, iterations)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, aad)

	out := make([]byte, 0, headerSize+len(nonce)+len(ciphertext))
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, uint32(iterations))
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	log.Security.Debug().
		Int("plaintext_len", len(plaintext)).
		Int("blob_len", len(out)).
		Int("kdf_iterations", iterations).
		Msg("data encrypted")

	return out, nil
}

// Decrypt decrypts data produced by Encrypt. The aad must match the value
// given at encryption time. Every failure mode returns ErrDecrypt.
func Decrypt(encrypted []byte, password string, aad []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	if len(encrypted) < headerSize+nonceSize+chacha20poly1305.Overhead {
		return nil, ErrDecrypt
	}

	salt := encrypted[:SaltSize]
	iterations := int(binary.LittleEndian.Uint32(encrypted[SaltSize:]))
	if iterations < 1 || iterations > maxKDFIterations {
		return nil, ErrDecrypt
	}

	nonce := encrypted[headerSize : headerSize+nonceSize]
	ciphertext := encrypted[headerSize+nonceSize:]

	key := deriveKey(password, salt, iterations)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, ErrDecrypt
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		log.Security.Warn().Msg("decryption failed")
		return nil, ErrDecrypt
	}

	return plaintext, nil
}

// EncryptBlob encrypts plaintext and returns the base64 blob string handed
// to persistence layers.
func EncryptBlob(plaintext []byte, password string, aad []byte) (string, error) {
	raw, err := Encrypt(plaintext, password, aad)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecryptBlob decodes and decrypts a base64 blob produced by EncryptBlob.
func DecryptBlob(blob, password string, aad []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, ErrDecrypt
	}
	return Decrypt(raw, password, aad)
}

// zeroBytes overwrites b with zeros.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
