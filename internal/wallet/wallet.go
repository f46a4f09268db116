package wallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/scrtkit/walletcore/internal/log"
	"github.com/scrtkit/walletcore/internal/security"
	"github.com/scrtkit/walletcore/pkg/types"
)

// State is the wallet key-material lifecycle state.
//
//	Uninitialized → Loaded (New/Open) ⇄ Locked (Lock/Unlock) → Destroyed
//
// Destroyed is terminal.
type State uint8

const (
	StateUninitialized State = iota
	StateLoaded
	StateLocked
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateLocked:
		return "locked"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Lifecycle errors.
var (
	ErrWalletLocked    = errors.New("wallet is locked")
	ErrWalletDestroyed = errors.New("wallet is destroyed")
)

// Wallet owns the key material for one derivation path. All operations
// serialize on a single lock, and key material exists in memory only
// while the wallet is in the loaded state. The mnemonic is kept encrypted
// in a blob bound to the wallet fingerprint via AEAD associated data, so
// blobs cannot be swapped between wallets.
type Wallet struct {
	mu          sync.Mutex
	state       State
	account     uint32
	index       uint32
	mnemonic    []byte // normalized phrase; non-nil only while loaded
	kp          *KeyPair
	blob        string
	addr        types.Address
	fingerprint string
}

// New creates a wallet from a mnemonic, deriving its key pair at
// m/44'/529'/account'/0/index and encrypting the mnemonic under the
// password. The password must pass the strength gate. Nothing is retained
// if any step fails.
func New(mnemonic, password string, account, index uint32) (*Wallet, error) {
	if err := security.ValidatePassword(password); err != nil {
		return nil, err
	}

	normalized := NormalizeMnemonic(mnemonic)
	kp, err := DeriveKeyPair(normalized, "", account, index)
	if err != nil {
		return nil, err
	}

	blob, err := security.EncryptBlob([]byte(normalized), password, []byte(kp.Fingerprint()))
	if err != nil {
		kp.Zero()
		return nil, err
	}

	w := &Wallet{
		state:       StateLoaded,
		account:     account,
		index:       index,
		mnemonic:    []byte(normalized),
		kp:          kp,
		blob:        blob,
		addr:        kp.Address(),
		fingerprint: kp.Fingerprint(),
	}

	log.Wallet.Info().
		Str("fingerprint", w.fingerprint).
		Uint32("account", account).
		Uint32("index", index).
		Msg("wallet created")

	return w, nil
}

// Open restores a wallet from an encrypted blob, its fingerprint, and the
// password. The fingerprint is non-secret metadata stored alongside the
// blob; decryption fails if blob and fingerprint do not belong together.
func Open(blob, fingerprint, password string, account, index uint32) (*Wallet, error) {
	plaintext, err := security.DecryptBlob(blob, password, []byte(fingerprint))
	if err != nil {
		return nil, err
	}

	kp, err := DeriveKeyPair(string(plaintext), "", account, index)
	if err != nil {
		zeroBytes(plaintext)
		return nil, err
	}
	if kp.Fingerprint() != fingerprint {
		kp.Zero()
		zeroBytes(plaintext)
		return nil, fmt.Errorf("blob fingerprint mismatch: derived %s", kp.Fingerprint())
	}

	w := &Wallet{
		state:       StateLoaded,
		account:     account,
		index:       index,
		mnemonic:    plaintext,
		kp:          kp,
		blob:        blob,
		addr:        kp.Address(),
		fingerprint: fingerprint,
	}

	log.Wallet.Info().Str("fingerprint", fingerprint).Msg("wallet opened")
	return w, nil
}

// State returns the current lifecycle state.
func (w *Wallet) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Address returns the wallet's account address. Valid until Destroy.
func (w *Wallet) Address() types.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addr
}

// Fingerprint returns the wallet's non-secret key identifier.
func (w *Wallet) Fingerprint() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fingerprint
}

// EncryptedBlob returns the encrypted mnemonic blob for hand-off to a
// persistence layer. Empty after Destroy.
func (w *Wallet) EncryptedBlob() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.blob
}

// Path returns the wallet's (account, index) derivation coordinates.
func (w *Wallet) Path() (account, index uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.account, w.index
}

// PublicKey returns the compressed public key. Fails when not loaded.
func (w *Wallet) PublicKey() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireLoaded(); err != nil {
		return nil, err
	}
	return w.kp.PublicKey(), nil
}

// Sign signs a message with the wallet's private key. Fails when the
// wallet is locked or destroyed.
func (w *Wallet) Sign(message []byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireLoaded(); err != nil {
		return nil, err
	}
	return w.kp.Sign(message)
}

// DeriveAddressAt derives the address for another (account, index) pair
// from this wallet's mnemonic. Fails when the wallet is not loaded.
func (w *Wallet) DeriveAddressAt(account, index uint32) (types.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireLoaded(); err != nil {
		return types.Address{}, err
	}
	return DeriveAddress(string(w.mnemonic), "", account, index)
}

// Lock zeroes in-memory key material, keeping only the encrypted blob.
// Locking a locked wallet is a no-op.
func (w *Wallet) Lock() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateDestroyed:
		return ErrWalletDestroyed
	case StateLocked:
		return nil
	}

	w.wipe()
	w.state = StateLocked
	log.Wallet.Info().Str("fingerprint", w.fingerprint).Msg("wallet locked")
	return nil
}

// Unlock decrypts the blob and re-derives the key pair. Unlocking a
// loaded wallet is a no-op.
func (w *Wallet) Unlock(password string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateDestroyed:
		return ErrWalletDestroyed
	case StateLoaded:
		return nil
	}

	plaintext, err := security.DecryptBlob(w.blob, password, []byte(w.fingerprint))
	if err != nil {
		return err
	}

	kp, err := DeriveKeyPair(string(plaintext), "", w.account, w.index)
	if err != nil {
		zeroBytes(plaintext)
		return err
	}

	w.mnemonic = plaintext
	w.kp = kp
	w.state = StateLoaded
	log.Wallet.Info().Str("fingerprint", w.fingerprint).Msg("wallet unlocked")
	return nil
}

// Destroy irreversibly wipes the wallet: key material is zeroed and the
// encrypted blob is dropped. Destroying twice is a no-op.
func (w *Wallet) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateDestroyed {
		return
	}

	w.wipe()
	w.blob = ""
	w.addr = types.Address{}
	w.state = StateDestroyed
	log.Wallet.Info().Str("fingerprint", w.fingerprint).Msg("wallet destroyed")
}

// requireLoaded checks the state for key-material operations.
// Caller must hold w.mu.
func (w *Wallet) requireLoaded() error {
	switch w.state {
	case StateLoaded:
		return nil
	case StateDestroyed:
		return ErrWalletDestroyed
	default:
		return ErrWalletLocked
	}
}

// wipe zeroes in-memory key material. Caller must hold w.mu.
func (w *Wallet) wipe() {
	if w.kp != nil {
		w.kp.Zero()
		w.kp = nil
	}
	zeroBytes(w.mnemonic)
	w.mnemonic = nil
}
