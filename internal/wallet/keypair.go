package wallet

import (
	"fmt"

	"github.com/scrtkit/walletcore/internal/log"
	"github.com/scrtkit/walletcore/pkg/crypto"
	"github.com/scrtkit/walletcore/pkg/types"
)

// KeyPair is a secp256k1 key derived at a BIP-44 path, together with its
// address and a loggable fingerprint. The private scalar never leaves
// this struct except through Sign; call Zero when the key is no longer
// needed.
type KeyPair struct {
	priv        *crypto.PrivateKey
	pub         []byte
	addr        types.Address
	fingerprint string
	account     uint32
	index       uint32
}

// DeriveKeyPair derives the key pair at m/44'/529'/account'/0/index from
// a mnemonic and optional BIP-39 passphrase. Deriving is CPU-bound (2048
// PBKDF2 iterations for the seed); keep it off latency-sensitive paths.
func DeriveKeyPair(mnemonic, passphrase string, account, index uint32) (*KeyPair, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(seed)

	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	child, err := master.DeriveAccount(account, index)
	if err != nil {
		return nil, err
	}

	priv, err := child.Signer()
	if err != nil {
		return nil, fmt.Errorf("derive signer: %w", err)
	}

	pub := priv.PublicKey()
	addr, err := crypto.AddressFromPubKey(pub)
	if err != nil {
		priv.Zero()
		return nil, err
	}

	kp := &KeyPair{
		priv:        priv,
		pub:         pub,
		addr:        addr,
		fingerprint: crypto.Fingerprint(addr, account, index),
		account:     account,
		index:       index,
	}

	log.Wallet.Debug().
		Str("fingerprint", kp.fingerprint).
		Uint32("account", account).
		Uint32("index", index).
		Msg("key pair derived")

	return kp, nil
}

// DeriveAddress derives only the address at m/44'/529'/account'/0/index,
// wiping the intermediate key material before returning.
func DeriveAddress(mnemonic, passphrase string, account, index uint32) (types.Address, error) {
	kp, err := DeriveKeyPair(mnemonic, passphrase, account, index)
	if err != nil {
		return types.Address{}, err
	}
	defer kp.Zero()
	return kp.addr, nil
}

// Sign produces a deterministic ECDSA signature over the message.
func (kp *KeyPair) Sign(message []byte) ([]byte, error) {
	if kp.priv == nil {
		return nil, crypto.ErrKeyNotLoaded
	}
	return kp.priv.Sign(message)
}

// PublicKey returns a copy of the compressed 33-byte public key.
func (kp *KeyPair) PublicKey() []byte {
	out := make([]byte, len(kp.pub))
	copy(out, kp.pub)
	return out
}

// Address returns the derived account address.
func (kp *KeyPair) Address() types.Address {
	return kp.addr
}

// Fingerprint returns the short key identifier. It contains no secret
// material and is safe to log or use as AEAD associated data.
func (kp *KeyPair) Fingerprint() string {
	return kp.fingerprint
}

// Path returns the (account, index) coordinates this key was derived at.
func (kp *KeyPair) Path() (account, index uint32) {
	return kp.account, kp.index
}

// Zero wipes the private scalar. The key pair is unusable afterwards.
func (kp *KeyPair) Zero() {
	if kp.priv != nil {
		kp.priv.Zero()
		kp.priv = nil
	}
}

// zeroBytes overwrites b with zeros.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
