// Package keystore persists encrypted wallet records. Records hold only
// non-secret metadata plus the encrypted mnemonic blob; the plaintext
// mnemonic never reaches this layer.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/scrtkit/walletcore/internal/log"
	"github.com/scrtkit/walletcore/internal/storage"
)

const entryVersion = 1

// keyPrefix namespaces wallet records in the backing store.
var keyPrefix = []byte("wallet/")

var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
)

// Entry is the stored record for one wallet.
type Entry struct {
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Account     uint32    `json:"account"`
	Index       uint32    `json:"index"`
	Fingerprint string    `json:"fingerprint"`
	Blob        string    `json:"blob"`
}

// Keystore stores wallet entries keyed by name.
type Keystore struct {
	db storage.DB
}

// New creates a keystore on the given backing store.
func New(db storage.DB) *Keystore {
	return &Keystore{db: db}
}

func entryKey(name string) []byte {
	return append(append([]byte{}, keyPrefix...), name...)
}

// Create stores a new wallet entry. Fails if the name is taken.
func (ks *Keystore) Create(entry Entry) error {
	if entry.Name == "" {
		return errors.New("wallet name must not be empty")
	}
	if entry.Blob == "" {
		return errors.New("wallet blob must not be empty")
	}

	key := entryKey(entry.Name)
	exists, err := ks.db.Has(key)
	if err != nil {
		return fmt.Errorf("check wallet %q: %w", entry.Name, err)
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrWalletExists, entry.Name)
	}

	entry.Version = entryVersion
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal wallet entry: %w", err)
	}
	if err := ks.db.Put(key, data); err != nil {
		return fmt.Errorf("store wallet %q: %w", entry.Name, err)
	}

	log.Keystore.Info().
		Str("name", entry.Name).
		Str("fingerprint", entry.Fingerprint).
		Msg("wallet entry created")
	return nil
}

// Get returns the entry for a wallet name.
func (ks *Keystore) Get(name string) (Entry, error) {
	data, err := ks.db.Get(entryKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load wallet %q: %w", name, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode wallet %q: %w", name, err)
	}
	return entry, nil
}

// List returns all entries sorted by name.
func (ks *Keystore) List() ([]Entry, error) {
	var entries []Entry
	err := ks.db.ForEach(keyPrefix, func(key, value []byte) error {
		var entry Entry
		if err := json.Unmarshal(value, &entry); err != nil {
			return fmt.Errorf("decode wallet entry %q: %w", key, err)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Delete removes a wallet entry.
func (ks *Keystore) Delete(name string) error {
	key := entryKey(name)
	exists, err := ks.db.Has(key)
	if err != nil {
		return fmt.Errorf("check wallet %q: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err := ks.db.Delete(key); err != nil {
		return fmt.Errorf("delete wallet %q: %w", name, err)
	}

	log.Keystore.Info().Str("name", name).Msg("wallet entry deleted")
	return nil
}
