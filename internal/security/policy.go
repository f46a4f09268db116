package security

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/scrtkit/walletcore/internal/log"
)

// Default security limits, in base units (uscrt).
const (
	DefaultSpendingLimit         int64 = 10_000_000 // 10 SCRT
	DefaultConfirmationThreshold int64 = 1_000_000  // 1 SCRT
	DefaultDenom                       = "uscrt"
)

// Policy errors.
var (
	ErrNegativeAmount        = errors.New("amount must not be negative")
	ErrNegativeLimit         = errors.New("limit must not be negative")
	ErrSpendingLimitExceeded = errors.New("amount exceeds spending limit")
)

// CheckSpendingLimit verifies amount against limit.
func CheckSpendingLimit(amount, limit int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeAmount, amount)
	}
	if limit < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeLimit, limit)
	}
	if amount > limit {
		log.Security.Warn().
			Int64("amount", amount).
			Int64("limit", limit).
			Int64("excess", amount-limit).
			Msg("spending limit exceeded")
		return fmt.Errorf("%w: %d over limit %d", ErrSpendingLimitExceeded, amount, limit)
	}
	return nil
}

// NeedsConfirmation reports whether a transaction of the given amount
// requires explicit user confirmation.
func NeedsConfirmation(amount, threshold int64) bool {
	return amount > threshold
}

// ConfirmationMessage formats the prompt shown when a transaction exceeds
// the confirmation threshold.
func ConfirmationMessage(amount int64, denom, recipient string) string {
	return fmt.Sprintf(
		"Please confirm transaction:\n  Amount: %s %s\n  Recipient: %s\n\nThis transaction exceeds the confirmation threshold.",
		humanize.Comma(amount), denom, recipient,
	)
}

// Decision is the outcome of validating a transaction against the policy.
type Decision struct {
	Allowed              bool
	ConfirmationRequired bool
	Message              string
}

// Manager holds the runtime-mutable spending policy. All methods are safe
// for concurrent use.
type Manager struct {
	mu                    sync.RWMutex
	spendingLimit         int64
	confirmationThreshold int64
	denom                 string
}

// NewManager creates a policy manager. Zero-value limits fall back to the
// package defaults; negative values are rejected.
func NewManager(spendingLimit, confirmationThreshold int64, denom string) (*Manager, error) {
	if spendingLimit < 0 || confirmationThreshold < 0 {
		return nil, fmt.Errorf("%w: spending_limit=%d confirmation_threshold=%d",
			ErrNegativeLimit, spendingLimit, confirmationThreshold)
	}
	if spendingLimit == 0 {
		spendingLimit = DefaultSpendingLimit
	}
	if confirmationThreshold == 0 {
		confirmationThreshold = DefaultConfirmationThreshold
	}
	if denom == "" {
		denom = DefaultDenom
	}

	log.Security.Info().
		Int64("spending_limit", spendingLimit).
		Int64("confirmation_threshold", confirmationThreshold).
		Msg("security policy initialized")

	return &Manager{
		spendingLimit:         spendingLimit,
		confirmationThreshold: confirmationThreshold,
		denom:                 denom,
	}, nil
}

// ValidateTransaction checks the amount against the spending limit and
// confirmation threshold. The returned Decision carries the confirmation
// prompt when one is required.
func (m *Manager) ValidateTransaction(amount int64, recipient string) (Decision, error) {
	m.mu.RLock()
	limit := m.spendingLimit
	threshold := m.confirmationThreshold
	denom := m.denom
	m.mu.RUnlock()

	if err := CheckSpendingLimit(amount, limit); err != nil {
		return Decision{}, err
	}

	d := Decision{Allowed: true}
	if NeedsConfirmation(amount, threshold) {
		d.ConfirmationRequired = true
		d.Message = ConfirmationMessage(amount, denom, recipient)
	}
	return d, nil
}

// UpdateSpendingLimit replaces the spending limit.
func (m *Manager) UpdateSpendingLimit(limit int64) error {
	if limit < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeLimit, limit)
	}
	m.mu.Lock()
	old := m.spendingLimit
	m.spendingLimit = limit
	m.mu.Unlock()

	log.Security.Info().
		Int64("old_limit", old).
		Int64("new_limit", limit).
		Msg("spending limit updated")
	return nil
}

// UpdateConfirmationThreshold replaces the confirmation threshold.
func (m *Manager) UpdateConfirmationThreshold(threshold int64) error {
	if threshold < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeLimit, threshold)
	}
	m.mu.Lock()
	old := m.confirmationThreshold
	m.confirmationThreshold = threshold
	m.mu.Unlock()

	log.Security.Info().
		Int64("old_threshold", old).
		Int64("new_threshold", threshold).
		Msg("confirmation threshold updated")
	return nil
}

// ResetDefaults restores the package default limits.
func (m *Manager) ResetDefaults() {
	m.mu.Lock()
	m.spendingLimit = DefaultSpendingLimit
	m.confirmationThreshold = DefaultConfirmationThreshold
	m.mu.Unlock()

	log.Security.Info().Msg("security limits reset to defaults")
}

// Limits returns the current spending limit and confirmation threshold.
func (m *Manager) Limits() (spendingLimit, confirmationThreshold int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spendingLimit, m.confirmationThreshold
}
