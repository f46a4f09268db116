package security

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckSpendingLimit(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		limit   int64
		wantErr error
	}{
		{"under limit", 5_000_000, 10_000_000, nil},
		{"at limit", 10_000_000, 10_000_000, nil},
		{"over limit", 15_000_000, 10_000_000, ErrSpendingLimitExceeded},
		{"zero amount", 0, 10_000_000, nil},
		{"negative amount", -1, 10_000_000, ErrNegativeAmount},
		{"negative limit", 100, -1, ErrNegativeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSpendingLimit(tt.amount, tt.limit)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CheckSpendingLimit() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckSpendingLimit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNeedsConfirmation(t *testing.T) {
	if NeedsConfirmation(500_000, 1_000_000) {
		t.Error("amount under threshold should not need confirmation")
	}
	if NeedsConfirmation(1_000_000, 1_000_000) {
		t.Error("amount at threshold should not need confirmation")
	}
	if !NeedsConfirmation(2_000_000, 1_000_000) {
		t.Error("amount over threshold should need confirmation")
	}
}

func TestConfirmationMessage(t *testing.T) {
	msg := ConfirmationMessage(2_500_000, "uscrt", "secret1recipient")

	for _, want := range []string{"2,500,000", "uscrt", "secret1recipient"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should contain %q", msg, want)
		}
	}
}

func TestManager_ValidateTransaction(t *testing.T) {
	m, err := NewManager(10_000_000, 1_000_000, "uscrt")
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	// Small transfer: allowed, no confirmation.
	d, err := m.ValidateTransaction(500_000, "secret1recipient")
	if err != nil {
		t.Fatalf("ValidateTransaction() error: %v", err)
	}
	if !d.Allowed || d.ConfirmationRequired {
		t.Errorf("small transfer decision = %+v", d)
	}

	// Above the threshold: allowed with confirmation prompt.
	d, err = m.ValidateTransaction(2_000_000, "secret1recipient")
	if err != nil {
		t.Fatalf("ValidateTransaction() error: %v", err)
	}
	if !d.Allowed || !d.ConfirmationRequired {
		t.Errorf("large transfer decision = %+v", d)
	}
	if !strings.Contains(d.Message, "secret1recipient") {
		t.Errorf("confirmation message %q should name the recipient", d.Message)
	}

	// Above the spending limit: denied.
	if _, err := m.ValidateTransaction(15_000_000, "secret1recipient"); !errors.Is(err, ErrSpendingLimitExceeded) {
		t.Errorf("over-limit error = %v, want ErrSpendingLimitExceeded", err)
	}
}

func TestManager_Defaults(t *testing.T) {
	m, err := NewManager(0, 0, "")
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	limit, threshold := m.Limits()
	if limit != DefaultSpendingLimit {
		t.Errorf("spending limit = %d, want default %d", limit, DefaultSpendingLimit)
	}
	if threshold != DefaultConfirmationThreshold {
		t.Errorf("confirmation threshold = %d, want default %d", threshold, DefaultConfirmationThreshold)
	}
}

func TestManager_RejectsNegativeLimits(t *testing.T) {
	if _, err := NewManager(-1, 0, ""); err == nil {
		t.Error("NewManager() should reject a negative spending limit")
	}
	if _, err := NewManager(0, -1, ""); err == nil {
		t.Error("NewManager() should reject a negative threshold")
	}

	m, err := NewManager(0, 0, "")
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	if err := m.UpdateSpendingLimit(-5); err == nil {
		t.Error("UpdateSpendingLimit() should reject negative values")
	}
	if err := m.UpdateConfirmationThreshold(-5); err == nil {
		t.Error("UpdateConfirmationThreshold() should reject negative values")
	}
}

func TestManager_UpdateAndReset(t *testing.T) {
	m, err := NewManager(0, 0, "")
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	if err := m.UpdateSpendingLimit(50_000_000); err != nil {
		t.Fatalf("UpdateSpendingLimit() error: %v", err)
	}
	if err := m.UpdateConfirmationThreshold(5_000_000); err != nil {
		t.Fatalf("UpdateConfirmationThreshold() error: %v", err)
	}

	limit, threshold := m.Limits()
	if limit != 50_000_000 || threshold != 5_000_000 {
		t.Errorf("limits = (%d, %d) after update", limit, threshold)
	}

	m.ResetDefaults()
	limit, threshold = m.Limits()
	if limit != DefaultSpendingLimit || threshold != DefaultConfirmationThreshold {
		t.Errorf("limits = (%d, %d) after reset", limit, threshold)
	}
}
