package mmodel

import "time"

// WalletBalance is the materialized per-account, per-currency total.
// It is derivable truth: sum(CR) - sum(DR) over LedgerLine for the
// account. Only the posting engine writes it.
type WalletBalance struct {
	AccountID    string    `json:"account_id"`
	Currency     string    `json:"currency"`
	BalanceCents int64     `json:"balance_cents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OverdraftState is the lifecycle of an approved negative-balance
// allowance.
type OverdraftState string

const (
	OverdraftStatePending  OverdraftState = "PENDING"
	OverdraftStateActive   OverdraftState = "ACTIVE"
	OverdraftStateExpired  OverdraftState = "EXPIRED"
	OverdraftStateRevoked  OverdraftState = "REVOKED"
)

// OverdraftFacility extends the effective sufficient-funds threshold
// for an account while ACTIVE and within its time window.
type OverdraftFacility struct {
	AccountID     string         `json:"account_id"`
	LimitCents    int64          `json:"limit_cents"`
	State         OverdraftState `json:"state"`
	EffectiveFrom time.Time      `json:"effective_from"`
	ExpiresAt     time.Time      `json:"expires_at"`
}

// Effective reports whether the facility extends the account's
// overdraft allowance at instant now.
func (f OverdraftFacility) Effective(now time.Time) bool {
	if f.State != OverdraftStateActive {
		return false
	}

	if now.Before(f.EffectiveFrom) {
		return false
	}

	if !f.ExpiresAt.IsZero() && now.After(f.ExpiresAt) {
		return false
	}

	return true
}
