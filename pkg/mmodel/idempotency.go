package mmodel

import "time"

// IdempotencyStatus is the lifecycle of an idempotency record.
// Transitions: IN_PROGRESS -> COMPLETED | FAILED only; the terminal
// states never change again.
type IdempotencyStatus string

const (
	IdempotencyStatusInProgress IdempotencyStatus = "IN_PROGRESS"
	IdempotencyStatusCompleted  IdempotencyStatus = "COMPLETED"
	IdempotencyStatusFailed     IdempotencyStatus = "FAILED"
)

// IdempotencyRecord guards at-most-once financial effect for one
// (actor, txn_type, idempotency_key) scope. ScopeHash has a unique
// index; PayloadHash, not ResultJSON, is authoritative for conflict
// detection.
type IdempotencyRecord struct {
	RecordID   string            `json:"record_id"`
	ScopeHash  string            `json:"scope_hash"`
	PayloadHash string           `json:"payload_hash"`
	ResultJSON string            `json:"result_json,omitempty"`
	Status     IdempotencyStatus `json:"status"`
	JournalID  string            `json:"journal_id,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

// IdempotencyTTL is the spec-mandated retention window (§3: +90 days).
const IdempotencyTTL = 90 * 24 * time.Hour
