package mmodel

import "time"

// TxnType enumerates the transaction types the core posts (spec.md §3).
type TxnType string

const (
	TxnTypeDeposit          TxnType = "DEPOSIT"
	TxnTypeWithdrawal       TxnType = "WITHDRAWAL"
	TxnTypeP2P              TxnType = "P2P"
	TxnTypePayment          TxnType = "PAYMENT"
	TxnTypeB2B              TxnType = "B2B"
	TxnTypeFloatTopup       TxnType = "FLOAT_TOPUP"
	TxnTypeFloatWithdrawal  TxnType = "FLOAT_WITHDRAWAL"
	TxnTypeReversal         TxnType = "REVERSAL"
	TxnTypeAdjustment       TxnType = "ADJUSTMENT"
)

// JournalState is the lifecycle state of a committed journal.
// IN_PROGRESS exists only on the idempotency record, never here.
type JournalState string

const (
	JournalStatePosted   JournalState = "POSTED"
	JournalStateReversed JournalState = "REVERSED"
)

// EntryType is the debit/credit side of a ledger line.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DR"
	EntryTypeCredit EntryType = "CR"
)

// LedgerJournal is an immutable, hash-chained append-only record of one
// balanced posting.
type LedgerJournal struct {
	JournalID        string       `json:"journal_id"`
	TxnType          TxnType      `json:"txn_type"`
	Currency         string       `json:"currency"`
	CorrelationID    string       `json:"correlation_id"`
	IdempotencyKey   string       `json:"idempotency_key"`
	State            JournalState `json:"state"`
	InitiatorActorID string       `json:"initiator_actor_id"`
	PrevHash         string       `json:"prev_hash"`
	Hash             string       `json:"hash"`
	Description      string       `json:"description,omitempty"`
	MetadataID       *string      `json:"metadata_id,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// LedgerLine is one immutable debit or credit leg of a journal.
type LedgerLine struct {
	LineID      string    `json:"line_id"`
	JournalID   string    `json:"journal_id"`
	AccountID   string    `json:"account_id"`
	EntryType   EntryType `json:"entry_type"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
