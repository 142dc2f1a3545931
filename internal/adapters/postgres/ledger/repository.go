// Package ledger implements C2, the journal and balance store: the
// single place that ever writes ledger_journals, ledger_lines, and
// wallet_balances. Its atomic bundle also writes a posting's events,
// audit_log row, and idempotency_records row; events and idempotency
// records created outside a posting go through the event and
// idempotency adapters instead.
package ledger

import (
	"context"
	"time"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// BalanceDelta is one account's signed change to apply atomically with
// a journal commit. Positive deltas credit the account, negative
// deltas debit it.
type BalanceDelta struct {
	AccountID string
	Currency  string
	DeltaCents int64
}

// Bundle is everything spec §4.2's insertJournalBundle commits in one
// transaction: the journal, its lines, balance deltas, the two
// postings events, the audit row, and the idempotency record.
type Bundle struct {
	Journal           mmodel.LedgerJournal
	Lines             []mmodel.LedgerLine
	BalanceDeltas     []BalanceDelta
	Events            []mmodel.Event
	Audit             mmodel.AuditLog
	IdempotencyRecord mmodel.IdempotencyRecord
}

// JournalWithLines pairs a journal with its lines for ordered
// integrity walks.
type JournalWithLines struct {
	Journal mmodel.LedgerJournal
	Lines   []mmodel.LedgerLine
}

// Repository is C2's contract (spec §4.2).
type Repository interface {
	// InsertJournalBundle commits everything in Bundle atomically.
	// Any failure aborts the whole bundle; ledger tables are
	// append-only, so a successful call never updates or deletes an
	// existing row.
	InsertJournalBundle(ctx context.Context, bundle Bundle) error

	// GetBalance returns the materialized balance in cents. A missing
	// row is treated as zero, never as an error.
	GetBalance(ctx context.Context, accountID, currency string) (int64, error)

	// ListLines returns every line of journalID, ordered by created_at
	// then line_id.
	ListLines(ctx context.Context, journalID string) ([]mmodel.LedgerLine, error)

	// GetJournalByIdempotencyKey looks up a previously posted journal
	// by its idempotency key, used by replay/debug tooling. Returns
	// nil, nil when not found.
	GetJournalByIdempotencyKey(ctx context.Context, key string) (*mmodel.LedgerJournal, error)

	// GetJournal fetches one journal by id. Returns nil, nil when not
	// found.
	GetJournal(ctx context.Context, journalID string) (*mmodel.LedgerJournal, error)

	// GetLatestHash returns the hash of the most recently inserted
	// journal, or "" if the ledger is empty (genesis).
	GetLatestHash(ctx context.Context) (string, error)

	// IterateJournalsOrdered returns every journal created in
	// [from, to), in (created_at ASC, id ASC) order, with lines
	// attached — the order the integrity verifier depends on.
	IterateJournalsOrdered(ctx context.Context, from, to time.Time) ([]JournalWithLines, error)

	// ListAccountsWithActivity returns every (account_id, currency)
	// pair that has at least one ledger line, for reconciliation scans.
	ListAccountsWithActivity(ctx context.Context) ([]BalanceKey, error)

	// SumLinesForAccount returns sum(CR) - sum(DR) for accountID in
	// currency — the derivable truth reconciliation compares against.
	SumLinesForAccount(ctx context.Context, accountID, currency string) (int64, error)
}

// BalanceKey identifies one account/currency pair.
type BalanceKey struct {
	AccountID string
	Currency  string
}
