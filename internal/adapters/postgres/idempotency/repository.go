// Package idempotency implements C3's Postgres system of record for
// idempotency scopes, used outside the atomic commit bundle: the
// posting engine's replay lookup (made while it holds the posting-scope
// lock), and the forward-only repair operations of C10.
package idempotency

import (
	"context"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Repository is C3's standalone contract. InsertJournalBundle in
// internal/adapters/postgres/ledger writes the COMPLETED row as part
// of the same transaction as the journal it guards; everything here
// runs outside that transaction.
type Repository interface {
	// LookupByScopeHash returns the record for scopeHash, or nil, nil
	// if no record exists yet.
	LookupByScopeHash(ctx context.Context, scopeHash string) (*mmodel.IdempotencyRecord, error)

	// InsertInProgress claims rec.ScopeHash with a new row carrying
	// rec.Status as given (C10's backfill passes COMPLETED). Fails
	// with a typed conflict if scopeHash already has a row (unique
	// index on scope_hash).
	InsertInProgress(ctx context.Context, rec mmodel.IdempotencyRecord) error

	// UpdateResult transitions an IN_PROGRESS record to COMPLETED or
	// FAILED, attaching the resulting journal id and result payload.
	UpdateResult(ctx context.Context, scopeHash string, status mmodel.IdempotencyStatus, journalID, resultJSON string) error

	// ListStaleInProgress returns IN_PROGRESS records older than
	// olderThanSeconds, candidates for C10's CompleteStaleInProgress.
	ListStaleInProgress(ctx context.Context, olderThanSeconds int64) ([]mmodel.IdempotencyRecord, error)
}
