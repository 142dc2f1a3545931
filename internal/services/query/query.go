// Package query implements the read-only lookups the HTTP layer and
// operator tooling need: balance and journal retrieval straight from
// C2's store, with no posting-engine concerns (locking, idempotency,
// hashing) in the path.
package query

import (
	"context"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// UseCase is the query service's single dependency.
type UseCase struct {
	LedgerRepo ledger.Repository
}

// GetBalance returns the materialized balance for accountID in
// currency, in cents.
func (uc *UseCase) GetBalance(ctx context.Context, accountID, currency string) (int64, error) {
	if accountID == "" {
		return 0, merr.MissingRequiredField("account_id")
	}

	if currency == "" {
		return 0, merr.MissingRequiredField("currency")
	}

	balance, err := uc.LedgerRepo.GetBalance(ctx, accountID, currency)
	if err != nil {
		return 0, merr.Internal(err)
	}

	return balance, nil
}

// GetJournal returns one journal with its lines, or a typed NotFound.
func (uc *UseCase) GetJournal(ctx context.Context, journalID string) (*mmodel.LedgerJournal, []mmodel.LedgerLine, error) {
	if journalID == "" {
		return nil, nil, merr.MissingRequiredField("journal_id")
	}

	journal, err := uc.LedgerRepo.GetJournal(ctx, journalID)
	if err != nil {
		return nil, nil, merr.Internal(err)
	}

	if journal == nil {
		return nil, nil, merr.NotFound("ledger_journal", journalID)
	}

	lines, err := uc.LedgerRepo.ListLines(ctx, journalID)
	if err != nil {
		return nil, nil, merr.Internal(err)
	}

	return journal, lines, nil
}

// GetJournalByIdempotencyKey supports client-side replay debugging
// (spec §6's contract never exposes this directly, but operator
// tooling built on the same store needs it).
func (uc *UseCase) GetJournalByIdempotencyKey(ctx context.Context, key string) (*mmodel.LedgerJournal, error) {
	if key == "" {
		return nil, merr.MissingRequiredField("idempotency_key")
	}

	journal, err := uc.LedgerRepo.GetJournalByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, merr.Internal(err)
	}

	if journal == nil {
		return nil, merr.NotFound("ledger_journal", key)
	}

	return journal, nil
}
