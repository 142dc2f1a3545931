// Package repair implements C10's two safe, forward-only operations.
// Both are structurally incapable of touching ledger_journals or
// ledger_lines: UseCase's ledger dependency is LedgerReader, a
// two-method interface with no insert/mutate method on it at all, so
// there is no reference in this package capable of writing either
// table, regardless of what concrete repository is wired in.
package repair

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/idempotency"
	"github.com/meridianpay/ledgercore/pkg/hashchain"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mlog"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// LedgerReader is deliberately missing InsertJournalBundle — repair
// reads journals and lines to reconstruct receipts, and must never be
// able to write them.
type LedgerReader interface {
	GetJournal(ctx context.Context, journalID string) (*mmodel.LedgerJournal, error)
	ListLines(ctx context.Context, journalID string) ([]mmodel.LedgerLine, error)
}

// EventEmitter raises REPAIR_EXECUTED / STATE_REPAIRED; satisfied by
// internal/services/eventbus.
type EventEmitter interface {
	Emit(ctx context.Context, ev mmodel.Event) error
}

// DefaultStaleCutoff is spec §4.10's default stale-IN_PROGRESS window.
const DefaultStaleCutoff = 5 * time.Minute

// UseCase runs repair operations.
type UseCase struct {
	LedgerReader    LedgerReader
	IdempotencyRepo idempotency.Repository
	Events          EventEmitter
	Logger          mlog.Logger

	// StaleCutoff overrides DefaultStaleCutoff when non-zero.
	StaleCutoff time.Duration
}

// reconstructedReceipt mirrors internal/services/command.Receipt's
// wire shape exactly, so a backfilled result_json is indistinguishable
// from one the posting engine itself produced.
type reconstructedReceipt struct {
	JournalID     string              `json:"journal_id"`
	State         mmodel.JournalState `json:"state"`
	Entries       []mmodel.LedgerLine `json:"entries"`
	CreatedAt     time.Time           `json:"created_at"`
	CorrelationID string              `json:"correlation_id"`
	TxnType       mmodel.TxnType      `json:"txn_type"`
	Currency      string              `json:"currency"`
}

// BackfillIdempotencyRecord implements spec §4.10's first operation:
// for a POSTED journal with no idempotency record, recompute
// scope_hash and store a COMPLETED record reconstructing the receipt
// from the journal and its lines.
func (uc *UseCase) BackfillIdempotencyRecord(ctx context.Context, journalID, actorType, actorID string) (*mmodel.IdempotencyRecord, error) {
	if journalID == "" {
		return nil, merr.MissingRequiredField("journal_id")
	}

	journal, err := uc.LedgerReader.GetJournal(ctx, journalID)
	if err != nil {
		return nil, merr.Internal(err)
	}

	if journal == nil {
		return nil, merr.NotFound("ledger_journal", journalID)
	}

	if journal.State != mmodel.JournalStatePosted {
		return nil, merr.NotFound("posted_ledger_journal", journalID)
	}

	scopeHash := hashchain.ScopeHash(actorType, actorID, string(journal.TxnType), journal.IdempotencyKey)

	existing, err := uc.IdempotencyRepo.LookupByScopeHash(ctx, scopeHash)
	if err != nil {
		return nil, merr.Internal(err)
	}

	if existing != nil {
		return nil, merr.NotFound("missing_idempotency_record", scopeHash)
	}

	lines, err := uc.LedgerReader.ListLines(ctx, journalID)
	if err != nil {
		return nil, merr.Internal(err)
	}

	receipt := reconstructedReceipt{
		JournalID:     journal.JournalID,
		State:         journal.State,
		Entries:       lines,
		CreatedAt:     journal.CreatedAt,
		CorrelationID: journal.CorrelationID,
		TxnType:       journal.TxnType,
		Currency:      journal.Currency,
	}

	resultJSON, err := json.Marshal(receipt)
	if err != nil {
		return nil, merr.Internal(err)
	}

	payloadHash, err := hashchain.PayloadHash(journal.Currency, journal.Description, entryFingerprints(lines))
	if err != nil {
		return nil, merr.Internal(err)
	}

	rec := mmodel.IdempotencyRecord{
		RecordID:    uuid.NewString(),
		ScopeHash:   scopeHash,
		PayloadHash: payloadHash,
		ResultJSON:  string(resultJSON),
		Status:      mmodel.IdempotencyStatusCompleted,
		JournalID:   journal.JournalID,
		CreatedAt:   journal.CreatedAt,
		ExpiresAt:   journal.CreatedAt.Add(mmodel.IdempotencyTTL),
	}

	// rec.Status is already COMPLETED; InsertInProgress just means
	// "insert a fresh row claiming scope_hash" regardless of the
	// status it carries — there is no separate "insert completed" call.
	if err := uc.IdempotencyRepo.InsertInProgress(ctx, rec); err != nil {
		return nil, merr.Internal(err)
	}

	uc.emit(ctx, mmodel.EventRepairExecuted, "idempotency_record", rec.RecordID, actorType, actorID)

	return &rec, nil
}

// CompleteStaleInProgress implements spec §4.10's second operation:
// for IN_PROGRESS records older than the stale cutoff whose referenced
// journal exists and is POSTED, rewrite result_json.state = POSTED and
// status = COMPLETED.
func (uc *UseCase) CompleteStaleInProgress(ctx context.Context, actorType, actorID string) ([]mmodel.IdempotencyRecord, error) {
	cutoff := uc.StaleCutoff
	if cutoff == 0 {
		cutoff = DefaultStaleCutoff
	}

	stale, err := uc.IdempotencyRepo.ListStaleInProgress(ctx, int64(cutoff.Seconds()))
	if err != nil {
		return nil, merr.Internal(err)
	}

	var repaired []mmodel.IdempotencyRecord

	for _, rec := range stale {
		if rec.JournalID == "" {
			continue
		}

		journal, err := uc.LedgerReader.GetJournal(ctx, rec.JournalID)
		if err != nil {
			return repaired, merr.Internal(err)
		}

		if journal == nil || journal.State != mmodel.JournalStatePosted {
			continue
		}

		lines, err := uc.LedgerReader.ListLines(ctx, rec.JournalID)
		if err != nil {
			return repaired, merr.Internal(err)
		}

		receipt := reconstructedReceipt{
			JournalID:     journal.JournalID,
			State:         mmodel.JournalStatePosted,
			Entries:       lines,
			CreatedAt:     journal.CreatedAt,
			CorrelationID: journal.CorrelationID,
			TxnType:       journal.TxnType,
			Currency:      journal.Currency,
		}

		resultJSON, err := json.Marshal(receipt)
		if err != nil {
			return repaired, merr.Internal(err)
		}

		if err := uc.IdempotencyRepo.UpdateResult(ctx, rec.ScopeHash, mmodel.IdempotencyStatusCompleted, journal.JournalID, string(resultJSON)); err != nil {
			return repaired, merr.Internal(err)
		}

		rec.Status = mmodel.IdempotencyStatusCompleted
		rec.ResultJSON = string(resultJSON)
		repaired = append(repaired, rec)

		uc.emit(ctx, mmodel.EventStateRepaired, "idempotency_record", rec.RecordID, actorType, actorID)
	}

	return repaired, nil
}

func (uc *UseCase) emit(ctx context.Context, name, entityType, entityID, actorType, actorID string) {
	if uc.Events == nil {
		return
	}

	ev := mmodel.Event{
		ID:            uuid.NewString(),
		Name:          name,
		EntityType:    entityType,
		EntityID:      entityID,
		ActorType:     actorType,
		ActorID:       actorID,
		SchemaVersion: 1,
		PayloadJSON:   "{}",
		CreatedAt:     time.Now(),
	}

	if err := uc.Events.Emit(ctx, ev); err != nil && uc.Logger != nil {
		uc.Logger.Errorf("failed to emit %s for %s %s: %v", name, entityType, entityID, err)
	}
}

func entryFingerprints(lines []mmodel.LedgerLine) []hashchain.EntryFingerprint {
	fps := make([]hashchain.EntryFingerprint, len(lines))
	for i, l := range lines {
		fps[i] = hashchain.EntryFingerprint{AccountID: l.AccountID, EntryType: string(l.EntryType), Amount: l.Amount}
	}

	return fps
}
