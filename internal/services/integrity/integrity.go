// Package integrity implements C9: a read-only walk of the hash chain
// that rehashes every journal in commit order and compares the result
// against the stored hash, surfacing any divergence as a CRITICAL
// finding. It never writes to ledger_journals or ledger_lines.
package integrity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	reconrepo "github.com/meridianpay/ledgercore/internal/adapters/postgres/reconciliation"
	"github.com/meridianpay/ledgercore/pkg/hashchain"
	"github.com/meridianpay/ledgercore/pkg/mlog"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// HashMismatch is the fixed discrepancy label spec §4.9 requires.
const HashMismatch = "HASH_MISMATCH"

// EventEmitter is the narrow dependency needed to raise
// INTEGRITY_CHECK_FAILED; satisfied by internal/services/eventbus.
type EventEmitter interface {
	Emit(ctx context.Context, ev mmodel.Event) error
}

// UseCase runs integrity verification. It is read-only: LedgerRepo is
// used only through IterateJournalsOrdered, never through
// InsertJournalBundle.
type UseCase struct {
	LedgerRepo ledger.Repository
	ReconRepo  reconrepo.Repository
	Events     EventEmitter
	Logger     mlog.Logger
}

// Verify implements spec §4.9: walk journals in [from, to) in
// (created_at ASC, id ASC) order, rehashing each against the stored
// hash of the journal before it (the first journal of the window
// against its own stored prev_hash), and record a finding for every
// divergence.
func (uc *UseCase) Verify(ctx context.Context, from, to time.Time) (*mmodel.ReconciliationRun, []mmodel.ReconciliationFinding, error) {
	run := mmodel.ReconciliationRun{
		ID:        uuid.NewString(),
		Kind:      "INTEGRITY",
		StartedAt: from,
		Status:    mmodel.RunStatusRunning,
	}

	if err := uc.ReconRepo.CreateRun(ctx, run); err != nil {
		return nil, nil, err
	}

	journals, err := uc.LedgerRepo.IterateJournalsOrdered(ctx, from, to)
	if err != nil {
		uc.fail(ctx, run.ID, err)
		return nil, nil, err
	}

	var findings []mmodel.ReconciliationFinding

	// The first journal of the window chains on its own stored
	// prev_hash, since its predecessor (if any) lies before from.
	prevHash := ""
	if len(journals) > 0 {
		prevHash = journals[0].Journal.PrevHash
	}

	for _, jwl := range journals {
		j := jwl.Journal

		fps := make([]hashchain.EntryFingerprint, len(jwl.Lines))
		for i, l := range jwl.Lines {
			fps[i] = hashchain.EntryFingerprint{AccountID: l.AccountID, EntryType: string(l.EntryType), Amount: l.Amount}
		}

		recomputed, err := hashchain.JournalHash(prevHash, j.JournalID, j.Currency, string(j.TxnType), fps)
		if err != nil {
			uc.fail(ctx, run.ID, err)
			return nil, nil, err
		}

		if recomputed != j.Hash {
			// ReconciliationFinding.AccountID doubles as the mismatching
			// journal's id here — there is no separate integrity_findings
			// table, per SPEC_FULL.md's note that C9 reuses C8's tables.
			finding := mmodel.ReconciliationFinding{
				ID:          uuid.NewString(),
				RunID:       run.ID,
				AccountID:   j.JournalID,
				Currency:    j.Currency,
				Discrepancy: HashMismatch,
				Severity:    mmodel.SeverityCritical,
				Status:      mmodel.FindingStatusOpen,
				CreatedAt:   j.CreatedAt,
			}

			if err := uc.ReconRepo.CreateFinding(ctx, finding); err != nil {
				uc.fail(ctx, run.ID, err)
				return nil, nil, err
			}

			findings = append(findings, finding)
			uc.emitFailure(ctx, finding)
		}

		// Chain continues on the journal's own stored hash regardless
		// of mismatch, matching how the posting engine actually built
		// the chain — a verifier that forked the chain on divergence
		// would report every subsequent journal as mismatched too.
		prevHash = j.Hash
	}

	if err := uc.ReconRepo.UpdateRunStatus(ctx, run.ID, mmodel.RunStatusCompleted, len(journals), len(findings), ""); err != nil {
		return nil, nil, err
	}

	run.Status = mmodel.RunStatusCompleted
	run.AccountsChecked = len(journals)
	run.MismatchesFound = len(findings)

	return &run, findings, nil
}

func (uc *UseCase) fail(ctx context.Context, runID string, cause error) {
	if err := uc.ReconRepo.UpdateRunStatus(ctx, runID, mmodel.RunStatusFailed, 0, 0, cause.Error()); err != nil && uc.Logger != nil {
		uc.Logger.Errorf("integrity run %s: failed to record failure: %v", runID, err)
	}
}

func (uc *UseCase) emitFailure(ctx context.Context, finding mmodel.ReconciliationFinding) {
	if uc.Events == nil {
		return
	}

	ev := mmodel.Event{
		ID:            uuid.NewString(),
		Name:          mmodel.EventIntegrityCheckFailed,
		EntityType:    "ledger_journal",
		EntityID:      finding.AccountID,
		CorrelationID: finding.RunID,
		CausationID:   finding.RunID,
		ActorType:     "SYSTEM",
		ActorID:       "integrity",
		SchemaVersion: 1,
		PayloadJSON:   "{}",
		CreatedAt:     finding.CreatedAt,
	}

	if err := uc.Events.Emit(ctx, ev); err != nil && uc.Logger != nil {
		uc.Logger.Errorf("failed to emit %s for journal %s: %v", mmodel.EventIntegrityCheckFailed, finding.AccountID, err)
	}
}
