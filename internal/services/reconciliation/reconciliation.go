// Package reconciliation implements C8: a periodic scan that compares
// each account's derivable ledger-line sum against its materialized
// balance and surfaces mismatches as findings. It never writes to
// balances, even for CRITICAL findings — only the posting engine
// writes wallet_balances.
package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	reconrepo "github.com/meridianpay/ledgercore/internal/adapters/postgres/reconciliation"
	"github.com/meridianpay/ledgercore/pkg/mlog"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// EventEmitter is the narrow dependency this service needs from C6's
// bus — just enough to emit RECONCILIATION_MISMATCH, nothing that
// would let a scan touch the journal/line tables.
type EventEmitter interface {
	Emit(ctx context.Context, ev mmodel.Event) error
}

// UseCase runs reconciliation scans. It only reads through LedgerRepo
// and never calls InsertJournalBundle, the one LedgerRepo method that
// writes wallet_balances.
type UseCase struct {
	LedgerRepo  ledger.Repository
	ReconRepo   reconrepo.Repository
	Events      EventEmitter
	Logger      mlog.Logger
}

// Run implements spec §4.8: for every (account_id, currency) pair with
// ledger activity, compute the derivable truth and compare it to the
// materialized balance, recording a Finding on every mismatch.
func (uc *UseCase) Run(ctx context.Context, asOf time.Time) (*mmodel.ReconciliationRun, error) {
	run := mmodel.ReconciliationRun{
		ID:        uuid.NewString(),
		Kind:      "RECONCILIATION",
		StartedAt: asOf,
		Status:    mmodel.RunStatusRunning,
	}

	if err := uc.ReconRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	keys, err := uc.LedgerRepo.ListAccountsWithActivity(ctx)
	if err != nil {
		uc.fail(ctx, run.ID, err)
		return nil, err
	}

	mismatches := 0

	for _, key := range keys {
		computed, err := uc.LedgerRepo.SumLinesForAccount(ctx, key.AccountID, key.Currency)
		if err != nil {
			uc.fail(ctx, run.ID, err)
			return nil, err
		}

		materialized, err := uc.LedgerRepo.GetBalance(ctx, key.AccountID, key.Currency)
		if err != nil {
			uc.fail(ctx, run.ID, err)
			return nil, err
		}

		discrepancy := computed - materialized
		if discrepancy == 0 {
			continue
		}

		mismatches++

		finding := mmodel.ReconciliationFinding{
			ID:              uuid.NewString(),
			RunID:           run.ID,
			AccountID:       key.AccountID,
			Currency:        key.Currency,
			ExpectedBalance: computed,
			ActualBalance:   materialized,
			Discrepancy:     fmt.Sprintf("%d", discrepancy),
			Severity:        mmodel.ClassifySeverity(discrepancy),
			Status:          mmodel.FindingStatusOpen,
			CreatedAt:       asOf,
		}

		if err := uc.ReconRepo.CreateFinding(ctx, finding); err != nil {
			uc.fail(ctx, run.ID, err)
			return nil, err
		}

		uc.emitMismatch(ctx, finding)
	}

	if err := uc.ReconRepo.UpdateRunStatus(ctx, run.ID, mmodel.RunStatusCompleted, len(keys), mismatches, ""); err != nil {
		return nil, err
	}

	run.Status = mmodel.RunStatusCompleted
	run.AccountsChecked = len(keys)
	run.MismatchesFound = mismatches

	return &run, nil
}

func (uc *UseCase) fail(ctx context.Context, runID string, cause error) {
	if err := uc.ReconRepo.UpdateRunStatus(ctx, runID, mmodel.RunStatusFailed, 0, 0, cause.Error()); err != nil && uc.Logger != nil {
		uc.Logger.Errorf("reconciliation run %s: failed to record failure: %v", runID, err)
	}
}

func (uc *UseCase) emitMismatch(ctx context.Context, finding mmodel.ReconciliationFinding) {
	if uc.Events == nil {
		return
	}

	ev := mmodel.Event{
		ID:            uuid.NewString(),
		Name:          mmodel.EventReconciliationMismatch,
		EntityType:    "reconciliation_finding",
		EntityID:      finding.ID,
		CorrelationID: finding.RunID,
		CausationID:   finding.RunID,
		ActorType:     "SYSTEM",
		ActorID:       "reconciliation",
		SchemaVersion: 1,
		PayloadJSON:   "{}",
		CreatedAt:     finding.CreatedAt,
	}

	if err := uc.Events.Emit(ctx, ev); err != nil && uc.Logger != nil {
		uc.Logger.Errorf("failed to emit %s for finding %s: %v", mmodel.EventReconciliationMismatch, finding.ID, err)
	}
}
