// Package reconciliation implements the store behind C8 (balance
// reconciliation) and C9 (hash-chain integrity verification), which
// share the same reconciliation_runs/reconciliation_findings tables,
// distinguished by ReconciliationRun.Kind.
package reconciliation

import (
	"context"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Repository is the reconciliation/integrity run store's contract.
type Repository interface {
	CreateRun(ctx context.Context, run mmodel.ReconciliationRun) error
	UpdateRunStatus(ctx context.Context, runID string, status mmodel.RunStatus, accountsChecked, mismatchesFound int, summaryJSON string) error
	CreateFinding(ctx context.Context, finding mmodel.ReconciliationFinding) error
	ListFindings(ctx context.Context, runID string) ([]mmodel.ReconciliationFinding, error)
	GetRun(ctx context.Context, runID string) (*mmodel.ReconciliationRun, error)
}
