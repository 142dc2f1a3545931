package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	return NewPostgresRepository(db), mock, func() { _ = db.Close() }
}

func TestCreateRun_Inserts(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("INSERT INTO reconciliation_runs").WillReturnResult(sqlmock.NewResult(1, 1))

	run := mmodel.ReconciliationRun{ID: "run-1", Kind: "RECONCILIATION", StartedAt: time.Now(), Status: mmodel.RunStatusRunning}
	err := repo.CreateRun(context.Background(), run)
	require.NoError(t, err)
}

func TestUpdateRunStatus_UpdatesCounts(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("UPDATE reconciliation_runs SET").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateRunStatus(context.Background(), "run-1", mmodel.RunStatusCompleted, 10, 2, "{}")
	require.NoError(t, err)
}

func TestCreateFinding_Inserts(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("INSERT INTO reconciliation_findings").WillReturnResult(sqlmock.NewResult(1, 1))

	finding := mmodel.ReconciliationFinding{
		ID: "finding-1", RunID: "run-1", AccountID: "wallet-1", Currency: "KES",
		ExpectedBalance: 1000, ActualBalance: 900, Discrepancy: "BALANCE_MISMATCH",
		Severity: mmodel.SeverityMedium, Status: mmodel.FindingStatusOpen, CreatedAt: time.Now(),
	}

	err := repo.CreateFinding(context.Background(), finding)
	require.NoError(t, err)
}

func TestListFindings_DecodesSeverityAndStatus(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM reconciliation_findings").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "run_id", "account_id", "currency", "expected_balance",
			"actual_balance", "discrepancy", "severity", "status", "created_at"}).
			AddRow("finding-1", "run-1", "wallet-1", "KES", int64(1000), int64(900), "BALANCE_MISMATCH", "MEDIUM", "OPEN", now))

	findings, err := repo.ListFindings(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, mmodel.SeverityMedium, findings[0].Severity)
	assert.Equal(t, mmodel.FindingStatusOpen, findings[0].Status)
}

func TestGetRun_ReturnsNilWhenMissing(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery("SELECT (.+) FROM reconciliation_runs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "started_at", "finished_at", "status",
			"accounts_checked", "mismatches_found", "summary_json"}))

	run, err := repo.GetRun(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, run)
}
