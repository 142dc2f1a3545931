package reconciliation

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/meridianpay/ledgercore/pkg/dbtx"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) CreateRun(ctx context.Context, run mmodel.ReconciliationRun) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	insertSQL, args, err := psql.Insert("reconciliation_runs").
		Columns("id", "kind", "started_at", "finished_at", "status", "accounts_checked", "mismatches_found", "summary_json").
		Values(run.ID, run.Kind, run.StartedAt, run.FinishedAt, string(run.Status), run.AccountsChecked, run.MismatchesFound, nullIfEmpty(run.SummaryJSON)).
		ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, insertSQL, args...)

	return err
}

func (r *PostgresRepository) UpdateRunStatus(ctx context.Context, runID string, status mmodel.RunStatus, accountsChecked, mismatchesFound int, summaryJSON string) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	updateSQL, args, err := psql.Update("reconciliation_runs").
		Set("status", string(status)).
		Set("accounts_checked", accountsChecked).
		Set("mismatches_found", mismatchesFound).
		Set("summary_json", nullIfEmpty(summaryJSON)).
		Set("finished_at", sq.Expr("now()")).
		Where(sq.Eq{"id": runID}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, updateSQL, args...)

	return err
}

func (r *PostgresRepository) CreateFinding(ctx context.Context, finding mmodel.ReconciliationFinding) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	insertSQL, args, err := psql.Insert("reconciliation_findings").
		Columns("id", "run_id", "account_id", "currency", "expected_balance", "actual_balance",
			"discrepancy", "severity", "status", "created_at").
		Values(finding.ID, finding.RunID, finding.AccountID, finding.Currency, finding.ExpectedBalance,
			finding.ActualBalance, finding.Discrepancy, string(finding.Severity), string(finding.Status), finding.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, insertSQL, args...)

	return err
}

func (r *PostgresRepository) ListFindings(ctx context.Context, runID string) ([]mmodel.ReconciliationFinding, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("id", "run_id", "account_id", "currency", "expected_balance",
		"actual_balance", "discrepancy", "severity", "status", "created_at").
		From("reconciliation_findings").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var findings []mmodel.ReconciliationFinding

	for rows.Next() {
		var f mmodel.ReconciliationFinding

		var severity, status string

		if err := rows.Scan(&f.ID, &f.RunID, &f.AccountID, &f.Currency, &f.ExpectedBalance,
			&f.ActualBalance, &f.Discrepancy, &severity, &status, &f.CreatedAt); err != nil {
			return nil, err
		}

		f.Severity = mmodel.FindingSeverity(severity)
		f.Status = mmodel.FindingStatus(status)
		findings = append(findings, f)
	}

	return findings, rows.Err()
}

func (r *PostgresRepository) GetRun(ctx context.Context, runID string) (*mmodel.ReconciliationRun, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("id", "kind", "started_at", "finished_at", "status",
		"accounts_checked", "mismatches_found", "summary_json").
		From("reconciliation_runs").
		Where(sq.Eq{"id": runID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var run mmodel.ReconciliationRun

	var status string

	var summaryJSON sql.NullString

	var finishedAt sql.NullTime

	err = exec.QueryRowContext(ctx, querySQL, args...).Scan(&run.ID, &run.Kind, &run.StartedAt, &finishedAt,
		&status, &run.AccountsChecked, &run.MismatchesFound, &summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	run.Status = mmodel.RunStatus(status)
	run.SummaryJSON = summaryJSON.String

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return &run, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}
