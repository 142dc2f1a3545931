package approval

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

func (r *PostgresRepository) Create(ctx context.Context, req mmodel.ApprovalRequest) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	insertSQL, args, err := psql.Insert("approval_requests").
		Columns("id", "type_key", "maker_staff_id", "checker_staff_id", "state",
			"before_json", "after_json", "reason", "created_at").
		Values(req.ID, string(req.TypeKey), req.MakerStaffID, nullIfEmpty(req.CheckerStaffID), string(req.State),
			nullIfEmpty(req.BeforeJSON), nullIfEmpty(req.AfterJSON), nullIfEmpty(req.Reason), req.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, insertSQL, args...)

	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*mmodel.ApprovalRequest, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("id", "type_key", "maker_staff_id", "checker_staff_id", "state",
		"before_json", "after_json", "reason", "created_at", "decided_at").
		From("approval_requests").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	req, err := scanApproval(exec.QueryRowContext(ctx, querySQL, args...))
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (r *PostgresRepository) Decide(ctx context.Context, id, checkerStaffID string, state mmodel.ApprovalState, afterJSON string) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	updateSQL, args, err := psql.Update("approval_requests").
		Set("checker_staff_id", checkerStaffID).
		Set("state", string(state)).
		Set("after_json", nullIfEmpty(afterJSON)).
		Set("decided_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, updateSQL, args...)

	return err
}

func (r *PostgresRepository) ListPending(ctx context.Context, typeKey mmodel.ApprovalTypeKey) ([]mmodel.ApprovalRequest, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("id", "type_key", "maker_staff_id", "checker_staff_id", "state",
		"before_json", "after_json", "reason", "created_at", "decided_at").
		From("approval_requests").
		Where(sq.Eq{"type_key": string(typeKey), "state": string(mmodel.ApprovalStatePending)}).
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

	var requests []mmodel.ApprovalRequest

	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}

		if req != nil {
			requests = append(requests, *req)
		}
	}

	return requests, rows.Err()
}

func scanApproval(row interface{ Scan(dest ...any) error }) (*mmodel.ApprovalRequest, error) {
	var req mmodel.ApprovalRequest

	var typeKey, state string

	var checkerStaffID, beforeJSON, afterJSON, reason sql.NullString

	var decidedAt sql.NullTime

	err := row.Scan(&req.ID, &typeKey, &req.MakerStaffID, &checkerStaffID, &state,
		&beforeJSON, &afterJSON, &reason, &req.CreatedAt, &decidedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	req.TypeKey = mmodel.ApprovalTypeKey(typeKey)
	req.State = mmodel.ApprovalState(state)
	req.CheckerStaffID = checkerStaffID.String
	req.BeforeJSON = beforeJSON.String
	req.AfterJSON = afterJSON.String
	req.Reason = reason.String

	if decidedAt.Valid {
		req.DecidedAt = &decidedAt.Time
	}

	return &req, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}
