package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meridianpay/ledgercore/pkg/dbtx"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

const pgUniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) LookupByScopeHash(ctx context.Context, scopeHash string) (*mmodel.IdempotencyRecord, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("record_id", "scope_hash", "payload_hash", "result_json",
		"status", "journal_id", "created_at", "expires_at").
		From("idempotency_records").
		Where(sq.Eq{"scope_hash": scopeHash}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rec mmodel.IdempotencyRecord

	var status string

	var resultJSON, journalID sql.NullString

	err = exec.QueryRowContext(ctx, querySQL, args...).Scan(&rec.RecordID, &rec.ScopeHash, &rec.PayloadHash,
		&resultJSON, &status, &journalID, &rec.CreatedAt, &rec.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	rec.Status = mmodel.IdempotencyStatus(status)
	rec.ResultJSON = resultJSON.String
	rec.JournalID = journalID.String

	return &rec, nil
}

func (r *PostgresRepository) InsertInProgress(ctx context.Context, rec mmodel.IdempotencyRecord) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	insertSQL, args, err := psql.Insert("idempotency_records").
		Columns("record_id", "scope_hash", "payload_hash", "result_json", "status", "journal_id", "created_at", "expires_at").
		Values(rec.RecordID, rec.ScopeHash, rec.PayloadHash, nullIfEmpty(rec.ResultJSON), string(rec.Status),
			nullIfEmpty(rec.JournalID), rec.CreatedAt, rec.ExpiresAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := exec.ExecContext(ctx, insertSQL, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return merr.DuplicateIdempotencyConflict(rec.ScopeHash)
		}

		return err
	}

	return nil
}

func (r *PostgresRepository) UpdateResult(ctx context.Context, scopeHash string, status mmodel.IdempotencyStatus, journalID, resultJSON string) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	updateSQL, args, err := psql.Update("idempotency_records").
		Set("status", string(status)).
		Set("journal_id", nullIfEmpty(journalID)).
		Set("result_json", nullIfEmpty(resultJSON)).
		Where(sq.Eq{"scope_hash": scopeHash}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, updateSQL, args...)

	return err
}

func (r *PostgresRepository) ListStaleInProgress(ctx context.Context, olderThanSeconds int64) ([]mmodel.IdempotencyRecord, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	cutoff := time.Now().Add(-time.Duration(olderThanSeconds) * time.Second)

	querySQL, args, err := psql.Select("record_id", "scope_hash", "payload_hash", "result_json",
		"status", "journal_id", "created_at", "expires_at").
		From("idempotency_records").
		Where(sq.Eq{"status": string(mmodel.IdempotencyStatusInProgress)}).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []mmodel.IdempotencyRecord

	for rows.Next() {
		var rec mmodel.IdempotencyRecord

		var status string

		var resultJSON, journalID sql.NullString

		if err := rows.Scan(&rec.RecordID, &rec.ScopeHash, &rec.PayloadHash, &resultJSON,
			&status, &journalID, &rec.CreatedAt, &rec.ExpiresAt); err != nil {
			return nil, err
		}

		rec.Status = mmodel.IdempotencyStatus(status)
		rec.ResultJSON = resultJSON.String
		rec.JournalID = journalID.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}
