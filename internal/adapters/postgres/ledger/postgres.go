package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/meridianpay/ledgercore/pkg/dbtx"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// PostgresRepository is the jackc/pgx-backed implementation of
// Repository, built over database/sql via the pgx stdlib driver so it
// composes with dbtx.RunInTransaction like every other adapter here.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *PostgresRepository) InsertJournalBundle(ctx context.Context, bundle Bundle) error {
	return dbtx.RunInTransaction(ctx, r.DB, func(ctx context.Context) error {
		exec := dbtx.GetExecutor(ctx, r.DB)

		j := bundle.Journal

		journalSQL, journalArgs, err := psql.Insert("ledger_journals").
			Columns("journal_id", "txn_type", "currency", "correlation_id", "idempotency_key",
				"state", "initiator_actor_id", "prev_hash", "hash", "description", "metadata_id", "created_at").
			Values(j.JournalID, string(j.TxnType), j.Currency, j.CorrelationID, j.IdempotencyKey,
				string(j.State), j.InitiatorActorID, j.PrevHash, j.Hash, j.Description, j.MetadataID, j.CreatedAt).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := exec.ExecContext(ctx, journalSQL, journalArgs...); err != nil {
			return err
		}

		for _, line := range bundle.Lines {
			lineSQL, lineArgs, err := psql.Insert("ledger_lines").
				Columns("line_id", "journal_id", "account_id", "entry_type", "amount", "description", "created_at").
				Values(line.LineID, line.JournalID, line.AccountID, string(line.EntryType), line.Amount, line.Description, line.CreatedAt).
				ToSql()
			if err != nil {
				return err
			}

			if _, err := exec.ExecContext(ctx, lineSQL, lineArgs...); err != nil {
				return err
			}
		}

		for _, delta := range bundle.BalanceDeltas {
			upsertSQL := `
				INSERT INTO wallet_balances (account_id, currency, balance_cents, updated_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT (account_id, currency)
				DO UPDATE SET balance_cents = wallet_balances.balance_cents + EXCLUDED.balance_cents, updated_at = now()
			`
			if _, err := exec.ExecContext(ctx, upsertSQL, delta.AccountID, delta.Currency, delta.DeltaCents); err != nil {
				return err
			}
		}

		for _, ev := range bundle.Events {
			evSQL, evArgs, err := psql.Insert("events").
				Columns("id", "name", "entity_type", "entity_id", "correlation_id", "causation_id",
					"actor_type", "actor_id", "schema_version", "payload_json", "created_at").
				Values(ev.ID, ev.Name, ev.EntityType, ev.EntityID, ev.CorrelationID, ev.CausationID,
					ev.ActorType, ev.ActorID, ev.SchemaVersion, ev.PayloadJSON, ev.CreatedAt).
				ToSql()
			if err != nil {
				return err
			}

			if _, err := exec.ExecContext(ctx, evSQL, evArgs...); err != nil {
				return err
			}
		}

		a := bundle.Audit
		auditSQL, auditArgs, err := psql.Insert("audit_log").
			Columns("id", "action", "actor_type", "actor_id", "target_type", "target_id",
				"before_json", "after_json", "correlation_id", "created_at").
			Values(a.ID, a.Action, a.ActorType, a.ActorID, a.TargetType, a.TargetID,
				a.BeforeJSON, a.AfterJSON, a.CorrelationID, a.CreatedAt).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := exec.ExecContext(ctx, auditSQL, auditArgs...); err != nil {
			return err
		}

		rec := bundle.IdempotencyRecord
		idemSQL, idemArgs, err := psql.Insert("idempotency_records").
			Columns("record_id", "scope_hash", "payload_hash", "result_json", "status", "journal_id", "created_at", "expires_at").
			Values(rec.RecordID, rec.ScopeHash, rec.PayloadHash, rec.ResultJSON, string(rec.Status), rec.JournalID, rec.CreatedAt, rec.ExpiresAt).
			ToSql()
		if err != nil {
			return err
		}

		_, err = exec.ExecContext(ctx, idemSQL, idemArgs...)

		return err
	})
}

func (r *PostgresRepository) GetBalance(ctx context.Context, accountID, currency string) (int64, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("balance_cents").
		From("wallet_balances").
		Where(sq.Eq{"account_id": accountID, "currency": currency}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var balance int64

	err = exec.QueryRowContext(ctx, querySQL, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		// BalanceRowMissing: treat as zero, created on first write.
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *PostgresRepository) ListLines(ctx context.Context, journalID string) ([]mmodel.LedgerLine, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("line_id", "journal_id", "account_id", "entry_type", "amount", "description", "created_at").
		From("ledger_lines").
		Where(sq.Eq{"journal_id": journalID}).
		OrderBy("created_at ASC", "line_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []mmodel.LedgerLine

	for rows.Next() {
		var l mmodel.LedgerLine

		var entryType string

		if err := rows.Scan(&l.LineID, &l.JournalID, &l.AccountID, &entryType, &l.Amount, &l.Description, &l.CreatedAt); err != nil {
			return nil, err
		}

		l.EntryType = mmodel.EntryType(entryType)
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

func scanJournal(row interface {
	Scan(dest ...any) error
}) (*mmodel.LedgerJournal, error) {
	var j mmodel.LedgerJournal

	var txnType, state string

	err := row.Scan(&j.JournalID, &txnType, &j.Currency, &j.CorrelationID, &j.IdempotencyKey,
		&state, &j.InitiatorActorID, &j.PrevHash, &j.Hash, &j.Description, &j.MetadataID, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	j.TxnType = mmodel.TxnType(txnType)
	j.State = mmodel.JournalState(state)

	return &j, nil
}

var journalColumns = []string{"journal_id", "txn_type", "currency", "correlation_id", "idempotency_key",
	"state", "initiator_actor_id", "prev_hash", "hash", "description", "metadata_id", "created_at"}

func (r *PostgresRepository) GetJournalByIdempotencyKey(ctx context.Context, key string) (*mmodel.LedgerJournal, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select(journalColumns...).
		From("ledger_journals").
		Where(sq.Eq{"idempotency_key": key}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanJournal(exec.QueryRowContext(ctx, querySQL, args...))
}

func (r *PostgresRepository) GetJournal(ctx context.Context, journalID string) (*mmodel.LedgerJournal, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select(journalColumns...).
		From("ledger_journals").
		Where(sq.Eq{"journal_id": journalID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanJournal(exec.QueryRowContext(ctx, querySQL, args...))
}

func (r *PostgresRepository) GetLatestHash(ctx context.Context) (string, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("hash").
		From("ledger_journals").
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", err
	}

	var hash string

	err = exec.QueryRowContext(ctx, querySQL, args...).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	return hash, err
}

func (r *PostgresRepository) IterateJournalsOrdered(ctx context.Context, from, to time.Time) ([]JournalWithLines, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	builder := psql.Select(journalColumns...).
		From("ledger_journals").
		OrderBy("created_at ASC", "id ASC")

	if !from.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": from})
	}

	if !to.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": to})
	}

	querySQL, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []JournalWithLines

	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}

		if j == nil {
			continue
		}

		lines, err := r.ListLines(ctx, j.JournalID)
		if err != nil {
			return nil, err
		}

		results = append(results, JournalWithLines{Journal: *j, Lines: lines})
	}

	return results, rows.Err()
}

func (r *PostgresRepository) ListAccountsWithActivity(ctx context.Context) ([]BalanceKey, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	const query = `
		SELECT DISTINCT ll.account_id, lj.currency
		FROM ledger_lines ll
		JOIN ledger_journals lj ON lj.journal_id = ll.journal_id
	`

	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []BalanceKey

	for rows.Next() {
		var k BalanceKey
		if err := rows.Scan(&k.AccountID, &k.Currency); err != nil {
			return nil, err
		}

		keys = append(keys, k)
	}

	return keys, rows.Err()
}

func (r *PostgresRepository) SumLinesForAccount(ctx context.Context, accountID, currency string) (int64, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	const query = `
		SELECT
			COALESCE(SUM(CASE WHEN ll.entry_type = 'CR' THEN ll.amount ELSE 0 END), 0) -
			COALESCE(SUM(CASE WHEN ll.entry_type = 'DR' THEN ll.amount ELSE 0 END), 0)
		FROM ledger_lines ll
		JOIN ledger_journals lj ON lj.journal_id = ll.journal_id
		WHERE ll.account_id = $1 AND lj.currency = $2
	`

	var sum int64

	err := exec.QueryRowContext(ctx, query, accountID, currency).Scan(&sum)

	return sum, err
}
