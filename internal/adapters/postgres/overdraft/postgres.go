package overdraft

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

func (r *PostgresRepository) Get(ctx context.Context, accountID string) (*mmodel.OverdraftFacility, error) {
	exec := dbtx.GetExecutor(ctx, r.DB)

	querySQL, args, err := psql.Select("account_id", "limit_cents", "state", "effective_from", "expires_at").
		From("overdraft_facilities").
		Where(sq.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var f mmodel.OverdraftFacility

	var state string

	var expiresAt sql.NullTime

	err = exec.QueryRowContext(ctx, querySQL, args...).Scan(&f.AccountID, &f.LimitCents, &state, &f.EffectiveFrom, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	f.State = mmodel.OverdraftState(state)
	if expiresAt.Valid {
		f.ExpiresAt = expiresAt.Time
	}

	return &f, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, facility mmodel.OverdraftFacility) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	var expiresAt any
	if !facility.ExpiresAt.IsZero() {
		expiresAt = facility.ExpiresAt
	}

	const upsertSQL = `
		INSERT INTO overdraft_facilities (account_id, limit_cents, state, effective_from, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id)
		DO UPDATE SET limit_cents = EXCLUDED.limit_cents, state = EXCLUDED.state,
			effective_from = EXCLUDED.effective_from, expires_at = EXCLUDED.expires_at
	`

	_, err := exec.ExecContext(ctx, upsertSQL, facility.AccountID, facility.LimitCents, string(facility.State),
		facility.EffectiveFrom, expiresAt)

	return err
}
