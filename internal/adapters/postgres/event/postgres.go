package event

import (
	"context"
	"database/sql"

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

// Insert appends one row to the events table — the same shape and
// table internal/adapters/postgres/ledger writes to inside the
// posting bundle, so integrity/reconciliation/repair events are
// indistinguishable in storage from posting events.
func (r *PostgresRepository) Insert(ctx context.Context, ev mmodel.Event) error {
	exec := dbtx.GetExecutor(ctx, r.DB)

	insertSQL, args, err := psql.Insert("events").
		Columns("id", "name", "entity_type", "entity_id", "correlation_id", "causation_id",
			"actor_type", "actor_id", "schema_version", "payload_json", "created_at").
		Values(ev.ID, ev.Name, ev.EntityType, ev.EntityID, ev.CorrelationID, ev.CausationID,
			ev.ActorType, ev.ActorID, ev.SchemaVersion, ev.PayloadJSON, ev.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, insertSQL, args...)

	return err
}
