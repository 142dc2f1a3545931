package rabbitmq

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Dedupe tracks which queue message ids have already been processed,
// backing C7's at-least-once consumption: redelivery of a message id
// already marked processed is a no-op, never a double-apply.
type Dedupe interface {
	// MarkProcessed claims messageID. Returns false (no error) if
	// messageID was already claimed by a prior delivery.
	MarkProcessed(ctx context.Context, messageID, topic string) (claimed bool, err error)
}

// PostgresDedupe backs Dedupe with the processed_messages table's
// unique primary key on message_id.
type PostgresDedupe struct {
	DB *sql.DB
}

func NewPostgresDedupe(db *sql.DB) *PostgresDedupe {
	return &PostgresDedupe{DB: db}
}

func (d *PostgresDedupe) MarkProcessed(ctx context.Context, messageID, topic string) (bool, error) {
	_, err := d.DB.ExecContext(ctx,
		`INSERT INTO processed_messages (message_id, topic) VALUES ($1, $2)`, messageID, topic)
	if err == nil {
		return true, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return false, nil
	}

	return false, err
}
