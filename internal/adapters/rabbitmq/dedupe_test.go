package rabbitmq

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMarkProcessed_FirstDeliveryClaims(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO processed_messages").
		WithArgs("msg-1", "txn.posted").
		WillReturnResult(sqlmock.NewResult(1, 1))

	dedupe := NewPostgresDedupe(db)

	claimed, err := dedupe.MarkProcessed(context.Background(), "msg-1", "txn.posted")
	require.NoError(t, err)
	require.True(t, claimed)
}

func TestMarkProcessed_RedeliveryIsNotClaimed(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO processed_messages").
		WithArgs("msg-1", "txn.posted").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	dedupe := NewPostgresDedupe(db)

	claimed, err := dedupe.MarkProcessed(context.Background(), "msg-1", "txn.posted")
	require.NoError(t, err)
	require.False(t, claimed)
}
