package event

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	return NewPostgresRepository(db), mock, func() { _ = db.Close() }
}

func TestInsert_InsertsEventRow(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(1, 1))

	ev := mmodel.Event{
		ID: "event-1", Name: mmodel.EventReconciliationMismatch, EntityType: "reconciliation_finding",
		EntityID: "finding-1", SchemaVersion: 1, PayloadJSON: "{}", CreatedAt: time.Now(),
	}

	err := repo.Insert(context.Background(), ev)
	require.NoError(t, err)
}
