package overdraft

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

func TestGet_ReturnsNilWhenAbsent(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery("SELECT (.+) FROM overdraft_facilities").
		WithArgs("wallet-1").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "limit_cents", "state", "effective_from", "expires_at"}))

	f, err := repo.Get(context.Background(), "wallet-1")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestGet_ReturnsFacility(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM overdraft_facilities").
		WithArgs("wallet-1").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "limit_cents", "state", "effective_from", "expires_at"}).
			AddRow("wallet-1", int64(5000), "ACTIVE", now, now.Add(24*time.Hour)))

	f, err := repo.Get(context.Background(), "wallet-1")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, mmodel.OverdraftStateActive, f.State)
	assert.Equal(t, int64(5000), f.LimitCents)
}

func TestUpsert_InsertsOnConflictUpdates(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("INSERT INTO overdraft_facilities").WillReturnResult(sqlmock.NewResult(1, 1))

	f := mmodel.OverdraftFacility{
		AccountID: "wallet-1", LimitCents: 5000, State: mmodel.OverdraftStateActive,
		EffectiveFrom: time.Now(),
	}

	err := repo.Upsert(context.Background(), f)
	require.NoError(t, err)
}
