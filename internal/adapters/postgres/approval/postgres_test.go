package approval

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

func TestCreate_Inserts(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("INSERT INTO approval_requests").WillReturnResult(sqlmock.NewResult(1, 1))

	req := mmodel.ApprovalRequest{
		ID: "approval-1", TypeKey: mmodel.ApprovalTypeReversal, MakerStaffID: "staff-1",
		State: mmodel.ApprovalStatePending, CreatedAt: time.Now(),
	}

	err := repo.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestGet_ReturnsNilWhenMissing(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery("SELECT (.+) FROM approval_requests").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type_key", "maker_staff_id", "checker_staff_id", "state",
			"before_json", "after_json", "reason", "created_at", "decided_at"}))

	req, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestDecide_UpdatesStateAndChecker(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("UPDATE approval_requests SET").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Decide(context.Background(), "approval-1", "staff-2", mmodel.ApprovalStateApproved, "{}")
	require.NoError(t, err)
}

func TestListPending_FiltersByTypeAndState(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM approval_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type_key", "maker_staff_id", "checker_staff_id", "state",
			"before_json", "after_json", "reason", "created_at", "decided_at"}).
			AddRow("approval-1", "REVERSAL", "staff-1", nil, "PENDING", nil, nil, nil, now, nil))

	requests, err := repo.ListPending(context.Background(), mmodel.ApprovalTypeReversal)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, mmodel.ApprovalStatePending, requests[0].State)
}
