package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	"github.com/meridianpay/ledgercore/internal/services/query"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

type fakeLedgerRepo struct {
	ledger.Repository

	balances map[string]int64
	journals map[string]mmodel.LedgerJournal
	lines    map[string][]mmodel.LedgerLine
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, accountID, currency string) (int64, error) {
	return f.balances[accountID+"|"+currency], nil
}

func (f *fakeLedgerRepo) GetJournal(ctx context.Context, journalID string) (*mmodel.LedgerJournal, error) {
	j, ok := f.journals[journalID]
	if !ok {
		return nil, nil
	}

	return &j, nil
}

func (f *fakeLedgerRepo) ListLines(ctx context.Context, journalID string) ([]mmodel.LedgerLine, error) {
	return f.lines[journalID], nil
}

func (f *fakeLedgerRepo) GetJournalByIdempotencyKey(ctx context.Context, key string) (*mmodel.LedgerJournal, error) {
	for _, j := range f.journals {
		if j.IdempotencyKey == key {
			jCopy := j
			return &jCopy, nil
		}
	}

	return nil, nil
}

func TestGetBalance_ReturnsMaterializedBalance(t *testing.T) {
	repo := &fakeLedgerRepo{balances: map[string]int64{"wallet-a|KES": 1500}}
	uc := &query.UseCase{LedgerRepo: repo}

	balance, err := uc.GetBalance(context.Background(), "wallet-a", "KES")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), balance)
}

func TestGetJournal_ReturnsNotFoundWhenMissing(t *testing.T) {
	repo := &fakeLedgerRepo{journals: map[string]mmodel.LedgerJournal{}}
	uc := &query.UseCase{LedgerRepo: repo}

	_, _, err := uc.GetJournal(context.Background(), "missing")

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeNotFound, domainErr.Code)
}

func TestGetJournal_ReturnsJournalWithLines(t *testing.T) {
	repo := &fakeLedgerRepo{
		journals: map[string]mmodel.LedgerJournal{"journal-1": {JournalID: "journal-1"}},
		lines:    map[string][]mmodel.LedgerLine{"journal-1": {{LineID: "line-1"}}},
	}
	uc := &query.UseCase{LedgerRepo: repo}

	journal, lines, err := uc.GetJournal(context.Background(), "journal-1")
	require.NoError(t, err)
	assert.Equal(t, "journal-1", journal.JournalID)
	require.Len(t, lines, 1)
}
