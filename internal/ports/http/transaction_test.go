package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	ledgerhttp "github.com/meridianpay/ledgercore/internal/ports/http"
	"github.com/meridianpay/ledgercore/internal/services/command"
	"github.com/meridianpay/ledgercore/pkg/mlog"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// fakeLedgerRepo is a minimal in-memory ledger.Repository: embedding
// the interface supplies nil-panicking defaults for methods this HTTP
// smoke test never exercises, matching the narrow-fake style used in
// internal/services/command's own tests.
type fakeLedgerRepo struct {
	ledger.Repository

	mu       sync.Mutex
	balances map[string]int64
}

func (f *fakeLedgerRepo) InsertJournalBundle(ctx context.Context, bundle ledger.Bundle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range bundle.BalanceDeltas {
		f.balances[d.AccountID+"|"+d.Currency] += d.DeltaCents
	}

	return nil
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, accountID, currency string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.balances[accountID+"|"+currency], nil
}

func (f *fakeLedgerRepo) GetJournalByIdempotencyKey(ctx context.Context, key string) (*mmodel.LedgerJournal, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) GetLatestHash(ctx context.Context) (string, error) {
	return "", nil
}

type fakeIdempotencyRepo struct {
	mu      sync.Mutex
	records map[string]mmodel.IdempotencyRecord
}

func (f *fakeIdempotencyRepo) LookupByScopeHash(ctx context.Context, scopeHash string) (*mmodel.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[scopeHash]
	if !ok {
		return nil, nil
	}

	return &rec, nil
}

func (f *fakeIdempotencyRepo) InsertInProgress(ctx context.Context, rec mmodel.IdempotencyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records[rec.ScopeHash] = rec

	return nil
}

func (f *fakeIdempotencyRepo) UpdateResult(ctx context.Context, scopeHash string, status mmodel.IdempotencyStatus, journalID, resultJSON string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := f.records[scopeHash]
	rec.Status = status
	rec.JournalID = journalID
	rec.ResultJSON = resultJSON
	f.records[scopeHash] = rec

	return nil
}

func (f *fakeIdempotencyRepo) ListStaleInProgress(ctx context.Context, olderThanSeconds int64) ([]mmodel.IdempotencyRecord, error) {
	return nil, nil
}

type fakeScopeLocker struct{}

func (fakeScopeLocker) Acquire(ctx context.Context, scopeHash string) (string, error) {
	return "token", nil
}

func (fakeScopeLocker) Release(ctx context.Context, scopeHash, token string) error {
	return nil
}

func TestPostTransaction_SuccessfulPostReturns201(t *testing.T) {
	uc := &command.UseCase{
		LedgerRepo:      &fakeLedgerRepo{balances: map[string]int64{"wallet-source|KES": 500000}},
		IdempotencyRepo: &fakeIdempotencyRepo{records: map[string]mmodel.IdempotencyRecord{}},
		Lock:            fakeScopeLocker{},
		Logger:          &mlog.NopLogger{},
	}

	th := &ledgerhttp.TransactionHandler{Command: uc}
	app := ledgerhttp.NewRouter(&mlog.NopLogger{}, th, &ledgerhttp.QueryHandler{}, &ledgerhttp.ApprovalHandler{}, &ledgerhttp.OpsHandler{})

	body, err := json.Marshal(map[string]any{
		"idempotency_key": "idem-1",
		"correlation_id":  "corr-1",
		"actor_type":      "wallet",
		"actor_id":        "wallet-source",
		"txn_type":        "P2P",
		"currency":        "KES",
		"entries": []map[string]any{
			{"account_id": "wallet-source", "currency": "KES", "entry_type": "DR", "amount": 1000},
			{"account_id": "wallet-dest", "currency": "KES", "entry_type": "CR", "amount": 1000},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var receipt command.Receipt
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&receipt))
	assert.Equal(t, mmodel.JournalStatePosted, receipt.State)
}
