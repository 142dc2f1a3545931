package command_test

import (
	"context"
	"sync"
	"time"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// fakeLedgerRepo is a hand-rolled, concurrency-safe in-memory stand-in
// for ledger.Repository. It reproduces just enough of the real
// Postgres adapter's behavior (atomic bundle application, balance
// accumulation) for the posting engine's own tests.
type fakeLedgerRepo struct {
	mu         sync.Mutex
	balances   map[string]int64 // accountID|currency -> cents
	journals   []mmodel.LedgerJournal
	lines      map[string][]mmodel.LedgerLine
	lastHash   string
	failBundle error

	// idempotency mirrors the real Postgres adapter: InsertJournalBundle
	// commits the idempotency record as part of the same transaction as
	// the journal, so a fake covering only ledger state would make a
	// true replay indistinguishable from a fresh post.
	idempotency *fakeIdempotencyRepo
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		balances: map[string]int64{},
		lines:    map[string][]mmodel.LedgerLine{},
	}
}

func balanceKey(accountID, currency string) string { return accountID + "|" + currency }

func (f *fakeLedgerRepo) seedBalance(accountID, currency string, cents int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[balanceKey(accountID, currency)] = cents
}

func (f *fakeLedgerRepo) InsertJournalBundle(ctx context.Context, bundle ledger.Bundle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failBundle != nil {
		return f.failBundle
	}

	for _, d := range bundle.BalanceDeltas {
		f.balances[balanceKey(d.AccountID, d.Currency)] += d.DeltaCents
	}

	f.journals = append(f.journals, bundle.Journal)
	f.lines[bundle.Journal.JournalID] = bundle.Lines
	f.lastHash = bundle.Journal.Hash

	if f.idempotency != nil {
		f.idempotency.mu.Lock()
		f.idempotency.records[bundle.IdempotencyRecord.ScopeHash] = bundle.IdempotencyRecord
		f.idempotency.mu.Unlock()
	}

	return nil
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, accountID, currency string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.balances[balanceKey(accountID, currency)], nil
}

func (f *fakeLedgerRepo) ListLines(ctx context.Context, journalID string) ([]mmodel.LedgerLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lines[journalID], nil
}

func (f *fakeLedgerRepo) GetJournalByIdempotencyKey(ctx context.Context, key string) (*mmodel.LedgerJournal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, j := range f.journals {
		if j.IdempotencyKey == key {
			jCopy := j
			return &jCopy, nil
		}
	}

	return nil, nil
}

func (f *fakeLedgerRepo) GetJournal(ctx context.Context, journalID string) (*mmodel.LedgerJournal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, j := range f.journals {
		if j.JournalID == journalID {
			jCopy := j
			return &jCopy, nil
		}
	}

	return nil, nil
}

func (f *fakeLedgerRepo) GetLatestHash(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastHash, nil
}

func (f *fakeLedgerRepo) IterateJournalsOrdered(ctx context.Context, from, to time.Time) ([]ledger.JournalWithLines, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) ListAccountsWithActivity(ctx context.Context) ([]ledger.BalanceKey, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) SumLinesForAccount(ctx context.Context, accountID, currency string) (int64, error) {
	return f.GetBalance(ctx, accountID, currency)
}

// fakeIdempotencyRepo stores records keyed by scope_hash, mirroring
// the unique-index semantics of the real Postgres table.
type fakeIdempotencyRepo struct {
	mu      sync.Mutex
	records map[string]mmodel.IdempotencyRecord
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{records: map[string]mmodel.IdempotencyRecord{}}
}

func (f *fakeIdempotencyRepo) LookupByScopeHash(ctx context.Context, scopeHash string) (*mmodel.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[scopeHash]
	if !ok {
		return nil, nil
	}

	recCopy := rec
	return &recCopy, nil
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

// fakeScopeLocker is a real, in-process mutex-per-scope lock so tests
// can exercise actual contention between goroutines, not just check
// that Acquire/Release were called.
type fakeScopeLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newFakeScopeLocker() *fakeScopeLocker {
	return &fakeScopeLocker{locks: map[string]chan struct{}{}}
}

func (f *fakeScopeLocker) Acquire(ctx context.Context, scopeHash string) (string, error) {
	f.mu.Lock()
	ch, ok := f.locks[scopeHash]
	if !ok {
		ch = make(chan struct{}, 1)
		f.locks[scopeHash] = ch
	}
	f.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return "token", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *fakeScopeLocker) Release(ctx context.Context, scopeHash, token string) error {
	f.mu.Lock()
	ch := f.locks[scopeHash]
	f.mu.Unlock()

	if ch == nil {
		return nil
	}

	select {
	case <-ch:
	default:
	}

	return nil
}
