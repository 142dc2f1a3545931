package command_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/ledgercore/internal/services/command"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

func newTestUseCase() (*command.UseCase, *fakeLedgerRepo) {
	ledgerRepo := newFakeLedgerRepo()
	idempotencyRepo := newFakeIdempotencyRepo()
	ledgerRepo.idempotency = idempotencyRepo

	uc := &command.UseCase{
		LedgerRepo:      ledgerRepo,
		IdempotencyRepo: idempotencyRepo,
		Lock:            newFakeScopeLocker(),
	}

	return uc, ledgerRepo
}

func p2pCommand(idempotencyKey string) command.PostCommand {
	return command.PostCommand{
		IdempotencyKey: idempotencyKey,
		CorrelationID:  "corr-1",
		ActorType:      "CUSTOMER",
		ActorID:        "cust-1",
		TxnType:        mmodel.TxnTypeP2P,
		Currency:       "KES",
		Entries: []command.EntryCommand{
			{AccountID: "wallet-a", EntryType: mmodel.EntryTypeDebit, Amount: 300},
			{AccountID: "wallet-b", EntryType: mmodel.EntryTypeCredit, Amount: 300},
		},
		Description: "p2p transfer",
	}
}

func TestPostTransaction_SuccessfulPost(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 1000)

	receipt, err := uc.PostTransaction(context.Background(), p2pCommand("key-1"))

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, mmodel.JournalStatePosted, receipt.State)
	assert.Len(t, receipt.Entries, 2)

	balA, _ := ledgerRepo.GetBalance(context.Background(), "wallet-a", "KES")
	balB, _ := ledgerRepo.GetBalance(context.Background(), "wallet-b", "KES")
	assert.Equal(t, int64(700), balA)
	assert.Equal(t, int64(300), balB)
}

func TestPostTransaction_TrueReplayReturnsStoredReceipt(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 1000)

	cmd := p2pCommand("key-1")

	first, err := uc.PostTransaction(context.Background(), cmd)
	require.NoError(t, err)

	second, err := uc.PostTransaction(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, first.JournalID, second.JournalID)

	balA, _ := ledgerRepo.GetBalance(context.Background(), "wallet-a", "KES")
	assert.Equal(t, int64(700), balA, "replay must not apply the debit twice")
}

func TestPostTransaction_PayloadMismatchIsConflict(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 1000)

	_, err := uc.PostTransaction(context.Background(), p2pCommand("key-1"))
	require.NoError(t, err)

	mutated := p2pCommand("key-1")
	mutated.Entries[0].Amount = 500
	mutated.Entries[1].Amount = 500

	_, err = uc.PostTransaction(context.Background(), mutated)

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeDuplicateIdempotencyConflict, domainErr.Code)
}

func TestPostTransaction_CrossCurrencyRejected(t *testing.T) {
	uc, _ := newTestUseCase()

	cmd := p2pCommand("key-1")
	cmd.Entries[0].Currency = "USD"

	_, err := uc.PostTransaction(context.Background(), cmd)

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeCrossCurrencyNotAllowed, domainErr.Code)
}

func TestPostTransaction_UnbalancedEntriesRejected(t *testing.T) {
	uc, _ := newTestUseCase()

	cmd := p2pCommand("key-1")
	cmd.Entries[1].Amount = 299

	_, err := uc.PostTransaction(context.Background(), cmd)

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeUnbalancedJournal, domainErr.Code)
}

func TestPostTransaction_InsufficientFundsWithoutOverdraft(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 100)

	_, err := uc.PostTransaction(context.Background(), p2pCommand("key-1"))

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeInsufficientFunds, domainErr.Code)
}

func TestPostTransaction_OverdraftExtendsAvailableFunds(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 100)
	uc.OverdraftRepo = &fakeOverdraftRepo{facility: &mmodel.OverdraftFacility{
		AccountID:  "wallet-a",
		LimitCents: 1000,
		State:      mmodel.OverdraftStateActive,
	}}

	receipt, err := uc.PostTransaction(context.Background(), p2pCommand("key-1"))

	require.NoError(t, err)
	require.NotNil(t, receipt)
}

func TestPostTransaction_MissingIdempotencyKeyRejected(t *testing.T) {
	uc, _ := newTestUseCase()

	cmd := p2pCommand("")

	_, err := uc.PostTransaction(context.Background(), cmd)

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeMissingRequiredField, domainErr.Code)
}

func TestPostTransaction_ParallelSpendNeverGoesNegative(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 10000)

	const attempts = 50

	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			cmd := p2pCommand(fmt.Sprintf("key-%d", i))
			_, err := uc.PostTransaction(context.Background(), cmd)
			results[i] = err
		}(i)
	}

	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		}
	}

	assert.LessOrEqual(t, successes, 33)

	balA, _ := ledgerRepo.GetBalance(context.Background(), "wallet-a", "KES")
	assert.GreaterOrEqual(t, balA, int64(0))
	assert.Equal(t, int64(10000-int64(successes)*300), balA)
}

func TestPostTransaction_LockReleasedOnValidationFailure(t *testing.T) {
	uc, _ := newTestUseCase()

	cmd := p2pCommand("key-1")
	cmd.Entries[1].Amount = 299

	_, err := uc.PostTransaction(context.Background(), cmd)
	require.Error(t, err)

	// A second call on the same scope must not block forever if the
	// lock was correctly released after the first call's failure.
	done := make(chan struct{})

	go func() {
		_, _ = uc.PostTransaction(context.Background(), p2pCommand("key-2"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock was not released after a validation failure")
	}
}

// fakeOverdraftRepo is a minimal overdraft.Repository stand-in.
type fakeOverdraftRepo struct {
	facility *mmodel.OverdraftFacility
	err      error
}

func (f *fakeOverdraftRepo) Get(ctx context.Context, accountID string) (*mmodel.OverdraftFacility, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.facility, nil
}

func (f *fakeOverdraftRepo) Upsert(ctx context.Context, facility mmodel.OverdraftFacility) error {
	f.facility = &facility
	return nil
}

