package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/ledgercore/internal/services/command"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

func TestReverse_NetsAccountsBackToPreTransactionBalance(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 1000)

	receipt, err := uc.PostTransaction(context.Background(), p2pCommand("key-1"))
	require.NoError(t, err)

	balABefore, _ := ledgerRepo.GetBalance(context.Background(), "wallet-a", "KES")
	balBBefore, _ := ledgerRepo.GetBalance(context.Background(), "wallet-b", "KES")

	_, err = uc.Reverse(context.Background(), command.ReverseCommand{
		JournalID:      receipt.JournalID,
		IdempotencyKey: "reverse-key-1",
		CorrelationID:  "corr-rev-1",
		ActorType:      "STAFF",
		ActorID:        "staff-1",
		Reason:         "customer dispute",
	})
	require.NoError(t, err)

	balAAfter, _ := ledgerRepo.GetBalance(context.Background(), "wallet-a", "KES")
	balBAfter, _ := ledgerRepo.GetBalance(context.Background(), "wallet-b", "KES")

	assert.Equal(t, balABefore+300, balAAfter)
	assert.Equal(t, balBBefore-300, balBAfter)
}

func TestReverse_MissingJournalNotFound(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.Reverse(context.Background(), command.ReverseCommand{
		JournalID:      "does-not-exist",
		IdempotencyKey: "reverse-key-1",
		ActorType:      "STAFF",
		ActorID:        "staff-1",
	})

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeNotFound, domainErr.Code)
}

func TestAdjust_IncreaseCreditsAccountFromSuspense(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()

	receipt, err := uc.Adjust(context.Background(), command.AdjustCommand{
		AccountID:         "wallet-a",
		SuspenseAccountID: "suspense-1",
		Currency:          "KES",
		AmountCents:       500,
		Reason:            "goodwill credit",
		IdempotencyKey:    "adjust-key-1",
		ActorType:         "STAFF",
		ActorID:           "staff-1",
	})

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, mmodel.TxnTypeAdjustment, receipt.TxnType)

	balA, _ := ledgerRepo.GetBalance(context.Background(), "wallet-a", "KES")
	assert.Equal(t, int64(500), balA)
}

func TestAdjust_DecreaseRequiresSufficientFunds(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-a", "KES", 100)

	_, err := uc.Adjust(context.Background(), command.AdjustCommand{
		AccountID:         "wallet-a",
		SuspenseAccountID: "suspense-1",
		Currency:          "KES",
		AmountCents:       -500,
		Reason:            "correction",
		IdempotencyKey:    "adjust-key-1",
		ActorType:         "STAFF",
		ActorID:           "staff-1",
	})

	var domainErr *merr.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, merr.CodeInsufficientFunds, domainErr.Code)
}
