package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/ledgercore/internal/services/command"
)

func TestConsumeQueueMessage_PostsThroughTheSameEngine(t *testing.T) {
	uc, ledgerRepo := newTestUseCase()
	ledgerRepo.seedBalance("wallet-source", "KES", 500000)

	err := uc.ConsumeQueueMessage(context.Background(), command.PostingMessage{
		IdempotencyKey: "queue-idem-1",
		CorrelationID:  "corr-1",
		ActorType:      "wallet",
		ActorID:        "wallet-source",
		TxnType:        "P2P",
		Currency:       "KES",
		Entries: []command.QueueEntry{
			{AccountID: "wallet-source", Currency: "KES", EntryType: "DR", Amount: 1000},
			{AccountID: "wallet-dest", Currency: "KES", EntryType: "CR", Amount: 1000},
		},
	})
	require.NoError(t, err)

	balance, err := ledgerRepo.GetBalance(context.Background(), "wallet-dest", "KES")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
}
