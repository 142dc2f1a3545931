package command

import (
	"context"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// QueueEntry mirrors EntryCommand for messages arriving off the wire
// (spec §4.7's C7 wrapper), decoded independently of the HTTP layer's
// JSON shape since queue payloads are msgpack.
type QueueEntry struct {
	AccountID   string
	Currency    string
	EntryType   string
	Amount      int64
	Description string
}

// PostingMessage is the body of one queue delivery C7's consumer
// wrapper hands to ConsumeQueueMessage: an upstream channel's posting
// request, translated into a PostCommand and run through the same
// engine as an HTTP-originated one.
type PostingMessage struct {
	IdempotencyKey string
	CorrelationID  string
	ActorType      string
	ActorID        string
	TxnType        string
	Currency       string
	Entries        []QueueEntry
	Description    string
}

// ConsumeQueueMessage is the handler C7's generic consumer wrapper
// (internal/adapters/rabbitmq.Consume) invokes for each deduplicated
// delivery: translate the wire message into a PostCommand and run it
// through the same posting engine an HTTP caller would use, so queued
// and HTTP-originated postings share every invariant.
func (uc *UseCase) ConsumeQueueMessage(ctx context.Context, msg PostingMessage) error {
	entries := make([]EntryCommand, len(msg.Entries))
	for i, e := range msg.Entries {
		entries[i] = EntryCommand{
			AccountID:   e.AccountID,
			Currency:    e.Currency,
			EntryType:   mmodel.EntryType(e.EntryType),
			Amount:      e.Amount,
			Description: e.Description,
		}
	}

	_, err := uc.PostTransaction(ctx, PostCommand{
		IdempotencyKey: msg.IdempotencyKey,
		CorrelationID:  msg.CorrelationID,
		ActorType:      msg.ActorType,
		ActorID:        msg.ActorID,
		TxnType:        mmodel.TxnType(msg.TxnType),
		Currency:       msg.Currency,
		Entries:        entries,
		Description:    msg.Description,
	})

	return err
}
