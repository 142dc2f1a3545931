package command

import (
	"context"

	"github.com/meridianpay/ledgercore/pkg/gold"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// AdjustCommand requests a manual balance correction. Like Reverse,
// this is one of C11's maker-checker-gated operations: the caller is
// expected to have already obtained an APPROVED ApprovalRequest of
// type MANUAL_ADJUSTMENT.
type AdjustCommand struct {
	AccountID         string
	SuspenseAccountID string
	Currency          string
	// AmountCents is signed: positive credits AccountID (an increase),
	// negative debits it (a decrease), matching gold.BuildAdjustment.
	AmountCents    int64
	Reason         string
	IdempotencyKey string
	CorrelationID  string
	ActorType      string
	ActorID        string
}

// Adjust posts a manual correction through the same engine as any
// other transaction using gold.BuildAdjustment (C5), so it is subject
// to the same balance, funds, and idempotency guarantees.
func (uc *UseCase) Adjust(ctx context.Context, cmd AdjustCommand) (*Receipt, error) {
	if cmd.AccountID == "" {
		return nil, merr.MissingRequiredField("account_id")
	}

	if cmd.SuspenseAccountID == "" {
		return nil, merr.MissingRequiredField("suspense_account_id")
	}

	if cmd.AmountCents == 0 {
		return nil, merr.MissingRequiredField("amount_cents")
	}

	built := gold.BuildAdjustment(cmd.AccountID, cmd.SuspenseAccountID, cmd.AmountCents)

	entries := make([]EntryCommand, len(built))
	for i, e := range built {
		entries[i] = EntryCommand{AccountID: e.AccountID, Currency: cmd.Currency, EntryType: e.EntryType, Amount: e.Amount, Description: e.Description}
	}

	post := PostCommand{
		IdempotencyKey: cmd.IdempotencyKey,
		CorrelationID:  cmd.CorrelationID,
		ActorType:      cmd.ActorType,
		ActorID:        cmd.ActorID,
		TxnType:        mmodel.TxnTypeAdjustment,
		Currency:       cmd.Currency,
		Entries:        entries,
		Description:    "ADJUSTMENT: " + cmd.Reason,
	}

	return uc.PostTransaction(ctx, post)
}
