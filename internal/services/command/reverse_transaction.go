package command

import (
	"context"
	"fmt"

	"github.com/meridianpay/ledgercore/pkg/gold"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// ReverseCommand requests the reversal of an already-POSTED journal.
// Reversal is one of C11's maker-checker-gated operations: the caller
// is expected to have already obtained an APPROVED ApprovalRequest of
// type REVERSAL before calling Reverse — this method does not itself
// create or check the approval, that is internal/services/approval's
// job, composed by the caller (e.g. the HTTP handler).
type ReverseCommand struct {
	JournalID      string
	IdempotencyKey string
	CorrelationID  string
	ActorType      string
	ActorID        string
	Reason         string
}

// Reverse builds the balanced reversal entry set for an existing
// journal (spec §4.5: swap every DR with CR preserving amounts and
// accounts) and posts it through the same engine as any other
// transaction, so it gets its own journal, hash-chain link, events,
// and idempotency guarantee.
func (uc *UseCase) Reverse(ctx context.Context, cmd ReverseCommand) (*Receipt, error) {
	if cmd.JournalID == "" {
		return nil, merr.MissingRequiredField("journal_id")
	}

	journal, err := uc.LedgerRepo.GetJournal(ctx, cmd.JournalID)
	if err != nil {
		return nil, merr.Internal(err)
	}

	if journal == nil {
		return nil, merr.NotFound("ledger_journal", cmd.JournalID)
	}

	if journal.State != mmodel.JournalStatePosted {
		return nil, merr.Internal(fmt.Errorf("journal %s is not POSTED, state=%s", cmd.JournalID, journal.State))
	}

	lines, err := uc.LedgerRepo.ListLines(ctx, cmd.JournalID)
	if err != nil {
		return nil, merr.Internal(err)
	}

	original := make([]gold.Entry, len(lines))
	for i, l := range lines {
		original[i] = gold.Entry{AccountID: l.AccountID, EntryType: l.EntryType, Amount: l.Amount, Description: l.Description}
	}

	reversed := gold.Reverse(original)

	entries := make([]EntryCommand, len(reversed))
	for i, e := range reversed {
		entries[i] = EntryCommand{AccountID: e.AccountID, Currency: journal.Currency, EntryType: e.EntryType, Amount: e.Amount, Description: e.Description}
	}

	post := PostCommand{
		IdempotencyKey: cmd.IdempotencyKey,
		CorrelationID:  cmd.CorrelationID,
		ActorType:      cmd.ActorType,
		ActorID:        cmd.ActorID,
		TxnType:        mmodel.TxnTypeReversal,
		Currency:       journal.Currency,
		Entries:        entries,
		Description:    fmt.Sprintf("reversal of %s: %s", cmd.JournalID, cmd.Reason),
	}

	return uc.PostTransaction(ctx, post)
}
