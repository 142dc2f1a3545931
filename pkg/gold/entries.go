// Package gold holds the pure, deterministic journal-line builders
// (spec §4.5, C5). Each builder takes well-defined arguments and
// returns a balanced entry set for one transaction type. Builders
// never touch balances, idempotency, or events — they only produce
// data for the posting engine to validate and persist.
//
// Named after the teacher repository's own transaction DSL package
// (common/gold/transaction), reused here for the equivalent concern:
// turning a transaction type's business shape into balanced ledger
// lines.
package gold

import (
	"fmt"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Entry is one proposed ledger line, prior to being assigned a
// LineID/JournalID by the store.
type Entry struct {
	AccountID   string
	EntryType   mmodel.EntryType
	Amount      int64
	Description string
}

// Debit and Credit are small constructors to keep builders readable.
func Debit(accountID string, amount int64, description string) Entry {
	return Entry{AccountID: accountID, EntryType: mmodel.EntryTypeDebit, Amount: amount, Description: description}
}

func Credit(accountID string, amount int64, description string) Entry {
	return Entry{AccountID: accountID, EntryType: mmodel.EntryTypeCredit, Amount: amount, Description: description}
}

// AssertBalanced verifies sum(DR) == sum(CR), the invariant every
// builder (and every composition of builders) must satisfy before
// reaching the posting engine.
func AssertBalanced(entries []Entry) error {
	var dr, cr int64

	for _, e := range entries {
		switch e.EntryType {
		case mmodel.EntryTypeDebit:
			dr += e.Amount
		case mmodel.EntryTypeCredit:
			cr += e.Amount
		default:
			return fmt.Errorf("gold: entry for account %s has unknown entry type %q", e.AccountID, e.EntryType)
		}
	}

	if dr != cr {
		return fmt.Errorf("gold: unbalanced entry set: debits=%d credits=%d", dr, cr)
	}

	return nil
}

// Reverse swaps every DR with CR (and vice versa) preserving amounts
// and accounts, producing the entry set that nets the original back to
// zero effect.
func Reverse(entries []Entry) []Entry {
	reversed := make([]Entry, len(entries))

	for i, e := range entries {
		switch e.EntryType {
		case mmodel.EntryTypeDebit:
			reversed[i] = Credit(e.AccountID, e.Amount, "REVERSAL: "+e.Description)
		case mmodel.EntryTypeCredit:
			reversed[i] = Debit(e.AccountID, e.Amount, "REVERSAL: "+e.Description)
		}
	}

	return reversed
}

// AppendFeeLeg adds a balanced DR/CR pair charging amountCents from
// payerAccountID into feeRevenueAccountID.
func AppendFeeLeg(entries []Entry, payerAccountID, feeRevenueAccountID string, amountCents int64) []Entry {
	if amountCents <= 0 {
		return entries
	}

	return append(entries,
		Debit(payerAccountID, amountCents, "fee"),
		Credit(feeRevenueAccountID, amountCents, "fee"),
	)
}

// AppendCommissionLeg adds a balanced DR/CR pair moving amountCents of
// already-recognized fee revenue into a commission payable liability
// for the agent who earned it.
func AppendCommissionLeg(entries []Entry, feeRevenueAccountID, commissionPayableAccountID string, amountCents int64) []Entry {
	if amountCents <= 0 {
		return entries
	}

	return append(entries,
		Debit(feeRevenueAccountID, amountCents, "commission"),
		Credit(commissionPayableAccountID, amountCents, "commission"),
	)
}
