package command

import (
	"time"

	"github.com/meridianpay/ledgercore/pkg/gold"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// EntryCommand is one proposed ledger line as received from a caller,
// before the engine validates and turns it into a ledger line.
type EntryCommand struct {
	AccountID   string
	Currency    string
	EntryType   mmodel.EntryType
	Amount      int64
	Description string
}

// PostCommand is postTransaction's input (spec §4.4).
type PostCommand struct {
	IdempotencyKey string
	CorrelationID  string
	ActorType      string
	ActorID        string
	TxnType        mmodel.TxnType
	Currency       string
	Entries        []EntryCommand
	Description    string
	Metadata       map[string]any
}

func (c PostCommand) goldEntries() []gold.Entry {
	entries := make([]gold.Entry, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = gold.Entry{AccountID: e.AccountID, EntryType: e.EntryType, Amount: e.Amount, Description: e.Description}
	}

	return entries
}

// Receipt is postTransaction's output (spec §4.4).
type Receipt struct {
	JournalID     string              `json:"journal_id"`
	State         mmodel.JournalState `json:"state"`
	Entries       []mmodel.LedgerLine `json:"entries"`
	CreatedAt     time.Time           `json:"created_at"`
	CorrelationID string              `json:"correlation_id"`
	TxnType       mmodel.TxnType      `json:"txn_type"`
	Currency      string              `json:"currency"`
}
