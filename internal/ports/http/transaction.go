package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meridianpay/ledgercore/internal/services/command"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// TransactionHandler exposes C4's posting engine: new postings,
// reversals, and manual adjustments.
type TransactionHandler struct {
	Command *command.UseCase
}

type entryRequest struct {
	AccountID   string           `json:"account_id"`
	Currency    string           `json:"currency"`
	EntryType   mmodel.EntryType `json:"entry_type"`
	Amount      int64            `json:"amount"`
	Description string           `json:"description"`
}

type postTransactionRequest struct {
	IdempotencyKey string         `json:"idempotency_key"`
	CorrelationID  string         `json:"correlation_id"`
	ActorType      string         `json:"actor_type"`
	ActorID        string         `json:"actor_id"`
	TxnType        mmodel.TxnType `json:"txn_type"`
	Currency       string         `json:"currency"`
	Entries        []entryRequest `json:"entries"`
	Description    string         `json:"description"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// PostTransaction handles POST /v1/transactions (spec §6 POST /post).
func (h *TransactionHandler) PostTransaction(c *fiber.Ctx) error {
	var req postTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, merr.MissingRequiredField("body"))
	}

	entries := make([]command.EntryCommand, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = command.EntryCommand{
			AccountID:   e.AccountID,
			Currency:    e.Currency,
			EntryType:   e.EntryType,
			Amount:      e.Amount,
			Description: e.Description,
		}
	}

	receipt, err := h.Command.PostTransaction(c.UserContext(), command.PostCommand{
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  req.CorrelationID,
		ActorType:      req.ActorType,
		ActorID:        req.ActorID,
		TxnType:        req.TxnType,
		Currency:       req.Currency,
		Entries:        entries,
		Description:    req.Description,
		Metadata:       req.Metadata,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeCreated(c, receipt)
}

type reverseTransactionRequest struct {
	JournalID      string `json:"journal_id"`
	IdempotencyKey string `json:"idempotency_key"`
	CorrelationID  string `json:"correlation_id"`
	ActorType      string `json:"actor_type"`
	ActorID        string `json:"actor_id"`
	Reason         string `json:"reason"`
}

// ReverseTransaction handles POST /v1/transactions/:journal_id/reverse.
// The caller is expected to have already obtained an APPROVED
// ApprovalRequest of type REVERSAL via the approval handler.
func (h *TransactionHandler) ReverseTransaction(c *fiber.Ctx) error {
	var req reverseTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, merr.MissingRequiredField("body"))
	}

	req.JournalID = c.Params("journal_id")

	receipt, err := h.Command.Reverse(c.UserContext(), command.ReverseCommand{
		JournalID:      req.JournalID,
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  req.CorrelationID,
		ActorType:      req.ActorType,
		ActorID:        req.ActorID,
		Reason:         req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeCreated(c, receipt)
}

type adjustBalanceRequest struct {
	AccountID         string `json:"account_id"`
	SuspenseAccountID string `json:"suspense_account_id"`
	Currency          string `json:"currency"`
	AmountCents       int64  `json:"amount_cents"`
	Reason            string `json:"reason"`
	IdempotencyKey    string `json:"idempotency_key"`
	CorrelationID     string `json:"correlation_id"`
	ActorType         string `json:"actor_type"`
	ActorID           string `json:"actor_id"`
}

// AdjustBalance handles POST /v1/transactions/adjustments. The caller
// is expected to have already obtained an APPROVED ApprovalRequest of
// type MANUAL_ADJUSTMENT via the approval handler.
func (h *TransactionHandler) AdjustBalance(c *fiber.Ctx) error {
	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, merr.MissingRequiredField("body"))
	}

	receipt, err := h.Command.Adjust(c.UserContext(), command.AdjustCommand{
		AccountID:         req.AccountID,
		SuspenseAccountID: req.SuspenseAccountID,
		Currency:          req.Currency,
		AmountCents:       req.AmountCents,
		Reason:            req.Reason,
		IdempotencyKey:    req.IdempotencyKey,
		CorrelationID:     req.CorrelationID,
		ActorType:         req.ActorType,
		ActorID:           req.ActorID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeCreated(c, receipt)
}
