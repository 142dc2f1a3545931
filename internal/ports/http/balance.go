package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meridianpay/ledgercore/internal/services/query"
	"github.com/meridianpay/ledgercore/pkg/merr"
)

// QueryHandler exposes read-only lookups over C2's store.
type QueryHandler struct {
	Query *query.UseCase
}

type balanceResponse struct {
	AccountID string `json:"account_id"`
	Currency  string `json:"currency"`
	Balance   int64  `json:"balance"`
}

// GetBalance handles GET /v1/balances/:account_id?currency=KES.
func (h *QueryHandler) GetBalance(c *fiber.Ctx) error {
	accountID := c.Params("account_id")

	currency := c.Query("currency")
	if currency == "" {
		return writeError(c, merr.MissingRequiredField("currency"))
	}

	balance, err := h.Query.GetBalance(c.UserContext(), accountID, currency)
	if err != nil {
		return writeError(c, err)
	}

	return writeOK(c, balanceResponse{AccountID: accountID, Currency: currency, Balance: balance})
}

type journalResponse struct {
	Journal any `json:"journal"`
	Lines   any `json:"lines"`
}

// GetJournal handles GET /v1/journals/:journal_id.
func (h *QueryHandler) GetJournal(c *fiber.Ctx) error {
	journal, lines, err := h.Query.GetJournal(c.UserContext(), c.Params("journal_id"))
	if err != nil {
		return writeError(c, err)
	}

	return writeOK(c, journalResponse{Journal: journal, Lines: lines})
}
