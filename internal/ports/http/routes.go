package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/meridianpay/ledgercore/pkg/mlog"
)

// NewRouter wires every handler into one fiber.App, grounded on the
// teacher's ports/http routes.go layout (one function, one app,
// middleware first, routes grouped by resource).
func NewRouter(logger mlog.Logger, th *TransactionHandler, qh *QueryHandler, ah *ApprovalHandler, oh *OpsHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ledgercore",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return writeError(c, err)
		},
	})

	app.Use(cors.New())
	app.Use(withCorrelationID())
	app.Use(withHTTPLogging(logger))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/v1/transactions", th.PostTransaction)
	app.Post("/v1/transactions/:journal_id/reverse", th.ReverseTransaction)
	app.Post("/v1/transactions/adjustments", th.AdjustBalance)

	app.Get("/v1/balances/:account_id", qh.GetBalance)
	app.Get("/v1/journals/:journal_id", qh.GetJournal)

	app.Post("/v1/approvals", ah.CreateRequest)
	app.Post("/v1/approvals/:id/decide", ah.Decide)

	app.Post("/v1/ops/reconciliation/run", oh.RunReconciliation)
	app.Post("/v1/ops/integrity/verify", oh.VerifyIntegrity)
	app.Post("/v1/ops/repair/backfill-idempotency", oh.BackfillIdempotency)
	app.Post("/v1/ops/repair/complete-stale", oh.CompleteStale)

	return app
}
