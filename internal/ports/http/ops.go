package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meridianpay/ledgercore/internal/services/integrity"
	"github.com/meridianpay/ledgercore/internal/services/reconciliation"
	"github.com/meridianpay/ledgercore/internal/services/repair"
)

// OpsHandler exposes the operator-triggered C8/C9/C10 jobs (spec §7:
// "background scheduling policy is a non-goal, an HTTP/CLI trigger is
// not").
type OpsHandler struct {
	Reconciliation *reconciliation.UseCase
	Integrity      *integrity.UseCase
	Repair         *repair.UseCase
}

type reconciliationRunRequest struct {
	AsOf *time.Time `json:"as_of,omitempty"`
}

// RunReconciliation handles POST /v1/ops/reconciliation/run.
func (h *OpsHandler) RunReconciliation(c *fiber.Ctx) error {
	var req reconciliationRunRequest
	_ = c.BodyParser(&req)

	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	run, err := h.Reconciliation.Run(c.UserContext(), asOf)
	if err != nil {
		return writeError(c, err)
	}

	return writeOK(c, run)
}

type integrityVerifyRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// VerifyIntegrity handles POST /v1/ops/integrity/verify.
func (h *OpsHandler) VerifyIntegrity(c *fiber.Ctx) error {
	var req integrityVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, err)
	}

	run, findings, err := h.Integrity.Verify(c.UserContext(), req.From, req.To)
	if err != nil {
		return writeError(c, err)
	}

	return writeOK(c, fiber.Map{"run": run, "findings": findings})
}

type backfillIdempotencyRequest struct {
	JournalID string `json:"journal_id"`
	ActorType string `json:"actor_type"`
	ActorID   string `json:"actor_id"`
}

// BackfillIdempotency handles POST /v1/ops/repair/backfill-idempotency.
func (h *OpsHandler) BackfillIdempotency(c *fiber.Ctx) error {
	var req backfillIdempotencyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, err)
	}

	record, err := h.Repair.BackfillIdempotencyRecord(c.UserContext(), req.JournalID, req.ActorType, req.ActorID)
	if err != nil {
		return writeError(c, err)
	}

	return writeOK(c, record)
}

type completeStaleRequest struct {
	ActorType string `json:"actor_type"`
	ActorID   string `json:"actor_id"`
}

// CompleteStale handles POST /v1/ops/repair/complete-stale.
func (h *OpsHandler) CompleteStale(c *fiber.Ctx) error {
	var req completeStaleRequest
	_ = c.BodyParser(&req)

	repaired, err := h.Repair.CompleteStaleInProgress(c.UserContext(), req.ActorType, req.ActorID)
	if err != nil {
		return writeError(c, err)
	}

	return writeOK(c, fiber.Map{"repaired": repaired})
}
