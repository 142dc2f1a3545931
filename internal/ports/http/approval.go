package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meridianpay/ledgercore/internal/services/approval"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// ApprovalHandler exposes C11's maker-checker workflow.
type ApprovalHandler struct {
	Approval *approval.UseCase
}

type createApprovalRequest struct {
	TypeKey      mmodel.ApprovalTypeKey `json:"type_key"`
	MakerStaffID string                 `json:"maker_staff_id"`
	Reason       string                 `json:"reason"`
	Before       any                    `json:"before,omitempty"`
}

// CreateRequest handles POST /v1/approvals.
func (h *ApprovalHandler) CreateRequest(c *fiber.Ctx) error {
	var req createApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, merr.MissingRequiredField("body"))
	}

	approvalReq, err := h.Approval.CreateRequest(c.UserContext(), req.TypeKey, req.MakerStaffID, req.Reason, req.Before)
	if err != nil {
		return writeError(c, err)
	}

	return writeCreated(c, approvalReq)
}

type decideApprovalRequest struct {
	CheckerStaffID string `json:"checker_staff_id"`
	Approve        bool   `json:"approve"`
	Reason         string `json:"reason"`
}

// Decide handles POST /v1/approvals/:id/decide.
func (h *ApprovalHandler) Decide(c *fiber.Ctx) error {
	var req decideApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, merr.MissingRequiredField("body"))
	}

	decided, err := h.Approval.Decide(c.UserContext(), c.Params("id"), req.CheckerStaffID, req.Approve, req.Reason)
	if err != nil {
		return writeError(c, err)
	}

	return writeOK(c, decided)
}
