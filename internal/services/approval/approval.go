// Package approval implements C11: maker-checker governance for the
// sensitive operations spec §4.11 names (reversal, manual adjustment,
// fee/commission matrix change, overdraft facility request). The
// checker != maker invariant is enforced here in Go, ahead of (and
// independent from) the Postgres CHECK constraint on approval_requests
// — defense in depth, the same validate-then-constraint layering the
// teacher uses throughout its command package.
package approval

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/approval"
	"github.com/meridianpay/ledgercore/pkg/merr"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// UseCase runs maker-checker workflows over internal/adapters/postgres/approval.
type UseCase struct {
	Repo approval.Repository
}

// CreateRequest records a PENDING request from makerStaffID. before is
// the optional pre-state snapshot, marshaled to JSON for the audit
// trail a checker reviews before deciding.
func (uc *UseCase) CreateRequest(ctx context.Context, typeKey mmodel.ApprovalTypeKey, makerStaffID, reason string, before any) (*mmodel.ApprovalRequest, error) {
	if makerStaffID == "" {
		return nil, merr.MissingRequiredField("maker_staff_id")
	}

	if typeKey == "" {
		return nil, merr.MissingRequiredField("type_key")
	}

	beforeJSON := ""

	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return nil, merr.Internal(err)
		}

		beforeJSON = string(raw)
	}

	req := mmodel.ApprovalRequest{
		ID:           uuid.NewString(),
		TypeKey:      typeKey,
		MakerStaffID: makerStaffID,
		State:        mmodel.ApprovalStatePending,
		BeforeJSON:   beforeJSON,
		Reason:       reason,
		CreatedAt:    time.Now(),
	}

	if err := uc.Repo.Create(ctx, req); err != nil {
		return nil, merr.Internal(err)
	}

	return &req, nil
}

// Decide resolves a PENDING request. checkerStaffID must differ from
// the original maker — checked here before the request ever reaches
// the database's own CHECK constraint.
func (uc *UseCase) Decide(ctx context.Context, id, checkerStaffID string, approve bool, reason string) (*mmodel.ApprovalRequest, error) {
	if id == "" {
		return nil, merr.MissingRequiredField("id")
	}

	if checkerStaffID == "" {
		return nil, merr.MissingRequiredField("checker_staff_id")
	}

	req, err := uc.Repo.Get(ctx, id)
	if err != nil {
		return nil, merr.Internal(err)
	}

	if req == nil {
		return nil, merr.NotFound("approval_request", id)
	}

	if req.State != mmodel.ApprovalStatePending {
		return nil, merr.NotFound("pending_approval_request", id)
	}

	if checkerStaffID == req.MakerStaffID {
		return nil, merr.MakerCheckerConflict(checkerStaffID)
	}

	state := mmodel.ApprovalStateRejected
	if approve {
		state = mmodel.ApprovalStateApproved
	}

	afterJSON, err := json.Marshal(map[string]any{"state": state, "reason": reason})
	if err != nil {
		return nil, merr.Internal(err)
	}

	if err := uc.Repo.Decide(ctx, id, checkerStaffID, state, string(afterJSON)); err != nil {
		return nil, merr.Internal(err)
	}

	req.CheckerStaffID = checkerStaffID
	req.State = state
	req.AfterJSON = string(afterJSON)
	now := time.Now()
	req.DecidedAt = &now

	return req, nil
}
