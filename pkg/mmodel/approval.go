package mmodel

import "time"

// ApprovalState is the lifecycle of a maker-checker request.
type ApprovalState string

const (
	ApprovalStatePending   ApprovalState = "PENDING"
	ApprovalStateApproved  ApprovalState = "APPROVED"
	ApprovalStateRejected  ApprovalState = "REJECTED"
	ApprovalStateCancelled ApprovalState = "CANCELLED"
)

// ApprovalTypeKey enumerates the operations gated by maker-checker
// (spec §4.11).
type ApprovalTypeKey string

const (
	ApprovalTypeReversal          ApprovalTypeKey = "REVERSAL"
	ApprovalTypeManualAdjustment  ApprovalTypeKey = "MANUAL_ADJUSTMENT"
	ApprovalTypeFeeMatrixChange   ApprovalTypeKey = "FEE_MATRIX_CHANGE"
	ApprovalTypeOverdraftRequest  ApprovalTypeKey = "OVERDRAFT_REQUEST"
)

// ApprovalRequest gates a sensitive operation behind a second, distinct
// actor. Invariant: if CheckerStaffID is non-empty it must differ from
// MakerStaffID.
type ApprovalRequest struct {
	ID             string        `json:"id"`
	TypeKey        ApprovalTypeKey `json:"type_key"`
	MakerStaffID   string        `json:"maker_staff_id"`
	CheckerStaffID string        `json:"checker_staff_id,omitempty"`
	State          ApprovalState `json:"state"`
	BeforeJSON     string        `json:"before_json,omitempty"`
	AfterJSON      string        `json:"after_json,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	DecidedAt      *time.Time    `json:"decided_at,omitempty"`
}
