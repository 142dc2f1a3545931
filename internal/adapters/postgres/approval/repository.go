// Package approval implements the store behind C11's maker-checker
// governance requests.
package approval

import (
	"context"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Repository is the approval request store's contract.
type Repository interface {
	Create(ctx context.Context, req mmodel.ApprovalRequest) error
	Get(ctx context.Context, id string) (*mmodel.ApprovalRequest, error)
	Decide(ctx context.Context, id, checkerStaffID string, state mmodel.ApprovalState, afterJSON string) error
	ListPending(ctx context.Context, typeKey mmodel.ApprovalTypeKey) ([]mmodel.ApprovalRequest, error)
}
