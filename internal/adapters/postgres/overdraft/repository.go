// Package overdraft implements the store behind overdraft facilities:
// the sufficient-funds check in C4 reads Get and applies Effective(now).
// Facility rows are written only through Upsert.
package overdraft

import (
	"context"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Repository is the overdraft facility store's contract.
type Repository interface {
	// Get returns accountID's overdraft facility, regardless of state
	// — callers apply Effective(now) themselves. Returns nil, nil when
	// no facility has ever been requested for accountID.
	Get(ctx context.Context, accountID string) (*mmodel.OverdraftFacility, error)

	// Upsert creates or replaces accountID's facility row. A facility
	// is singular per account (primary key is account_id), matching
	// spec §3's one-active-facility-per-account model.
	Upsert(ctx context.Context, facility mmodel.OverdraftFacility) error
}
