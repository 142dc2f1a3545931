// Package event implements the standalone half of C6: inserting
// domain-event rows generated outside the posting engine's atomic
// bundle (reconciliation, integrity, repair all emit events this way).
// Events produced by PostTransaction itself still go through
// internal/adapters/postgres/ledger's bundle insert, in the same
// transaction as the journal they describe.
package event

import (
	"context"

	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Repository is the standalone event store's contract: insert-only,
// append-only, no reads needed outside of tests.
type Repository interface {
	Insert(ctx context.Context, ev mmodel.Event) error
}
