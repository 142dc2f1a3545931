// Package command implements C4, the serialized posting engine, and
// the mutating operations that build on it: reversal, adjustment, and
// queue-message postings. Grounded on the teacher's
// internal/services/command UseCase pattern, which aggregates narrow
// repository interfaces rather than depending on concrete adapters.
package command

import (
	"context"
	"time"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/idempotency"
	"github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	"github.com/meridianpay/ledgercore/internal/adapters/postgres/overdraft"
	"github.com/meridianpay/ledgercore/pkg/mlog"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// ScopeLocker serializes access to one posting scope (spec §4.4). The
// token returned by Acquire is opaque to callers; Release needs it
// back to prove ownership.
type ScopeLocker interface {
	Acquire(ctx context.Context, scopeHash string) (token string, err error)
	Release(ctx context.Context, scopeHash, token string) error
}

// ResultCache is C3's write-through accelerator: a completed receipt
// may be served from here without a round trip to IdempotencyRepo.
// PostTransaction keys it by the scope hash joined with the payload
// hash, so only an identical replay is served from it.
// A nil ResultCache is valid — UseCase falls back to IdempotencyRepo
// only.
type ResultCache interface {
	GetResult(ctx context.Context, scopeHash string) (string, error)
	SetResult(ctx context.Context, scopeHash, resultJSON string) error
}

// EventForwarder best-effort forwards committed events to an external
// queue (spec §4.6). A nil EventForwarder is valid — forwarding is
// optional, durability lives in the events table regardless.
type EventForwarder interface {
	Forward(ctx context.Context, ev mmodel.Event) error
}

// MetadataRepo stores the optional free-form metadata attached to a
// posting. A nil MetadataRepo is valid.
type MetadataRepo interface {
	Create(ctx context.Context, collection string, entityID string, data map[string]any) error
}

// UseCase aggregates every dependency the command services need. Every
// field is a narrow interface so tests can supply hand-rolled fakes
// instead of a real Postgres/Redis/RabbitMQ.
type UseCase struct {
	LedgerRepo      ledger.Repository
	IdempotencyRepo idempotency.Repository
	OverdraftRepo   overdraft.Repository
	Lock            ScopeLocker
	Cache           ResultCache
	Producer        EventForwarder
	MetadataRepo    MetadataRepo
	Logger          mlog.Logger

	// StaleInProgressCutoff is how long an IN_PROGRESS idempotency
	// record may sit before C10 considers it a repair candidate.
	// Nothing in this package reads it; the repair logic, with its own
	// StaleCutoff setting, lives in internal/services/repair.
	StaleInProgressCutoff time.Duration
}

func (uc *UseCase) now() time.Time {
	return time.Now()
}
