// Package eventbus implements C6's standalone half: Emit/EmitMany for
// events generated outside the posting engine's atomic bundle, plus
// the same best-effort forward to RabbitMQ that PostTransaction
// performs after its own bundle commits (spec §4.6 — forwarding
// failures never affect durability, the events table is already the
// system of record).
package eventbus

import (
	"context"

	"github.com/meridianpay/ledgercore/internal/adapters/postgres/event"
	"github.com/meridianpay/ledgercore/pkg/mlog"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Forwarder best-effort forwards an event to an external queue. A nil
// Forwarder is valid — forwarding is optional.
type Forwarder interface {
	Forward(ctx context.Context, ev mmodel.Event) error
}

// UseCase is the eventbus's single dependency aggregate, used by
// internal/services/reconciliation, integrity, and repair wherever
// SPEC_FULL.md promises an Emit/EmitMany call.
type UseCase struct {
	EventRepo event.Repository
	Producer  Forwarder
	Logger    mlog.Logger
}

// Emit durably inserts ev, then best-effort forwards it.
func (uc *UseCase) Emit(ctx context.Context, ev mmodel.Event) error {
	if err := uc.EventRepo.Insert(ctx, ev); err != nil {
		return err
	}

	uc.forward(ctx, ev)

	return nil
}

// EmitMany emits every event in order, stopping at the first durable
// insert failure (forwarding failures never stop the batch).
func (uc *UseCase) EmitMany(ctx context.Context, events []mmodel.Event) error {
	for _, ev := range events {
		if err := uc.Emit(ctx, ev); err != nil {
			return err
		}
	}

	return nil
}

func (uc *UseCase) forward(ctx context.Context, ev mmodel.Event) {
	if uc.Producer == nil {
		return
	}

	if err := uc.Producer.Forward(ctx, ev); err != nil && uc.Logger != nil {
		uc.Logger.Errorf("failed to forward event %s (%s): %v", ev.ID, ev.Name, err)
	}
}
