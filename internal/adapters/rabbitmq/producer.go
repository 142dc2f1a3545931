package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/meridianpay/ledgercore/pkg/mlog"
	"github.com/meridianpay/ledgercore/pkg/mmodel"
)

// Producer forwards committed events to an external queue, best-effort
// and after the owning transaction has already committed: a forwarding
// failure never rolls back a posted journal (spec §4.6 — events are
// durable in Postgres regardless of queue availability).
type Producer struct {
	Conn      *Connection
	Exchange  string
	RoutingKey string
	Logger    mlog.Logger
}

func NewProducer(conn *Connection, exchange, routingKey string, logger mlog.Logger) *Producer {
	return &Producer{Conn: conn, Exchange: exchange, RoutingKey: routingKey, Logger: logger}
}

// Forward publishes ev as a msgpack-encoded message. Errors are
// returned to the caller (who logs and drops them; events remain
// durable in the events table regardless).
func (p *Producer) Forward(ctx context.Context, ev mmodel.Event) error {
	ch, err := p.Conn.GetChannel(ctx)
	if err != nil {
		return err
	}

	body, err := msgpack.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, p.Exchange, p.RoutingKey, false, false, amqp.Publishing{
		ContentType: "application/msgpack",
		Body:        body,
	})
}
