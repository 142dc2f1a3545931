package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/meridianpay/ledgercore/pkg/mlog"
)

// Consumer wraps one rabbitmq queue with dedupe-guarded, at-least-once
// delivery: a message is acked only after its handler succeeds, and a
// message id already marked processed is acked immediately without
// re-running the handler (spec §5, C7).
type Consumer struct {
	Conn   *Connection
	Queue  string
	Dedupe Dedupe
	Logger mlog.Logger
}

func NewConsumer(conn *Connection, queue string, dedupe Dedupe, logger mlog.Logger) *Consumer {
	return &Consumer{Conn: conn, Queue: queue, Dedupe: dedupe, Logger: logger}
}

// Consume decodes each delivery as T, dedupes by its AMQP message id,
// and invokes handler. It blocks until ctx is cancelled.
func Consume[T any](ctx context.Context, c *Consumer, topic string, handler func(context.Context, T) error) error {
	ch, err := c.Conn.GetChannel(ctx)
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			consumeOne(ctx, c, d, topic, handler)
		}
	}
}

func consumeOne[T any](ctx context.Context, c *Consumer, d amqp.Delivery, topic string, handler func(context.Context, T) error) {
	claimed, err := c.Dedupe.MarkProcessed(ctx, d.MessageId, topic)
	if err != nil {
		c.Logger.Errorf("dedupe check failed for message %s: %v", d.MessageId, err)
		_ = d.Nack(false, true)

		return
	}

	if !claimed {
		_ = d.Ack(false)
		return
	}

	var payload T
	if err := msgpack.Unmarshal(d.Body, &payload); err != nil {
		c.Logger.Errorf("failed to decode message %s: %v", d.MessageId, err)
		_ = d.Nack(false, false)

		return
	}

	if err := handler(ctx, payload); err != nil {
		c.Logger.Errorf("handler failed for message %s: %v", d.MessageId, err)
		_ = d.Nack(false, true)

		return
	}

	_ = d.Ack(false)
}
