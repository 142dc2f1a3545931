// Package rabbitmq wires C6's best-effort event forwarding and C7's
// at-least-once queue consumer, grounded on common/mrabbitmq's
// RabbitMQConnection but built on the maintained amqp091-go fork
// rather than the teacher's vendored streadway/amqp.
package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/meridianpay/ledgercore/pkg/mlog"
)

// Connection is a hub that deals with rabbitmq connections.
type Connection struct {
	ConnectionStringSource string
	Conn                   *amqp.Connection
	Channel                *amqp.Channel
	Connected              bool
	Logger                 mlog.Logger
}

// Connect keeps a singleton connection with rabbitmq.
func (rc *Connection) Connect(ctx context.Context) error {
	rc.Logger.Info("Connecting to rabbitmq...")

	conn, err := amqp.Dial(rc.ConnectionStringSource)
	if err != nil {
		rc.Logger.Errorf("failed to connect to rabbitmq: %v", err)
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		rc.Logger.Errorf("failed to open channel on rabbitmq: %v", err)
		return err
	}

	rc.Logger.Info("Connected to rabbitmq")
	rc.Connected = true
	rc.Conn = conn
	rc.Channel = ch

	return nil
}

// GetChannel returns the rabbitmq channel, connecting lazily if
// necessary.
func (rc *Connection) GetChannel(ctx context.Context) (*amqp.Channel, error) {
	if !rc.Connected {
		if err := rc.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return rc.Channel, nil
}

// Close tears down the channel and connection.
func (rc *Connection) Close() error {
	if rc.Channel != nil {
		_ = rc.Channel.Close()
	}

	if rc.Conn != nil {
		return rc.Conn.Close()
	}

	return nil
}
