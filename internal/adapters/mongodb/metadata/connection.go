// Package metadata implements an optional free-form metadata store
// for journals and accounts (device info, channel, merchant
// reference), grounded on common/mmongo and the teacher's universal
// MetadataRepo pattern. It is never consulted for balance or
// integrity logic, purely descriptive.
package metadata

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meridianpay/ledgercore/pkg/mlog"
)

// Connection is a hub that deals with mongodb connections.
type Connection struct {
	ConnectionStringSource string
	Database               string
	Client                 *mongo.Client
	Connected              bool
	Logger                 mlog.Logger
}

// Connect keeps a singleton connection with mongodb.
func (c *Connection) Connect(ctx context.Context) error {
	c.Logger.Info("Connecting to mongodb...")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.ConnectionStringSource))
	if err != nil {
		c.Logger.Errorf("failed to connect to mongodb: %v", err)
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		c.Logger.Errorf("mongodb ping failed: %v", err)
		return err
	}

	c.Logger.Info("Connected to mongodb")
	c.Connected = true
	c.Client = client

	return nil
}

// GetDB returns the mongo client, connecting lazily if necessary.
func (c *Connection) GetDB(ctx context.Context) (*mongo.Client, error) {
	if c.Client == nil {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return c.Client, nil
}
