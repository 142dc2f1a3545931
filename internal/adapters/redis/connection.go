// Package redis wires C4's per-scope serialization lock and C3's
// write-through idempotency cache on top of go-redis, grounded on
// common/mredis's RedisConnection.
package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/meridianpay/ledgercore/pkg/mlog"
)

// Connection is a hub that deals with redis connections.
type Connection struct {
	ConnectionStringSource string
	Client                 *goredis.Client
	Connected              bool
	Logger                 mlog.Logger
}

// Connect keeps a singleton connection with redis.
func (c *Connection) Connect(ctx context.Context) error {
	c.Logger.Info("Connecting to redis...")

	opts, err := goredis.ParseURL(c.ConnectionStringSource)
	if err != nil {
		return err
	}

	client := goredis.NewClient(opts)

	if _, err := client.Ping(ctx).Result(); err != nil {
		c.Logger.Errorf("redis ping failed: %v", err)
		return err
	}

	c.Logger.Info("Connected to redis")
	c.Connected = true
	c.Client = client

	return nil
}

// GetClient returns the redis client, connecting lazily if necessary.
func (c *Connection) GetClient(ctx context.Context) (*goredis.Client, error) {
	if c.Client == nil {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return c.Client, nil
}
