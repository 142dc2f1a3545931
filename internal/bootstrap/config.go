// Package bootstrap wires every adapter and service into one running
// process: HTTP server, queue consumer, or one-shot operator job,
// grounded on the teacher's internal/bootstrap config/service split
// (one Config struct read once from the environment, one Service
// struct holding every constructed dependency).
package bootstrap

import (
	"fmt"
)

const ApplicationName = "ledgercore"

// Config is the top level configuration struct for every entrypoint in
// cmd/. Each field's `env` tag names the environment variable that
// populates it (and, after a comma, its default).
type Config struct {
	EnvName  string `env:"ENV_NAME,default=local"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	ServerAddress string `env:"SERVER_ADDRESS,default=:3003"`

	PostgresHost     string `env:"POSTGRES_HOST,default=localhost"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER,default=ledgercore"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,default=ledgercore"`
	PostgresDB       string `env:"POSTGRES_DB,default=ledgercore"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE,default=disable"`

	RedisAddress string `env:"REDIS_ADDRESS,default=localhost:6379"`
	RedisDB      int    `env:"REDIS_DB,default=0"`

	RedisLockTTLSeconds       int `env:"REDIS_LOCK_TTL_SECONDS,default=30"`
	RedisIdempotencyTTLSeconds int `env:"REDIS_IDEMPOTENCY_TTL_SECONDS,default=86400"`

	RabbitMQHost  string `env:"RABBITMQ_HOST,default=localhost"`
	RabbitMQPort  string `env:"RABBITMQ_PORT,default=5672"`
	RabbitMQUser  string `env:"RABBITMQ_DEFAULT_USER,default=guest"`
	RabbitMQPass  string `env:"RABBITMQ_DEFAULT_PASS,default=guest"`
	RabbitMQExchange  string `env:"RABBITMQ_EXCHANGE,default=ledgercore.events"`
	RabbitMQRoutingKey string `env:"RABBITMQ_ROUTING_KEY,default=ledgercore.events"`
	RabbitMQQueue     string `env:"RABBITMQ_QUEUE,default=ledgercore.postings"`

	MongoDBHost string `env:"MONGO_HOST,default=localhost:27017"`
	MongoDBUser string `env:"MONGO_USER"`
	MongoDBPass string `env:"MONGO_PASSWORD"`
	MongoDBName string `env:"MONGO_NAME,default=ledgercore"`

	StaleInProgressCutoffSeconds int64 `env:"STALE_IN_PROGRESS_CUTOFF_SECONDS,default=300"`
}

func (c *Config) postgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSLMode)
}

func (c *Config) redisDSN() string {
	return fmt.Sprintf("redis://%s/%d", c.RedisAddress, c.RedisDB)
}

func (c *Config) rabbitmqDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.RabbitMQUser, c.RabbitMQPass, c.RabbitMQHost, c.RabbitMQPort)
}

func (c *Config) mongoDSN() string {
	if c.MongoDBUser == "" {
		return fmt.Sprintf("mongodb://%s", c.MongoDBHost)
	}

	return fmt.Sprintf("mongodb://%s:%s@%s", c.MongoDBUser, c.MongoDBPass, c.MongoDBHost)
}

// LoadConfig reads Config from the environment, applying each field's
// default when the corresponding variable is unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := setConfigFromEnvVars(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
