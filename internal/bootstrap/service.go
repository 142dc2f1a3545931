package bootstrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/meridianpay/ledgercore/internal/adapters/mongodb/metadata"
	"github.com/meridianpay/ledgercore/internal/adapters/postgres"
	approvalpg "github.com/meridianpay/ledgercore/internal/adapters/postgres/approval"
	eventpg "github.com/meridianpay/ledgercore/internal/adapters/postgres/event"
	idempotencypg "github.com/meridianpay/ledgercore/internal/adapters/postgres/idempotency"
	ledgerpg "github.com/meridianpay/ledgercore/internal/adapters/postgres/ledger"
	overdraftpg "github.com/meridianpay/ledgercore/internal/adapters/postgres/overdraft"
	reconciliationpg "github.com/meridianpay/ledgercore/internal/adapters/postgres/reconciliation"
	"github.com/meridianpay/ledgercore/internal/adapters/rabbitmq"
	"github.com/meridianpay/ledgercore/internal/adapters/redis"
	ledgerhttp "github.com/meridianpay/ledgercore/internal/ports/http"
	"github.com/meridianpay/ledgercore/internal/services/approval"
	"github.com/meridianpay/ledgercore/internal/services/command"
	"github.com/meridianpay/ledgercore/internal/services/eventbus"
	"github.com/meridianpay/ledgercore/internal/services/integrity"
	"github.com/meridianpay/ledgercore/internal/services/query"
	"github.com/meridianpay/ledgercore/internal/services/reconciliation"
	"github.com/meridianpay/ledgercore/internal/services/repair"
	"github.com/meridianpay/ledgercore/pkg/mlog"
)

// Service holds every constructed dependency an entrypoint in cmd/
// needs. HTTP, consumer, and one-shot job binaries all call Init and
// pick the pieces they use — grounded on the teacher's bootstrap
// Service/InitServers split, generalized to this repo's three
// entrypoint shapes instead of the teacher's single HTTP+gRPC server.
type Service struct {
	Config *Config
	Logger mlog.Logger

	DB    *sql.DB
	Redis *goredis.Client

	RabbitMQConn *rabbitmq.Connection
	MongoConn    *metadata.Connection

	Command        *command.UseCase
	Query          *query.UseCase
	Approval       *approval.UseCase
	Reconciliation *reconciliation.UseCase
	Integrity      *integrity.UseCase
	Repair         *repair.UseCase
	EventBus       *eventbus.UseCase

	Dedupe   *rabbitmq.PostgresDedupe
	Producer *rabbitmq.Producer
}

// metadataAdapter narrows mongodb/metadata.Repository's
// Create(ctx, collection, *Metadata) to the shape
// internal/services/command.MetadataRepo expects
// (Create(ctx, collection, entityID, data)), so the posting engine
// never needs to know mongodb/metadata's document shape.
type metadataAdapter struct {
	repo metadata.Repository
}

func (a metadataAdapter) Create(ctx context.Context, collection, entityID string, data map[string]any) error {
	now := time.Now()

	return a.repo.Create(ctx, collection, &metadata.Metadata{
		EntityID:  entityID,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Init loads configuration and wires every adapter and service. The
// caller is responsible for calling Close when done.
func Init(logger mlog.Logger) (*Service, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	db, err := postgres.Connect(cfg.postgresDSN())
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(db); err != nil {
		return nil, err
	}

	redisConn := &redis.Connection{ConnectionStringSource: cfg.redisDSN(), Logger: logger}

	ctx := context.Background()

	redisClient, err := redisConn.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	rabbitConn := &rabbitmq.Connection{ConnectionStringSource: cfg.rabbitmqDSN(), Logger: logger}

	mongoConn := &metadata.Connection{ConnectionStringSource: cfg.mongoDSN(), Database: cfg.MongoDBName, Logger: logger}

	ledgerRepo := ledgerpg.NewPostgresRepository(db)
	idempotencyRepo := idempotencypg.NewPostgresRepository(db)
	overdraftRepo := overdraftpg.NewPostgresRepository(db)
	approvalRepo := approvalpg.NewPostgresRepository(db)
	reconRepo := reconciliationpg.NewPostgresRepository(db)
	eventRepo := eventpg.NewPostgresRepository(db)

	scopeLock := redis.NewScopeLock(redisClient, time.Duration(cfg.RedisLockTTLSeconds)*time.Second)
	resultCache := redis.NewIdempotencyCache(redisClient, time.Duration(cfg.RedisIdempotencyTTLSeconds)*time.Second)

	producer := rabbitmq.NewProducer(rabbitConn, cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey, logger)
	dedupe := rabbitmq.NewPostgresDedupe(db)

	mongoRepo := metadata.NewMongoRepository(mongoConn)

	eventBus := &eventbus.UseCase{EventRepo: eventRepo, Producer: producer, Logger: logger}

	commandUC := &command.UseCase{
		LedgerRepo:            ledgerRepo,
		IdempotencyRepo:       idempotencyRepo,
		OverdraftRepo:         overdraftRepo,
		Lock:                  scopeLock,
		Cache:                 resultCache,
		Producer:              producer,
		MetadataRepo:          metadataAdapter{repo: mongoRepo},
		Logger:                logger,
		StaleInProgressCutoff: time.Duration(cfg.StaleInProgressCutoffSeconds) * time.Second,
	}

	return &Service{
		Config:       cfg,
		Logger:       logger,
		DB:           db,
		Redis:        redisClient,
		RabbitMQConn: rabbitConn,
		MongoConn:    mongoConn,
		Command:      commandUC,
		Query:        &query.UseCase{LedgerRepo: ledgerRepo},
		Approval:     &approval.UseCase{Repo: approvalRepo},
		Reconciliation: &reconciliation.UseCase{
			LedgerRepo: ledgerRepo,
			ReconRepo:  reconRepo,
			Events:     eventBus,
			Logger:     logger,
		},
		Integrity: &integrity.UseCase{
			LedgerRepo: ledgerRepo,
			ReconRepo:  reconRepo,
			Events:     eventBus,
			Logger:     logger,
		},
		Repair: &repair.UseCase{
			LedgerReader:    ledgerRepo,
			IdempotencyRepo: idempotencyRepo,
			Events:          eventBus,
			Logger:          logger,
			StaleCutoff:     time.Duration(cfg.StaleInProgressCutoffSeconds) * time.Second,
		},
		EventBus: eventBus,
		Dedupe:   dedupe,
		Producer: producer,
	}, nil
}

// Router builds the HTTP routing surface over this Service's UseCases.
func (s *Service) Router() *fiber.App {
	return ledgerhttp.NewRouter(s.Logger,
		&ledgerhttp.TransactionHandler{Command: s.Command},
		&ledgerhttp.QueryHandler{Query: s.Query},
		&ledgerhttp.ApprovalHandler{Approval: s.Approval},
		&ledgerhttp.OpsHandler{Reconciliation: s.Reconciliation, Integrity: s.Integrity, Repair: s.Repair},
	)
}

// Close releases every external connection.
func (s *Service) Close() {
	_ = s.DB.Close()
	_ = s.RabbitMQConn.Close()

	if err := s.Logger.Sync(); err != nil {
		s.Logger.Errorf("failed to sync logger: %v", err)
	}
}
