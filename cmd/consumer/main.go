// Command consumer runs C7's at-least-once queue consumer, dedupe-
// guarded over the Postgres-backed dedupe table the RabbitMQ consumer
// adapter uses, translating each delivery into
// a posting through internal/services/command.ConsumeQueueMessage.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meridianpay/ledgercore/internal/adapters/rabbitmq"
	"github.com/meridianpay/ledgercore/internal/bootstrap"
	"github.com/meridianpay/ledgercore/internal/services/command"
	"github.com/meridianpay/ledgercore/pkg/mlog"
)

func main() {
	logger, err := mlog.NewZapLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	svc, err := bootstrap.Init(logger)
	if err != nil {
		logger.Fatalf("failed to initialize service: %v", err)
	}

	defer svc.Close()

	consumer := rabbitmq.NewConsumer(svc.RabbitMQConn, svc.Config.RabbitMQQueue, svc.Dedupe, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Infof("%s consumer listening on queue %s", bootstrap.ApplicationName, svc.Config.RabbitMQQueue)

	err = rabbitmq.Consume(ctx, consumer, svc.Config.RabbitMQQueue, func(ctx context.Context, msg command.PostingMessage) error {
		return svc.Command.ConsumeQueueMessage(ctx, msg)
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatalf("consumer stopped: %v", err)
	}
}
