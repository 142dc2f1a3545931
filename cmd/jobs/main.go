// Command jobs runs the one-shot operator tasks behind the C8-C10
// endpoints outside of HTTP: reconciliation sweeps, integrity
// verification windows, and forward-only repairs, for cron/ops
// invocation. Subcommand dispatch uses the standard flag package —
// no struct-tag CLI framework like spf13/cobra survives in the
// dependency-pruned pack (its only sightings are a deleted demo-data
// script and unrelated manifest-only repos), so this stays stdlib.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/meridianpay/ledgercore/internal/bootstrap"
	"github.com/meridianpay/ledgercore/pkg/mlog"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jobs <reconcile|verify|backfill-idempotency|complete-stale> [flags]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

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

	ctx := context.Background()

	switch os.Args[1] {
	case "reconcile":
		runReconcile(ctx, svc, logger)
	case "verify":
		runVerify(ctx, svc, logger, os.Args[2:])
	case "backfill-idempotency":
		runBackfillIdempotency(ctx, svc, logger, os.Args[2:])
	case "complete-stale":
		runCompleteStale(ctx, svc, logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func runReconcile(ctx context.Context, svc *bootstrap.Service, logger mlog.Logger) {
	run, err := svc.Reconciliation.Run(ctx, time.Now())
	if err != nil {
		logger.Fatalf("reconciliation run failed: %v", err)
	}

	logger.Infof("reconciliation run %s finished with status %s", run.ID, run.Status)
}

func runVerify(ctx context.Context, svc *bootstrap.Service, logger mlog.Logger, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	from := fs.String("from", "", "RFC3339 start of window")
	to := fs.String("to", "", "RFC3339 end of window")
	_ = fs.Parse(args)

	fromTime, err := parseWindowBound(*from, time.Now().Add(-24*time.Hour))
	if err != nil {
		logger.Fatalf("invalid -from: %v", err)
	}

	toTime, err := parseWindowBound(*to, time.Now())
	if err != nil {
		logger.Fatalf("invalid -to: %v", err)
	}

	run, findings, err := svc.Integrity.Verify(ctx, fromTime, toTime)
	if err != nil {
		logger.Fatalf("integrity verification failed: %v", err)
	}

	logger.Infof("integrity run %s finished with status %s, %d finding(s)", run.ID, run.Status, len(findings))
}

func runBackfillIdempotency(ctx context.Context, svc *bootstrap.Service, logger mlog.Logger, args []string) {
	fs := flag.NewFlagSet("backfill-idempotency", flag.ExitOnError)
	journalID := fs.String("journal-id", "", "journal id to backfill a record for")
	actorType := fs.String("actor-type", "", "actor type that originally posted the journal")
	actorID := fs.String("actor-id", "", "actor id that originally posted the journal")
	_ = fs.Parse(args)

	if *journalID == "" || *actorType == "" || *actorID == "" {
		logger.Fatalf("backfill-idempotency requires -journal-id, -actor-type, and -actor-id")
	}

	record, err := svc.Repair.BackfillIdempotencyRecord(ctx, *journalID, *actorType, *actorID)
	if err != nil {
		logger.Fatalf("backfill failed: %v", err)
	}

	logger.Infof("backfilled idempotency record %s for journal %s", record.RecordID, *journalID)
}

func runCompleteStale(ctx context.Context, svc *bootstrap.Service, logger mlog.Logger, args []string) {
	fs := flag.NewFlagSet("complete-stale", flag.ExitOnError)
	actorType := fs.String("actor-type", "", "actor type recorded on the STATE_REPAIRED events")
	actorID := fs.String("actor-id", "", "actor id recorded on the STATE_REPAIRED events")
	_ = fs.Parse(args)

	if *actorType == "" || *actorID == "" {
		logger.Fatalf("complete-stale requires -actor-type and -actor-id")
	}

	records, err := svc.Repair.CompleteStaleInProgress(ctx, *actorType, *actorID)
	if err != nil {
		logger.Fatalf("complete-stale sweep failed: %v", err)
	}

	logger.Infof("completed %d stale in-progress record(s)", len(records))
}

func parseWindowBound(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}

	return time.Parse(time.RFC3339, value)
}
