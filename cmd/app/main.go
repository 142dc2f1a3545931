// Command app runs the HTTP server exposing the posting engine and
// the C8-C11 operator endpoints (spec §6/§7), grounded on the
// teacher's cmd/app/main.go entrypoint shape: initialize the logger,
// call into bootstrap, run until the process is killed.
package main

import (
	"fmt"
	"os"

	"github.com/meridianpay/ledgercore/internal/bootstrap"
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

	app := svc.Router()

	logger.Infof("%s HTTP server listening on %s", bootstrap.ApplicationName, svc.Config.ServerAddress)

	if err := app.Listen(svc.Config.ServerAddress); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
