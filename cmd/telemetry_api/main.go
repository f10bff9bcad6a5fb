package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/vitaly/internal/config"
	"github.com/2beens/vitaly/internal/logging"
	"github.com/2beens/vitaly/internal/results"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting telemetry api ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	port := flag.Int("port", 8000, "port number, overrides the config port")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.TelemetryApiLogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "vitaly-telemetry-api",
	})

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	apiService, err := results.NewApiService(ctx, results.NewApiServiceParams{
		Config:                  cfg,
		PostgresPassword:        secrets.PostgresPassword,
		HoneycombTracingEnabled: secrets.HoneycombEnabled,
	})
	if err != nil {
		log.Fatalf("new telemetry api service: %s", err)
	}

	apiService.Serve(cfg.Host, *port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	apiService.GracefulShutdown()
}
