package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/nutrigate/internal/buildinfo"
	"github.com/dmitrijs2005/nutrigate/internal/client/cli"
	"github.com/dmitrijs2005/nutrigate/internal/client/config"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewZerologLogger(logging.ZerologOptions{Level: cfg.LogLevel, Pretty: true})

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
