package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/edumundo/portal/internal/buildinfo"
	"github.com/edumundo/portal/internal/logging"
	"github.com/edumundo/portal/internal/portal/cli"
	"github.com/edumundo/portal/internal/portal/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()
	log := logging.NewTextLogger(cfg.LogLevel)

	app := cli.NewApp(cfg, log)
	app.Run(ctx)
}
