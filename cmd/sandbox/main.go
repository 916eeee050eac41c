// Command sandbox serves an in-memory stand-in for the clinic API on
// SANDBOX_PORT, seeded with demo accounts that share one password.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/carepoint/portal-client/internal/app"
	"github.com/carepoint/portal-client/internal/config"
	"github.com/carepoint/portal-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "sandbox",
	})

	sb, err := app.NewSandbox(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create sandbox")
	}
	if err := sb.Run(ctx); err != nil {
		log.Error().Err(err).Msg("sandbox stopped")
		os.Exit(1)
	}
}
