package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/peptide-tracker/internal/app/scheduler"
	"github.com/magabrotheeeer/peptide-tracker/internal/config"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env)

	logger.Info("starting alert-scheduler", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := scheduler.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize alert-scheduler", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("alert-scheduler stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("alert-scheduler stopped gracefully")
}
