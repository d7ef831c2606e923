package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rl1809/cart-sync/internal/adapter/auth"
	"github.com/rl1809/cart-sync/internal/adapter/client"
	"github.com/rl1809/cart-sync/internal/core/worker"
	"github.com/rl1809/cart-sync/pkg/config"
	"github.com/rl1809/cart-sync/pkg/logger"
	"github.com/rl1809/cart-sync/pkg/shutdown"
	"github.com/rl1809/cart-sync/pkg/telemetry"
)

func main() {
	cfg := config.LoadWorker()
	log := logger.New(logger.Options{Service: "sync-worker", Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error("sync worker failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.WorkerConfig, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracer, err := telemetry.InitTracer(ctx, "sync-worker", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer stopTracer(context.Background())

	tokens := auth.NewClientCredentialsSource(auth.ClientCredentialsConfig{
		IssuerURL:    cfg.IdentityURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scope:        cfg.Scope,
		Timeout:      cfg.TokenTimeout,
	})
	sessions := client.NewSessionFactory(cfg.CartAddr, cfg.CatalogAddr, cfg.RPCTimeout)

	w := worker.NewSyncWorker(worker.Config{
		Username:     cfg.Username,
		DiscountCode: cfg.DiscountCode,
		Color:        cfg.Color,
		Interval:     cfg.Interval,
		StartDelay:   cfg.StartDelay,
		CycleTimeout: cfg.CycleTimeout,
	}, sessions, tokens, log)

	return w.Run(ctx)
}
