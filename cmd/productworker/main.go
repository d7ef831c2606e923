package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rl1809/cart-sync/internal/adapter/client"
	"github.com/rl1809/cart-sync/internal/core/worker"
	"github.com/rl1809/cart-sync/pkg/config"
	"github.com/rl1809/cart-sync/pkg/logger"
	"github.com/rl1809/cart-sync/pkg/shutdown"
	"github.com/rl1809/cart-sync/pkg/telemetry"
)

func main() {
	cfg := config.LoadProductWorker()
	log := logger.New(logger.Options{Service: "product-worker", Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error("product worker failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.ProductWorkerConfig, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracer, err := telemetry.InitTracer(ctx, "product-worker", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer stopTracer(context.Background())

	conn, err := client.Dial(cfg.CatalogAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	w := worker.NewProductWorker(worker.ProductConfig{
		ProductName: cfg.ProductName,
		MaxPrice:    cfg.MaxPrice,
		Interval:    cfg.Interval,
		StartDelay:  cfg.StartDelay,
	}, client.NewCatalogGateway(conn, cfg.RPCTimeout), log)

	return w.Run(ctx)
}
