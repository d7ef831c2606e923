package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/cart-sync/internal/adapter/handler"
	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/adapter/storage"
	"github.com/rl1809/cart-sync/internal/core/service"
	"github.com/rl1809/cart-sync/internal/port"
	"github.com/rl1809/cart-sync/pkg/config"
	"github.com/rl1809/cart-sync/pkg/logger"
	"github.com/rl1809/cart-sync/pkg/shutdown"
	"github.com/rl1809/cart-sync/pkg/telemetry"
)

func main() {
	cfg := config.LoadCatalog()
	log := logger.New(logger.Options{Service: "catalog-server", Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error("catalog server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.CatalogConfig, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracer, err := telemetry.InitTracer(ctx, "catalog-server", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer stopTracer(context.Background())

	var repo port.ProductRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}

		pg := storage.NewPostgresProductRepository(pool)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		if err := pg.Seed(ctx, storage.SeedProducts(time.Now())); err != nil {
			return err
		}
		repo = pg
		log.Info("connected to postgres")
	} else {
		repo = storage.NewMemoryProductRepository(storage.SeedProducts(time.Now())...)
		log.Warn("DATABASE_URL not set, serving the seed catalog from memory")
	}

	grpcServer := grpc.NewServer()
	pb.RegisterCatalogServiceServer(grpcServer, handler.NewCatalogHandler(service.NewCatalogService(repo, log)))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	go func() {
		log.Info("gRPC server listening", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	healthServer.Shutdown()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdown.Grace)
	defer stopCancel()
	if !shutdown.GRPC(stopCtx, grpcServer) {
		log.Warn("gRPC drain timed out, open streams were closed")
	}
	return nil
}
