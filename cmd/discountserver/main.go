package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/redis/go-redis/v9"
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
	cfg := config.LoadDiscount()
	log := logger.New(logger.Options{Service: "discount-server", Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error("discount server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.DiscountConfig, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracer, err := telemetry.InitTracer(ctx, "discount-server", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer stopTracer(context.Background())

	var repo port.DiscountRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}

		// lock settings are unused here; the adapter only serves discount lookups
		redisAdapter := storage.NewRedisAdapter(rdb, 0, 0, log)
		if err := redisAdapter.SeedDiscounts(ctx, storage.SeedDiscounts()); err != nil {
			return err
		}
		repo = redisAdapter
		log.Info("connected to redis")
	} else {
		repo = storage.NewMemoryDiscountRepository(storage.SeedDiscounts()...)
		log.Warn("REDIS_ADDR not set, serving the seed discounts from memory")
	}

	grpcServer := grpc.NewServer()
	pb.RegisterDiscountServiceServer(grpcServer, handler.NewDiscountHandler(service.NewDiscountService(repo, log)))
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
