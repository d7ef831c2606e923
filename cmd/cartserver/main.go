package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/cart-sync/internal/adapter/auth"
	"github.com/rl1809/cart-sync/internal/adapter/client"
	"github.com/rl1809/cart-sync/internal/adapter/handler"
	"github.com/rl1809/cart-sync/internal/adapter/handler/pb"
	"github.com/rl1809/cart-sync/internal/adapter/messaging"
	"github.com/rl1809/cart-sync/internal/adapter/storage"
	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/core/service"
	"github.com/rl1809/cart-sync/internal/port"
	"github.com/rl1809/cart-sync/pkg/config"
	"github.com/rl1809/cart-sync/pkg/logger"
	"github.com/rl1809/cart-sync/pkg/shutdown"
	"github.com/rl1809/cart-sync/pkg/telemetry"
)

func main() {
	cfg := config.LoadCartServer()
	log := logger.New(logger.Options{Service: "cart-server", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("cart server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.CartServerConfig, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracer, err := telemetry.InitTracer(ctx, "cart-server", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer stopTracer(context.Background())

	pricing, err := domain.ParsePricingPolicy(cfg.PricingPolicy)
	if err != nil {
		return err
	}
	unknownDiscount, err := domain.ParseUnknownDiscountPolicy(cfg.UnknownDiscountPolicy)
	if err != nil {
		return err
	}

	// Cart store
	var repo port.CartRepository = storage.NewMemoryCartRepository()
	if cfg.MySQLDSN != "" {
		dsn, err := storage.MySQLDSN(cfg.MySQLDSN)
		if err != nil {
			return err
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return fmt.Errorf("open mysql: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping mysql: %w", err)
		}
		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.Migrate(ctx); err != nil {
			return err
		}
		repo = mysqlAdapter
		log.Info("connected to mysql")
	} else {
		log.Warn("MYSQL_DSN not set, carts are kept in memory")
	}

	// Commit locks
	var locker port.CartLocker = storage.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		locker = storage.NewRedisAdapter(rdb, cfg.LockTTL, cfg.LockWait, log)
		log.Info("connected to redis")
	}

	// Events
	var events port.EventPublisher = messaging.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaCartTopic)
		defer kafkaPublisher.Close()
		events = kafkaPublisher
		log.Info("publishing cart events", "topic", cfg.KafkaCartTopic)
	}

	discountConn, err := client.Dial(cfg.DiscountAddr)
	if err != nil {
		return err
	}
	defer discountConn.Close()

	cartService := service.NewCartService(
		repo,
		client.NewDiscountClient(discountConn, cfg.RPCTimeout),
		locker,
		events,
		service.CartOptions{Pricing: pricing, UnknownDiscount: unknownDiscount, PublishTimeout: cfg.PublishTimeout},
		log,
	)

	guard := auth.NewGuard(
		auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		auth.ParsePolicy(cfg.CartScope, cfg.PublicMethods),
		log,
	)
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(guard.UnaryServerInterceptor()),
		grpc.StreamInterceptor(guard.StreamServerInterceptor()),
	)
	pb.RegisterCartServiceServer(grpcServer, handler.NewGRPCHandler(cartService))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	go func() {
		log.Info("gRPC server listening", "port", cfg.GRPCPort, "public_methods", cfg.PublicMethods)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", "err", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.NewHTTPHandler(cartService).Register(router, guard.GinMiddleware(pb.CartService_GetCart_FullMethodName))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}
	go func() {
		log.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdown.Grace)
	defer shutdownCancel()
	if err := shutdown.HTTP(shutdownCtx, httpServer); err != nil {
		log.Warn("HTTP shutdown", "err", err)
	}
	log.Info("HTTP server stopped")

	if !shutdown.GRPC(shutdownCtx, grpcServer) {
		log.Warn("gRPC drain timed out, open streams were closed")
	}
	log.Info("gRPC server stopped")

	cartService.Drain()
	return nil
}
