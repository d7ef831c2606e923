package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/cart-sync/internal/adapter/auth"
	"github.com/rl1809/cart-sync/internal/adapter/handler"
	"github.com/rl1809/cart-sync/pkg/config"
	"github.com/rl1809/cart-sync/pkg/logger"
	"github.com/rl1809/cart-sync/pkg/shutdown"
)

func main() {
	cfg := config.LoadIdentity()
	log := logger.New(logger.Options{Service: "identity", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("identity server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.IdentityConfig, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	clients, err := auth.ParseClients(cfg.Clients)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.NewIdentityHandler(auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL), clients, cfg.PublicURL, log).Register(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}
	go func() {
		log.Info("identity server listening", "port", cfg.HTTPPort, "issuer", cfg.JWTIssuer)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdown.Grace)
	defer shutdownCancel()
	return shutdown.HTTP(shutdownCtx, srv)
}
