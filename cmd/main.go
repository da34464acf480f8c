package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/account-rotator/config"
	"github.com/angeloszaimis/account-rotator/internal/account"
	"github.com/angeloszaimis/account-rotator/internal/handler"
	"github.com/angeloszaimis/account-rotator/internal/health"
	"github.com/angeloszaimis/account-rotator/internal/httpserver"
	"github.com/angeloszaimis/account-rotator/internal/metrics"
	"github.com/angeloszaimis/account-rotator/internal/rotator"
	"github.com/angeloszaimis/account-rotator/internal/store"
	"github.com/angeloszaimis/account-rotator/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sharedStore, closeStore := buildStore(cfg, log)
	defer closeStore()

	pool := account.NewPool(cfg.Credentials())
	log.Info("Account pool loaded", slog.Int("accounts", pool.Count()))

	tracker := health.NewTracker(sharedStore, log,
		health.WithCooldown(cfg.CooldownWindow()))

	collector := metrics.NewCollector(1000, log)
	collector.Start(ctx)

	rot := rotator.New(pool, tracker, sharedStore, log,
		rotator.WithCollector(collector))

	statusHandler := handler.NewStatusHandler(log, rot)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(statusHandler, collector))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Account rotator started", slog.String("address", cfg.Server.Address))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildStore(cfg *config.Config, log *slog.Logger) (store.Store, func()) {
	if cfg.Store.Backend == config.StoreBackendMemory {
		log.Warn("Using in-process store, health state will not be shared across instances")
		return store.NewMemory(), func() {}
	}

	redisStore := store.NewRedis(cfg.Store.Redis.Address, cfg.Store.Redis.Password, cfg.Store.Redis.DB)
	log.Info("Using Redis store", slog.String("address", cfg.Store.Redis.Address))

	return redisStore, func() {
		if err := redisStore.Close(); err != nil {
			log.Error("Failed to close Redis store", slog.Any("err", err))
		}
	}
}
