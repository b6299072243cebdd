package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/di"
	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/worker"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/router"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/server"
	"github.com/Vladislavlhp7/data-lineage/internal/job"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
	"github.com/Vladislavlhp7/data-lineage/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logger setup
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logger.Level
	logCfg.Format = cfg.Logger.Format
	logCfg.SentryDSN = cfg.Logger.SentryDSN
	if err := logger.Setup(logCfg); err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}
	defer logger.Flush(2 * time.Second)

	if err := run(cfg); err != nil {
		slog.Error("server terminated", "error", err)
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize DI Container
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.Migrate(); err != nil {
		return err
	}

	handlers := di.NewHandlers(container)
	middlewares := di.NewMiddlewares(container)

	// Setup Server
	srv := server.NewServer(server.ConfigFrom(cfg.Server))
	router.NewRouter(srv.Echo(), handlers, middlewares).Setup()

	// Start background workers
	workerMgr := worker.NewManager()
	workerMgr.Register(worker.NewOrphanSweepJob(
		job.NewOrphanSweepJob(container.FileRepo, container.ContentStore, cfg.Worker.OrphanGracePeriod),
		cfg.Worker.OrphanSweepInterval,
	))
	workerMgr.Register(worker.NewHealthCheckJob(container.DatabaseDriver(), container.TxManager.Ping))
	workerMgr.Start(ctx)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", srv.Address(), "database", container.DatabaseDriver(), "storage", cfg.Storage.Backend)
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			workerMgr.Shutdown(10 * time.Second)
			return err
		}
	}

	// Graceful shutdown
	slog.Info("shutting down server...")
	workerMgr.Shutdown(10 * time.Second)

	if err := srv.Shutdown(context.Background()); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
	return nil
}
