package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/workforce-console/internal/api/http"
	"github.com/spec-kit/workforce-console/internal/api/http/handlers"
	"github.com/spec-kit/workforce-console/internal/config"
	"github.com/spec-kit/workforce-console/internal/observability"
	"github.com/spec-kit/workforce-console/internal/persistence"
	"github.com/spec-kit/workforce-console/internal/repository"
)

const requestTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	deps := httptransport.ServerDeps{
		Config:  *cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(),
		Probes:  map[string]handlers.Pinger{"postgres": pg},
		Timeout: requestTimeout,
	}

	if pool, err := pg.PoolHandle(); err == nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		deps.Admins = repository.NewAdminRepository(pool)
		deps.Users = repository.NewWorkforceUserRepository(pool)
	} else {
		logger.Info("POSTGRES_DSN not set, using in-memory directory")
	}

	app, err := httptransport.NewServer(ctx, deps)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	go func() {
		logger.Info("stub backend listening", zap.String("addr", cfg.Stub.Addr()))
		if err := app.Listen(cfg.Stub.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
