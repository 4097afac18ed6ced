package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpadapter "creator-ledger/internal/adapter/http"
	"creator-ledger/internal/adapter/memory"
	"creator-ledger/internal/adapter/postgres"
	"creator-ledger/internal/adapter/usecase"
	"creator-ledger/internal/config"
	"creator-ledger/internal/core/port"
	"creator-ledger/internal/db"
	"creator-ledger/internal/readmodel"
)

// main is the entry point of the escrow ledger service. It loads
// configuration, optionally runs database migrations, initializes the
// ledger store and escrow engine, then runs the HTTP server and the
// read-model consumer until a termination signal arrives.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		opts := &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, opts)
		default:
			handler = slog.NewTextHandler(os.Stdout, opts)
		}
		logger = slog.New(handler)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store port.LedgerStore
	switch cfg.Store {
	case "memory":
		logger.Warn("using in-memory ledger store, state is not durable")
		store = memory.NewLedgerStore()
	default:
		if cfg.Psql.RunMigrations {
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				logger.Error("migration error", slog.Any("error", err))
				os.Exit(1)
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			logger.Error("database connection error", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if cfg.Psql.SeedDemo {
			if err = db.Seed(ctx, pool, cfg.Fee.Config()); err != nil {
				logger.Error("seed error", slog.Any("error", err))
				os.Exit(1)
			}
			logger.Info("demo data seeded")
		}
		store = postgres.NewLedgerStore(pool)
	}

	engine := usecase.NewEscrowService(store, cfg.Fee.Config())
	handler := httpadapter.NewHandler(engine, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	cache := readmodel.NewCache()
	consumer := readmodel.NewConsumer(engine, cache, logger, time.Second)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			slog.Int("port", int(cfg.HTTP.Port)),
			slog.String("store", cfg.Store),
			slog.Int("fee_rate_bps", cfg.Fee.RateBps))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
