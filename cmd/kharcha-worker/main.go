package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/config"
	"kharcha/internal/ledger"
	applog "kharcha/internal/log"
	"kharcha/internal/storage"
	"kharcha/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.WithComponent(applog.Setup(), "worker")
	logger.Info("Starting kharcha-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewTransactionRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open transactions database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	consumer, err := amqp.NewConsumer(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	mirror := worker.NewMirrorWorker(ledger.NewFileStore(cfg.LedgerPath), repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch anything that happened while the worker was down.
	if created, err := mirror.SyncAll(ctx); err != nil {
		logger.Error("Startup sweep failed", "error", err)
	} else if created > 0 {
		logger.Info("Startup sweep mirrored records", "created", created)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Consume(ctx, mirror.HandleEvent)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if created, err := mirror.SyncAll(ctx); err != nil {
					logger.Error("Periodic sweep failed", "error", err)
				} else if created > 0 {
					logger.Info("Periodic sweep mirrored records", "created", created)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
