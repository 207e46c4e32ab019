package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/config"
	apphttp "kharcha/internal/http"
	"kharcha/internal/ledger"
	applog "kharcha/internal/log"
	"kharcha/internal/registry"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

func main() {
	// .env is for local development; absence is fine.
	_ = godotenv.Load()

	logger := applog.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store := ledger.NewFileStore(cfg.LedgerPath)

	var categories *registry.Registry
	if cfg.CategorySeedFile != "" {
		categories = registry.NewFromFile(cfg.CategorySeedFile)
	} else {
		categories = registry.New()
	}

	transactions, err := storage.NewTransactionRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open transactions database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer transactions.Close()

	var publisher *amqp.Publisher
	if cfg.AMQPEnabled() {
		publisher, err = amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, ledger events will not be published")
	}

	ledgerSvc := services.NewLedgerService(store, eventPublisher(publisher))
	defer ledgerSvc.Close()

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, categories, transactions, apphttp.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting kharcha server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// eventPublisher keeps a typed nil out of the service's interface
// field.
func eventPublisher(p *amqp.Publisher) services.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
