package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"wydatki/internal/amqp"
	"wydatki/internal/config"
	"wydatki/internal/core"
	apphttp "wydatki/internal/http"
	applog "wydatki/internal/log"
	"wydatki/internal/rates"
	"wydatki/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional change-event publishing; without a broker the server
	// still runs, it just stays silent.
	var publisher store.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP publishing disabled - no AMQP_URL provided")
	}

	st := store.New(cfg.SnapshotPath, publisher, applog.ForComponent(logger, applog.ComponentStore))
	if err := st.Load(ctx); err != nil {
		logger.Error("Failed to load state snapshot", "error", err, "path", cfg.SnapshotPath)
		os.Exit(1)
	}

	ratesClient := rates.NewClient(cfg.NBPBaseURL, cfg.RatesCacheTTL)

	srv := apphttp.NewServer(":"+cfg.Port, st, ratesClient, applog.ForComponent(logger, applog.ComponentHTTP))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting wydatki server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Keep the rate table warm in the background so summaries do not
	// depend on anyone hitting the refresh endpoint.
	g.Go(func() error {
		refreshRates(gctx, st, ratesClient, logger)

		ticker := time.NewTicker(cfg.RatesRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				refreshRates(gctx, st, ratesClient, logger)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func refreshRates(ctx context.Context, st *store.Store, client *rates.Client, logger *slog.Logger) {
	result, err := client.Fetch(ctx)
	if err != nil {
		logger.Error("Background rates refresh failed", "error", err)
		return
	}
	if _, err := st.Dispatch(ctx, core.SetRates{Rates: result.Rates, Label: result.Label}); err != nil {
		logger.Error("Failed to apply refreshed rates", "error", err)
	}
}
