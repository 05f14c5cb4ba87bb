package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/adapter/covidtracking"
	httpadapter "github.com/couchcryptid/covid-tracker-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/covid-tracker-service/internal/adapter/kafka"
	"github.com/couchcryptid/covid-tracker-service/internal/config"
	"github.com/couchcryptid/covid-tracker-service/internal/dashboard"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := covidtracking.NewClient(cfg.APIBaseURL, cfg.APITimeout, metrics, logger)

	opts := []dashboard.Option{dashboard.WithInterval(cfg.RefreshInterval)}

	// Kafka sink is feature-flagged via KAFKA_ENABLED.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, dashboard.WithPublisher(writer))
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	d := dashboard.New(client, logger, metrics, opts...)

	renderer := chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight, metrics)
	charts := chart.NewCachedRenderer(renderer, cfg.ChartCacheSize, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, d, charts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := d.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
