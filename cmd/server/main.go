package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/adukes40/de-school-closings/internal/adapter/arcgis"
	"github.com/adukes40/de-school-closings/internal/adapter/feed"
	"github.com/adukes40/de-school-closings/internal/adapter/httpapi"
	kafkaadapter "github.com/adukes40/de-school-closings/internal/adapter/kafka"
	"github.com/adukes40/de-school-closings/internal/cache"
	"github.com/adukes40/de-school-closings/internal/config"
	"github.com/adukes40/de-school-closings/internal/observability"
	"github.com/adukes40/de-school-closings/internal/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalogClient := arcgis.NewClient(cfg.DistrictsURL, cfg.VotechURL, cfg.ChartersURL,
		cfg.UpstreamTimeout, cfg.UpstreamRetries, logger)
	catalogs := cache.NewCatalogCache(catalogClient, logger, metrics)

	feedClient := feed.NewClient(cfg.FeedURL, cfg.UpstreamTimeout, cfg.UpstreamRetries, logger)
	engine := reconcile.NewEngine(feedClient, catalogs, cfg.StatusScheme, logger, metrics)

	// Snapshot publishing is feature-flagged via KAFKA_BROKERS.
	var snapshots cache.SnapshotPublisher
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		snapshots = publisher
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	closures := cache.NewClosuresCache(engine, snapshots, clockwork.NewRealClock(),
		cfg.FeedTTL, cfg.FeedMaxStale, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, closures, catalogs, closures, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the catalog cache so the first request doesn't pay the load; a
	// failure here just means the first request retries.
	go func() {
		if _, err := catalogs.Catalogs(ctx); err != nil {
			logger.Warn("catalog warmup failed", "error", err)
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("closings service started",
		"scheme", cfg.StatusScheme.String(),
		"feed_ttl", cfg.FeedTTL,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
