package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geo-event-ingest/internal/adapter/geojson"
	kafkaadapter "github.com/couchcryptid/geo-event-ingest/internal/adapter/kafka"
	"github.com/couchcryptid/geo-event-ingest/internal/config"
	"github.com/couchcryptid/geo-event-ingest/internal/fetch"
	"github.com/couchcryptid/geo-event-ingest/internal/observability"
	"github.com/couchcryptid/geo-event-ingest/internal/pipeline"
	"github.com/couchcryptid/geo-event-ingest/internal/source"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	client := fetch.New(cfg.HTTPTimeout, cfg.UserAgent, cfg.FetchAttempts, cfg.FetchBackoff, clock, logger, metrics.FetchRetries)

	adapters := []source.Adapter{
		source.NewUSGSAdapter(client, cfg.USGSURL, cfg.USGSWindowDays, cfg.USGSMinMagnitude, cfg.BBox, clock, logger),
		source.NewGDACSAdapter(client, cfg.GDACSURL, cfg.GDACSMaxAge, cfg.BBox, clock, logger),
		source.NewGDELTAdapter(client, cfg.GDELTURL, cfg.GDELTKeywords, cfg.GDELTCountries, cfg.GDELTWindowDays, cfg.GDELTMaxRecords, cfg.BBox, clock, logger),
	}

	store := geojson.NewStore(cfg.OutputDir, logger)

	// Event sink is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	p := pipeline.New(adapters, store, publisher, cfg.BBox, logger, metrics, clock)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manifest, err := p.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion finished",
		"output_dir", cfg.OutputDir,
		"total_features", manifest.TotalCount(),
		"failed_sources", len(manifest.Failures),
	)
}
