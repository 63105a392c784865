package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/alphavantage"
	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/diseasesh"
	httpadapter "github.com/couchcryptid/cross-domain-correlator/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/cross-domain-correlator/internal/adapter/kafka"
	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/mapbox"
	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/openweather"
	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/upstream"
	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/yahoo"
	"github.com/couchcryptid/cross-domain-correlator/internal/catalog"
	"github.com/couchcryptid/cross-domain-correlator/internal/config"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/couchcryptid/cross-domain-correlator/internal/observability"
	"github.com/couchcryptid/cross-domain-correlator/internal/pipeline"
	"github.com/couchcryptid/cross-domain-correlator/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set, weather and agriculture requests will be rejected upstream")
	}
	if cfg.AlphaVantageAPIKey == "" {
		logger.Warn("ALPHA_VANTAGE_API_KEY is not set, tech requests will be rejected upstream")
	}

	up := upstream.NewClient(cfg.UpstreamTimeout, metrics, logger)
	sources := pipeline.Sources{
		Weather:   openweather.NewClient(up, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey),
		Financial: yahoo.NewClient(up, cfg.YahooFinanceBaseURL, cfg.FinancialRange),
		Health:    diseasesh.NewClient(up, cfg.DiseaseBaseURL),
		Tech:      alphavantage.NewClient(up, cfg.AlphaVantageBaseURL, cfg.AlphaVantageAPIKey, cfg.AlphaVantagePerMinute),
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled, using catalog region coordinates")
	}

	// The change feed is optional; a nil publisher keeps snapshots in memory only.
	var (
		publisher pipeline.SnapshotPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("snapshot change feed enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	}

	opts := pipeline.Options{
		DefaultCity:     cfg.WeatherDefaultCity,
		WeatherDays:     cfg.WeatherHistoryDays,
		AgricultureDays: cfg.AgricultureHistoryDays,
		HealthDays:      cfg.HealthLastDays,
		Symbols:         cfg.FinancialSymbols,
	}
	p := pipeline.New(sources, cat, store.New(nil), geocoder, publisher, opts, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start periodic refresh.
	go func() {
		if err := p.Run(ctx, cfg.RefreshInterval); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
