package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	UpstreamTimeout time.Duration

	// Upstream providers.
	OpenWeatherAPIKey       string
	OpenWeatherBaseURL      string
	AlphaVantageAPIKey      string
	AlphaVantageBaseURL     string
	AlphaVantagePerMinute   int
	YahooFinanceBaseURL     string
	DiseaseBaseURL          string
	WeatherDefaultCity      string
	WeatherHistoryDays      int
	AgricultureHistoryDays  int
	HealthLastDays          int
	FinancialSymbols        []string
	FinancialRange          string

	// RefreshInterval re-fetches weather, financial and health periodically. Zero disables it.
	RefreshInterval time.Duration

	// Snapshot change feed.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string

	// Mapbox geocoding configuration for crop regions.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	var errs []error
	duration := func(key, def string, allowZero bool) time.Duration {
		d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
		if err != nil || d < 0 || (d == 0 && !allowZero) {
			errs = append(errs, fmt.Errorf("invalid %s", key))
		}
		return d
	}
	positive := func(key string, def int) int {
		n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, strconv.Itoa(def)))
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s: must be a positive integer", key))
		}
		return n
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		UpstreamTimeout: duration("UPSTREAM_TIMEOUT", "10s", false),

		OpenWeatherAPIKey:      os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL:     sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
		AlphaVantageAPIKey:     os.Getenv("ALPHA_VANTAGE_API_KEY"),
		AlphaVantageBaseURL:    sharedcfg.EnvOrDefault("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co"),
		AlphaVantagePerMinute:  positive("ALPHA_VANTAGE_REQUESTS_PER_MINUTE", 5),
		YahooFinanceBaseURL:    sharedcfg.EnvOrDefault("YAHOO_FINANCE_BASE_URL", "https://query1.finance.yahoo.com"),
		DiseaseBaseURL:         sharedcfg.EnvOrDefault("DISEASE_SH_BASE_URL", "https://disease.sh"),
		WeatherDefaultCity:     sharedcfg.EnvOrDefault("WEATHER_DEFAULT_CITY", "London"),
		WeatherHistoryDays:     positive("WEATHER_HISTORY_DAYS", 5),
		AgricultureHistoryDays: positive("AGRICULTURE_HISTORY_DAYS", 30),
		HealthLastDays:         positive("HEALTH_LAST_DAYS", 30),
		FinancialSymbols:       parseList(sharedcfg.EnvOrDefault("FINANCIAL_SYMBOLS", "AAPL,GOOGL,MSFT")),
		FinancialRange:         sharedcfg.EnvOrDefault("FINANCIAL_RANGE", "1mo"),

		RefreshInterval: duration("REFRESH_INTERVAL", "0s", true),

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "dataset-snapshots"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   duration("MAPBOX_TIMEOUT", "5s", false),
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if len(cfg.FinancialSymbols) == 0 {
		errs = append(errs, errors.New("FINANCIAL_SYMBOLS must list at least one symbol"))
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true"))
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		errs = append(errs, errors.New("KAFKA_SNAPSHOT_TOPIC is required when KAFKA_ENABLED is true"))
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		errs = append(errs, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
