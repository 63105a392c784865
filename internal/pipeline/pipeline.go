package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/cross-domain-correlator/internal/catalog"
	"github.com/couchcryptid/cross-domain-correlator/internal/correlation"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/couchcryptid/cross-domain-correlator/internal/observability"
	"github.com/couchcryptid/cross-domain-correlator/internal/store"
	"github.com/jonboulle/clockwork"
)

// WeatherSource fetches raw OpenWeather payloads.
type WeatherSource interface {
	FetchCity(ctx context.Context, city string, days int) (domain.WeatherPayload, error)
	FetchHistory(ctx context.Context, at domain.Coordinates, days int) ([]domain.DailyReading, error)
}

// FinancialSource fetches raw chart bodies per symbol.
type FinancialSource interface {
	FetchCharts(ctx context.Context, symbols []string) (domain.FinancialPayload, error)
}

// HealthSource fetches raw historical case counts.
type HealthSource interface {
	FetchHistorical(ctx context.Context, lastDays int) (json.RawMessage, error)
}

// TechSource fetches a raw daily stock series for one symbol.
type TechSource interface {
	FetchDaily(ctx context.Context, symbol string) (domain.TechPayload, error)
}

// SnapshotPublisher announces replaced snapshots to downstream consumers.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, event domain.SnapshotEvent) error
}

// Sources groups the upstream collaborators.
type Sources struct {
	Weather   WeatherSource
	Financial FinancialSource
	Health    HealthSource
	Tech      TechSource
}

// Options tunes what each refresh asks the providers for.
type Options struct {
	DefaultCity     string
	WeatherDays     int
	AgricultureDays int
	HealthDays      int
	Symbols         []string
	// Clock drives the refresher ticker. Nil uses the real clock.
	Clock clockwork.Clock
}

// Pipeline fetches, normalizes and stores each dataset, and answers
// correlation queries against the stored snapshots.
type Pipeline struct {
	sources   Sources
	catalog   *catalog.Catalog
	store     *store.Store
	engine    *correlation.Engine
	geocoder  domain.Geocoder
	publisher SnapshotPublisher
	opts      Options
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. geocoder and publisher may be nil to disable
// region geocoding and the snapshot change feed respectively.
func New(sources Sources, cat *catalog.Catalog, st *store.Store, geocoder domain.Geocoder, publisher SnapshotPublisher,
	opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		sources:   sources,
		catalog:   cat,
		store:     st,
		engine:    correlation.NewEngine(st),
		geocoder:  geocoder,
		publisher: publisher,
		opts:      opts,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the first refresh pass has completed,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("initial dataset refresh has not completed yet")
	}
	return nil
}

// Correlate computes the field-pair correlations between two stored datasets.
// Unknown names wrap domain.ErrInvalidDataset and datasets without stored
// records wrap domain.ErrEmptyDataset.
func (p *Pipeline) Correlate(name1, name2 string) (correlation.Result, error) {
	result, err := p.correlate(name1, name2)
	p.metrics.CorrelationRequests.WithLabelValues(domain.Kind(err)).Inc()
	if err != nil {
		p.logger.Warn("correlation rejected", "dataset1", name1, "dataset2", name2, "error", err)
		return correlation.Result{}, err
	}
	p.metrics.CorrelationPairs.Observe(float64(len(result.Correlations)))
	p.logger.Info("correlation computed",
		"dataset1", name1,
		"dataset2", name2,
		"pairs", len(result.Correlations),
	)
	return result, nil
}

func (p *Pipeline) correlate(name1, name2 string) (correlation.Result, error) {
	a, err := domain.ParseDataset(name1)
	if err != nil {
		return correlation.Result{}, err
	}
	b, err := domain.ParseDataset(name2)
	if err != nil {
		return correlation.Result{}, err
	}
	return p.engine.Correlate(a, b)
}

// Datasets reports the stored record count and age of every dataset.
func (p *Pipeline) Datasets() []store.Summary {
	return p.store.Summaries()
}

// TechCompanies returns the symbol -> company name table of a sector.
func (p *Pipeline) TechCompanies(category string) (map[string]string, bool) {
	return p.catalog.Companies(category)
}

// Crops lists the tracked crops.
func (p *Pipeline) Crops() []string {
	return p.catalog.CropNames()
}

// Regions lists the growing regions tracked for crop.
func (p *Pipeline) Regions(crop string) ([]string, bool) {
	return p.catalog.RegionNames(crop)
}

// refresh runs one fetch-normalize-store-publish cycle for d. The store is
// only written when fetch succeeds, so a failure keeps the previous snapshot.
func (p *Pipeline) refresh(ctx context.Context, d domain.Dataset, fetch func(context.Context) (domain.Series, error)) (domain.Series, error) {
	start := time.Now()
	series, err := fetch(ctx)
	p.metrics.FetchRequests.WithLabelValues(string(d), domain.Kind(err)).Inc()
	p.metrics.FetchDuration.WithLabelValues(string(d)).Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Warn("dataset refresh failed",
			"dataset", d,
			"kind", domain.Kind(err),
			"error", err,
		)
		return domain.Series{}, err
	}

	storedAt := p.store.Set(series)
	p.metrics.SnapshotRecords.WithLabelValues(string(d)).Set(float64(series.Len()))
	p.logger.Info("snapshot stored", "dataset", d, "records", series.Len())
	p.publish(ctx, series, storedAt)
	return series, nil
}

// publish forwards the change event. Failures are logged and counted but
// never undo the stored snapshot.
func (p *Pipeline) publish(ctx context.Context, series domain.Series, storedAt time.Time) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishSnapshot(ctx, domain.NewSnapshotEvent(series, storedAt)); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("snapshot publish failed", "dataset", series.Dataset, "error", err)
	}
}
