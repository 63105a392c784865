package pipeline

import (
	"context"

	"github.com/couchcryptid/cross-domain-correlator/internal/catalog"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
)

// RefreshWeather replaces the weather snapshot with history for city.
// An empty city uses the configured default.
func (p *Pipeline) RefreshWeather(ctx context.Context, city string) (domain.Series, error) {
	if city == "" {
		city = p.opts.DefaultCity
	}
	return p.refresh(ctx, domain.Weather, func(ctx context.Context) (domain.Series, error) {
		payload, err := p.sources.Weather.FetchCity(ctx, city, p.opts.WeatherDays)
		if err != nil {
			return domain.Series{}, err
		}
		return domain.NormalizeWeather(payload)
	})
}

// RefreshFinancial replaces the financial snapshot with the tracked symbols.
func (p *Pipeline) RefreshFinancial(ctx context.Context) (domain.Series, error) {
	return p.refresh(ctx, domain.Financial, func(ctx context.Context) (domain.Series, error) {
		payload, err := p.sources.Financial.FetchCharts(ctx, p.opts.Symbols)
		if err != nil {
			return domain.Series{}, err
		}
		return domain.NormalizeFinancial(payload)
	})
}

// RefreshHealth replaces the health snapshot with recent global counts.
func (p *Pipeline) RefreshHealth(ctx context.Context) (domain.Series, error) {
	return p.refresh(ctx, domain.Health, func(ctx context.Context) (domain.Series, error) {
		body, err := p.sources.Health.FetchHistorical(ctx, p.opts.HealthDays)
		if err != nil {
			return domain.Series{}, err
		}
		return domain.NormalizeHealth(body)
	})
}

// RefreshTech replaces the tech snapshot with one company's daily series.
// The category and symbol must both appear in the catalog.
func (p *Pipeline) RefreshTech(ctx context.Context, category, company string) (domain.Series, error) {
	return p.refresh(ctx, domain.Tech, func(ctx context.Context) (domain.Series, error) {
		if category == "" || company == "" {
			return domain.Series{}, domain.InvalidRequest("Category and company are required")
		}
		if _, ok := p.catalog.Companies(category); !ok {
			return domain.Series{}, domain.InvalidRequest("Invalid technology category: %s", category)
		}
		name, ok := p.catalog.CompanyName(category, company)
		if !ok {
			return domain.Series{}, domain.InvalidRequest("Invalid company symbol '%s' for category '%s'", company, category)
		}

		payload, err := p.sources.Tech.FetchDaily(ctx, company)
		if err != nil {
			return domain.Series{}, err
		}
		payload.Category = category
		payload.Company = company
		payload.CompanyName = name
		return domain.NormalizeTech(payload)
	})
}

// RefreshAgriculture replaces the agriculture snapshot with weather-derived
// readings for one crop region.
func (p *Pipeline) RefreshAgriculture(ctx context.Context, crop, region string) (domain.Series, error) {
	return p.refresh(ctx, domain.Agriculture, func(ctx context.Context) (domain.Series, error) {
		if crop == "" || region == "" {
			return domain.Series{}, domain.InvalidRequest("Crop and region are required")
		}
		r, ok := p.catalog.Region(crop, region)
		if !ok {
			return domain.Series{}, domain.InvalidRequest("Invalid crop or region")
		}

		days, err := p.sources.Weather.FetchHistory(ctx, p.locateRegion(ctx, r), p.opts.AgricultureDays)
		if err != nil {
			return domain.Series{}, err
		}
		return domain.NormalizeAgriculture(domain.AgriculturePayload{Crop: crop, Region: region, Days: days})
	})
}

// locateRegion prefers a geocoded position for the region and falls back to
// the curated catalog coordinates when geocoding is off, fails or finds nothing.
func (p *Pipeline) locateRegion(ctx context.Context, r catalog.Region) domain.Coordinates {
	fallback := domain.Coordinates{Lat: r.Lat, Lon: r.Lon}
	if p.geocoder == nil {
		return fallback
	}
	result, err := p.geocoder.ForwardGeocode(ctx, r.Name)
	if err != nil {
		p.logger.Warn("region geocoding failed, using catalog coordinates", "region", r.Name, "error", err)
		return fallback
	}
	if result.PlaceName == "" {
		p.logger.Debug("region not found by geocoder, using catalog coordinates", "region", r.Name)
		return fallback
	}
	return result.Coordinates
}
