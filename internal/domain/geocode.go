package domain

import "context"

// GeocodingResult is the best match for a place query.
// An empty PlaceName means the provider found nothing.
type GeocodingResult struct {
	Coordinates
	PlaceName string
	Relevance float64
}

// Geocoder resolves free-form place names to coordinates.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
