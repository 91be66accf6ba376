package domain

import "context"

// GeocodingResult is the place a geocoding provider resolved. An empty
// FormattedAddress means the provider had no match.
type GeocodingResult struct {
	FormattedAddress string
}

// Geocoder resolves coordinates to a human-readable place.
type Geocoder interface {
	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
