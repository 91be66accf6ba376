package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding fills in the place label for quakes the feed published
// without one. Quakes that already have a place, or a nil geocoder, pass
// through untouched. Failures are logged and leave the place empty
// (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, q Quake, geocoder Geocoder, logger *slog.Logger) Quake {
	if geocoder == nil || q.Place != "" {
		return q
	}

	result, err := geocoder.ReverseGeocode(ctx, q.Geo.Lat, q.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"quake_id", q.ID,
			"lat", q.Geo.Lat,
			"lon", q.Geo.Lon,
			"error", err,
		)
		q.PlaceSource = "failed"
		return q
	}
	if result.FormattedAddress != "" {
		q.Place = result.FormattedAddress
		q.PlaceSource = "reverse"
		return q
	}

	// Open ocean and remote areas often have no address at all.
	q.PlaceSource = "original"
	return q
}
