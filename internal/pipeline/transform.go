package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// QuakeTransformer implements Transformer using domain parse and style
// functions with optional reverse geocoding of unlabeled quakes.
type QuakeTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a QuakeTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *QuakeTransformer {
	return &QuakeTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *QuakeTransformer) Transform(ctx context.Context, raw domain.RawFeature) (domain.Marker, error) {
	q, err := domain.ParseFeature(raw)
	if err != nil {
		return domain.Marker{}, err
	}

	q = domain.EnrichWithGeocoding(ctx, q, t.geocoder, t.logger)

	return domain.BuildMarker(q), nil
}
