package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// NamedLoader pairs a sink with the name used in logs, metrics, and errors.
// A failing Optional sink is logged and counted but does not fail the batch.
type NamedLoader struct {
	Name     string
	Loader   BatchLoader
	Optional bool
}

// MultiLoader fans a batch out to several sinks. Every sink is attempted;
// failures of required sinks are joined into one error.
type MultiLoader struct {
	loaders []NamedLoader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewMultiLoader creates a MultiLoader over the given sinks, in order.
func NewMultiLoader(logger *slog.Logger, metrics *observability.Metrics, loaders ...NamedLoader) *MultiLoader {
	return &MultiLoader{loaders: loaders, logger: logger, metrics: metrics}
}

func (m *MultiLoader) LoadBatch(ctx context.Context, markers []domain.Marker) error {
	var errs []error
	for _, l := range m.loaders {
		err := l.Loader.LoadBatch(ctx, markers)
		switch {
		case err == nil:
		case l.Optional:
			m.metrics.SinkFailures.WithLabelValues(l.Name).Inc()
			m.logger.Warn("optional sink failed", "sink", l.Name, "markers", len(markers), "error", err)
		default:
			errs = append(errs, fmt.Errorf("%s: %w", l.Name, err))
		}
	}
	return errors.Join(errs...)
}
