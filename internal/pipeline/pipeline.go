package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/robfig/cron/v3"
)

// Extractor reads the current set of raw features from the feed.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawFeature, error)
}

// Transformer converts a raw feature into a styled marker.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawFeature) (domain.Marker, error)
}

// BatchLoader writes a full set of styled markers to a destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, markers []domain.Marker) error
}

// OverlaySource fetches a static GeoJSON overlay document.
type OverlaySource interface {
	FetchOverlay(ctx context.Context) (json.RawMessage, error)
}

// OverlayLoader stores a fetched overlay document.
type OverlayLoader interface {
	LoadOverlay(ctx context.Context, doc json.RawMessage) error
}

// Option configures optional pipeline behavior.
type Option func(*Pipeline)

// WithOverlay loads a static overlay (tectonic plate boundaries) once when
// Run starts.
func WithOverlay(src OverlaySource, dst OverlayLoader) Option {
	return func(p *Pipeline) {
		p.overlaySrc = src
		p.overlayDst = dst
	}
}

// Pipeline orchestrates the fetch-style-load cycle.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      BatchLoader
	overlaySrc  OverlaySource
	overlayDst  OverlayLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a refresh has loaded markers, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no successful refresh yet")
	}
	return nil
}

// Run refreshes immediately, loads the overlay if configured, then refreshes
// on schedule until the context is cancelled. A failed refresh is logged and
// the next tick tries again; there is no retry in between.
func (p *Pipeline) Run(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { p.refreshLogged(ctx) }); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", schedule, err)
	}

	p.logger.Info("pipeline started", "schedule", schedule)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.loadOverlay(ctx)
	p.refreshLogged(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// Refresh runs one fetch-style-load pass. Features that fail to parse are
// skipped and counted; a fetch or load failure aborts the pass.
func (p *Pipeline) Refresh(ctx context.Context) error {
	start := time.Now()

	raws, err := p.extractor.Extract(ctx)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	p.metrics.FeaturesFetched.Add(float64(len(raws)))

	markers := make([]domain.Marker, 0, len(raws))
	for _, raw := range raws {
		m, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping feature", "quake_id", raw.ID, "error", err)
			p.metrics.FeaturesRejected.WithLabelValues(rejectReason(err)).Inc()
			continue
		}
		if domain.NonPositiveRadius(domain.StyleResult{Radius: m.Style.Radius}) {
			p.logger.Warn("marker radius is not positive",
				"quake_id", m.Quake.ID,
				"magnitude", m.Quake.Magnitude,
				"radius", m.Style.Radius,
			)
			p.metrics.NonPositiveRadius.Inc()
		}
		p.metrics.MarkersByBand.WithLabelValues(m.DepthBand).Inc()
		markers = append(markers, m)
	}

	if err := p.loader.LoadBatch(ctx, markers); err != nil {
		return fmt.Errorf("load %d markers: %w", len(markers), err)
	}

	p.metrics.MarkersPublished.Add(float64(len(markers)))
	p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRefreshSuccess.Set(float64(time.Now().Unix()))
	p.ready.Store(true)

	p.logger.Info("refresh complete",
		"fetched", len(raws),
		"markers", len(markers),
		"duration", time.Since(start),
	)
	return nil
}

func (p *Pipeline) refreshLogged(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.Refresh(ctx); err != nil {
		p.logger.Error("refresh failed", "error", err)
	}
}

// loadOverlay fetches the overlay once. Failures leave the map without it.
func (p *Pipeline) loadOverlay(ctx context.Context) {
	if p.overlaySrc == nil || p.overlayDst == nil {
		return
	}
	doc, err := p.overlaySrc.FetchOverlay(ctx)
	if err != nil {
		p.logger.Warn("overlay fetch failed, continuing without it", "error", err)
		return
	}
	if doc == nil {
		return
	}
	if err := p.overlayDst.LoadOverlay(ctx, doc); err != nil {
		p.logger.Warn("overlay load failed", "error", err)
		return
	}
	p.logger.Info("overlay loaded", "bytes", len(doc))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingMagnitude):
		return "missing_magnitude"
	case errors.Is(err, domain.ErrMissingCoordinates):
		return "missing_coordinates"
	default:
		return "other"
	}
}
