package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_map"

// Metrics holds the Prometheus counters, histograms, and gauges for the refresh pipeline.
type Metrics struct {
	FeaturesFetched   prometheus.Counter
	FeaturesRejected  *prometheus.CounterVec // labels: reason={missing_magnitude,missing_coordinates,other}
	MarkersPublished  prometheus.Counter
	MarkersByBand     *prometheus.CounterVec // labels: band={0–30,...,90+}
	NonPositiveRadius prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Refresh cycle metrics.
	RefreshDuration    prometheus.Histogram
	LastRefreshSuccess prometheus.Gauge
	SinkFailures       *prometheus.CounterVec // labels: sink={kafka,...}

	// Feed fetch metrics.
	FeedFetches       *prometheus.CounterVec   // labels: feed={quakes,plates}, outcome={success,error}
	FeedFetchDuration *prometheus.HistogramVec // labels: feed

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeaturesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_fetched_total",
			Help:      "Total features read from the earthquake feed.",
		}),
		FeaturesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_rejected_total",
			Help:      "Features skipped because they lack magnitude or coordinates.",
		}, []string{"reason"}),
		MarkersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_published_total",
			Help:      "Total styled markers handed to the sinks.",
		}),
		MarkersByBand: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_by_depth_band_total",
			Help:      "Styled markers by legend depth band.",
		}, []string{"band"}),
		NonPositiveRadius: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "non_positive_radius_total",
			Help:      "Markers styled with a radius <= 0 (negative magnitude).",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the refresh scheduler is active, 0 when shut down.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-style-load cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastRefreshSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_success_timestamp_seconds",
			Help:      "Unix time of the last refresh that loaded markers.",
		}),
		SinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optional_sink_failures_total",
			Help:      "Batches an optional sink failed to accept, by sink.",
		}, []string{"sink"}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Upstream GeoJSON fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Upstream GeoJSON request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"feed"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when reverse geocoding of unlabeled quakes is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FeaturesFetched,
		m.FeaturesRejected,
		m.MarkersPublished,
		m.MarkersByBand,
		m.NonPositiveRadius,
		m.PipelineRunning,
		m.RefreshDuration,
		m.LastRefreshSuccess,
		m.SinkFailures,
		m.FeedFetches,
		m.FeedFetchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
