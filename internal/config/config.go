package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

// Default upstream documents.
const (
	DefaultFeedURL   = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultPlatesURL = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL         string
	FeedTimeout     time.Duration
	PlatesURL       string
	PlatesEnabled   bool
	RefreshSchedule string

	HTTPAddr           string
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration

	// Map page settings.
	Map MapConfig

	// Kafka marker publication (optional).
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// MapConfig is the initial view and base layers of the map page.
type MapConfig struct {
	TileURL     string
	TopoTileURL string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapCfg, err := loadMapConfig()
	if err != nil {
		return nil, err
	}

	platesEnabled, err := parseBool("PLATES_ENABLED", true)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled, err := parseBool("MAPBOX_ENABLED", mapboxToken != "")
	if err != nil {
		return nil, err
	}

	kafkaBrokersRaw := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", kafkaBrokersRaw != "")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedURL:         sharedcfg.EnvOrDefault("FEED_URL", DefaultFeedURL),
		FeedTimeout:     feedTimeout,
		PlatesURL:       sharedcfg.EnvOrDefault("PLATES_URL", DefaultPlatesURL),
		PlatesEnabled:   platesEnabled,
		RefreshSchedule: sharedcfg.EnvOrDefault("REFRESH_SCHEDULE", "@every 5m"),

		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,

		Map: mapCfg,

		KafkaEnabled:   kafkaEnabled,
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "styled-quake-markers"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.PlatesEnabled && cfg.PlatesURL == "" {
		return nil, errors.New("PLATES_ENABLED is true but PLATES_URL is not set")
	}
	if _, err := cron.ParseStandard(cfg.RefreshSchedule); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_SCHEDULE: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when Kafka is enabled")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func loadMapConfig() (MapConfig, error) {
	lat, err := parseFloat("MAP_CENTER_LAT", 39.8283)
	if err != nil {
		return MapConfig{}, err
	}
	if lat < -90 || lat > 90 {
		return MapConfig{}, errors.New("invalid MAP_CENTER_LAT: must be within [-90, 90]")
	}

	lon, err := parseFloat("MAP_CENTER_LON", -98.5795)
	if err != nil {
		return MapConfig{}, err
	}
	if lon < -180 || lon > 180 {
		return MapConfig{}, errors.New("invalid MAP_CENTER_LON: must be within [-180, 180]")
	}

	zoom := 5
	if s := os.Getenv("MAP_ZOOM"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 22 {
			return MapConfig{}, errors.New("invalid MAP_ZOOM")
		}
		zoom = n
	}

	return MapConfig{
		TileURL:     sharedcfg.EnvOrDefault("MAP_TILE_URL", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"),
		TopoTileURL: sharedcfg.EnvOrDefault("MAP_TOPO_TILE_URL", "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png"),
		CenterLat:   lat,
		CenterLon:   lon,
		Zoom:        zoom,
	}, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
