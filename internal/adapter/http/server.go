package http

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Snapshot is the read side of the latest refresh.
type Snapshot interface {
	Markers() ([]domain.Marker, time.Time)
	Overlay() json.RawMessage
}

// Server serves the map page, its JSON APIs, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	snapshot   Snapshot
	mapCfg     config.MapConfig
	logger     *slog.Logger
}

// NewServer builds the router for the given configuration.
func NewServer(cfg *config.Config, snap Snapshot, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshot: snap,
		mapCfg:   cfg.Map,
		logger:   logger,
	}

	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handlePage)
	r.Route("/api", func(api chi.Router) {
		api.Get("/quakes", s.handleQuakes)
		api.Get("/legend", handleLegend)
		api.Get("/plates", s.handlePlates)
	})

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type pageData struct {
	Map    config.MapConfig
	Legend []domain.LegendEntry
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Map: s.mapCfg, Legend: domain.LegendBands()}
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render map page", "error", err)
	}
}

func (s *Server) handleQuakes(w http.ResponseWriter, _ *http.Request) {
	markers, refreshedAt := s.snapshot.Markers()
	sharedobs.WriteJSON(w, http.StatusOK, newFeatureCollection(markers, refreshedAt))
}

func handleLegend(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, domain.LegendBands())
}

func (s *Server) handlePlates(w http.ResponseWriter, _ *http.Request) {
	doc := s.snapshot.Overlay()
	if doc == nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "plate boundaries not loaded"})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
