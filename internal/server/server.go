// Package server is the HTTP boundary: a chi router with request ID,
// logging, timeout, recovery, tracing, and metrics middleware over
// the aggregation service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/achadr/gigseeker/internal/aggregate"
	"github.com/achadr/gigseeker/internal/config"
	"github.com/achadr/gigseeker/internal/metrics"
)

// requestTimeout bounds a whole aggregation, which may page through
// several upstreams.
const requestTimeout = 30 * time.Second

type Server struct {
	Router *chi.Mux
	Port   int

	logger      *slog.Logger
	aggregator  *aggregate.Service
	services    map[string]bool
	missingKeys []string
	httpServer  *http.Server
}

// New builds the router. collector may be nil; the /metrics route and
// request instrumentation are skipped then.
func New(cfg *config.Config, logger *slog.Logger, aggregator *aggregate.Service, collector *metrics.Collector) *Server {
	s := &Server{
		Port:       cfg.Server.Port,
		logger:     logger,
		aggregator: aggregator,
		services: map[string]bool{
			"setlistfm":    cfg.Providers.SetlistFM.APIKey != "",
			"songkick":     cfg.Providers.Songkick.APIKey != "",
			"ticketmaster": cfg.Providers.Ticketmaster.APIKey != "",
			"news":         cfg.Providers.News.APIKey != "",
			"musicbrainz":  true,
			"wikipedia":    true,
		},
		missingKeys: cfg.MissingKeys(),
	}

	r := chi.NewRouter()

	// Apply middleware in order
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(requestTimeout))
	r.Use(middleware.Recoverer)
	if collector != nil {
		r.Use(collector.InstrumentHandler)
	}
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "gigseeker")
	})

	r.Get("/", s.handleIndex)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/performances", s.handlePerformances)
	r.Get("/api/summary", s.handleSummary)
	r.Get("/api/autocomplete", s.handleAutocompleteArtists)
	r.Get("/api/autocomplete/countries", s.handleAutocompleteCountries)
	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	s.Router = r
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: s.Router,
	}
	s.logger.Info("starting server", slog.Int("port", s.Port))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
