// Package aggregate fans a performance query out to every configured
// provider, merges the answers into one result, and caches it.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/achadr/gigseeker/internal/cache"
	"github.com/achadr/gigseeker/internal/domain"
	"github.com/achadr/gigseeker/internal/metrics"
	"github.com/achadr/gigseeker/internal/provider"
)

// maxSources caps the supplementary link list in a result.
const maxSources = 10

// Option configures the service.
type Option func(*Service)

// WithImageProvider enables artist image resolution.
func WithImageProvider(p provider.ImageProvider) Option {
	return func(s *Service) {
		s.imageProvider = p
	}
}

// WithMetrics enables provider and cache instrumentation.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCacheTTL overrides the default result TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service aggregates provider answers. Providers are queried
// concurrently; one provider failing degrades the answer instead of
// failing it.
type Service struct {
	eventProviders []provider.EventProvider
	linkProviders  []provider.LinkProvider
	imageProvider  provider.ImageProvider
	results        *cache.Cache[domain.PerformanceResult]
	cacheTTL       time.Duration
	metrics        *metrics.Collector
	logger         *slog.Logger
}

// New creates the aggregation service over the given providers.
func New(eventProviders []provider.EventProvider, linkProviders []provider.LinkProvider, opts ...Option) *Service {
	s := &Service{
		eventProviders: eventProviders,
		linkProviders:  linkProviders,
		results:        cache.New[domain.PerformanceResult](cache.DefaultTTL),
		cacheTTL:       cache.DefaultTTL,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartCacheSweeper launches the background expiry sweep.
func (s *Service) StartCacheSweeper(ctx context.Context) {
	s.results.StartSweeper(ctx, cache.DefaultSweepInterval)
}

// CacheStats reports the live cache size and keys.
func (s *Service) CacheStats() (int, []string) {
	return s.results.Stats()
}

type eventOutcome struct {
	provider string
	result   *provider.SearchResult
	err      error
}

type linkOutcome struct {
	links []domain.SourceLink
	err   error
}

// Aggregate answers one performance query. The error return covers
// invalid input only; upstream failures surface in the result message
// instead.
func (s *Service) Aggregate(ctx context.Context, params domain.SearchParams) (domain.PerformanceResult, error) {
	params.Artist = strings.TrimSpace(params.Artist)
	if params.Artist == "" {
		return domain.PerformanceResult{}, domain.ErrInvalidRequest
	}

	key := cache.Key(params.Artist, params.Country)
	if cached, ok := s.results.Get(key); ok {
		if s.metrics != nil {
			s.metrics.ObserveCache(true)
		}
		cached.Cached = true
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.ObserveCache(false)
	}

	eventOutcomes := make([]eventOutcome, len(s.eventProviders))
	linkOutcomes := make([]linkOutcome, len(s.linkProviders))
	var imageURL string

	var wg sync.WaitGroup
	for i, p := range s.eventProviders {
		wg.Add(1)
		go func(i int, p provider.EventProvider) {
			defer wg.Done()
			start := time.Now()
			res, err := p.Search(ctx, params)
			if s.metrics != nil {
				s.metrics.ObserveProvider(p.Name(), time.Since(start), err)
			}
			if err != nil {
				s.logger.Warn("event provider failed",
					"provider", p.Name(),
					"artist", params.Artist,
					"error", err)
			}
			eventOutcomes[i] = eventOutcome{provider: p.Name(), result: res, err: err}
		}(i, p)
	}
	for i, p := range s.linkProviders {
		wg.Add(1)
		go func(i int, p provider.LinkProvider) {
			defer wg.Done()
			start := time.Now()
			links, err := p.Links(ctx, params)
			if s.metrics != nil {
				s.metrics.ObserveProvider(p.Name(), time.Since(start), err)
			}
			if err != nil {
				s.logger.Warn("link provider failed",
					"provider", p.Name(),
					"artist", params.Artist,
					"error", err)
			}
			linkOutcomes[i] = linkOutcome{links: links, err: err}
		}(i, p)
	}
	if s.imageProvider != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, err := s.imageProvider.ArtistImage(ctx, params.Artist)
			if err != nil {
				s.logger.Warn("image lookup failed",
					"provider", s.imageProvider.Name(),
					"artist", params.Artist,
					"error", err)
				return
			}
			imageURL = url
		}()
	}
	wg.Wait()

	var allEvents []domain.Event
	totalAvailable := 0
	var failures []string
	for _, out := range eventOutcomes {
		if out.err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", out.provider, out.err))
			continue
		}
		allEvents = append(allEvents, out.result.Events...)
		if out.result.Total > totalAvailable {
			totalAvailable = out.result.Total
		}
	}

	var sources []domain.SourceLink
	for _, out := range linkOutcomes {
		if out.err != nil {
			continue
		}
		sources = append(sources, out.links...)
	}
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}

	events := dedupeEvents(allEvents)
	sortEvents(events)
	if totalAvailable < len(events) {
		totalAvailable = len(events)
	}

	result := domain.PerformanceResult{
		Artist:         params.Artist,
		Location:       location(params.Country),
		Performed:      len(events) > 0,
		Events:         events,
		Sources:        sources,
		ArtistImage:    imageURL,
		TotalAvailable: totalAvailable,
	}
	if !result.Performed {
		result.Message = noResultMessage(params, failures)
	}

	s.results.Set(key, result, s.cacheTTL)
	return result, nil
}

// Summary answers a lookup with a single human-readable sentence.
func (s *Service) Summary(ctx context.Context, artist, country string) (string, error) {
	result, err := s.Aggregate(ctx, domain.SearchParams{Artist: artist, Country: country})
	if err != nil {
		return "", err
	}
	if !result.Performed {
		if result.Message != "" {
			return result.Message, nil
		}
		return "No performances found.", nil
	}
	first := result.Events[0]
	return fmt.Sprintf("Yes, %s has performed in %s. Found %d event(s). Most recent: %s, %s on %s.",
		artist, result.Location, len(result.Events), first.Venue, first.City, first.Date), nil
}

func location(country string) string {
	if country == "" {
		return "worldwide"
	}
	return country
}

func noResultMessage(params domain.SearchParams, failures []string) string {
	if len(failures) > 0 {
		return fmt.Sprintf("No performances found. Some services had errors: %s", strings.Join(failures, "; "))
	}
	if params.Country != "" {
		return fmt.Sprintf("No performance records found for %s in %s.", params.Artist, params.Country)
	}
	return fmt.Sprintf("No performance records found for %s.", params.Artist)
}

// dedupeEvents drops events that agree on date, venue, and city. The
// first occurrence wins, so provider registration order decides which
// copy survives.
func dedupeEvents(events []domain.Event) []domain.Event {
	seen := make(map[string]struct{}, len(events))
	unique := make([]domain.Event, 0, len(events))
	for _, e := range events {
		key := strings.ToLower(fmt.Sprintf("%s-%s-%s", e.Date, e.Venue, e.City))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, e)
	}
	return unique
}

// sortEvents orders most recent first, events with unknown dates
// last. ISO dates compare correctly as strings.
func sortEvents(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Date, events[j].Date
		if a == domain.UnknownDate {
			return false
		}
		if b == domain.UnknownDate {
			return true
		}
		return a > b
	})
}
