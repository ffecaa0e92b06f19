package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/achadr/gigseeker/internal/aggregate"
	"github.com/achadr/gigseeker/internal/config"
	"github.com/achadr/gigseeker/internal/domain"
	"github.com/achadr/gigseeker/internal/metrics"
	"github.com/achadr/gigseeker/internal/provider"
)

type stubEventProvider struct {
	events []domain.Event
}

func (s *stubEventProvider) Name() string { return "stub" }

func (s *stubEventProvider) Search(context.Context, domain.SearchParams) (*provider.SearchResult, error) {
	return &provider.SearchResult{Events: s.events, Total: len(s.events)}, nil
}

func newTestServer(t *testing.T, events []domain.Event) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Providers.SetlistFM.APIKey = "x"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := aggregate.New([]provider.EventProvider{&stubEventProvider{events: events}}, nil, aggregate.WithLogger(logger))
	collector, err := metrics.New()
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	return New(cfg, logger, svc, collector)
}

func TestPerformancesRequiresArtist(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/performances", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Error, "artist") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestPerformancesReturnsResult(t *testing.T) {
	srv := newTestServer(t, []domain.Event{{
		Date: "2023-05-01", Venue: "Zenith", City: "Paris", Country: "France",
		Source: "stub", Confidence: domain.ConfidenceHigh,
	}})

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/performances?artist=Phoenix&country=France", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	var result domain.PerformanceResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Performed || len(result.Events) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Location != "France" {
		t.Errorf("location = %q", result.Location)
	}
}

func TestSummaryReturnsText(t *testing.T) {
	srv := newTestServer(t, []domain.Event{{
		Date: "2023-05-01", Venue: "Zenith", City: "Paris", Country: "France",
		Source: "stub", Confidence: domain.ConfidenceHigh,
	}})

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?artist=Phoenix&country=France", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Yes, Phoenix has performed in France.") {
		t.Errorf("summary = %q", body)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Status   string          `json:"status"`
		Services map[string]bool `json:"services"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
	if !resp.Services["setlistfm"] {
		t.Error("setlistfm should report configured")
	}
	if resp.Services["songkick"] {
		t.Error("songkick should report unconfigured")
	}
}

func TestAutocomplete(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autocomplete?q=cold", nil))

	var suggestions []string
	if err := json.NewDecoder(rec.Body).Decode(&suggestions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(suggestions) == 0 || suggestions[0] != "Coldplay" {
		t.Errorf("suggestions = %v", suggestions)
	}

	rec = httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autocomplete/countries?q=uni", nil))
	suggestions = nil
	if err := json.NewDecoder(rec.Body).Decode(&suggestions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	joined := strings.Join(suggestions, ",")
	if !strings.Contains(joined, "United States") || !strings.Contains(joined, "United Kingdom") {
		t.Errorf("suggestions = %v", suggestions)
	}

	// Empty query suggests nothing.
	rec = httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autocomplete", nil))
	suggestions = nil
	if err := json.NewDecoder(rec.Body).Decode(&suggestions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(suggestions) != 0 {
		t.Errorf("suggestions = %v, want none", suggestions)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
