package aggregate

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/achadr/gigseeker/internal/domain"
	"github.com/achadr/gigseeker/internal/provider"
)

type stubEventProvider struct {
	name   string
	events []domain.Event
	total  int
	err    error
	calls  atomic.Int32
}

func (s *stubEventProvider) Name() string { return s.name }

func (s *stubEventProvider) Search(context.Context, domain.SearchParams) (*provider.SearchResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	total := s.total
	if total < len(s.events) {
		total = len(s.events)
	}
	return &provider.SearchResult{Events: s.events, Total: total}, nil
}

type stubLinkProvider struct {
	name  string
	links []domain.SourceLink
	err   error
}

func (s *stubLinkProvider) Name() string { return s.name }

func (s *stubLinkProvider) Links(context.Context, domain.SearchParams) ([]domain.SourceLink, error) {
	return s.links, s.err
}

type stubImage struct{ url string }

func (s *stubImage) Name() string { return "stub" }
func (s *stubImage) ArtistImage(context.Context, string) (string, error) {
	return s.url, nil
}

func event(date, venue, city, source string) domain.Event {
	return domain.Event{
		Date: date, Venue: venue, City: city,
		Country: "France", Source: source,
		Confidence: domain.ConfidenceHigh,
	}
}

func TestAggregateMergesAndSorts(t *testing.T) {
	svc := New(
		[]provider.EventProvider{
			&stubEventProvider{name: "setlistfm", events: []domain.Event{
				event("2023-05-01", "Zenith", "Paris", "setlistfm"),
				event(domain.UnknownDate, "Olympia", "Paris", "setlistfm"),
			}},
			&stubEventProvider{name: "songkick", events: []domain.Event{
				event("2024-02-10", "Accor Arena", "Paris", "songkick"),
			}},
		},
		[]provider.LinkProvider{
			&stubLinkProvider{name: "wikipedia", links: []domain.SourceLink{
				{Title: "Tour article", URL: "https://en.wikipedia.org/wiki/x", Kind: domain.LinkOther},
			}},
		},
		WithImageProvider(&stubImage{url: "https://img.example.com/a.jpg"}),
	)

	res, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "Phoenix", Country: "France"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Performed {
		t.Error("performed = false")
	}
	if len(res.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(res.Events))
	}
	if res.Events[0].Date != "2024-02-10" || res.Events[1].Date != "2023-05-01" {
		t.Errorf("events not sorted most recent first: %v, %v", res.Events[0].Date, res.Events[1].Date)
	}
	if res.Events[2].Date != domain.UnknownDate {
		t.Errorf("unknown date should sort last, got %q", res.Events[2].Date)
	}
	if res.Location != "France" {
		t.Errorf("location = %q", res.Location)
	}
	if res.ArtistImage != "https://img.example.com/a.jpg" {
		t.Errorf("artistImage = %q", res.ArtistImage)
	}
	if len(res.Sources) != 1 {
		t.Errorf("got %d sources, want 1", len(res.Sources))
	}
	if res.Cached {
		t.Error("first lookup should not be cached")
	}
}

func TestAggregateDeduplicates(t *testing.T) {
	svc := New(
		[]provider.EventProvider{
			&stubEventProvider{name: "setlistfm", events: []domain.Event{
				event("2023-05-01", "Zenith", "Paris", "setlistfm"),
			}},
			&stubEventProvider{name: "songkick", events: []domain.Event{
				event("2023-05-01", "ZENITH", "paris", "songkick"),
			}},
		},
		nil,
	)

	res, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "Phoenix"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events, want 1 after dedup", len(res.Events))
	}
	// First provider wins.
	if res.Events[0].Source != "setlistfm" {
		t.Errorf("surviving source = %q, want setlistfm", res.Events[0].Source)
	}
}

func TestAggregateServesSecondCallFromCache(t *testing.T) {
	ep := &stubEventProvider{name: "setlistfm", events: []domain.Event{
		event("2023-05-01", "Zenith", "Paris", "setlistfm"),
	}}
	svc := New([]provider.EventProvider{ep}, nil)

	if _, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "Phoenix", Country: "France"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Key normalization makes this the same query.
	res, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: " phoenix ", Country: "FRANCE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Cached {
		t.Error("second lookup should be served from cache")
	}
	if ep.calls.Load() != 1 {
		t.Errorf("provider called %d times, want 1", ep.calls.Load())
	}
}

func TestAggregatePartialFailure(t *testing.T) {
	svc := New(
		[]provider.EventProvider{
			&stubEventProvider{name: "setlistfm", err: errors.New("upstream down")},
			&stubEventProvider{name: "songkick", events: []domain.Event{
				event("2023-05-01", "Zenith", "Paris", "songkick"),
			}},
		},
		nil,
	)

	res, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "Phoenix"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Performed || len(res.Events) != 1 {
		t.Errorf("expected the healthy provider's events, got %+v", res)
	}
	if res.Message != "" {
		t.Errorf("message should be empty when events were found, got %q", res.Message)
	}
}

func TestAggregateAllFailed(t *testing.T) {
	svc := New(
		[]provider.EventProvider{
			&stubEventProvider{name: "setlistfm", err: errors.New("upstream down")},
		},
		nil,
	)

	res, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "Phoenix"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Performed {
		t.Error("performed = true with no events")
	}
	if !strings.Contains(res.Message, "setlistfm: upstream down") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestAggregateNoResults(t *testing.T) {
	svc := New(
		[]provider.EventProvider{&stubEventProvider{name: "setlistfm"}},
		nil,
	)

	res, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "Phoenix", Country: "Iceland"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "No performance records found for Phoenix in Iceland."
	if res.Message != want {
		t.Errorf("message = %q, want %q", res.Message, want)
	}
	if res.TotalAvailable != 0 {
		t.Errorf("totalAvailable = %d, want 0", res.TotalAvailable)
	}
}

func TestAggregateEmptyArtist(t *testing.T) {
	svc := New(nil, nil)
	if _, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "  "}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestAggregateTotalAvailable(t *testing.T) {
	svc := New(
		[]provider.EventProvider{
			&stubEventProvider{name: "setlistfm", total: 120, events: []domain.Event{
				event("2023-05-01", "Zenith", "Paris", "setlistfm"),
			}},
			&stubEventProvider{name: "ticketmaster", total: 40, events: []domain.Event{
				event("2024-02-10", "Accor Arena", "Paris", "ticketmaster"),
			}},
		},
		nil,
	)

	res, err := svc.Aggregate(context.Background(), domain.SearchParams{Artist: "Phoenix"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalAvailable != 120 {
		t.Errorf("totalAvailable = %d, want the largest provider total 120", res.TotalAvailable)
	}
}

func TestSummary(t *testing.T) {
	svc := New(
		[]provider.EventProvider{
			&stubEventProvider{name: "setlistfm", events: []domain.Event{
				event("2023-05-01", "Zenith", "Paris", "setlistfm"),
			}},
		},
		nil,
	)

	got, err := svc.Summary(context.Background(), "Phoenix", "France")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Yes, Phoenix has performed in France. Found 1 event(s). Most recent: Zenith, Paris on 2023-05-01."
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestDedupeEventsIdempotent(t *testing.T) {
	events := []domain.Event{
		{Date: "2023-05-01", Venue: "Zenith", City: "Paris", Country: "France", Source: "a"},
		{Date: "2023-05-01", Venue: "ZENITH", City: "paris", Country: "France", Source: "b"},
		{Date: "2023-06-10", Venue: "Olympia", City: "Paris", Country: "France", Source: "a"},
		{Date: domain.UnknownDate, Venue: domain.UnknownVenue, City: domain.UnknownCity, Country: domain.UnknownCountry, Source: "c"},
	}

	once := dedupeEvents(events)
	if len(once) != 3 {
		t.Fatalf("got %d events after dedup, want 3", len(once))
	}

	// Feeding a deduplicated list back through must change nothing.
	twice := dedupeEvents(once)
	if !reflect.DeepEqual(twice, once) {
		t.Errorf("dedup not idempotent:\n once = %+v\n twice = %+v", once, twice)
	}
}
