// Package ticketmaster adapts the Ticketmaster Discovery v2 API. It
// covers upcoming and on-sale events rather than historical shows, so
// its results complement the setlist archives.
package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/achadr/gigseeker/internal/country"
	"github.com/achadr/gigseeker/internal/domain"
	"github.com/achadr/gigseeker/internal/pagination"
	"github.com/achadr/gigseeker/internal/provider"
	"github.com/achadr/gigseeker/internal/venue"
)

const (
	// ProviderName identifies this adapter in results and logs.
	ProviderName = "ticketmaster"

	defaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

	countryPages   = 3
	worldwidePages = 5

	pageSize = 50
)

// Option configures the provider.
type Option func(*Provider)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = httpClient
	}
}

// WithLogger sets the logger used for partial-failure warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// Provider is the Ticketmaster Discovery adapter.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Ticketmaster provider with the given API key.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.EventProvider.
func (p *Provider) Name() string { return ProviderName }

type searchResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
	Page struct {
		TotalElements int `json:"totalElements"`
		TotalPages    int `json:"totalPages"`
	} `json:"page"`
}

type tmEvent struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded"`
}

type tmVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	Country struct {
		Name        string `json:"name"`
		CountryCode string `json:"countryCode"`
	} `json:"country"`
}

// Search implements provider.EventProvider.
func (p *Provider) Search(ctx context.Context, params domain.SearchParams) (*provider.SearchResult, error) {
	if p.apiKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	countryCode := ""
	pages := worldwidePages
	if params.Country != "" {
		countryCode = strings.ToUpper(country.ToISO(params.Country))
		pages = countryPages
	}

	total := 0
	events := pagination.FetchAll(ctx, func(ctx context.Context, page int) ([]domain.Event, error) {
		// Discovery pages are zero based.
		resp, err := p.fetchEvents(ctx, params.Artist, countryCode, page-1)
		if err != nil {
			return nil, err
		}
		if resp.Page.TotalElements > total {
			total = resp.Page.TotalElements
		}
		out := make([]domain.Event, 0, len(resp.Embedded.Events))
		for _, e := range resp.Embedded.Events {
			out = append(out, convertEvent(e))
		}
		return out, nil
	}, pagination.Options{
		TotalPages: pages,
		Service:    ProviderName,
		Logger:     p.logger,
	})

	if total < len(events) {
		total = len(events)
	}
	return &provider.SearchResult{Events: events, Total: total}, nil
}

func (p *Provider) fetchEvents(ctx context.Context, artist, countryCode string, page int) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/events.json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("keyword", artist)
	q.Set("classificationName", "music")
	q.Set("size", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("apikey", p.apiKey)
	if countryCode != "" {
		q.Set("countryCode", countryCode)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("event search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("event search failed: status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode event response: %w", err)
	}
	return &searchResp, nil
}

func convertEvent(e tmEvent) domain.Event {
	event := domain.Event{
		Date:       domain.UnknownDate,
		Venue:      domain.UnknownVenue,
		City:       domain.UnknownCity,
		Country:    domain.UnknownCountry,
		Source:     ProviderName,
		SourceURL:  e.URL,
		Confidence: domain.ConfidenceHigh,
	}
	if d := e.Dates.Start.LocalDate; d != "" {
		event.Date = d
	}
	if len(e.Embedded.Venues) > 0 {
		v := e.Embedded.Venues[0]
		if v.Name != "" {
			event.Venue = v.Name
		}
		if v.City.Name != "" {
			event.City = v.City.Name
		}
		if c := country.Extract(v.Country.Name, v.Country.CountryCode); c != "" {
			event.Country = c
		}
		event.Capacity = venue.CapacityWithFallback(event.Venue, event.City, event.Country)
	}
	return event
}
