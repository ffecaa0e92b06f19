// Package songkick adapts the Songkick API. Lookup is two step:
// artist search to get the Songkick artist id, then that artist's
// event calendar. The calendar endpoint has no country parameter, so
// country filtering matches the location's display name client side.
package songkick

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/achadr/gigseeker/internal/country"
	"github.com/achadr/gigseeker/internal/domain"
	"github.com/achadr/gigseeker/internal/provider"
	"github.com/achadr/gigseeker/internal/venue"
)

const (
	// ProviderName identifies this adapter in results and logs.
	ProviderName = "songkick"

	defaultBaseURL = "https://api.songkick.com/api/3.0"
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

// Provider is the Songkick adapter.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a Songkick provider with the given API key.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.EventProvider.
func (p *Provider) Name() string { return ProviderName }

type artistSearchResponse struct {
	ResultsPage struct {
		Results struct {
			Artist []skArtist `json:"artist"`
		} `json:"results"`
	} `json:"resultsPage"`
}

type skArtist struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
}

type calendarResponse struct {
	ResultsPage struct {
		TotalEntries int `json:"totalEntries"`
		Results      struct {
			Event []skEvent `json:"event"`
		} `json:"results"`
	} `json:"resultsPage"`
}

type skEvent struct {
	URI   string `json:"uri"`
	Start struct {
		Date string `json:"date"`
	} `json:"start"`
	Venue struct {
		DisplayName string `json:"displayName"`
	} `json:"venue"`
	Location struct {
		City struct {
			DisplayName string `json:"displayName"`
			Country     struct {
				DisplayName string `json:"displayName"`
			} `json:"country"`
		} `json:"city"`
	} `json:"location"`
}

// Search implements provider.EventProvider.
func (p *Provider) Search(ctx context.Context, params domain.SearchParams) (*provider.SearchResult, error) {
	if p.apiKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	artistID, err := p.findArtist(ctx, params.Artist)
	if err != nil {
		return nil, err
	}
	if artistID == 0 {
		return &provider.SearchResult{Events: []domain.Event{}}, nil
	}

	cal, err := p.fetchCalendar(ctx, artistID)
	if err != nil {
		return nil, err
	}

	// Match on the human-readable country name, since that is all the
	// calendar payload carries.
	needle := ""
	if params.Country != "" {
		needle = strings.ToLower(country.Name(country.ToISO(params.Country)))
		if needle == "" {
			needle = strings.ToLower(params.Country)
		}
	}

	raw := cal.ResultsPage.Results.Event
	events := make([]domain.Event, 0, len(raw))
	for _, e := range raw {
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Location.City.Country.DisplayName), needle) {
			continue
		}
		events = append(events, convertEvent(e))
	}

	total := cal.ResultsPage.TotalEntries
	if needle != "" || total < len(events) {
		total = len(events)
	}
	return &provider.SearchResult{Events: events, Total: total}, nil
}

func (p *Provider) findArtist(ctx context.Context, name string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search/artists.json", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("apikey", p.apiKey)
	q.Set("query", name)
	req.URL.RawQuery = q.Encode()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("artist search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("artist search failed: status %d", resp.StatusCode)
	}

	var searchResp artistSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return 0, fmt.Errorf("failed to decode artist search response: %w", err)
	}
	artists := searchResp.ResultsPage.Results.Artist
	if len(artists) == 0 {
		return 0, nil
	}
	return artists[0].ID, nil
}

func (p *Provider) fetchCalendar(ctx context.Context, artistID int) (*calendarResponse, error) {
	url := fmt.Sprintf("%s/artists/%d/calendar.json", p.baseURL, artistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("apikey", p.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar lookup failed: status %d", resp.StatusCode)
	}

	var cal calendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}
	return &cal, nil
}

func convertEvent(e skEvent) domain.Event {
	event := domain.Event{
		Date:       domain.UnknownDate,
		Venue:      domain.UnknownVenue,
		City:       domain.UnknownCity,
		Country:    domain.UnknownCountry,
		Source:     ProviderName,
		SourceURL:  e.URI,
		Confidence: domain.ConfidenceHigh,
	}
	if e.Start.Date != "" {
		event.Date = e.Start.Date
	}
	if e.Venue.DisplayName != "" {
		event.Venue = e.Venue.DisplayName
	}
	if e.Location.City.DisplayName != "" {
		event.City = e.Location.City.DisplayName
	}
	if e.Location.City.Country.DisplayName != "" {
		event.Country = e.Location.City.Country.DisplayName
	}
	event.Capacity = venue.CapacityWithFallback(event.Venue, event.City, event.Country)
	return event
}
