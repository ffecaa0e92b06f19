// Package setlistfm adapts the setlist.fm REST API. Lookup is two
// step: resolve the artist name to a MusicBrainz identifier through
// artist search, then page through that artist's setlists.
package setlistfm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
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
	ProviderName = "setlistfm"

	defaultBaseURL = "https://api.setlist.fm/rest/1.0"

	// Page budgets. Worldwide queries get more pages since nothing
	// narrows the result set server side.
	countryPages   = 5
	worldwidePages = 10
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

// Provider is the setlist.fm adapter.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a setlist.fm provider with the given API key.
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

type artistSearchResponse struct {
	Total  int      `json:"total"`
	Artist []artist `json:"artist"`
}

type artist struct {
	MBID string `json:"mbid"`
	Name string `json:"name"`
}

type setlistSearchResponse struct {
	Total        int       `json:"total"`
	ItemsPerPage int       `json:"itemsPerPage"`
	Setlist      []setlist `json:"setlist"`
}

type setlist struct {
	EventDate string `json:"eventDate"`
	URL       string `json:"url"`
	Venue     struct {
		Name string `json:"name"`
		City struct {
			Name    string `json:"name"`
			Country struct {
				Code string `json:"code"`
				Name string `json:"name"`
			} `json:"country"`
		} `json:"city"`
	} `json:"venue"`
	Sets struct {
		Set []setlistSet `json:"set"`
	} `json:"sets"`
}

type setlistSet struct {
	Song []setlistSong `json:"song"`
}

type setlistSong struct {
	Name  string  `json:"name"`
	Cover *artist `json:"cover,omitempty"`
}

// Search implements provider.EventProvider.
func (p *Provider) Search(ctx context.Context, params domain.SearchParams) (*provider.SearchResult, error) {
	if p.apiKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	mbid, err := p.findArtist(ctx, params.Artist)
	if err != nil {
		return nil, err
	}
	if mbid == "" {
		return &provider.SearchResult{Events: []domain.Event{}}, nil
	}

	countryCode := ""
	pages := worldwidePages
	if params.Country != "" {
		countryCode = strings.ToUpper(country.ToISO(params.Country))
		pages = countryPages
	}

	total := 0
	events := pagination.FetchAll(ctx, func(ctx context.Context, page int) ([]domain.Event, error) {
		resp, err := p.fetchSetlists(ctx, mbid, countryCode, page)
		if err != nil {
			return nil, err
		}
		if resp.Total > total {
			total = resp.Total
		}
		out := make([]domain.Event, 0, len(resp.Setlist))
		for _, s := range resp.Setlist {
			out = append(out, p.convertSetlist(s))
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

func (p *Provider) findArtist(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search/artists", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("artistName", name)
	q.Set("p", "1")
	q.Set("sort", "relevance")
	req.URL.RawQuery = q.Encode()
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("artist search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("artist search failed: status %d", resp.StatusCode)
	}

	var searchResp artistSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode artist search response: %w", err)
	}
	if len(searchResp.Artist) == 0 {
		return "", nil
	}
	return searchResp.Artist[0].MBID, nil
}

func (p *Provider) fetchSetlists(ctx context.Context, mbid, countryCode string, page int) (*setlistSearchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search/setlists", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("artistMbid", mbid)
	if countryCode != "" {
		q.Set("countryCode", countryCode)
	}
	q.Set("p", fmt.Sprintf("%d", page))
	req.URL.RawQuery = q.Encode()
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("setlist search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &setlistSearchResponse{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("setlist search failed: status %d", resp.StatusCode)
	}

	var searchResp setlistSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode setlist response: %w", err)
	}
	return &searchResp, nil
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("Accept", "application/json")
	// Setlist.fm rejects requests without a user agent.
	req.Header.Set("User-Agent", "gigseeker/1.0")
}

func (p *Provider) convertSetlist(s setlist) domain.Event {
	event := domain.Event{
		Date:       convertDate(s.EventDate),
		Venue:      domain.UnknownVenue,
		City:       domain.UnknownCity,
		Country:    domain.UnknownCountry,
		Source:     ProviderName,
		SourceURL:  s.URL,
		Confidence: domain.ConfidenceHigh,
	}
	if s.Venue.Name != "" {
		event.Venue = s.Venue.Name
	}
	if s.Venue.City.Name != "" {
		event.City = s.Venue.City.Name
	}
	if c := country.Extract(s.Venue.City.Country.Name, s.Venue.City.Country.Code); c != "" {
		event.Country = c
	}
	event.Capacity = venue.CapacityWithFallback(event.Venue, event.City, event.Country)
	for _, set := range s.Sets.Set {
		for _, song := range set.Song {
			name := song.Name
			if name == "" {
				continue
			}
			if song.Cover != nil && song.Cover.Name != "" {
				name = fmt.Sprintf("%s (%s cover)", name, song.Cover.Name)
			}
			event.Setlist = append(event.Setlist, name)
		}
	}
	return event
}

// convertDate turns setlist.fm's DD-MM-YYYY event dates into ISO
// YYYY-MM-DD so they sort lexicographically with other providers.
func convertDate(eventDate string) string {
	parts := strings.Split(eventDate, "-")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return domain.UnknownDate
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}
