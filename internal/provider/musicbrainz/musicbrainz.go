// Package musicbrainz adapts the MusicBrainz event database. The API
// allows 1 request per second and requires a User-Agent, so the
// adapter owns a rate limiter that paces both lookup steps.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/achadr/gigseeker/internal/country"
	"github.com/achadr/gigseeker/internal/domain"
	"github.com/achadr/gigseeker/internal/provider"
	"github.com/achadr/gigseeker/internal/retry"
	"github.com/achadr/gigseeker/internal/venue"
)

const (
	// ProviderName identifies this adapter in results and logs.
	ProviderName = "musicbrainz"

	defaultBaseURL = "https://musicbrainz.org/ws/2"
	userAgent      = "gigseeker/1.0 (https://github.com/achadr/gigseeker)"

	eventLimit = 100

	retryAttempts = 3
	retryDelay    = 200 * time.Millisecond
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

// WithRateLimit overrides the default 1 req/s pacing, mainly for
// tests.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(p *Provider) {
		p.limiter = limiter
	}
}

// Provider is the MusicBrainz adapter. No API key is needed.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a MusicBrainz provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.EventProvider.
func (p *Provider) Name() string { return ProviderName }

type artistSearchResponse struct {
	Artists []mbArtist `json:"artists"`
}

type mbArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type eventsResponse struct {
	Events     []mbEvent `json:"events"`
	EventCount int       `json:"event-count"`
}

type mbEvent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LifeSpan struct {
		Begin string `json:"begin"`
	} `json:"life-span"`
	Relations []mbRelation `json:"relations"`
}

type mbRelation struct {
	Type  string   `json:"type"`
	Place *mbPlace `json:"place"`
}

type mbPlace struct {
	Name     string   `json:"name"`
	Country  string   `json:"country"`
	ISOCodes []string `json:"iso-3166-1-codes"`
	Area     *mbArea  `json:"area"`
}

type mbArea struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ISOCodes []string `json:"iso-3166-1-codes"`
}

// Search implements provider.EventProvider. The events endpoint has
// no country parameter, so country filtering happens client side on
// the place relations.
func (p *Provider) Search(ctx context.Context, params domain.SearchParams) (*provider.SearchResult, error) {
	mbid, err := p.findArtist(ctx, params.Artist)
	if err != nil {
		return nil, err
	}
	if mbid == "" {
		return &provider.SearchResult{Events: []domain.Event{}}, nil
	}

	resp, err := retry.Do(ctx, retryAttempts, retryDelay, func(ctx context.Context) (*eventsResponse, error) {
		return p.fetchEvents(ctx, mbid)
	})
	if err != nil {
		return nil, err
	}

	isoCode := ""
	if params.Country != "" {
		isoCode = strings.ToUpper(country.ToISO(params.Country))
	}

	events := make([]domain.Event, 0, len(resp.Events))
	for _, e := range resp.Events {
		if isoCode != "" && !eventInCountry(e, isoCode) {
			continue
		}
		events = append(events, convertEvent(e))
	}

	total := resp.EventCount
	if isoCode != "" || total < len(events) {
		// The upstream count covers all countries; once filtered it
		// no longer describes our result set.
		total = len(events)
	}
	return &provider.SearchResult{Events: events, Total: total}, nil
}

func (p *Provider) findArtist(ctx context.Context, name string) (string, error) {
	body, err := retry.Do(ctx, retryAttempts, retryDelay, func(ctx context.Context) (*artistSearchResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/artist", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		q := req.URL.Query()
		q.Set("query", fmt.Sprintf("artist:%s", name))
		q.Set("fmt", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()

		var out artistSearchResponse
		if err := p.doJSON(ctx, req, &out); err != nil {
			return nil, fmt.Errorf("artist search failed: %w", err)
		}
		return &out, nil
	})
	if err != nil {
		return "", err
	}
	if len(body.Artists) == 0 {
		return "", nil
	}
	return body.Artists[0].ID, nil
}

func (p *Provider) fetchEvents(ctx context.Context, mbid string) (*eventsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/event", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("artist", mbid)
	q.Set("fmt", "json")
	q.Set("limit", fmt.Sprintf("%d", eventLimit))
	q.Set("inc", "place-rels+area-rels")
	req.URL.RawQuery = q.Encode()

	var out eventsResponse
	if err := p.doJSON(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}
	return &out, nil
}

func (p *Provider) doJSON(ctx context.Context, req *http.Request, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func heldAtPlaces(e mbEvent) []*mbPlace {
	var places []*mbPlace
	for _, rel := range e.Relations {
		if rel.Type == "held at" && rel.Place != nil {
			places = append(places, rel.Place)
		}
	}
	return places
}

func eventInCountry(e mbEvent, isoCode string) bool {
	for _, place := range heldAtPlaces(e) {
		if place.Area != nil {
			for _, code := range place.Area.ISOCodes {
				if code == isoCode {
					return true
				}
			}
		}
		if strings.ToUpper(place.Country) == isoCode {
			return true
		}
		for _, code := range place.ISOCodes {
			if code == isoCode {
				return true
			}
		}
	}
	return false
}

func convertEvent(e mbEvent) domain.Event {
	event := domain.Event{
		Date:       domain.UnknownDate,
		Venue:      domain.UnknownVenue,
		City:       domain.UnknownCity,
		Country:    domain.UnknownCountry,
		Source:     ProviderName,
		SourceURL:  fmt.Sprintf("https://musicbrainz.org/event/%s", e.ID),
		Confidence: domain.ConfidenceHigh,
	}
	if e.LifeSpan.Begin != "" {
		event.Date = e.LifeSpan.Begin
	}
	if places := heldAtPlaces(e); len(places) > 0 {
		place := places[0]
		if place.Name != "" {
			event.Venue = place.Name
		}
		if place.Area != nil && place.Area.Name != "" {
			if len(place.Area.ISOCodes) > 0 {
				// The area itself is a country.
				event.Country = place.Area.Name
			} else {
				event.City = place.Area.Name
			}
		}
	}
	event.Capacity = venue.CapacityWithFallback(event.Venue, event.City, event.Country)
	return event
}
