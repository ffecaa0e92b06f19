// Package news adapts the NewsAPI /everything endpoint to find press
// coverage of an artist's concerts.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/achadr/gigseeker/internal/domain"
)

const (
	// ProviderName identifies this adapter in results and logs.
	ProviderName = "news"

	defaultBaseURL = "https://newsapi.org/v2"

	pageSize = 10
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

// Provider is the NewsAPI adapter.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a NewsAPI provider with the given API key.
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

// Name implements provider.LinkProvider.
func (p *Provider) Name() string { return ProviderName }

type everythingResponse struct {
	Status   string    `json:"status"`
	Articles []article `json:"articles"`
}

type article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}

// Links implements provider.LinkProvider.
func (p *Provider) Links(ctx context.Context, params domain.SearchParams) ([]domain.SourceLink, error) {
	if p.apiKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	query := strings.TrimSpace(fmt.Sprintf("%s %s concert performance", params.Artist, params.Country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/everything", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("apiKey", p.apiKey)
	q.Set("q", query)
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	q.Set("language", "en")
	if params.DateFrom != "" {
		q.Set("from", params.DateFrom)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("article search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article search failed: status %d", resp.StatusCode)
	}

	var body everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode article response: %w", err)
	}

	links := make([]domain.SourceLink, 0, len(body.Articles))
	for _, a := range body.Articles {
		links = append(links, domain.SourceLink{
			Title:         a.Title,
			URL:           a.URL,
			Kind:          domain.LinkNews,
			PublishedDate: publishedDate(a.PublishedAt),
			Snippet:       a.Description,
		})
	}
	return links, nil
}

// publishedDate trims the RFC 3339 timestamp down to its date part.
func publishedDate(publishedAt string) string {
	if i := strings.IndexByte(publishedAt, 'T'); i > 0 {
		return publishedAt[:i]
	}
	return publishedAt
}
