// Package wikipedia adapts the MediaWiki search API to find tour and
// concert articles about an artist. No API key is needed.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/achadr/gigseeker/internal/domain"
)

const (
	// ProviderName identifies this adapter in results and logs.
	ProviderName = "wikipedia"

	defaultBaseURL = "https://en.wikipedia.org/w/api.php"

	searchLimit = 5
)

// Option configures the provider.
type Option func(*Provider)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = httpClient
	}
}

// Provider is the Wikipedia adapter.
type Provider struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Wikipedia provider.
func New(opts ...Option) *Provider {
	p := &Provider{
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

type searchResponse struct {
	Query struct {
		Search []searchHit `json:"search"`
	} `json:"query"`
}

type searchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Links implements provider.LinkProvider.
func (p *Provider) Links(ctx context.Context, params domain.SearchParams) ([]domain.SourceLink, error) {
	query := strings.TrimSpace(fmt.Sprintf("%s %s tour concert", params.Artist, params.Country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("format", "json")
	q.Set("srlimit", fmt.Sprintf("%d", searchLimit))
	req.URL.RawQuery = q.Encode()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("article search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article search failed: status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	links := make([]domain.SourceLink, 0, len(searchResp.Query.Search))
	for _, hit := range searchResp.Query.Search {
		links = append(links, domain.SourceLink{
			Title:   hit.Title,
			URL:     articleURL(hit.Title),
			Kind:    domain.LinkOther,
			Snippet: stripHTML(hit.Snippet),
		})
	}
	return links, nil
}

func articleURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes the highlight markup MediaWiki embeds in search
// snippets.
func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	replacer := strings.NewReplacer(
		"&quot;", `"`,
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
