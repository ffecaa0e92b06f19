package artistimage

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
	// LastfmProviderName identifies this adapter in logs.
	LastfmProviderName = "lastfm"

	defaultLastfmURL = "https://ws.audioscrobbler.com/2.0/"
)

// Last.fm serves these exact files when it has no real photo for an
// artist. They must be treated as misses.
var lastfmPlaceholderHashes = []string{
	"2a96cbd8b46e442fc41c2b86b821562f",
	"c6f59c1e5e7240a4c0d427abd71f3dbb",
}

// LastfmOption configures the Last.fm image provider.
type LastfmOption func(*Lastfm)

// WithLastfmBaseURL sets a custom base URL for the API.
func WithLastfmBaseURL(baseURL string) LastfmOption {
	return func(p *Lastfm) {
		p.baseURL = baseURL
	}
}

// WithLastfmHTTPClient sets a custom HTTP client.
func WithLastfmHTTPClient(httpClient *http.Client) LastfmOption {
	return func(p *Lastfm) {
		p.httpClient = httpClient
	}
}

// Lastfm serves artist photos from the Last.fm artist.getinfo call.
type Lastfm struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *resultCache
}

// NewLastfm creates a Last.fm image provider with the given API key.
func NewLastfm(apiKey string, opts ...LastfmOption) *Lastfm {
	p := &Lastfm{
		apiKey:     apiKey,
		baseURL:    defaultLastfmURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      newResultCache(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.ImageProvider.
func (p *Lastfm) Name() string { return LastfmProviderName }

type lastfmArtistInfo struct {
	Artist *struct {
		Image []lastfmImage `json:"image"`
	} `json:"artist"`
}

type lastfmImage struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// ArtistImage implements provider.ImageProvider.
func (p *Lastfm) ArtistImage(ctx context.Context, artist string) (string, error) {
	if p.apiKey == "" {
		return "", domain.ErrMissingCredentials
	}

	key := strings.ToLower(artist)
	if url, ok := p.cache.get(key); ok {
		return url, nil
	}

	url, err := p.lookup(ctx, artist)
	if err != nil {
		return "", err
	}
	p.cache.set(key, url)
	return url, nil
}

func (p *Lastfm) lookup(ctx context.Context, artist string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("method", "artist.getinfo")
	q.Set("artist", artist)
	q.Set("api_key", p.apiKey)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("artist info failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("artist info failed: status %d", resp.StatusCode)
	}

	var info lastfmArtistInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode artist info: %w", err)
	}
	if info.Artist == nil {
		return "", nil
	}

	url := bestLastfmImage(info.Artist.Image)
	if url == "" || isLastfmPlaceholder(url) {
		return "", nil
	}
	return url, nil
}

// bestLastfmImage picks the largest usable size.
func bestLastfmImage(images []lastfmImage) string {
	for _, size := range []string{"mega", "extralarge", "large", "medium"} {
		for _, img := range images {
			if img.Size == size && img.URL != "" {
				return img.URL
			}
		}
	}
	return ""
}

func isLastfmPlaceholder(url string) bool {
	for _, hash := range lastfmPlaceholderHashes {
		if strings.Contains(url, hash) {
			return true
		}
	}
	return false
}
