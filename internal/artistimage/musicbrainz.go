package artistimage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MusicBrainzProviderName identifies this adapter in logs.
	MusicBrainzProviderName = "musicbrainz"

	defaultMusicBrainzURL  = "https://musicbrainz.org/ws/2"
	defaultCoverArtURL     = "https://coverartarchive.org"
	musicBrainzUserAgent   = "gigseeker/1.0 (https://github.com/achadr/gigseeker)"
	musicBrainzHTTPTimeout = 10 * time.Second
)

// MusicBrainzOption configures the MusicBrainz image provider.
type MusicBrainzOption func(*MusicBrainz)

// WithMusicBrainzBaseURL sets a custom MusicBrainz base URL.
func WithMusicBrainzBaseURL(baseURL string) MusicBrainzOption {
	return func(p *MusicBrainz) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCoverArtBaseURL sets a custom Cover Art Archive base URL.
func WithCoverArtBaseURL(baseURL string) MusicBrainzOption {
	return func(p *MusicBrainz) {
		p.coverArtURL = strings.TrimRight(baseURL, "/")
	}
}

// WithMusicBrainzHTTPClient sets a custom HTTP client.
func WithMusicBrainzHTTPClient(httpClient *http.Client) MusicBrainzOption {
	return func(p *MusicBrainz) {
		p.httpClient = httpClient
	}
}

// WithMusicBrainzRateLimit overrides the default 1 req/s pacing.
func WithMusicBrainzRateLimit(limiter *rate.Limiter) MusicBrainzOption {
	return func(p *MusicBrainz) {
		p.limiter = limiter
	}
}

// MusicBrainz serves album front covers from the Cover Art Archive,
// located through MusicBrainz release-group lookups. It needs no
// credentials, which makes it the fallback of last resort.
type MusicBrainz struct {
	baseURL     string
	coverArtURL string
	httpClient  *http.Client
	limiter     *rate.Limiter
	cache       *resultCache
}

// NewMusicBrainz creates a MusicBrainz image provider.
func NewMusicBrainz(opts ...MusicBrainzOption) *MusicBrainz {
	p := &MusicBrainz{
		baseURL:     defaultMusicBrainzURL,
		coverArtURL: defaultCoverArtURL,
		httpClient:  &http.Client{Timeout: musicBrainzHTTPTimeout},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
		cache:       newResultCache(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.ImageProvider.
func (p *MusicBrainz) Name() string { return MusicBrainzProviderName }

type mbArtistSearch struct {
	Artists []struct {
		ID string `json:"id"`
	} `json:"artists"`
}

type mbReleaseGroups struct {
	ReleaseGroups []struct {
		ID string `json:"id"`
	} `json:"release-groups"`
}

// ArtistImage implements provider.ImageProvider.
func (p *MusicBrainz) ArtistImage(ctx context.Context, artist string) (string, error) {
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

func (p *MusicBrainz) lookup(ctx context.Context, artist string) (string, error) {
	mbid, err := p.findArtist(ctx, artist)
	if err != nil || mbid == "" {
		return "", err
	}

	rgID, err := p.findReleaseGroup(ctx, mbid)
	if err != nil || rgID == "" {
		return "", err
	}

	return p.frontCover(ctx, rgID)
}

func (p *MusicBrainz) findArtist(ctx context.Context, name string) (string, error) {
	var out mbArtistSearch
	params := url.Values{}
	params.Set("query", "artist:"+name)
	params.Set("fmt", "json")
	params.Set("limit", "1")
	if err := p.getJSON(ctx, p.baseURL+"/artist?"+params.Encode(), &out); err != nil {
		return "", fmt.Errorf("artist search failed: %w", err)
	}
	if len(out.Artists) == 0 {
		return "", nil
	}
	return out.Artists[0].ID, nil
}

func (p *MusicBrainz) findReleaseGroup(ctx context.Context, mbid string) (string, error) {
	var out mbReleaseGroups
	params := url.Values{}
	params.Set("artist", mbid)
	params.Set("fmt", "json")
	params.Set("limit", "1")
	params.Set("type", "album")
	if err := p.getJSON(ctx, p.baseURL+"/release-group?"+params.Encode(), &out); err != nil {
		return "", fmt.Errorf("release group lookup failed: %w", err)
	}
	if len(out.ReleaseGroups) == 0 {
		return "", nil
	}
	return out.ReleaseGroups[0].ID, nil
}

// frontCover probes the Cover Art Archive with a HEAD request and
// returns the post-redirect image URL. A 404 means the release has no
// cover, which is a miss rather than an error.
func (p *MusicBrainz) frontCover(ctx context.Context, releaseGroupID string) (string, error) {
	probeURL := fmt.Sprintf("%s/release-group/%s/front", p.coverArtURL, releaseGroupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cover art probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}
	return resp.Request.URL.String(), nil
}

func (p *MusicBrainz) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", musicBrainzUserAgent)
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
