package artistimage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/achadr/gigseeker/internal/domain"
)

const (
	// SpotifyProviderName identifies this adapter in logs.
	SpotifyProviderName = "spotify"

	defaultSpotifyAuthURL = "https://accounts.spotify.com/api/token"
	defaultSpotifyAPIURL  = "https://api.spotify.com/v1"

	// Tokens are refreshed a minute before Spotify's stated expiry.
	tokenExpirySlack = time.Minute
)

// SpotifyOption configures the Spotify image provider.
type SpotifyOption func(*Spotify)

// WithSpotifyAuthURL sets a custom token endpoint.
func WithSpotifyAuthURL(authURL string) SpotifyOption {
	return func(p *Spotify) {
		p.authURL = authURL
	}
}

// WithSpotifyAPIURL sets a custom API base URL.
func WithSpotifyAPIURL(apiURL string) SpotifyOption {
	return func(p *Spotify) {
		p.apiURL = strings.TrimRight(apiURL, "/")
	}
}

// WithSpotifyHTTPClient sets a custom HTTP client.
func WithSpotifyHTTPClient(httpClient *http.Client) SpotifyOption {
	return func(p *Spotify) {
		p.httpClient = httpClient
	}
}

// Spotify serves artist photos from the Spotify Web API using the
// client credentials flow. The bearer token is cached until shortly
// before expiry.
type Spotify struct {
	clientID     string
	clientSecret string
	authURL      string
	apiURL       string
	httpClient   *http.Client
	cache        *resultCache

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewSpotify creates a Spotify image provider with the given client
// credentials.
func NewSpotify(clientID, clientSecret string, opts ...SpotifyOption) *Spotify {
	p := &Spotify{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      defaultSpotifyAuthURL,
		apiURL:       defaultSpotifyAPIURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		cache:        newResultCache(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.ImageProvider.
func (p *Spotify) Name() string { return SpotifyProviderName }

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type spotifySearchResponse struct {
	Artists struct {
		Items []struct {
			Images []struct {
				URL    string `json:"url"`
				Width  int    `json:"width"`
				Height int    `json:"height"`
			} `json:"images"`
		} `json:"items"`
	} `json:"artists"`
}

// ArtistImage implements provider.ImageProvider.
func (p *Spotify) ArtistImage(ctx context.Context, artist string) (string, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return "", domain.ErrMissingCredentials
	}

	key := strings.ToLower(artist)
	if url, ok := p.cache.get(key); ok {
		return url, nil
	}

	token, err := p.token(ctx)
	if err != nil {
		return "", err
	}

	imageURL, err := p.searchArtistImage(ctx, token, artist)
	if err != nil {
		return "", err
	}
	p.cache.set(key, imageURL)
	return imageURL, nil
}

func (p *Spotify) token(ctx context.Context) (string, error) {
	p.tokenMu.Lock()
	defer p.tokenMu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(p.clientID + ":" + p.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: status %d", resp.StatusCode)
	}

	var tok spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	p.accessToken = tok.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack)
	return p.accessToken, nil
}

func (p *Spotify) searchArtistImage(ctx context.Context, token, artist string) (string, error) {
	params := url.Values{}
	params.Set("q", artist)
	params.Set("type", "artist")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("artist search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("artist search failed: status %d", resp.StatusCode)
	}

	var search spotifySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(search.Artists.Items) == 0 {
		return "", nil
	}

	// Spotify sorts images largest first.
	images := search.Artists.Items[0].Images
	if len(images) == 0 {
		return "", nil
	}
	return images[0].URL, nil
}
