package artistimage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/time/rate"

	"github.com/achadr/gigseeker/internal/domain"
)

func TestLastfmPicksLargestRealImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("method") != "artist.getinfo" {
			t.Errorf("method = %q", r.URL.Query().Get("method"))
		}
		w.Write([]byte(`{"artist":{"image":[
			{"#text":"https://img.example.com/small.png","size":"small"},
			{"#text":"https://img.example.com/large.png","size":"large"},
			{"#text":"https://img.example.com/xl.png","size":"extralarge"}
		]}}`))
	}))
	defer srv.Close()

	p := NewLastfm("key", WithLastfmBaseURL(srv.URL), WithLastfmHTTPClient(srv.Client()))
	got, err := p.ArtistImage(context.Background(), "Björk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://img.example.com/xl.png" {
		t.Errorf("got %q, want the extralarge image", got)
	}
}

func TestLastfmRejectsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"artist":{"image":[
			{"#text":"https://lastfm.freetls.fastly.net/i/u/2a96cbd8b46e442fc41c2b86b821562f.png","size":"extralarge"}
		]}}`))
	}))
	defer srv.Close()

	p := NewLastfm("key", WithLastfmBaseURL(srv.URL), WithLastfmHTTPClient(srv.Client()))
	got, err := p.ArtistImage(context.Background(), "Obscure Act")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty for placeholder", got)
	}
}

func TestLastfmCachesMisses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"artist":{"image":[]}}`))
	}))
	defer srv.Close()

	p := NewLastfm("key", WithLastfmBaseURL(srv.URL), WithLastfmHTTPClient(srv.Client()))
	for i := 0; i < 3; i++ {
		if _, err := p.ArtistImage(context.Background(), "Nobody"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}
}

func TestLastfmMissingCredentials(t *testing.T) {
	p := NewLastfm("")
	_, err := p.ArtistImage(context.Background(), "Anyone")
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestSpotifyCachesToken(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(spotifyTokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"artists":{"items":[{"images":[
			{"url":"https://i.scdn.co/image/big","width":640,"height":640},
			{"url":"https://i.scdn.co/image/small","width":160,"height":160}
		]}]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewSpotify("id", "secret",
		WithSpotifyAuthURL(srv.URL+"/token"),
		WithSpotifyAPIURL(srv.URL),
		WithSpotifyHTTPClient(srv.Client()),
	)

	for _, artist := range []string{"Daft Punk", "Justice"} {
		got, err := p.ArtistImage(context.Background(), artist)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "https://i.scdn.co/image/big" {
			t.Errorf("got %q, want the largest image", got)
		}
	}
	if tokenCalls.Load() != 1 {
		t.Errorf("token fetched %d times, want 1", tokenCalls.Load())
	}
}

func TestSpotifyMissingCredentials(t *testing.T) {
	p := NewSpotify("", "")
	_, err := p.ArtistImage(context.Background(), "Anyone")
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestMusicBrainzResolvesCover(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mb/artist", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"artists":[{"id":"artist-mbid"}]}`))
	})
	mux.HandleFunc("/mb/release-group", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("artist") != "artist-mbid" {
			t.Errorf("artist = %q", r.URL.Query().Get("artist"))
		}
		w.Write([]byte(`{"release-groups":[{"id":"rg-1"}]}`))
	})
	mux.HandleFunc("/caa/release-group/rg-1/front", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %q, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewMusicBrainz(
		WithMusicBrainzBaseURL(srv.URL+"/mb"),
		WithCoverArtBaseURL(srv.URL+"/caa"),
		WithMusicBrainzHTTPClient(srv.Client()),
		WithMusicBrainzRateLimit(rate.NewLimiter(rate.Inf, 1)),
	)
	got, err := p.ArtistImage(context.Background(), "Daft Punk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != srv.URL+"/caa/release-group/rg-1/front" {
		t.Errorf("got %q", got)
	}
}

type stubImageProvider struct {
	name string
	url  string
	err  error
}

func (s *stubImageProvider) Name() string { return s.name }
func (s *stubImageProvider) ArtistImage(context.Context, string) (string, error) {
	return s.url, s.err
}

func TestMultiFallsThrough(t *testing.T) {
	m := NewMulti(nil,
		&stubImageProvider{name: "spotify", err: errors.New("down")},
		&stubImageProvider{name: "lastfm", url: ""},
		&stubImageProvider{name: "musicbrainz", url: "https://img.example.com/cover.jpg"},
	)
	got, err := m.ArtistImage(context.Background(), "Anyone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://img.example.com/cover.jpg" {
		t.Errorf("got %q", got)
	}
}

func TestMultiAllMiss(t *testing.T) {
	m := NewMulti(nil,
		&stubImageProvider{name: "spotify", err: errors.New("down")},
		&stubImageProvider{name: "lastfm"},
	)
	got, err := m.ArtistImage(context.Background(), "Anyone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
