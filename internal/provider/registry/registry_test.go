package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/achadr/gigseeker/internal/config"
	"github.com/achadr/gigseeker/internal/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventProvidersAlwaysConstructed(t *testing.T) {
	cfg := &config.Config{}
	providers := EventProviders(cfg, discard())

	// Keyed adapters are built even without credentials so their
	// missing-credentials errors reach the aggregate failure list.
	if len(providers) != 4 {
		t.Fatalf("got %d providers, want 4", len(providers))
	}
	names := map[string]bool{}
	for _, p := range providers {
		names[p.Name()] = true
	}
	for _, want := range []string{"setlistfm", "songkick", "ticketmaster", "musicbrainz"} {
		if !names[want] {
			t.Errorf("missing provider %q", want)
		}
	}
}

func TestUnconfiguredProviderFailsFast(t *testing.T) {
	cfg := &config.Config{}
	providers := EventProviders(cfg, discard())

	params := domain.SearchParams{Artist: "Phoenix", Country: "France"}
	for _, p := range providers {
		if p.Name() == "musicbrainz" {
			continue
		}
		_, err := p.Search(context.Background(), params)
		if !errors.Is(err, domain.ErrMissingCredentials) {
			t.Errorf("%s: err = %v, want ErrMissingCredentials", p.Name(), err)
		}
	}
}

func TestLinkProviders(t *testing.T) {
	cfg := &config.Config{}
	providers := LinkProviders(cfg, discard())
	if len(providers) != 2 {
		t.Fatalf("got %d link providers, want 2", len(providers))
	}
	for _, p := range providers {
		if p.Name() == "news" {
			_, err := p.Links(context.Background(), domain.SearchParams{Artist: "Phoenix"})
			if !errors.Is(err, domain.ErrMissingCredentials) {
				t.Errorf("news: err = %v, want ErrMissingCredentials", err)
			}
		}
	}
}

func TestImageProviderSelection(t *testing.T) {
	for name, want := range map[string]string{
		"musicbrainz": "musicbrainz",
		"lastfm":      "lastfm",
		"spotify":     "spotify",
		"multi":       "multi",
		"bogus":       "musicbrainz",
	} {
		cfg := &config.Config{}
		cfg.Image.Provider = name
		if got := ImageProvider(cfg, discard()).Name(); got != want {
			t.Errorf("ImageProvider(%q) = %q, want %q", name, got, want)
		}
	}
}
