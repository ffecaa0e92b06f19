// Package registry builds the provider set from configuration. Keyed
// providers are constructed even without credentials; their lookups
// fail fast with a missing-credentials error that the aggregator
// folds into the result message.
package registry

import (
	"log/slog"

	"github.com/achadr/gigseeker/internal/artistimage"
	"github.com/achadr/gigseeker/internal/config"
	"github.com/achadr/gigseeker/internal/provider"
	"github.com/achadr/gigseeker/internal/provider/musicbrainz"
	"github.com/achadr/gigseeker/internal/provider/news"
	"github.com/achadr/gigseeker/internal/provider/setlistfm"
	"github.com/achadr/gigseeker/internal/provider/songkick"
	"github.com/achadr/gigseeker/internal/provider/ticketmaster"
	"github.com/achadr/gigseeker/internal/provider/wikipedia"
)

// EventProviders assembles the concert database adapters.
func EventProviders(cfg *config.Config, logger *slog.Logger) []provider.EventProvider {
	var providers []provider.EventProvider

	if cfg.Providers.SetlistFM.APIKey == "" {
		logger.Warn("setlistfm has no API key configured, lookups will fail")
	}
	setlistOpts := []setlistfm.Option{setlistfm.WithLogger(logger)}
	if cfg.Providers.SetlistFM.BaseURL != "" {
		setlistOpts = append(setlistOpts, setlistfm.WithBaseURL(cfg.Providers.SetlistFM.BaseURL))
	}
	providers = append(providers, setlistfm.New(cfg.Providers.SetlistFM.APIKey, setlistOpts...))

	if cfg.Providers.Songkick.APIKey == "" {
		logger.Warn("songkick has no API key configured, lookups will fail")
	}
	var songkickOpts []songkick.Option
	if cfg.Providers.Songkick.BaseURL != "" {
		songkickOpts = append(songkickOpts, songkick.WithBaseURL(cfg.Providers.Songkick.BaseURL))
	}
	providers = append(providers, songkick.New(cfg.Providers.Songkick.APIKey, songkickOpts...))

	if cfg.Providers.Ticketmaster.APIKey == "" {
		logger.Warn("ticketmaster has no API key configured, lookups will fail")
	}
	tmOpts := []ticketmaster.Option{ticketmaster.WithLogger(logger)}
	if cfg.Providers.Ticketmaster.BaseURL != "" {
		tmOpts = append(tmOpts, ticketmaster.WithBaseURL(cfg.Providers.Ticketmaster.BaseURL))
	}
	providers = append(providers, ticketmaster.New(cfg.Providers.Ticketmaster.APIKey, tmOpts...))

	// MusicBrainz needs no key.
	providers = append(providers, musicbrainz.New())

	return providers
}

// LinkProviders assembles the article and news adapters.
func LinkProviders(cfg *config.Config, logger *slog.Logger) []provider.LinkProvider {
	providers := []provider.LinkProvider{wikipedia.New()}

	if cfg.Providers.News.APIKey == "" {
		logger.Warn("news has no API key configured, lookups will fail")
	}
	var newsOpts []news.Option
	if cfg.Providers.News.BaseURL != "" {
		newsOpts = append(newsOpts, news.WithBaseURL(cfg.Providers.News.BaseURL))
	}
	providers = append(providers, news.New(cfg.Providers.News.APIKey, newsOpts...))

	return providers
}

// ImageProvider assembles the artist image source selected by
// configuration. Unknown names fall back to MusicBrainz, the only
// source that works without credentials.
func ImageProvider(cfg *config.Config, logger *slog.Logger) provider.ImageProvider {
	switch cfg.Image.Provider {
	case artistimage.SpotifyProviderName:
		return artistimage.NewSpotify(cfg.Image.SpotifyClientID, cfg.Image.SpotifyClientSecret)
	case artistimage.LastfmProviderName:
		return artistimage.NewLastfm(cfg.Image.LastfmAPIKey)
	case artistimage.MultiProviderName:
		return artistimage.NewMulti(logger,
			artistimage.NewSpotify(cfg.Image.SpotifyClientID, cfg.Image.SpotifyClientSecret),
			artistimage.NewLastfm(cfg.Image.LastfmAPIKey),
			artistimage.NewMusicBrainz(),
		)
	case artistimage.MusicBrainzProviderName:
		return artistimage.NewMusicBrainz()
	default:
		logger.Warn("unknown image provider, falling back to musicbrainz",
			"provider", cfg.Image.Provider)
		return artistimage.NewMusicBrainz()
	}
}
