package artistimage

import (
	"context"
	"log/slog"

	"github.com/achadr/gigseeker/internal/provider"
)

// MultiProviderName identifies the fallback chain in logs.
const MultiProviderName = "multi"

// Multi tries providers in order and returns the first image found.
// A provider error moves on to the next source rather than failing
// the lookup. The intended order is Spotify, then Last.fm, then
// MusicBrainz, best photo quality first.
type Multi struct {
	providers []provider.ImageProvider
	logger    *slog.Logger
}

// NewMulti creates the fallback chain over the given providers.
func NewMulti(logger *slog.Logger, providers ...provider.ImageProvider) *Multi {
	if logger == nil {
		logger = slog.Default()
	}
	return &Multi{providers: providers, logger: logger}
}

// Name implements provider.ImageProvider.
func (m *Multi) Name() string { return MultiProviderName }

// ArtistImage implements provider.ImageProvider.
func (m *Multi) ArtistImage(ctx context.Context, artist string) (string, error) {
	for _, p := range m.providers {
		url, err := p.ArtistImage(ctx, artist)
		if err != nil {
			m.logger.Debug("image provider failed, trying next",
				"provider", p.Name(),
				"artist", artist,
				"error", err)
			continue
		}
		if url != "" {
			return url, nil
		}
	}
	return "", nil
}
