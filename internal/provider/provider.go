// Package provider defines the interfaces every upstream adapter
// implements and the registry that builds adapters from configuration.
// Each adapter lives in its own subpackage and talks to one external
// API, translating its schema into the shared domain types.
package provider

import (
	"context"

	"github.com/achadr/gigseeker/internal/domain"
)

// SearchResult carries one provider's events for a query plus the
// total the upstream claims to have, which may exceed the pages we
// actually fetched.
type SearchResult struct {
	Events []domain.Event
	Total  int
}

// EventProvider answers performance searches against one upstream
// concert database. Implementations return an error for upstream or
// credential failures; a query that simply matches nothing returns an
// empty result and a nil error.
type EventProvider interface {
	// Name identifies the provider in results, logs, and metrics.
	Name() string
	Search(ctx context.Context, params domain.SearchParams) (*SearchResult, error)
}

// LinkProvider finds supplementary links (articles, encyclopedia
// pages) about an artist.
type LinkProvider interface {
	Name() string
	Links(ctx context.Context, params domain.SearchParams) ([]domain.SourceLink, error)
}

// ImageProvider resolves an artist name to a portrait URL. An empty
// URL with a nil error means no image is available.
type ImageProvider interface {
	Name() string
	ArtistImage(ctx context.Context, artist string) (string, error)
}
