// Package pagination fetches numbered result pages from an upstream
// API in concurrent batches, tolerating partial failure.
package pagination

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/achadr/gigseeker/internal/retry"
)

// PageFunc fetches one 1-based page and returns its items. An empty
// slice with a nil error means the page exists but is empty, which
// usually signals the end of the result set.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// Options controls batching and per-page retry behavior. Zero values
// take the defaults below.
type Options struct {
	// TotalPages is the upper bound on pages to fetch. Required.
	TotalPages int
	// BatchSize is how many pages are fetched concurrently. Default 3.
	BatchSize int
	// BatchDelay is the pause between batches. Default 150ms.
	BatchDelay time.Duration
	// Retries is how many times a failed page is retried before the
	// page counts as failed. Default 2 (3 attempts total).
	Retries int
	// RetryDelay is the pause between attempts on one page. Default 200ms.
	RetryDelay time.Duration
	// Service names the upstream in log lines.
	Service string
	Logger  *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 3
	}
	if o.BatchDelay <= 0 {
		o.BatchDelay = 150 * time.Millisecond
	}
	if o.Retries < 0 {
		o.Retries = 0
	} else if o.Retries == 0 {
		o.Retries = 2
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 200 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

type pageResult[T any] struct {
	items []T
	err   error
}

// FetchAll fetches pages 1..TotalPages in concurrent batches and
// concatenates their items in page order. It never returns an error:
// when a page fails after its retries, the items accumulated up to
// and including the last contiguous successful page are returned.
// A batch in which every page succeeds with zero items ends the run,
// since later pages cannot have content either.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T], opts Options) []T {
	opts.applyDefaults()

	var all []T
	for start := 1; start <= opts.TotalPages; start += opts.BatchSize {
		end := start + opts.BatchSize - 1
		if end > opts.TotalPages {
			end = opts.TotalPages
		}

		results := make([]pageResult[T], end-start+1)
		var wg sync.WaitGroup
		for page := start; page <= end; page++ {
			wg.Add(1)
			go func(page int) {
				defer wg.Done()
				items, err := retry.Do(ctx, opts.Retries+1, opts.RetryDelay, func(ctx context.Context) ([]T, error) {
					return fetch(ctx, page)
				})
				results[page-start] = pageResult[T]{items: items, err: err}
			}(page)
		}
		wg.Wait()

		// Scan in page order so a failure truncates at the right spot
		// instead of leaving a gap in the sequence.
		batchEmpty := true
		for i, res := range results {
			if res.err != nil {
				opts.Logger.Warn("page fetch failed, returning partial results",
					"service", opts.Service,
					"page", start+i,
					"error", res.err)
				return all
			}
			if len(res.items) > 0 {
				batchEmpty = false
				all = append(all, res.items...)
			}
		}
		if batchEmpty {
			return all
		}

		if end < opts.TotalPages {
			select {
			case <-ctx.Done():
				return all
			case <-time.After(opts.BatchDelay):
			}
		}
	}
	return all
}
