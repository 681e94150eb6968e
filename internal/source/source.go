// Package source contains the three upstream feed adapters. Each adapter
// fetches one feed, normalizes its records into domain points, and applies
// the run's spatial and temporal filters. Adapters are independent; a failure
// in one never touches the others.
package source

import (
	"context"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// Fetcher issues an HTTP GET and returns the raw response body. Implemented
// by fetch.Client; stubbed in tests.
type Fetcher interface {
	Get(ctx context.Context, url string, params, headers map[string]string) ([]byte, error)
}

// Adapter produces one source's normalized, filtered point batch.
// Fetch returns an error only for terminal per-source failures (fetch
// exhaustion, unusable response document); record-level problems are
// skipped silently.
type Adapter interface {
	Name() domain.Source
	Fetch(ctx context.Context) ([]domain.Point, error)
}
