// Package search provides video search with a bounded-timeout primary
// provider and a single scrape-style fallback.
package search

import (
	"context"

	"github.com/palco-live/palco/internal/domain/video"
)

// Provider is the interface for video search backends.
type Provider interface {
	// Search returns up to limit results for the query, in provider order.
	Search(ctx context.Context, query string, limit int) ([]video.Result, error)

	// Name returns the provider name (used in config and the response
	// source indicator).
	Name() string
}
