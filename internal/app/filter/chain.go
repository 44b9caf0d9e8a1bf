package filter

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/domain/video"
)

// Chain runs filters in sequence over search results.
type Chain struct {
	filters []Filter
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Check runs all filters against one result, stopping at the first rejection.
func (c *Chain) Check(roomID string, v video.Result) Result {
	for _, f := range c.filters {
		result := f.Check(roomID, v)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply filters a result list for a room, dropping every rejected result
// and preserving the order of the rest.
func (c *Chain) Apply(roomID string, results []video.Result) []video.Result {
	kept := make([]video.Result, 0, len(results))
	for _, v := range results {
		result := c.Check(roomID, v)
		if !result.Accepted {
			zlog.Debug().Msgf("search result filtered: room_id=%s video_id=%s code=%s", roomID, v.VideoID, result.Code)
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
