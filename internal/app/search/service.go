package search

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/app/filter"
	"github.com/palco-live/palco/internal/domain/video"
)

var ErrSearchFailed = errors.New("all search providers failed")

// Config holds search service configuration.
type Config struct {
	Timeout      time.Duration // Upper bound on the primary provider call
	MaxResults   int
	AppendSuffix string // Appended to every free-text query
	ForceScrape  bool   // Skip the primary provider entirely
}

// Service runs queries against the primary provider with a bounded timeout
// and falls back to the scraper exactly once on timeout or provider error.
// Results are filtered through the room's content filters before returning.
type Service struct {
	primary  Provider
	fallback Provider
	filters  *filter.Chain
	cfg      Config
}

// NewService creates a search service. fallback may be nil, in which case a
// primary failure is terminal.
func NewService(primary, fallback Provider, filters *filter.Chain, cfg Config) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		filters:  filters,
		cfg:      cfg,
	}
}

// Response is the search result set plus the source that produced it.
type Response struct {
	Results []video.Result `json:"results"`
	Source  string         `json:"source"`
}

// Search resolves a query for a room. Direct video links short-circuit the
// providers; everything else goes through the provider chain and the room's
// content filters. roomID may be empty, which skips room-scoped filters.
func (s *Service) Search(ctx context.Context, query, roomID string, forceScrape bool) (*Response, error) {
	if videoID := extractVideoID(query); videoID != "" {
		results := s.filters.Apply(roomID, []video.Result{directLinkResult(videoID)})
		return &Response{Results: results, Source: "direct"}, nil
	}

	normalized := normalizeQuery(query, s.cfg.AppendSuffix)

	results, source, err := s.runProviders(ctx, normalized, forceScrape || s.cfg.ForceScrape)
	if err != nil {
		return &Response{Results: []video.Result{}, Source: source}, err
	}

	filtered := s.filters.Apply(roomID, results)
	zlog.Debug().Msgf("search done: query=%q source=%s results=%d filtered=%d", normalized, source, len(results), len(filtered))
	return &Response{Results: filtered, Source: source}, nil
}

// runProviders tries the primary provider under the configured timeout, then
// the fallback at most once. It never retries beyond that.
func (s *Service) runProviders(ctx context.Context, query string, scrapeOnly bool) ([]video.Result, string, error) {
	if !scrapeOnly && s.primary != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		results, err := s.primary.Search(callCtx, query, s.cfg.MaxResults)
		cancel()
		if err == nil {
			return results, s.primary.Name(), nil
		}
		zlog.Warn().Msgf("primary search provider failed, falling back: provider=%s err=%v", s.primary.Name(), err)
	}

	if s.fallback == nil {
		return nil, "", ErrSearchFailed
	}

	results, err := s.fallback.Search(ctx, query, s.cfg.MaxResults)
	if err != nil {
		zlog.Error().Msgf("fallback search provider failed: provider=%s err=%v", s.fallback.Name(), err)
		return nil, s.fallback.Name(), errors.Wrap(ErrSearchFailed, err.Error())
	}
	return results, s.fallback.Name(), nil
}
