// Package youtube provides a client for the YouTube Data API v3 search endpoint.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/domain/video"
)

// Client is a YouTube Data API search client.
type Client struct {
	apiKey     string
	region     string
	baseURL    string
	httpClient *http.Client
}

// Config represents YouTube client configuration.
type Config struct {
	APIKey  string
	Region  string // Optional ISO 3166-1 alpha-2 region code
	Timeout time.Duration
}

// searchResponse mirrors the fields we consume from the search.list response.
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelID    string `json:"channelId"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// apiError represents an error response from the API.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// New creates a new YouTube client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube API key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		region:     cfg.Region,
		baseURL:    "https://www.googleapis.com/youtube/v3/search",
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "youtube_api"
}

// Search runs a video search and returns results in API order.
// Reference: https://developers.google.com/youtube/v3/docs/search/list
func (c *Client) Search(ctx context.Context, query string, limit int) ([]video.Result, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("q", query)
	params.Set("key", c.apiKey)
	if c.region != "" {
		params.Set("regionCode", c.region)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, errors.Newf("youtube API error: status=%d message=%s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, errors.Newf("youtube API error: status=%d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, errors.Wrap(err, "failed to parse search response")
	}

	results := make([]video.Result, 0, len(sr.Items))
	for _, item := range sr.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, video.Result{
			VideoID:   item.ID.VideoID,
			Title:     html.UnescapeString(item.Snippet.Title),
			Thumbnail: item.Snippet.Thumbnails.Medium.URL,
			Author:    item.Snippet.ChannelTitle,
			AuthorID:  item.Snippet.ChannelID,
		})
	}

	zlog.Debug().Msgf("youtube search: query=%q results=%d", query, len(results))
	return results, nil
}
