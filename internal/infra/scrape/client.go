// Package scrape provides a fallback video search that extracts results from
// the public results page, for deployments without an API key or when the
// API is failing.
package scrape

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/domain/video"
)

// Client scrapes the results page for video entries.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Config represents scrape client configuration.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// New creates a new scrape client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "scraping"
}

// textRun is one segment of a rendered text field.
type textRun struct {
	Text string `json:"text"`
}

// videoRenderer mirrors the fields we consume from the embedded results JSON.
type videoRenderer struct {
	VideoID   string `json:"videoId"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
	Title struct {
		Runs []textRun `json:"runs"`
	} `json:"title"`
	OwnerText struct {
		Runs []textRun `json:"runs"`
	} `json:"ownerText"`
	LengthText struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
}

// Search fetches the results page and extracts videoRenderer entries from
// the initial-data payload embedded in it.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]video.Result, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 10
	}

	reqURL := c.baseURL + "/results?search_query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "results page request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("results page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read results page")
	}

	results := extractRenderers(string(body), limit)
	if len(results) == 0 {
		return nil, errors.New("no results found in page payload")
	}

	zlog.Debug().Msgf("scrape search: query=%q results=%d", query, len(results))
	return results, nil
}

// extractRenderers scans the page for videoRenderer objects and decodes each
// one. The page embeds them inside a large JSON blob; rather than parse the
// whole document we slice out each balanced object and unmarshal it alone.
func extractRenderers(page string, limit int) []video.Result {
	const marker = `"videoRenderer":`

	var results []video.Result
	seen := make(map[string]struct{})

	for offset := 0; len(results) < limit; {
		idx := strings.Index(page[offset:], marker)
		if idx < 0 {
			break
		}
		start := offset + idx + len(marker)
		raw, end := sliceJSONObject(page, start)
		offset = end
		if raw == "" {
			continue
		}

		var vr videoRenderer
		if err := json.Unmarshal([]byte(raw), &vr); err != nil || vr.VideoID == "" {
			continue
		}
		if _, dup := seen[vr.VideoID]; dup {
			continue
		}
		seen[vr.VideoID] = struct{}{}

		results = append(results, video.Result{
			VideoID:   vr.VideoID,
			Title:     joinRuns(vr.Title.Runs),
			Thumbnail: lastThumbnail(vr),
			Author:    joinRuns(vr.OwnerText.Runs),
			Duration:  vr.LengthText.SimpleText,
		})
	}
	return results
}

// sliceJSONObject returns the balanced JSON object starting at page[start]
// and the index just past it. Braces inside strings are skipped.
func sliceJSONObject(page string, start int) (string, int) {
	if start >= len(page) || page[start] != '{' {
		return "", start
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(page); i++ {
		ch := page[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return page[start : i+1], i + 1
			}
		}
	}
	return "", len(page)
}

func joinRuns(runs []textRun) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// lastThumbnail picks the largest (last) thumbnail variant.
func lastThumbnail(vr videoRenderer) string {
	thumbs := vr.Thumbnail.Thumbnails
	if len(thumbs) == 0 {
		return ""
	}
	return thumbs[len(thumbs)-1].URL
}
