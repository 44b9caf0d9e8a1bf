package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/palco-live/palco/internal/domain/video"
)

// videoURLPattern matches direct YouTube video links (watch, embed, short
// youtu.be) and captures the 11-character video id.
var videoURLPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// extractVideoID returns the video id when the query is a direct video link.
func extractVideoID(query string) string {
	m := videoURLPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}

// directLinkResult builds the single synthetic result for a pasted link.
// No provider call is needed; title and thumbnail are derived from the id.
func directLinkResult(videoID string) video.Result {
	return video.Result{
		VideoID:   videoID,
		Title:     fmt.Sprintf("YouTube Video (%s)", videoID),
		Thumbnail: fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID),
		Author:    "YouTube",
	}
}

// normalizeQuery trims the query and appends the configured suffix (e.g.
// "karaoke") unless the user already typed it, so guests searching for a
// song get performable versions by default.
func normalizeQuery(query, suffix string) string {
	query = strings.TrimSpace(query)
	if suffix == "" {
		return query
	}
	if strings.Contains(strings.ToLower(query), strings.ToLower(suffix)) {
		return query
	}
	return query + " " + suffix
}
