// Package video provides the external search result entity.
package video

// Result represents one video returned by a search provider.
// All fields are opaque to the engine; the author fields feed the
// room blocklists.
type Result struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Author    string `json:"author,omitempty"`
	AuthorID  string `json:"authorId,omitempty"`
	Duration  string `json:"timestamp,omitempty"`
}
