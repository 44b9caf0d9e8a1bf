package filter

import (
	"github.com/palco-live/palco/internal/domain/video"
)

// Result represents the outcome of a single filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "blocked_video", "blocked_author"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for search-result filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// Check decides whether a search result may be surfaced in a room.
	Check(roomID string, v video.Result) Result
}

// registry holds registered filter factories, keyed by config name.
var registry = make(map[string]func(*Blocklist) Filter)

// Register registers a filter factory.
func Register(name string, factory func(*Blocklist) Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func(*Blocklist) Filter {
	return registry
}
