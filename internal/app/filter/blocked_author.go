package filter

import (
	"github.com/palco-live/palco/internal/domain/video"
)

// BlockedAuthorFilter drops results from authors rejected in the requesting
// room. Author rejections are room-scoped, unlike video rejections.
type BlockedAuthorFilter struct {
	blocklist *Blocklist
}

// NewBlockedAuthorFilter creates the filter backed by the given blocklist.
func NewBlockedAuthorFilter(b *Blocklist) *BlockedAuthorFilter {
	return &BlockedAuthorFilter{blocklist: b}
}

func (f *BlockedAuthorFilter) Name() string {
	return "blocked_author_filter"
}

func (f *BlockedAuthorFilter) Description() string {
	return "Drops search results from authors blocklisted in the requesting room"
}

func (f *BlockedAuthorFilter) ReturnCodes() []string {
	return []string{"blocked_author"}
}

func (f *BlockedAuthorFilter) Check(roomID string, v video.Result) Result {
	if roomID == "" {
		return Accept()
	}
	if v.AuthorID != "" && f.blocklist.IsAuthorRejected(roomID, v.AuthorID) {
		return Reject("blocked_author")
	}
	if v.Author != "" && f.blocklist.IsAuthorRejected(roomID, v.Author) {
		return Reject("blocked_author")
	}
	return Accept()
}

func init() {
	Register("blocked_author_filter", func(b *Blocklist) Filter {
		return NewBlockedAuthorFilter(b)
	})
}
