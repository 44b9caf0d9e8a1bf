package filter

import (
	"github.com/palco-live/palco/internal/domain/video"
)

// BlockedVideoFilter drops results whose video id was rejected. The rejected
// set is process-wide: once a video is blocklisted in any room it is never
// surfaced again anywhere.
type BlockedVideoFilter struct {
	blocklist *Blocklist
}

// NewBlockedVideoFilter creates the filter backed by the given blocklist.
func NewBlockedVideoFilter(b *Blocklist) *BlockedVideoFilter {
	return &BlockedVideoFilter{blocklist: b}
}

func (f *BlockedVideoFilter) Name() string {
	return "blocked_video_filter"
}

func (f *BlockedVideoFilter) Description() string {
	return "Drops search results whose video id has been blocklisted"
}

func (f *BlockedVideoFilter) ReturnCodes() []string {
	return []string{"blocked_video"}
}

func (f *BlockedVideoFilter) Check(roomID string, v video.Result) Result {
	if f.blocklist.IsVideoRejected(v.VideoID) {
		return Reject("blocked_video")
	}
	return Accept()
}

func init() {
	Register("blocked_video_filter", func(b *Blocklist) Filter {
		return NewBlockedVideoFilter(b)
	})
}
