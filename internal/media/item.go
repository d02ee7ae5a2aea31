package media

import "time"

// Kind is the media category of a submitted file. Only the three kinds
// below are accepted into a sequence; anything else is rejected before an
// Item is built.
type Kind string

const (
	KindDocument Kind = "document"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
)

func (k Kind) Valid() bool {
	switch k {
	case KindDocument, KindVideo, KindAudio:
		return true
	}
	return false
}

// Item is one media file queued in a sequence. Handle is the transport's
// native file reference (Telegram file_id, Discord attachment URL) used to
// re-send the file later without storing its bytes. Items are immutable
// once appended to a session.
type Item struct {
	Handle  string
	Name    string // declared filename, may be empty
	Size    int64  // declared size in bytes, 0 when undeclared
	Kind    Kind
	Caption string
	AddedAt time.Time
}
