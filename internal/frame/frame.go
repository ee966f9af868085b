package frame

import (
	"fmt"

	"github.com/google/uuid"
)

// Frame is a single still captured from a video. Immutable once created.
type Frame struct {
	ID          string  `json:"id"`
	Image       []byte  `json:"-"` // JPEG bytes
	Timestamp   float64 `json:"timestamp"`
	DisplayTime string  `json:"display_time"`
}

// New mints a Frame for the given JPEG data and timestamp in seconds.
func New(image []byte, timestamp float64) Frame {
	return Frame{
		ID:          uuid.NewString(),
		Image:       image,
		Timestamp:   timestamp,
		DisplayTime: FormatTimestamp(timestamp),
	}
}

// FormatTimestamp renders seconds as M:SS, e.g. 65.4 -> "1:05".
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
