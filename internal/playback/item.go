package playback

import (
	"time"

	"github.com/google/uuid"
)

// Item is one piece of audio handed to the slot.
type Item struct {
	ID string
	// Source names what is playing, such as a history item id or "preview".
	Source    string
	Data      []byte
	CreatedAt time.Time
}

// NewItem creates an item with a unique ID.
func NewItem(source string, data []byte) *Item {
	return &Item{
		ID:        uuid.New().String(),
		Source:    source,
		Data:      data,
		CreatedAt: time.Now(),
	}
}
