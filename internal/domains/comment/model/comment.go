package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is immutable listener feedback on a clip. Posting one opens
// the clip for rating by its author.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ClipID    uuid.UUID `json:"clip_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	// MinContentLength applies to the trimmed content.
	MinContentLength = 4
	MaxContentLength = 2000

	// MaxCommentsPerClip caps how many comments one user may leave on
	// a single clip.
	MaxCommentsPerClip = 10
)
