package model

import (
	"time"

	"github.com/google/uuid"
)

// Clip is a short audio riff someone wants identified or rated.
type Clip struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`

	StorageKey  string `json:"-"`
	FileURL     string `json:"file_url"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
	// Duration in whole seconds, clamped at upload time.
	Duration int `json:"duration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000

	// FeedPageSize is how many clips one feed page carries.
	FeedPageSize = 12
)

// AllowedContentTypes maps accepted upload MIME types to the file
// extension stored keys get.
var AllowedContentTypes = map[string]string{
	"audio/mpeg":  "mp3",
	"audio/mp3":   "mp3",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/wave":  "wav",
	"audio/mp4":   "m4a",
	"audio/x-m4a": "m4a",
	"audio/ogg":   "ogg",
	"audio/webm":  "webm",
	"audio/aac":   "aac",
	"audio/flac":  "flac",
}

// FeedSort selects the ordering of a feed page.
type FeedSort string

const (
	SortNewest  FeedSort = "newest"
	SortOldest  FeedSort = "oldest"
	SortPopular FeedSort = "popular"
)

func ParseFeedSort(raw string) (FeedSort, bool) {
	switch FeedSort(raw) {
	case SortNewest, SortOldest, SortPopular:
		return FeedSort(raw), true
	case "":
		return SortNewest, true
	default:
		return SortNewest, false
	}
}
