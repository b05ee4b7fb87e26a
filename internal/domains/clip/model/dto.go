package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	reviewmodel "riffs-backend/internal/domains/review/model"
)

// UploadClipRequest carries the multipart form fields accompanying the
// audio file. Duration is the client's measurement in seconds; for MP3
// uploads the server probes the file itself.
type UploadClipRequest struct {
	Title       string  `form:"title"`
	Description *string `form:"description"`
	Duration    float64 `form:"duration"`
}

func (r UploadClipRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.When(r.Description != nil, validation.Length(0, MaxDescriptionLength))),
		validation.Field(&r.Duration, validation.Min(0.0)),
	)
}

type FeedQuery struct {
	Page int
	Sort FeedSort
}

// FeedItem is a clip enriched with its author and rating stats.
type FeedItem struct {
	Clip
	AuthorName   string  `json:"author_name"`
	AuthorAvatar *string `json:"author_avatar,omitempty"`

	OverallAverage float64 `json:"overall_average"`
	ReviewCount    int     `json:"review_count"`
	CommentCount   int     `json:"comment_count"`
}

// ApplyStats copies rating stats onto the item.
func (i *FeedItem) ApplyStats(stats reviewmodel.ClipRatingStats) {
	i.OverallAverage = stats.OverallAverage
	i.ReviewCount = stats.ReviewCount
}

// ViewerState tells a signed-in caller where they stand with a clip.
type ViewerState struct {
	HasCommented bool `json:"has_commented"`
	HasReviewed  bool `json:"has_reviewed"`
	// CanReview is false until the viewer has commented on the clip.
	CanReview bool `json:"can_review"`
}

// ClipDetail is a single clip's payload. Viewer is nil for anonymous
// requests.
type ClipDetail struct {
	FeedItem
	Viewer *ViewerState `json:"viewer,omitempty"`
}

// DeleteAudioPayload is the task payload for removing a deleted clip's
// audio from storage.
type DeleteAudioPayload struct {
	ClipID     uuid.UUID `json:"clip_id"`
	StorageKey string    `json:"storage_key"`
}
