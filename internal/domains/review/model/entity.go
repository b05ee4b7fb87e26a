package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is one listener's rating of a clip across four categories.
// A user holds at most one review per clip; resubmitting replaces the
// previous ratings.
type Review struct {
	ID     uuid.UUID `json:"id"`
	ClipID uuid.UUID `json:"clip_id"`
	UserID uuid.UUID `json:"user_id"`

	TechniqueRating  int `json:"technique_rating"`
	CreativityRating int `json:"creativity_rating"`
	ToneRating       int `json:"tone_rating"`
	OverallRating    int `json:"overall_rating"`

	ReviewText *string `json:"review_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Valid reports whether every category is inside the rating bounds.
// Records failing this are skipped by the aggregator.
func (r Review) Valid() bool {
	for _, rating := range []int{r.TechniqueRating, r.CreativityRating, r.ToneRating, r.OverallRating} {
		if rating < MinRating || rating > MaxRating {
			return false
		}
	}
	return true
}
