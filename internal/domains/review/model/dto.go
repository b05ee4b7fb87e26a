package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SubmitReviewRequest covers both first submission and resubmission;
// the service decides which applies.
type SubmitReviewRequest struct {
	TechniqueRating  int     `json:"technique_rating"`
	CreativityRating int     `json:"creativity_rating"`
	ToneRating       int     `json:"tone_rating"`
	OverallRating    int     `json:"overall_rating"`
	ReviewText       *string `json:"review_text"`
}

func (r SubmitReviewRequest) Validate() error {
	ratingRule := []validation.Rule{
		validation.Required,
		validation.Min(MinRating),
		validation.Max(MaxRating),
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.TechniqueRating, ratingRule...),
		validation.Field(&r.CreativityRating, ratingRule...),
		validation.Field(&r.ToneRating, ratingRule...),
		validation.Field(&r.OverallRating, ratingRule...),
		validation.Field(&r.ReviewText, validation.When(r.ReviewText != nil, validation.Length(0, MaxReviewTextLength))),
	)
}

type ReviewResponse struct {
	Review
	AuthorName   string  `json:"author_name"`
	AuthorAvatar *string `json:"author_avatar,omitempty"`
}

// RatingSummary is the per-category arithmetic mean over a clip's
// valid reviews. Zero value for a clip with no reviews.
type RatingSummary struct {
	TechniqueAverage  float64 `json:"technique_average"`
	CreativityAverage float64 `json:"creativity_average"`
	ToneAverage       float64 `json:"tone_average"`
	OverallAverage    float64 `json:"overall_average"`
	ReviewCount       int     `json:"review_count"`
}

// ClipRatingStats is the condensed form used by feed listings.
type ClipRatingStats struct {
	OverallAverage float64 `json:"overall_average"`
	ReviewCount    int     `json:"review_count"`
}

type ClipReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Summary RatingSummary    `json:"summary"`
}
