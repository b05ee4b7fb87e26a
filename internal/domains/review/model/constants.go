package model

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

const MaxReviewTextLength = 2000
