package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffs-backend/internal/domains/review/model"
)

func makeReview(clipID uuid.UUID, technique, creativity, tone, overall int) model.Review {
	return model.Review{
		ID:               uuid.New(),
		ClipID:           clipID,
		UserID:           uuid.New(),
		TechniqueRating:  technique,
		CreativityRating: creativity,
		ToneRating:       tone,
		OverallRating:    overall,
	}
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	assert.Equal(t, model.RatingSummary{}, summary)

	summary = Aggregate([]model.Review{})
	assert.Equal(t, model.RatingSummary{}, summary)
}

func TestAggregateExactMeans(t *testing.T) {
	clipID := uuid.New()
	reviews := []model.Review{
		makeReview(clipID, 5, 4, 3, 5),
		makeReview(clipID, 3, 2, 5, 4),
		makeReview(clipID, 4, 3, 4, 3),
	}

	summary := Aggregate(reviews)

	assert.Equal(t, 3, summary.ReviewCount)
	assert.InDelta(t, 4.0, summary.TechniqueAverage, 1e-9)
	assert.InDelta(t, 3.0, summary.CreativityAverage, 1e-9)
	assert.InDelta(t, 4.0, summary.ToneAverage, 1e-9)
	assert.InDelta(t, 4.0, summary.OverallAverage, 1e-9)
}

func TestAggregateKeepsFullPrecision(t *testing.T) {
	clipID := uuid.New()
	reviews := []model.Review{
		makeReview(clipID, 5, 5, 5, 5),
		makeReview(clipID, 4, 4, 4, 4),
		makeReview(clipID, 4, 4, 4, 4),
	}

	summary := Aggregate(reviews)
	assert.InDelta(t, 13.0/3.0, summary.OverallAverage, 1e-12)
}

func TestAggregateSkipsMalformed(t *testing.T) {
	clipID := uuid.New()
	reviews := []model.Review{
		makeReview(clipID, 4, 4, 4, 4),
		makeReview(clipID, 0, 4, 4, 4),  // below range
		makeReview(clipID, 4, 4, 4, 6),  // above range
		makeReview(clipID, 4, -1, 4, 4), // negative
		makeReview(clipID, 2, 2, 2, 2),
	}

	summary := Aggregate(reviews)

	assert.Equal(t, 2, summary.ReviewCount)
	assert.InDelta(t, 3.0, summary.OverallAverage, 1e-9)
	assert.InDelta(t, 3.0, summary.TechniqueAverage, 1e-9)
}

func TestAggregateAllMalformed(t *testing.T) {
	clipID := uuid.New()
	reviews := []model.Review{
		makeReview(clipID, 0, 0, 0, 0),
		makeReview(clipID, 9, 9, 9, 9),
	}

	assert.Equal(t, model.RatingSummary{}, Aggregate(reviews))
}

func TestAggregateOverall(t *testing.T) {
	clipA := uuid.New()
	clipB := uuid.New()
	clipC := uuid.New()

	byClip := map[uuid.UUID][]model.Review{
		clipA: {
			makeReview(clipA, 5, 5, 5, 5),
			makeReview(clipA, 4, 4, 4, 4),
		},
		clipB: {
			makeReview(clipB, 3, 3, 3, 3),
		},
		clipC: {},
	}

	stats := AggregateOverall(byClip)

	require.Len(t, stats, 3)
	assert.InDelta(t, 4.5, stats[clipA].OverallAverage, 1e-9)
	assert.Equal(t, 2, stats[clipA].ReviewCount)
	assert.InDelta(t, 3.0, stats[clipB].OverallAverage, 1e-9)
	assert.Equal(t, model.ClipRatingStats{}, stats[clipC])
}

func TestAggregateOverallDoesNotMutateInput(t *testing.T) {
	clipID := uuid.New()
	original := makeReview(clipID, 5, 4, 3, 2)
	byClip := map[uuid.UUID][]model.Review{
		clipID: {original},
	}

	_ = AggregateOverall(byClip)

	require.Len(t, byClip[clipID], 1)
	assert.Equal(t, original, byClip[clipID][0])
}

func TestAggregateOverallDeterministic(t *testing.T) {
	clipA := uuid.New()
	clipB := uuid.New()
	byClip := map[uuid.UUID][]model.Review{
		clipA: {makeReview(clipA, 5, 5, 5, 5), makeReview(clipA, 1, 1, 1, 1)},
		clipB: {makeReview(clipB, 3, 3, 3, 3)},
	}

	first := AggregateOverall(byClip)
	second := AggregateOverall(byClip)
	assert.Equal(t, first, second)
}
