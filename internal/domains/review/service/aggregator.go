package service

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/domains/review/model"
)

// Aggregate computes per-category arithmetic means over a clip's
// reviews. Reviews with any rating outside the valid range are
// skipped and logged rather than poisoning the averages. A clip with
// no usable reviews gets the zero-value summary.
func Aggregate(reviews []model.Review) model.RatingSummary {
	var sum struct {
		technique, creativity, tone, overall int
	}
	count := 0

	for _, rv := range reviews {
		if !rv.Valid() {
			log.Warn().
				Str("review_id", rv.ID.String()).
				Str("clip_id", rv.ClipID.String()).
				Msg("skipping review with out-of-range rating")
			continue
		}
		sum.technique += rv.TechniqueRating
		sum.creativity += rv.CreativityRating
		sum.tone += rv.ToneRating
		sum.overall += rv.OverallRating
		count++
	}

	if count == 0 {
		return model.RatingSummary{}
	}

	n := float64(count)
	return model.RatingSummary{
		TechniqueAverage:  float64(sum.technique) / n,
		CreativityAverage: float64(sum.creativity) / n,
		ToneAverage:       float64(sum.tone) / n,
		OverallAverage:    float64(sum.overall) / n,
		ReviewCount:       count,
	}
}

// AggregateOverall condenses grouped reviews into per-clip overall
// stats. It never mutates its input; clips without reviews map to the
// zero-value stats.
func AggregateOverall(byClip map[uuid.UUID][]model.Review) map[uuid.UUID]model.ClipRatingStats {
	stats := make(map[uuid.UUID]model.ClipRatingStats, len(byClip))
	for clipID, reviews := range byClip {
		summary := Aggregate(reviews)
		stats[clipID] = model.ClipRatingStats{
			OverallAverage: summary.OverallAverage,
			ReviewCount:    summary.ReviewCount,
		}
	}
	return stats
}
