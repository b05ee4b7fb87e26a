package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	commentrepo "riffs-backend/internal/domains/comment/repository"
	"riffs-backend/internal/domains/review/model"
	"riffs-backend/internal/domains/review/repository"
	"riffs-backend/pkg/cache"
)

const (
	// Per-clip rating stats, invalidated on review writes.
	ratingStatsKey = "rating_stats:%s"
	ratingStatsTTL = 10 * time.Minute
)

type reviewService struct {
	repo     repository.ReviewRepository
	comments commentrepo.CommentRepository
	cache    cache.Cache
}

func NewReviewService(repo repository.ReviewRepository, comments commentrepo.CommentRepository, c cache.Cache) ReviewService {
	return &reviewService{repo: repo, comments: comments, cache: c}
}

// Submit creates the caller's review of a clip, or replaces it if one
// already exists. The engagement gate is checked first: a user who has
// never commented on the clip is turned away before their ratings are
// even looked at.
func (s *reviewService) Submit(ctx context.Context, userID, clipID uuid.UUID, req model.SubmitReviewRequest) (*model.Review, error) {
	hasCommented, err := s.comments.ExistsByUserAndClip(ctx, userID, clipID)
	if err != nil {
		return nil, model.ErrInternal(err)
	}

	existing, err := s.repo.GetByUserAndClip(ctx, userID, clipID)
	hasReviewed := err == nil
	if err != nil {
		var reviewErr *model.ReviewError
		if !errors.As(err, &reviewErr) || reviewErr.Code != model.CodeReviewNotFound {
			return nil, err
		}
	}

	state := DeriveEngagementState(hasCommented, hasReviewed)
	if !GateSatisfied(state) {
		return nil, model.ErrGateNotSatisfied()
	}

	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	review := &model.Review{
		ClipID:           clipID,
		UserID:           userID,
		TechniqueRating:  req.TechniqueRating,
		CreativityRating: req.CreativityRating,
		ToneRating:       req.ToneRating,
		OverallRating:    req.OverallRating,
		ReviewText:       normalizeText(req.ReviewText),
	}

	if existing != nil {
		if err := s.repo.Update(ctx, review); err != nil {
			return nil, err
		}
		s.invalidateStats(ctx, clipID)
		log.Info().
			Str("review_id", review.ID.String()).
			Str("clip_id", clipID.String()).
			Str("user_id", userID.String()).
			Msg("review updated")
		return review, nil
	}

	review.ID = uuid.New()
	err = s.repo.Create(ctx, review)
	if errors.Is(err, repository.ErrDuplicateReview) {
		// Lost a race with a concurrent submission by the same user;
		// fall back to replacing it. Last write wins.
		if err := s.repo.Update(ctx, review); err != nil {
			return nil, err
		}
		s.invalidateStats(ctx, clipID)
		return review, nil
	}
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, clipID)
	log.Info().
		Str("review_id", review.ID.String()).
		Str("clip_id", clipID.String()).
		Str("user_id", userID.String()).
		Msg("review created")
	return review, nil
}

func (s *reviewService) GetMine(ctx context.Context, userID, clipID uuid.UUID) (*model.Review, error) {
	return s.repo.GetByUserAndClip(ctx, userID, clipID)
}

// EngagementFor reports where a user stands with a clip: whether they
// have commented on it and whether a review of theirs exists.
func (s *reviewService) EngagementFor(ctx context.Context, userID, clipID uuid.UUID) (EngagementState, error) {
	hasCommented, err := s.comments.ExistsByUserAndClip(ctx, userID, clipID)
	if err != nil {
		return StateNoComment, model.ErrInternal(err)
	}

	_, err = s.repo.GetByUserAndClip(ctx, userID, clipID)
	hasReviewed := err == nil
	if err != nil {
		var reviewErr *model.ReviewError
		if !errors.As(err, &reviewErr) || reviewErr.Code != model.CodeReviewNotFound {
			return StateNoComment, err
		}
	}

	return DeriveEngagementState(hasCommented, hasReviewed), nil
}

func (s *reviewService) ListByClip(ctx context.Context, clipID uuid.UUID) (*model.ClipReviewsResponse, error) {
	reviews, err := s.repo.ListByClip(ctx, clipID)
	if err != nil {
		return nil, err
	}

	plain := make([]model.Review, len(reviews))
	for i, rv := range reviews {
		plain[i] = rv.Review
	}

	return &model.ClipReviewsResponse{
		Reviews: reviews,
		Summary: Aggregate(plain),
	}, nil
}

// StatsForClips backs the feed. Per-clip stats are served from the
// cache when present; misses take one repository round trip through
// the pure aggregator and are cached for the next page load.
func (s *reviewService) StatsForClips(ctx context.Context, clipIDs []uuid.UUID) (map[uuid.UUID]model.ClipRatingStats, error) {
	stats := make(map[uuid.UUID]model.ClipRatingStats, len(clipIDs))

	missing := make([]uuid.UUID, 0, len(clipIDs))
	for _, id := range clipIDs {
		var cached model.ClipRatingStats
		if err := s.cache.Get(ctx, fmt.Sprintf(ratingStatsKey, id), &cached); err == nil {
			stats[id] = cached
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return stats, nil
	}

	byClip, err := s.repo.ListRatingsByClips(ctx, missing)
	if err != nil {
		return nil, err
	}
	computed := AggregateOverall(byClip)

	for _, id := range missing {
		stats[id] = computed[id]
		err := s.cache.Set(ctx, fmt.Sprintf(ratingStatsKey, id), computed[id], ratingStatsTTL)
		if err != nil {
			log.Warn().Err(err).Str("clip_id", id.String()).Msg("cache rating stats failed")
		}
	}
	return stats, nil
}

func (s *reviewService) invalidateStats(ctx context.Context, clipID uuid.UUID) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(ratingStatsKey, clipID)); err != nil {
		log.Warn().Err(err).Str("clip_id", clipID.String()).Msg("invalidate rating stats failed")
	}
}

func normalizeText(text *string) *string {
	if text == nil || *text == "" {
		return nil
	}
	return text
}
