package service

import (
	"context"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/review/model"
)

type ReviewService interface {
	Submit(ctx context.Context, userID, clipID uuid.UUID, req model.SubmitReviewRequest) (*model.Review, error)
	GetMine(ctx context.Context, userID, clipID uuid.UUID) (*model.Review, error)
	EngagementFor(ctx context.Context, userID, clipID uuid.UUID) (EngagementState, error)
	ListByClip(ctx context.Context, clipID uuid.UUID) (*model.ClipReviewsResponse, error)
	StatsForClips(ctx context.Context, clipIDs []uuid.UUID) (map[uuid.UUID]model.ClipRatingStats, error)
}
