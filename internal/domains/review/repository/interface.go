package repository

import (
	"context"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/review/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	GetByUserAndClip(ctx context.Context, userID, clipID uuid.UUID) (*model.Review, error)
	ListByClip(ctx context.Context, clipID uuid.UUID) ([]model.ReviewResponse, error)
	ListRatingsByClips(ctx context.Context, clipIDs []uuid.UUID) (map[uuid.UUID][]model.Review, error)
	DeleteOrphaned(ctx context.Context) (int64, error)
}
