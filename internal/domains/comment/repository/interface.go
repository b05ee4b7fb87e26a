package repository

import (
	"context"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/comment/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByClip(ctx context.Context, clipID uuid.UUID) ([]model.CommentResponse, error)
	CountByUserAndClip(ctx context.Context, userID, clipID uuid.UUID) (int, error)
	CountByClips(ctx context.Context, clipIDs []uuid.UUID) (map[uuid.UUID]int, error)
	DeleteOrphaned(ctx context.Context) (int64, error)
	ExistsByUserAndClip(ctx context.Context, userID, clipID uuid.UUID) (bool, error)
}
