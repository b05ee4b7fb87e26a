package repository

import (
	"context"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/clip/model"
)

type ClipRepository interface {
	Create(ctx context.Context, clip *model.Clip) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.FeedItem, error)
	ListPage(ctx context.Context, page, pageSize int) ([]model.FeedItem, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.FeedItem, error)
	DeleteCascade(ctx context.Context, clipID uuid.UUID) (string, error)
	ListStorageKeys(ctx context.Context) (map[string]struct{}, error)
}
