package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/clip/model"
)

type ClipService interface {
	Upload(ctx context.Context, userID uuid.UUID, req model.UploadClipRequest, file io.Reader, size int64, contentType string) (*model.Clip, error)
	Get(ctx context.Context, clipID uuid.UUID, viewerID *uuid.UUID) (*model.ClipDetail, error)
	Feed(ctx context.Context, query model.FeedQuery) ([]model.FeedItem, int64, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.FeedItem, error)
	Delete(ctx context.Context, userID, clipID uuid.UUID) error
}
