package service

import (
	"context"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/comment/model"
)

type CommentService interface {
	Create(ctx context.Context, userID, clipID uuid.UUID, req model.CreateCommentRequest) (*model.Comment, error)
	ListByClip(ctx context.Context, clipID uuid.UUID) ([]model.CommentResponse, error)
}
