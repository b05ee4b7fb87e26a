package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/domains/comment/model"
	"riffs-backend/internal/domains/comment/repository"
)

type commentService struct {
	repo repository.CommentRepository
}

func NewCommentService(repo repository.CommentRepository) CommentService {
	return &commentService{repo: repo}
}

// Create posts a comment on a clip. Content is trimmed before the
// length check, and each user gets at most MaxCommentsPerClip comments
// on one clip.
func (s *commentService) Create(ctx context.Context, userID, clipID uuid.UUID, req model.CreateCommentRequest) (*model.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	content := strings.TrimSpace(req.Content)

	if utf8.RuneCountInString(content) < model.MinContentLength {
		return nil, model.ErrContentTooShort()
	}
	if utf8.RuneCountInString(content) > model.MaxContentLength {
		return nil, model.ErrContentTooLong()
	}

	count, err := s.repo.CountByUserAndClip(ctx, userID, clipID)
	if err != nil {
		return nil, model.ErrInternal(err)
	}
	if count >= model.MaxCommentsPerClip {
		return nil, model.ErrQuotaExceeded()
	}

	comment := &model.Comment{
		ID:      uuid.New(),
		ClipID:  clipID,
		UserID:  userID,
		Content: content,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	log.Info().
		Str("comment_id", comment.ID.String()).
		Str("clip_id", clipID.String()).
		Str("user_id", userID.String()).
		Msg("comment created")

	return comment, nil
}

func (s *commentService) ListByClip(ctx context.Context, clipID uuid.UUID) ([]model.CommentResponse, error) {
	return s.repo.ListByClip(ctx, clipID)
}
