package repository

import (
	"context"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/user/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) ([]model.Profile, error)
	Update(ctx context.Context, user *model.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByDisplayName(ctx context.Context, displayName string) (bool, error)
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
