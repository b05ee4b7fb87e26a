package service

import (
	"context"

	"github.com/google/uuid"

	"riffs-backend/internal/domains/user/model"
	"riffs-backend/pkg/jwt"
)

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, req model.RefreshRequest) (*jwt.TokenPair, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error)
	LookupProfiles(ctx context.Context, req model.ProfileLookupRequest) ([]model.Profile, error)
}
