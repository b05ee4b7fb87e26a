package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"riffs-backend/internal/domains/user/model"
	"riffs-backend/internal/domains/user/repository"
	"riffs-backend/internal/infrastructure/queue"
	"riffs-backend/internal/shared"
	"riffs-backend/pkg/cache"
	"riffs-backend/pkg/jwt"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour

	// Failed login throttling.
	maxLoginAttempts = 5
	loginAttemptTTL  = 15 * time.Minute
	loginAttemptsKey = "login_attempts:%s"
)

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
	cache      cache.Cache
	enqueuer   queue.Enqueuer
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager, c cache.Cache, enqueuer queue.Enqueuer) UserService {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		cache:      c,
		enqueuer:   enqueuer,
	}
}

// =====================================================================
// Registration and verification
// =====================================================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	// Pre-checks give friendlier errors; the unique indexes stay the
	// source of truth under races.
	if taken, err := s.repo.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, model.ErrInternal(err)
	} else if taken {
		return nil, model.ErrEmailTaken()
	}
	if taken, err := s.repo.ExistsByDisplayName(ctx, req.DisplayName); err != nil {
		return nil, model.ErrInternal(err)
	} else if taken {
		return nil, model.ErrDisplayNameTaken()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, model.ErrInternal(fmt.Errorf("hash password: %w", err))
	}

	token, err := generateToken()
	if err != nil {
		return nil, model.ErrInternal(err)
	}
	expires := time.Now().Add(verificationTokenTTL)

	user := &model.User{
		ID:                  uuid.New(),
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:        string(hash),
		DisplayName:         strings.TrimSpace(req.DisplayName),
		VerificationToken:   &token,
		VerificationExpires: &expires,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.enqueueVerificationEmail(ctx, user, token)

	pair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, model.ErrInternal(err)
	}

	return &model.AuthResponse{
		User:         user.Profile(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}

	if user.VerificationExpires == nil || time.Now().After(*user.VerificationExpires) {
		return model.ErrTokenExpired()
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	user.VerificationExpires = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("email verified")
	return nil
}

func (s *userService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the address is registered.
		var userErr *model.UserError
		if errors.As(err, &userErr) && userErr.Code == model.CodeUserNotFound {
			return nil
		}
		return err
	}

	if user.EmailVerified {
		return model.ErrAlreadyVerified()
	}

	token, err := generateToken()
	if err != nil {
		return model.ErrInternal(err)
	}
	expires := time.Now().Add(verificationTokenTTL)
	user.VerificationToken = &token
	user.VerificationExpires = &expires

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.enqueueVerificationEmail(ctx, user, token)
	return nil
}

func (s *userService) enqueueVerificationEmail(ctx context.Context, user *model.User, token string) {
	payload := model.EmailTaskPayload{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Token:       token,
	}
	err := s.enqueuer.Enqueue(ctx, shared.TaskEmailVerification, payload,
		asynq.Queue(shared.QueueHigh), asynq.MaxRetry(3))
	if err != nil {
		// Registration still succeeds; the user can request a resend.
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("enqueue verification email failed")
	}
}

// =====================================================================
// Password reset
// =====================================================================

func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the address is registered.
		var userErr *model.UserError
		if errors.As(err, &userErr) && userErr.Code == model.CodeUserNotFound {
			return nil
		}
		return err
	}

	token, err := generateToken()
	if err != nil {
		return model.ErrInternal(err)
	}
	expires := time.Now().Add(resetTokenTTL)
	user.PasswordResetToken = &token
	user.PasswordResetExpires = &expires

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	payload := model.EmailTaskPayload{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Token:       token,
	}
	err = s.enqueuer.Enqueue(ctx, shared.TaskEmailPasswordReset, payload,
		asynq.Queue(shared.QueueHigh), asynq.MaxRetry(3))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("enqueue reset email failed")
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return model.ErrValidation(err)
	}

	user, err := s.repo.GetByResetToken(ctx, req.Token)
	if err != nil {
		return err
	}

	if user.PasswordResetExpires == nil || time.Now().After(*user.PasswordResetExpires) {
		return model.ErrTokenExpired()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.ErrInternal(fmt.Errorf("hash password: %w", err))
	}

	user.PasswordHash = string(hash)
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("password reset")
	return nil
}

// =====================================================================
// Login and tokens
// =====================================================================

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	attemptsKey := fmt.Sprintf(loginAttemptsKey, email)

	var attempts int64
	if err := s.cache.Get(ctx, attemptsKey, &attempts); err == nil && attempts >= maxLoginAttempts {
		return nil, model.ErrTooManyAttempts()
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		var userErr *model.UserError
		if errors.As(err, &userErr) && userErr.Code == model.CodeUserNotFound {
			s.recordFailedLogin(ctx, attemptsKey)
			return nil, model.ErrInvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, attemptsKey)
		return nil, model.ErrInvalidCredentials()
	}

	// Successful login resets the counter.
	if err := s.cache.Delete(ctx, attemptsKey); err != nil {
		log.Warn().Err(err).Msg("reset login attempts failed")
	}

	pair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, model.ErrInternal(err)
	}

	return &model.AuthResponse{
		User:         user.Profile(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (s *userService) recordFailedLogin(ctx context.Context, key string) {
	count, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("record failed login attempt")
		return
	}
	if count == 1 {
		if err := s.cache.Expire(ctx, key, loginAttemptTTL); err != nil {
			log.Warn().Err(err).Msg("set login attempts ttl")
		}
	}
}

func (s *userService) Refresh(ctx context.Context, req model.RefreshRequest) (*jwt.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	pair, err := s.jwtManager.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidToken()
	}
	return pair, nil
}

// =====================================================================
// Profiles
// =====================================================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if !strings.EqualFold(name, user.DisplayName) {
			if taken, err := s.repo.ExistsByDisplayName(ctx, name); err != nil {
				return nil, model.ErrInternal(err)
			} else if taken {
				return nil, model.ErrDisplayNameTaken()
			}
		}
		user.DisplayName = name
	}
	if req.AvatarURL != nil {
		if *req.AvatarURL == "" {
			user.AvatarURL = nil
		} else {
			user.AvatarURL = req.AvatarURL
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *userService) LookupProfiles(ctx context.Context, req model.ProfileLookupRequest) ([]model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	ids := make([]uuid.UUID, 0, len(req.UserIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, model.ErrValidation(fmt.Errorf("invalid user id %q", raw))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return s.repo.GetProfiles(ctx, ids)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
