package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/domains/user/repository"
)

// TokenCleanupHandler clears expired verification and password reset
// tokens. Scheduled nightly.
type TokenCleanupHandler struct {
	repo repository.UserRepository
}

func NewTokenCleanupHandler(repo repository.UserRepository) *TokenCleanupHandler {
	return &TokenCleanupHandler{repo: repo}
}

func (h *TokenCleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	cleaned, err := h.repo.CleanupExpiredTokens(ctx)
	if err != nil {
		log.Error().Err(err).Msg("token cleanup failed")
		return err
	}

	log.Info().Int64("cleaned", cleaned).Msg("expired tokens cleaned")
	return nil
}
