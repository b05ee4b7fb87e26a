package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/domains/user/model"
	"riffs-backend/internal/infrastructure/email"
	"riffs-backend/internal/shared"
)

// EmailHandler sends the queued transactional emails.
type EmailHandler struct {
	service *email.Service
}

func NewEmailHandler(service *email.Service) *EmailHandler {
	return &EmailHandler{service: service}
}

func (h *EmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode email payload: %w: %w", err, asynq.SkipRetry)
	}

	var err error
	switch t.Type() {
	case shared.TaskEmailVerification:
		err = h.service.SendVerificationEmail(payload.Email, payload.DisplayName, payload.Token)
	case shared.TaskEmailPasswordReset:
		err = h.service.SendPasswordResetEmail(payload.Email, payload.DisplayName, payload.Token)
	default:
		return fmt.Errorf("unknown email task %q: %w", t.Type(), asynq.SkipRetry)
	}

	if err != nil {
		log.Error().Err(err).Str("task", t.Type()).Str("to", payload.Email).Msg("send email failed")
		return err
	}
	return nil
}
