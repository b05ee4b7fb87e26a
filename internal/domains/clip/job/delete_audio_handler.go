package job

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/domains/clip/model"
	"riffs-backend/internal/infrastructure/storage"
)

// DeleteAudioHandler removes a deleted clip's audio from storage.
type DeleteAudioHandler struct {
	store *storage.AudioStore
}

func NewDeleteAudioHandler(store *storage.AudioStore) *DeleteAudioHandler {
	return &DeleteAudioHandler{store: store}
}

func (h *DeleteAudioHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.DeleteAudioPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payload will never succeed; drop it.
		return fmt.Errorf("decode delete audio payload: %w: %w", err, asynq.SkipRetry)
	}

	// Everything for one clip lives under clips/<user>/<clip id>.
	// Deleting by the extension-stripped prefix removes the blob and
	// any leftovers stored under the same id.
	prefix := strings.TrimSuffix(payload.StorageKey, path.Ext(payload.StorageKey))
	if err := h.store.DeleteByPrefix(ctx, prefix); err != nil {
		log.Error().Err(err).
			Str("clip_id", payload.ClipID.String()).
			Str("key", payload.StorageKey).
			Msg("delete clip audio failed")
		return err
	}

	log.Info().
		Str("clip_id", payload.ClipID.String()).
		Str("key", payload.StorageKey).
		Msg("clip audio deleted")
	return nil
}
