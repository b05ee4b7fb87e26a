package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// minOrphanAge keeps the sweep from racing an upload whose database
// row has not landed yet.
const minOrphanAge = 24 * time.Hour

type storageKeySource interface {
	ListStorageKeys(ctx context.Context) (map[string]struct{}, error)
}

type orphanRowDeleter interface {
	DeleteOrphaned(ctx context.Context) (int64, error)
}

type audioBlobStore interface {
	ListKeys(ctx context.Context, prefix string) (map[string]time.Time, error)
	Delete(ctx context.Context, key string) error
}

// OrphanSweepHandler is the nightly reconciliation pass: it deletes
// comment and review rows whose clip no longer exists, then diffs the
// audio bucket against the clips table and deletes blobs nothing
// references anymore.
type OrphanSweepHandler struct {
	clips    storageKeySource
	comments orphanRowDeleter
	reviews  orphanRowDeleter
	store    audioBlobStore
}

func NewOrphanSweepHandler(clips storageKeySource, comments, reviews orphanRowDeleter, store audioBlobStore) *OrphanSweepHandler {
	return &OrphanSweepHandler{clips: clips, comments: comments, reviews: reviews, store: store}
}

func (h *OrphanSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	orphanReviews, err := h.reviews.DeleteOrphaned(ctx)
	if err != nil {
		return err
	}
	orphanComments, err := h.comments.DeleteOrphaned(ctx)
	if err != nil {
		return err
	}

	referenced, err := h.clips.ListStorageKeys(ctx)
	if err != nil {
		return err
	}

	stored, err := h.store.ListKeys(ctx, "clips/")
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-minOrphanAge)
	removed := 0
	for key, modified := range stored {
		if _, ok := referenced[key]; ok {
			continue
		}
		if modified.After(cutoff) {
			continue
		}
		if err := h.store.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("orphan delete failed")
			continue
		}
		removed++
	}

	log.Info().
		Int64("orphan_reviews", orphanReviews).
		Int64("orphan_comments", orphanComments).
		Int("stored", len(stored)).
		Int("referenced", len(referenced)).
		Int("removed", removed).
		Msg("orphan sweep finished")
	return nil
}
