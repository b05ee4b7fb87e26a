package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
	"riffs-backend/internal/domains/clip/model"
	"riffs-backend/internal/domains/clip/repository"
	commentrepo "riffs-backend/internal/domains/comment/repository"
	reviewservice "riffs-backend/internal/domains/review/service"
	"riffs-backend/internal/infrastructure/queue"
	"riffs-backend/internal/infrastructure/storage"
	"riffs-backend/internal/shared"
)

type clipService struct {
	repo     repository.ClipRepository
	reviews  reviewservice.ReviewService
	comments commentrepo.CommentRepository
	store    *storage.AudioStore
	enqueuer queue.Enqueuer
	upload   config.UploadConfig
}

func NewClipService(
	repo repository.ClipRepository,
	reviews reviewservice.ReviewService,
	comments commentrepo.CommentRepository,
	store *storage.AudioStore,
	enqueuer queue.Enqueuer,
	upload config.UploadConfig,
) ClipService {
	return &clipService{
		repo:     repo,
		reviews:  reviews,
		comments: comments,
		store:    store,
		enqueuer: enqueuer,
		upload:   upload,
	}
}

// =====================================================================
// Upload
// =====================================================================

// Upload validates and stores one audio file, then records the clip.
// MP3 durations are probed server side; other formats trust the
// client's measurement. Either way the stored duration is clamped to
// the configured maximum.
func (s *clipService) Upload(ctx context.Context, userID uuid.UUID, req model.UploadClipRequest, file io.Reader, size int64, contentType string) (*model.Clip, error) {
	if err := req.Validate(); err != nil {
		return nil, model.ErrValidation(err)
	}

	ext, ok := model.AllowedContentTypes[contentType]
	if !ok {
		return nil, model.ErrUnsupportedType(contentType)
	}
	if size > s.upload.MaxFileSize {
		return nil, model.ErrFileTooLarge(s.upload.MaxFileSize)
	}

	// Buffer the file so it can be probed and uploaded. The size limit
	// keeps this bounded; the extra byte catches clients that lied
	// about the size.
	data, err := io.ReadAll(io.LimitReader(file, s.upload.MaxFileSize+1))
	if err != nil {
		return nil, model.ErrInternal(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > s.upload.MaxFileSize {
		return nil, model.ErrFileTooLarge(s.upload.MaxFileSize)
	}

	seconds := req.Duration
	if ext == "mp3" {
		if probed, err := probeMP3Duration(bytes.NewReader(data)); err == nil {
			seconds = probed
		} else {
			log.Warn().Err(err).Msg("mp3 duration probe failed, using client value")
		}
	}
	duration := ClampDuration(seconds, s.upload.MaxDuration)

	clipID := uuid.New()
	key := fmt.Sprintf("clips/%s/%s.%s", userID, clipID, ext)

	url, err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, model.ErrInternal(err)
	}

	clip := &model.Clip{
		ID:          clipID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StorageKey:  key,
		FileURL:     url,
		FileSize:    int64(len(data)),
		ContentType: contentType,
		Duration:    duration,
	}

	if err := s.repo.Create(ctx, clip); err != nil {
		// Best effort: the nightly orphan sweep catches anything this
		// misses.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("cleanup of failed upload left orphan")
		}
		return nil, model.ErrInternal(err)
	}

	log.Info().
		Str("clip_id", clipID.String()).
		Str("user_id", userID.String()).
		Int("duration", duration).
		Int64("size", clip.FileSize).
		Msg("clip uploaded")

	return clip, nil
}

// ClampDuration rounds seconds to the nearest whole second and caps it
// at max. Negative inputs clamp to zero.
func ClampDuration(seconds float64, max int) int {
	d := int(seconds + 0.5)
	if seconds < 0 {
		d = 0
	}
	if d > max {
		d = max
	}
	return d
}

// =====================================================================
// Reads
// =====================================================================

// Get returns one clip with rating stats. When viewerID is set the
// payload also tells the caller whether they have commented or
// reviewed, so the client can show or withhold the rating form.
func (s *clipService) Get(ctx context.Context, clipID uuid.UUID, viewerID *uuid.UUID) (*model.ClipDetail, error) {
	item, err := s.repo.GetByID(ctx, clipID)
	if err != nil {
		return nil, err
	}

	items := []model.FeedItem{*item}
	if err := s.attachStats(ctx, items); err != nil {
		return nil, err
	}
	detail := &model.ClipDetail{FeedItem: items[0]}

	if viewerID != nil {
		state, err := s.reviews.EngagementFor(ctx, *viewerID, clipID)
		if err != nil {
			return nil, model.ErrInternal(err)
		}
		detail.Viewer = &model.ViewerState{
			HasCommented: state != reviewservice.StateNoComment,
			HasReviewed:  state == reviewservice.StateReviewed,
			CanReview:    reviewservice.GateSatisfied(state),
		}
	}
	return detail, nil
}

// Feed returns one page of clips with rating stats attached. Pages are
// cut newest-first; the oldest and popular orderings rearrange within
// the page.
func (s *clipService) Feed(ctx context.Context, query model.FeedQuery) ([]model.FeedItem, int64, error) {
	items, total, err := s.repo.ListPage(ctx, query.Page, model.FeedPageSize)
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachStats(ctx, items); err != nil {
		return nil, 0, err
	}

	switch query.Sort {
	case model.SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		})
	case model.SortPopular:
		SortByPopularity(items)
	}

	return items, total, nil
}

// SortByPopularity orders items by overall average, then review count,
// then recency. Unrated clips sink to the bottom.
func SortByPopularity(items []model.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.OverallAverage != b.OverallAverage {
			return a.OverallAverage > b.OverallAverage
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (s *clipService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.FeedItem, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachStats(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *clipService) attachStats(ctx context.Context, items []model.FeedItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	stats, err := s.reviews.StatsForClips(ctx, ids)
	if err != nil {
		return model.ErrInternal(err)
	}
	counts, err := s.comments.CountByClips(ctx, ids)
	if err != nil {
		return model.ErrInternal(err)
	}
	for i := range items {
		items[i].ApplyStats(stats[items[i].ID])
		items[i].CommentCount = counts[items[i].ID]
	}
	return nil
}

// =====================================================================
// Delete
// =====================================================================

// Delete removes a clip with its comments and reviews in one
// transaction, then hands blob removal to the worker.
func (s *clipService) Delete(ctx context.Context, userID, clipID uuid.UUID) error {
	clip, err := s.repo.GetByID(ctx, clipID)
	if err != nil {
		return err
	}
	if clip.UserID != userID {
		return model.ErrNotOwner()
	}

	storageKey, err := s.repo.DeleteCascade(ctx, clipID)
	if err != nil {
		return err
	}

	payload := model.DeleteAudioPayload{ClipID: clipID, StorageKey: storageKey}
	err = s.enqueuer.Enqueue(ctx, shared.TaskClipDeleteAudio, payload,
		asynq.Queue(shared.QueueLow), asynq.MaxRetry(5))
	if err != nil {
		// The rows are gone either way; the orphan sweep will reclaim
		// the blob.
		log.Error().Err(err).Str("clip_id", clipID.String()).Msg("enqueue audio delete failed")
	}

	log.Info().
		Str("clip_id", clipID.String()).
		Str("user_id", userID.String()).
		Msg("clip deleted")
	return nil
}
