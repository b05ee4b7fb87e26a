package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffs-backend/internal/config"
	"riffs-backend/internal/domains/clip/model"
	commentmodel "riffs-backend/internal/domains/comment/model"
	reviewmodel "riffs-backend/internal/domains/review/model"
	reviewservice "riffs-backend/internal/domains/review/service"
)

func assertClipCode(t *testing.T, err error, code string) {
	t.Helper()
	var clipErr *model.ClipError
	require.ErrorAs(t, err, &clipErr)
	assert.Equal(t, code, clipErr.Code)
}

func uploadConfig() config.UploadConfig {
	return config.UploadConfig{MaxFileSize: 10 * 1024 * 1024, MaxDuration: 10}
}

func TestClampDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{-3, 0},
		{2.4, 2},
		{2.5, 3},
		{9.9, 10},
		{10.0, 10},
		{10.4, 10},
		{37.2, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampDuration(tt.seconds, 10), "seconds=%v", tt.seconds)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	// Rejection happens before storage is touched, so nil deps are fine.
	svc := NewClipService(nil, nil, nil, nil, nil, uploadConfig())

	req := model.UploadClipRequest{Title: "mystery riff", Duration: 5}
	_, err := svc.Upload(context.Background(), uuid.New(), req, bytes.NewReader(nil), 100, "video/mp4")
	assertClipCode(t, err, model.CodeUnsupportedType)

	_, err = svc.Upload(context.Background(), uuid.New(), req, bytes.NewReader(nil), 100, "text/plain")
	assertClipCode(t, err, model.CodeUnsupportedType)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := NewClipService(nil, nil, nil, nil, nil, uploadConfig())

	req := model.UploadClipRequest{Title: "mystery riff", Duration: 5}
	_, err := svc.Upload(context.Background(), uuid.New(), req, bytes.NewReader(nil), 10*1024*1024+1, "audio/mpeg")
	assertClipCode(t, err, model.CodeFileTooLarge)
}

func TestUploadRejectsUnderreportedSize(t *testing.T) {
	cfg := config.UploadConfig{MaxFileSize: 16, MaxDuration: 10}
	svc := NewClipService(nil, nil, nil, nil, nil, cfg)

	// Declared size fits but the actual stream is larger.
	payload := bytes.Repeat([]byte{0xff}, 64)
	req := model.UploadClipRequest{Title: "mystery riff", Duration: 5}
	_, err := svc.Upload(context.Background(), uuid.New(), req, bytes.NewReader(payload), 10, "audio/wav")
	assertClipCode(t, err, model.CodeFileTooLarge)
}

func TestUploadRequiresTitle(t *testing.T) {
	svc := NewClipService(nil, nil, nil, nil, nil, uploadConfig())

	req := model.UploadClipRequest{Title: "", Duration: 5}
	_, err := svc.Upload(context.Background(), uuid.New(), req, bytes.NewReader(nil), 100, "audio/mpeg")
	assertClipCode(t, err, model.CodeValidation)
}

func TestUploadRejectsOverlongDescription(t *testing.T) {
	svc := NewClipService(nil, nil, nil, nil, nil, uploadConfig())

	long := strings.Repeat("a", model.MaxDescriptionLength+1)
	req := model.UploadClipRequest{Title: "mystery riff", Description: &long, Duration: 5}
	_, err := svc.Upload(context.Background(), uuid.New(), req, bytes.NewReader(nil), 100, "audio/mpeg")
	assertClipCode(t, err, model.CodeValidation)
}

// ---------------------------------------------------------------------
// Clip detail
// ---------------------------------------------------------------------

type fakeClipRepo struct {
	item *model.FeedItem
}

func (f *fakeClipRepo) Create(_ context.Context, _ *model.Clip) error { return nil }

func (f *fakeClipRepo) GetByID(_ context.Context, _ uuid.UUID) (*model.FeedItem, error) {
	copied := *f.item
	return &copied, nil
}

func (f *fakeClipRepo) ListPage(_ context.Context, _, _ int) ([]model.FeedItem, int64, error) {
	return nil, 0, nil
}

func (f *fakeClipRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]model.FeedItem, error) {
	return nil, nil
}

func (f *fakeClipRepo) DeleteCascade(_ context.Context, _ uuid.UUID) (string, error) {
	return "", nil
}

func (f *fakeClipRepo) ListStorageKeys(_ context.Context) (map[string]struct{}, error) {
	return nil, nil
}

type fakeReviewStats struct {
	state reviewservice.EngagementState
	stats reviewmodel.ClipRatingStats
}

func (f *fakeReviewStats) Submit(_ context.Context, _, _ uuid.UUID, _ reviewmodel.SubmitReviewRequest) (*reviewmodel.Review, error) {
	return nil, nil
}

func (f *fakeReviewStats) GetMine(_ context.Context, _, _ uuid.UUID) (*reviewmodel.Review, error) {
	return nil, nil
}

func (f *fakeReviewStats) EngagementFor(_ context.Context, _, _ uuid.UUID) (reviewservice.EngagementState, error) {
	return f.state, nil
}

func (f *fakeReviewStats) ListByClip(_ context.Context, _ uuid.UUID) (*reviewmodel.ClipReviewsResponse, error) {
	return nil, nil
}

func (f *fakeReviewStats) StatsForClips(_ context.Context, clipIDs []uuid.UUID) (map[uuid.UUID]reviewmodel.ClipRatingStats, error) {
	out := make(map[uuid.UUID]reviewmodel.ClipRatingStats, len(clipIDs))
	for _, id := range clipIDs {
		out[id] = f.stats
	}
	return out, nil
}

type fakeClipComments struct {
	count int
}

func (f *fakeClipComments) Create(_ context.Context, _ *commentmodel.Comment) error { return nil }

func (f *fakeClipComments) ListByClip(_ context.Context, _ uuid.UUID) ([]commentmodel.CommentResponse, error) {
	return nil, nil
}

func (f *fakeClipComments) CountByUserAndClip(_ context.Context, _, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeClipComments) CountByClips(_ context.Context, clipIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(clipIDs))
	for _, id := range clipIDs {
		out[id] = f.count
	}
	return out, nil
}

func (f *fakeClipComments) DeleteOrphaned(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeClipComments) ExistsByUserAndClip(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}

func detailService(state reviewservice.EngagementState) (ClipService, *model.FeedItem) {
	item := &model.FeedItem{}
	item.ID = uuid.New()
	reviews := &fakeReviewStats{
		state: state,
		stats: reviewmodel.ClipRatingStats{OverallAverage: 4.2, ReviewCount: 5},
	}
	svc := NewClipService(&fakeClipRepo{item: item}, reviews, &fakeClipComments{count: 7}, nil, nil, uploadConfig())
	return svc, item
}

func TestGetIncludesViewerStateWhenSignedIn(t *testing.T) {
	svc, item := detailService(reviewservice.StateCommented)

	viewer := uuid.New()
	detail, err := svc.Get(context.Background(), item.ID, &viewer)
	require.NoError(t, err)

	require.NotNil(t, detail.Viewer)
	assert.True(t, detail.Viewer.HasCommented)
	assert.False(t, detail.Viewer.HasReviewed)
	assert.True(t, detail.Viewer.CanReview)

	assert.InDelta(t, 4.2, detail.OverallAverage, 1e-9)
	assert.Equal(t, 5, detail.ReviewCount)
	assert.Equal(t, 7, detail.CommentCount)
}

func TestGetViewerCannotReviewBeforeCommenting(t *testing.T) {
	svc, item := detailService(reviewservice.StateNoComment)

	viewer := uuid.New()
	detail, err := svc.Get(context.Background(), item.ID, &viewer)
	require.NoError(t, err)

	require.NotNil(t, detail.Viewer)
	assert.False(t, detail.Viewer.HasCommented)
	assert.False(t, detail.Viewer.CanReview)
}

func TestGetOmitsViewerStateWhenAnonymous(t *testing.T) {
	svc, item := detailService(reviewservice.StateCommented)

	detail, err := svc.Get(context.Background(), item.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, detail.Viewer)
}

func TestParseFeedSort(t *testing.T) {
	sortBy, ok := model.ParseFeedSort("")
	assert.True(t, ok)
	assert.Equal(t, model.SortNewest, sortBy)

	for _, raw := range []string{"newest", "oldest", "popular"} {
		_, ok := model.ParseFeedSort(raw)
		assert.True(t, ok, raw)
	}

	_, ok = model.ParseFeedSort("loudest")
	assert.False(t, ok)
}

func feedItem(avg float64, count int, createdAt time.Time) model.FeedItem {
	item := model.FeedItem{}
	item.ID = uuid.New()
	item.CreatedAt = createdAt
	item.OverallAverage = avg
	item.ReviewCount = count
	return item
}

func TestSortByPopularity(t *testing.T) {
	now := time.Now()

	top := feedItem(4.5, 3, now.Add(-3*time.Hour))
	// Same average as top but fewer reviews.
	second := feedItem(4.5, 1, now.Add(-1*time.Hour))
	third := feedItem(3.0, 10, now.Add(-2*time.Hour))
	// Unrated clips sink below everything rated, newer first.
	unratedNew := feedItem(0, 0, now)
	unratedOld := feedItem(0, 0, now.Add(-24*time.Hour))

	items := []model.FeedItem{unratedOld, second, unratedNew, top, third}
	SortByPopularity(items)

	got := make([]uuid.UUID, len(items))
	for i, item := range items {
		got[i] = item.ID
	}
	want := []uuid.UUID{top.ID, second.ID, third.ID, unratedNew.ID, unratedOld.ID}
	assert.Equal(t, want, got)
}

func TestSortByPopularityTieBreaksByRecency(t *testing.T) {
	now := time.Now()

	older := feedItem(4.0, 2, now.Add(-2*time.Hour))
	newer := feedItem(4.0, 2, now.Add(-1*time.Hour))

	items := []model.FeedItem{older, newer}
	SortByPopularity(items)

	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)
}
