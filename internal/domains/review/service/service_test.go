package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commentmodel "riffs-backend/internal/domains/comment/model"
	"riffs-backend/internal/domains/review/model"
	"riffs-backend/internal/domains/review/repository"
)

// ---------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------

type fakeReviewRepo struct {
	byUserClip map[string]*model.Review
	// failCreateOnce simulates losing the unique-index race.
	failCreateOnce bool
	// hideFromGet makes lookups miss even when a row exists, so the
	// create path runs into the duplicate error.
	hideFromGet      bool
	listRatingsCalls int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{byUserClip: make(map[string]*model.Review)}
}

func key(userID, clipID uuid.UUID) string {
	return userID.String() + "/" + clipID.String()
}

func (f *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	k := key(review.UserID, review.ClipID)
	if f.failCreateOnce {
		f.failCreateOnce = false
		return repository.ErrDuplicateReview
	}
	if _, exists := f.byUserClip[k]; exists {
		return repository.ErrDuplicateReview
	}
	copied := *review
	f.byUserClip[k] = &copied
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	k := key(review.UserID, review.ClipID)
	existing, ok := f.byUserClip[k]
	if !ok {
		return model.ErrReviewNotFound()
	}
	review.ID = existing.ID
	review.CreatedAt = existing.CreatedAt
	copied := *review
	f.byUserClip[k] = &copied
	return nil
}

func (f *fakeReviewRepo) GetByUserAndClip(_ context.Context, userID, clipID uuid.UUID) (*model.Review, error) {
	if rv, ok := f.byUserClip[key(userID, clipID)]; ok && !f.hideFromGet {
		copied := *rv
		return &copied, nil
	}
	return nil, model.ErrReviewNotFound()
}

func (f *fakeReviewRepo) ListByClip(_ context.Context, clipID uuid.UUID) ([]model.ReviewResponse, error) {
	out := make([]model.ReviewResponse, 0)
	for _, rv := range f.byUserClip {
		if rv.ClipID == clipID {
			out = append(out, model.ReviewResponse{Review: *rv, AuthorName: "someone"})
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) ListRatingsByClips(_ context.Context, clipIDs []uuid.UUID) (map[uuid.UUID][]model.Review, error) {
	f.listRatingsCalls++
	out := make(map[uuid.UUID][]model.Review)
	for _, id := range clipIDs {
		for _, rv := range f.byUserClip {
			if rv.ClipID == id {
				out[id] = append(out[id], *rv)
			}
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) DeleteOrphaned(_ context.Context) (int64, error) { return 0, nil }

type fakeCommentRepo struct {
	commented map[string]bool
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{commented: make(map[string]bool)}
}

func (f *fakeCommentRepo) markCommented(userID, clipID uuid.UUID) {
	f.commented[key(userID, clipID)] = true
}

func (f *fakeCommentRepo) Create(_ context.Context, c *commentmodel.Comment) error {
	f.commented[key(c.UserID, c.ClipID)] = true
	return nil
}

func (f *fakeCommentRepo) ListByClip(_ context.Context, _ uuid.UUID) ([]commentmodel.CommentResponse, error) {
	return nil, nil
}

func (f *fakeCommentRepo) CountByUserAndClip(_ context.Context, userID, clipID uuid.UUID) (int, error) {
	if f.commented[key(userID, clipID)] {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeCommentRepo) CountByClips(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

func (f *fakeCommentRepo) DeleteOrphaned(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeCommentRepo) ExistsByUserAndClip(_ context.Context, userID, clipID uuid.UUID) (bool, error) {
	return f.commented[key(userID, clipID)], nil
}

type fakeCache struct {
	entries map[string]model.ClipRatingStats
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]model.ClipRatingStats)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	if v, ok := f.entries[key]; ok {
		*(dest.(*model.ClipRatingStats)) = v
		return nil
	}
	return assert.AnError
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.entries[key] = value.(model.ClipRatingStats)
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeCache) DeletePattern(_ context.Context, _ string) error { return nil }

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.entries[key]
	return ok, nil
}

func (f *fakeCache) Increment(_ context.Context, _ string) (int64, error) { return 0, nil }

func (f *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) error { return nil }

func (f *fakeCache) TTL(_ context.Context, _ string) (time.Duration, error) { return 0, nil }

func (f *fakeCache) Ping(_ context.Context) error { return nil }

func (f *fakeCache) Close() error { return nil }

// ---------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------

func validRequest() model.SubmitReviewRequest {
	return model.SubmitReviewRequest{
		TechniqueRating:  4,
		CreativityRating: 5,
		ToneRating:       3,
		OverallRating:    4,
	}
}

func assertReviewCode(t *testing.T, err error, code string) {
	t.Helper()
	var reviewErr *model.ReviewError
	require.ErrorAs(t, err, &reviewErr)
	assert.Equal(t, code, reviewErr.Code)
}

func TestSubmitRejectedWithoutComment(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), newFakeCommentRepo(), newFakeCache())

	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New(), validRequest())
	assertReviewCode(t, err, model.CodeGateNotSatisfied)
}

func TestSubmitGateCheckedBeforeRatings(t *testing.T) {
	// Invalid ratings from a user who never commented still get the
	// gate error, not a validation error.
	svc := NewReviewService(newFakeReviewRepo(), newFakeCommentRepo(), newFakeCache())

	req := model.SubmitReviewRequest{
		TechniqueRating:  0,
		CreativityRating: 99,
		ToneRating:       -3,
		OverallRating:    7,
	}
	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New(), req)
	assertReviewCode(t, err, model.CodeGateNotSatisfied)
}

func TestSubmitInvalidRatingsAfterCommenting(t *testing.T) {
	comments := newFakeCommentRepo()
	svc := NewReviewService(newFakeReviewRepo(), comments, newFakeCache())

	userID, clipID := uuid.New(), uuid.New()
	comments.markCommented(userID, clipID)

	req := validRequest()
	req.OverallRating = 6
	_, err := svc.Submit(context.Background(), userID, clipID, req)
	assertReviewCode(t, err, model.CodeValidation)

	req = validRequest()
	req.ToneRating = 0
	_, err = svc.Submit(context.Background(), userID, clipID, req)
	assertReviewCode(t, err, model.CodeValidation)
}

func TestSubmitCreatesThenUpdates(t *testing.T) {
	repo := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	svc := NewReviewService(repo, comments, newFakeCache())

	userID, clipID := uuid.New(), uuid.New()
	comments.markCommented(userID, clipID)

	first, err := svc.Submit(context.Background(), userID, clipID, validRequest())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	// Resubmitting replaces the ratings and keeps a single review.
	req := validRequest()
	req.OverallRating = 1
	second, err := svc.Submit(context.Background(), userID, clipID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, second.OverallRating)
	assert.Len(t, repo.byUserClip, 1)

	stored, err := svc.GetMine(context.Background(), userID, clipID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.OverallRating)
}

func TestSubmitConcurrentCreateFallsBackToUpdate(t *testing.T) {
	repo := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	svc := NewReviewService(repo, comments, newFakeCache())

	userID, clipID := uuid.New(), uuid.New()
	comments.markCommented(userID, clipID)

	// Seed a review as if a concurrent request won the insert race.
	// The lookup misses, the insert hits the unique index, and the
	// submission falls back to an update.
	seeded := &model.Review{
		ID: uuid.New(), ClipID: clipID, UserID: userID,
		TechniqueRating: 2, CreativityRating: 2, ToneRating: 2, OverallRating: 2,
	}
	repo.byUserClip[key(userID, clipID)] = seeded
	repo.hideFromGet = true

	req := validRequest()
	req.OverallRating = 5
	result, err := svc.Submit(context.Background(), userID, clipID, req)
	require.NoError(t, err)

	assert.Equal(t, seeded.ID, result.ID)
	assert.Equal(t, 5, result.OverallRating)
	assert.Len(t, repo.byUserClip, 1)
}

func TestSubmitStoresTrimmedNilText(t *testing.T) {
	repo := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	svc := NewReviewService(repo, comments, newFakeCache())

	userID, clipID := uuid.New(), uuid.New()
	comments.markCommented(userID, clipID)

	empty := ""
	req := validRequest()
	req.ReviewText = &empty

	result, err := svc.Submit(context.Background(), userID, clipID, req)
	require.NoError(t, err)
	assert.Nil(t, result.ReviewText)
}

func TestListByClipIncludesSummary(t *testing.T) {
	repo := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	svc := NewReviewService(repo, comments, newFakeCache())

	clipID := uuid.New()
	for _, overall := range []int{5, 3} {
		userID := uuid.New()
		comments.markCommented(userID, clipID)
		req := validRequest()
		req.OverallRating = overall
		_, err := svc.Submit(context.Background(), userID, clipID, req)
		require.NoError(t, err)
	}

	result, err := svc.ListByClip(context.Background(), clipID)
	require.NoError(t, err)

	assert.Len(t, result.Reviews, 2)
	assert.Equal(t, 2, result.Summary.ReviewCount)
	assert.InDelta(t, 4.0, result.Summary.OverallAverage, 1e-9)
}

func TestStatsForClipsCachedAfterFirstLoad(t *testing.T) {
	repo := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	svc := NewReviewService(repo, comments, newFakeCache())

	userID, clipID := uuid.New(), uuid.New()
	comments.markCommented(userID, clipID)
	_, err := svc.Submit(context.Background(), userID, clipID, validRequest())
	require.NoError(t, err)

	first, err := svc.StatsForClips(context.Background(), []uuid.UUID{clipID})
	require.NoError(t, err)
	require.Equal(t, 1, repo.listRatingsCalls)

	// The second page load for the same clip never reaches the
	// repository.
	second, err := svc.StatsForClips(context.Background(), []uuid.UUID{clipID})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listRatingsCalls)
	assert.Equal(t, first[clipID], second[clipID])
}

func TestSubmitInvalidatesCachedStats(t *testing.T) {
	repo := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	svc := NewReviewService(repo, comments, newFakeCache())

	userID, clipID := uuid.New(), uuid.New()
	comments.markCommented(userID, clipID)
	_, err := svc.Submit(context.Background(), userID, clipID, validRequest())
	require.NoError(t, err)

	stats, err := svc.StatsForClips(context.Background(), []uuid.UUID{clipID})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stats[clipID].OverallAverage, 1e-9)

	// Resubmitting with different ratings must not leave stale
	// averages behind.
	req := validRequest()
	req.OverallRating = 1
	_, err = svc.Submit(context.Background(), userID, clipID, req)
	require.NoError(t, err)

	stats, err = svc.StatsForClips(context.Background(), []uuid.UUID{clipID})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, stats[clipID].OverallAverage, 1e-9)
	assert.Equal(t, 2, repo.listRatingsCalls)
}

func TestEngagementForProgression(t *testing.T) {
	repo := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	svc := NewReviewService(repo, comments, newFakeCache())

	userID, clipID := uuid.New(), uuid.New()

	state, err := svc.EngagementFor(context.Background(), userID, clipID)
	require.NoError(t, err)
	assert.Equal(t, StateNoComment, state)

	comments.markCommented(userID, clipID)
	state, err = svc.EngagementFor(context.Background(), userID, clipID)
	require.NoError(t, err)
	assert.Equal(t, StateCommented, state)

	_, err = svc.Submit(context.Background(), userID, clipID, validRequest())
	require.NoError(t, err)
	state, err = svc.EngagementFor(context.Background(), userID, clipID)
	require.NoError(t, err)
	assert.Equal(t, StateReviewed, state)
}

func TestStatsForClipsEmptyClip(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), newFakeCommentRepo(), newFakeCache())

	clipID := uuid.New()
	stats, err := svc.StatsForClips(context.Background(), []uuid.UUID{clipID})
	require.NoError(t, err)

	assert.Equal(t, model.ClipRatingStats{}, stats[clipID])
}
