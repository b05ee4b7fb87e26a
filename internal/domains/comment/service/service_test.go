package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffs-backend/internal/domains/comment/model"
)

type fakeCommentRepo struct {
	comments []model.Comment
}

func (f *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	f.comments = append(f.comments, *c)
	return nil
}

func (f *fakeCommentRepo) ListByClip(_ context.Context, clipID uuid.UUID) ([]model.CommentResponse, error) {
	out := make([]model.CommentResponse, 0)
	for _, c := range f.comments {
		if c.ClipID == clipID {
			out = append(out, model.CommentResponse{Comment: c, AuthorName: "someone"})
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) CountByUserAndClip(_ context.Context, userID, clipID uuid.UUID) (int, error) {
	count := 0
	for _, c := range f.comments {
		if c.UserID == userID && c.ClipID == clipID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommentRepo) CountByClips(_ context.Context, clipIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(clipIDs))
	for _, id := range clipIDs {
		for _, c := range f.comments {
			if c.ClipID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (f *fakeCommentRepo) DeleteOrphaned(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeCommentRepo) ExistsByUserAndClip(ctx context.Context, userID, clipID uuid.UUID) (bool, error) {
	count, _ := f.CountByUserAndClip(ctx, userID, clipID)
	return count > 0, nil
}

func assertCommentCode(t *testing.T, err error, code string) {
	t.Helper()
	var commentErr *model.CommentError
	require.ErrorAs(t, err, &commentErr)
	assert.Equal(t, code, commentErr.Code)
}

func TestCreateTrimsBeforeLengthCheck(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := NewCommentService(repo)
	userID, clipID := uuid.New(), uuid.New()

	// Three characters after trimming: rejected.
	_, err := svc.Create(context.Background(), userID, clipID, model.CreateCommentRequest{Content: "  abc  "})
	assertCommentCode(t, err, model.CodeValidation)

	// Four characters after trimming: accepted, stored trimmed.
	comment, err := svc.Create(context.Background(), userID, clipID, model.CreateCommentRequest{Content: "  abcd  "})
	require.NoError(t, err)
	assert.Equal(t, "abcd", comment.Content)
}

func TestCreateRejectsWhitespaceOnly(t *testing.T) {
	svc := NewCommentService(&fakeCommentRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), model.CreateCommentRequest{Content: "   \t\n  "})
	assertCommentCode(t, err, model.CodeValidation)
}

func TestCreateCountsRunesNotBytes(t *testing.T) {
	svc := NewCommentService(&fakeCommentRepo{})

	// Four multibyte characters pass the minimum length.
	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), model.CreateCommentRequest{Content: "声音很棒"})
	require.NoError(t, err)
}

func TestCreateEnforcesQuota(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := NewCommentService(repo)
	userID, clipID := uuid.New(), uuid.New()

	for i := 0; i < model.MaxCommentsPerClip-1; i++ {
		_, err := svc.Create(context.Background(), userID, clipID, model.CreateCommentRequest{Content: "great riff"})
		require.NoError(t, err)
	}

	// The tenth comment still fits.
	_, err := svc.Create(context.Background(), userID, clipID, model.CreateCommentRequest{Content: "tenth one"})
	require.NoError(t, err)

	// The eleventh does not.
	_, err = svc.Create(context.Background(), userID, clipID, model.CreateCommentRequest{Content: "one too many"})
	assertCommentCode(t, err, model.CodeQuotaExceeded)
}

func TestQuotaIsPerClip(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := NewCommentService(repo)
	userID := uuid.New()
	clipA, clipB := uuid.New(), uuid.New()

	for i := 0; i < model.MaxCommentsPerClip; i++ {
		_, err := svc.Create(context.Background(), userID, clipA, model.CreateCommentRequest{Content: "great riff"})
		require.NoError(t, err)
	}

	// A different clip starts with a fresh allowance.
	_, err := svc.Create(context.Background(), userID, clipB, model.CreateCommentRequest{Content: "fresh clip"})
	require.NoError(t, err)
}

func TestCreateRejectsOverlongContent(t *testing.T) {
	svc := NewCommentService(&fakeCommentRepo{})

	long := make([]byte, model.MaxContentLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), model.CreateCommentRequest{Content: string(long)})
	assertCommentCode(t, err, model.CodeValidation)
}
