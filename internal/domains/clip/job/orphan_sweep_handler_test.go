package job

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riffs-backend/internal/shared"
)

type fakeKeySource struct {
	keys map[string]struct{}
}

func (f *fakeKeySource) ListStorageKeys(_ context.Context) (map[string]struct{}, error) {
	return f.keys, nil
}

type fakeRowDeleter struct {
	calls   int
	deleted int64
}

func (f *fakeRowDeleter) DeleteOrphaned(_ context.Context) (int64, error) {
	f.calls++
	return f.deleted, nil
}

type fakeBlobStore struct {
	objects map[string]time.Time
	removed []string
}

func (f *fakeBlobStore) ListKeys(_ context.Context, _ string) (map[string]time.Time, error) {
	return f.objects, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.objects, key)
	return nil
}

func sweepTask() *asynq.Task {
	return asynq.NewTask(shared.TaskClipOrphanSweep, nil)
}

func TestSweepDeletesOrphanRowsAndStaleBlobs(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)

	clips := &fakeKeySource{keys: map[string]struct{}{
		"clips/a/live.mp3": {},
	}}
	comments := &fakeRowDeleter{deleted: 3}
	reviews := &fakeRowDeleter{deleted: 2}
	store := &fakeBlobStore{objects: map[string]time.Time{
		"clips/a/live.mp3":   old,
		"clips/b/orphan.wav": old,
	}}

	h := NewOrphanSweepHandler(clips, comments, reviews, store)
	require.NoError(t, h.ProcessTask(context.Background(), sweepTask()))

	// Dependent rows without a clip are swept on every run.
	assert.Equal(t, 1, comments.calls)
	assert.Equal(t, 1, reviews.calls)

	// Only the unreferenced blob goes.
	assert.Equal(t, []string{"clips/b/orphan.wav"}, store.removed)
	assert.Contains(t, store.objects, "clips/a/live.mp3")
}

func TestSweepSparesRecentBlobs(t *testing.T) {
	// An unreferenced blob younger than the cutoff may be an upload
	// whose row has not landed yet.
	store := &fakeBlobStore{objects: map[string]time.Time{
		"clips/c/inflight.mp3": time.Now().Add(-time.Hour),
	}}

	h := NewOrphanSweepHandler(
		&fakeKeySource{keys: map[string]struct{}{}},
		&fakeRowDeleter{}, &fakeRowDeleter{}, store,
	)
	require.NoError(t, h.ProcessTask(context.Background(), sweepTask()))

	assert.Empty(t, store.removed)
}
