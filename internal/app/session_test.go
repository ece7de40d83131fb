package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/state"
	"github.com/roach88/murmur/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestSession(t *testing.T, path string) *Session {
	t.Helper()
	clock := testutil.NewDeterministicClock(testutil.DefaultEpoch, 0)
	ids := testutil.NewSequentialIDs()
	s, err := Open(context.Background(), path,
		WithReducer(state.Reducer{Now: clock.Now, NewID: ids.Next}),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	return s
}

func TestSession_ApplyPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "murmur.db")

	s := openTestSession(t, path)
	snap, err := s.Apply(ctx, action.Create{Data: action.CreateData{
		Transcript: "buy milk",
		Content:    "Buy milk",
		Category:   entry.CategoryTodo,
		SourceText: "buy milk",
		Source:     entry.SourceText,
	}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Rev)
	require.Len(t, snap.Entries, 1)
	require.NoError(t, s.Close())

	// A second session sees the stored entry as its seed.
	s2, err := Open(ctx, path, WithLogger(quietLogger()))
	require.NoError(t, err)
	defer s2.Close()

	seeded := s2.Engine.Snapshot()
	require.Len(t, seeded.Entries, 1)
	assert.Equal(t, "Buy milk", seeded.Entries[0].Content)
	assert.Equal(t, testutil.IDFor(1), seeded.Entries[0].ID)
	assert.Equal(t, uint64(0), seeded.Rev)
}

func TestSession_ApplySkipsStaleNotifications(t *testing.T) {
	s := openTestSession(t, filepath.Join(t.TempDir(), "murmur.db"))
	defer s.Close()

	for _, content := range []string{"one", "two"} {
		require.True(t, s.Engine.Dispatch(action.Create{Data: action.CreateData{
			Transcript: content, Content: content, Category: entry.CategoryNote, SourceText: content,
		}}))
	}
	// Both notifications are queued once rev 2 is visible.
	require.Eventually(t, func() bool { return s.Engine.Snapshot().Rev == 2 }, 2*time.Second, 5*time.Millisecond)

	snap, err := s.Apply(context.Background(), action.DismissToast{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), snap.Rev)
	assert.Len(t, snap.Entries, 2)

	_, pending := s.Engine.TryNextNotification()
	assert.False(t, pending, "notification left behind after Apply")
}

func TestSession_ApplyAfterClose(t *testing.T) {
	s := openTestSession(t, filepath.Join(t.TempDir(), "murmur.db"))
	require.NoError(t, s.Close())

	_, err := s.Apply(context.Background(), action.DismissToast{})
	assert.Error(t, err)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "murmur.db"),
		WithLogger(quietLogger()))
	assert.Error(t, err)
}
