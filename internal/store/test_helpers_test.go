package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/testutil"
)

var (
	bg       = context.Background()
	baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestEntry creates an active entry with minimal required fields.
// The short id is the zero-padded hex of n.
func newTestEntry(n uint32, created time.Time) entry.Entry {
	e := entry.New(testutil.IDFor(n), created, "transcript", "content", entry.CategoryTodo, "source", entry.SourceVoice)
	e.Summary = "summary"
	return e
}

func ptr[T any](v T) *T {
	return &v
}
