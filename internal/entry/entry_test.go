package entry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestEntry(t *testing.T) Entry {
	t.Helper()
	return New(uuid.New(), testNow, "buy milk please", "Buy milk", CategoryTodo, "buy milk", SourceVoice)
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEntry(t)

	assert.Equal(t, StatusActive, e.Status)
	assert.Equal(t, testNow, e.CreatedAt)
	assert.Equal(t, testNow, e.UpdatedAt)
	assert.Nil(t, e.CompletedAt)
	assert.Nil(t, e.SnoozeUntil)
	assert.Nil(t, e.Priority)
}

func TestEntry_SnoozeDefaultsToOneHour(t *testing.T) {
	e := newTestEntry(t)
	now := time.Now().UTC()

	e.Snooze(now, nil)

	require.NotNil(t, e.SnoozeUntil)
	assert.Equal(t, StatusSnoozed, e.Status)
	delta := e.SnoozeUntil.Sub(time.Now().UTC())
	assert.Greater(t, delta, 59*time.Minute)
	assert.Less(t, delta, 61*time.Minute)
}

func TestEntry_SnoozeExplicitTarget(t *testing.T) {
	e := newTestEntry(t)
	until := testNow.Add(24 * time.Hour)

	e.Snooze(testNow, &until)

	require.NotNil(t, e.SnoozeUntil)
	assert.Equal(t, until, *e.SnoozeUntil)
	assert.Equal(t, testNow, e.UpdatedAt)
}

func TestEntry_CompleteStampsCompletedAt(t *testing.T) {
	e := newTestEntry(t)
	later := testNow.Add(time.Minute)

	e.Complete(later)

	assert.Equal(t, StatusCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, later, *e.CompletedAt)
	assert.Equal(t, later, e.UpdatedAt)
}

func TestEntry_UnarchiveKeepsCompletedAt(t *testing.T) {
	e := newTestEntry(t)
	e.Complete(testNow)
	e.Archive(testNow.Add(time.Minute))
	e.Unarchive(testNow.Add(2 * time.Minute))

	assert.Equal(t, StatusActive, e.Status)
	assert.NotNil(t, e.CompletedAt, "completed_at is never cleared")
}

func TestEntry_ShortID(t *testing.T) {
	id := uuid.MustParse("6F1A2B3C-0000-4000-8000-000000000001")
	e := Entry{ID: id}

	assert.Equal(t, "6f1a2b", e.ShortID())
	assert.Len(t, e.ShortID(), ShortIDLength)
}

func TestEntry_CloneDoesNotAlias(t *testing.T) {
	e := newTestEntry(t)
	p := 2
	e.Priority = &p

	c := e.Clone()
	*c.Priority = 5

	assert.Equal(t, 2, *e.Priority)
	assert.Equal(t, 5, *c.Priority)
}

func TestCloneAll_NilYieldsEmpty(t *testing.T) {
	out := CloneAll(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"todo", CategoryTodo, false},
		{"  Habit ", CategoryHabit, false},
		{"THOUGHT", CategoryThought, false},
		{"chore", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLenientParsingDefaults(t *testing.T) {
	assert.Equal(t, CategoryNote, CategoryOrDefault("bogus"))
	assert.Equal(t, SourceText, SourceOrDefault("bogus"))
	assert.Equal(t, SourceVoice, SourceOrDefault("voice"))
	assert.Equal(t, StatusActive, StatusOrDefault(""))
	assert.Equal(t, StatusSnoozed, StatusOrDefault("snoozed"))

	_, err := ParseCadence("hourly")
	assert.Error(t, err)
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "Question", CategoryQuestion.DisplayName())
	assert.Equal(t, "Weekdays", CadenceWeekdays.DisplayName())
	assert.Equal(t, "Snoozed", StatusSnoozed.DisplayName())
}
