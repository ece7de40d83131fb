package state

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/testutil"
)

func newTestReducer() Reducer {
	clock := testutil.NewDeterministicClock(time.Time{}, time.Second)
	ids := testutil.NewSequentialIDs()
	return Reducer{Now: clock.Now, NewID: ids.Next}
}

func ptr[T any](v T) *T { return &v }

func createAction(content string, category entry.Category) action.Create {
	return action.Create{Data: action.CreateData{
		Transcript: "said: " + content,
		Content:    content,
		Category:   category,
		SourceText: content,
		Summary:    content,
		Source:     entry.SourceVoice,
	}}
}

func TestApply_CreateAppendsActiveEntry(t *testing.T) {
	r := newTestReducer()
	s := New(nil)

	r.Apply(&s, action.Create{Data: action.CreateData{
		Transcript:         "call the dentist tomorrow, high priority",
		Content:            "Call the dentist",
		Category:           entry.CategoryReminder,
		SourceText:         "call the dentist",
		Summary:            "Dentist call",
		Priority:           ptr(1),
		DueDateDescription: ptr("tomorrow"),
		Cadence:            ptr(entry.CadenceWeekly),
		Source:             entry.SourceText,
		AudioDuration:      ptr(3.5),
	}})

	require.Len(t, s.Entries, 1)
	e := s.Entries[0]
	assert.Equal(t, uint64(1), s.Rev)
	assert.Equal(t, testutil.IDFor(1), e.ID)
	assert.Equal(t, entry.StatusActive, e.Status)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
	assert.Equal(t, "Dentist call", e.Summary)
	assert.Equal(t, 1, *e.Priority)
	assert.Equal(t, "tomorrow", *e.DueDateDescription)
	assert.Equal(t, entry.CadenceWeekly, *e.Cadence)
	assert.Equal(t, entry.SourceText, e.Source)
	assert.Equal(t, 3.5, *e.AudioDuration)
}

func TestApply_UpdatePatchesOnlyPresentFields(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("Buy milk", entry.CategoryTodo))
	before := s.Entries[0]

	r.Apply(&s, action.Update{ID: before.ID, Fields: action.UpdateFields{
		Summary:  ptr("Milk and eggs"),
		Priority: ptr(0),
	}})

	after := s.Entries[0]
	assert.Equal(t, uint64(2), s.Rev)
	assert.Equal(t, "Buy milk", after.Content, "absent field is untouched")
	assert.Equal(t, "Milk and eggs", after.Summary)
	require.NotNil(t, after.Priority)
	assert.Equal(t, 0, *after.Priority, "zero is a real value")
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestApply_UpdateEmptyPatchStillRefreshes(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("Buy milk", entry.CategoryTodo))
	before := s.Entries[0].UpdatedAt

	r.Apply(&s, action.Update{ID: s.Entries[0].ID})

	assert.Equal(t, uint64(2), s.Rev)
	assert.True(t, s.Entries[0].UpdatedAt.After(before))
}

func TestApply_UpdateStatusDrivesTransition(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("Stretch", entry.CategoryHabit))
	id := s.Entries[0].ID

	r.Apply(&s, action.Update{ID: id, Fields: action.UpdateFields{Status: ptr(entry.StatusCompleted)}})

	assert.Equal(t, uint64(2), s.Rev, "one bump per update")
	assert.Equal(t, entry.StatusCompleted, s.Entries[0].Status)
	assert.NotNil(t, s.Entries[0].CompletedAt)
}

func TestApply_UnknownIDIsNoOp(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("Buy milk", entry.CategoryTodo))
	snapshot := s.Clone()
	missing := uuid.New()

	for _, a := range []action.Action{
		action.Update{ID: missing, Fields: action.UpdateFields{Content: ptr("x")}},
		action.Complete{ID: missing},
		action.Archive{ID: missing},
		action.Unarchive{ID: missing},
		action.Snooze{ID: missing},
		action.Delete{ID: missing},
	} {
		r.Apply(&s, a)
	}

	assert.Equal(t, snapshot, s)
}

func TestApply_LifecycleTransitions(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("Water plants", entry.CategoryTodo))
	id := s.Entries[0].ID

	r.Apply(&s, action.Complete{ID: id})
	assert.Equal(t, entry.StatusCompleted, s.Entries[0].Status)
	require.NotNil(t, s.Entries[0].CompletedAt)
	completedAt := *s.Entries[0].CompletedAt

	r.Apply(&s, action.Archive{ID: id})
	assert.Equal(t, entry.StatusArchived, s.Entries[0].Status)

	r.Apply(&s, action.Unarchive{ID: id})
	assert.Equal(t, entry.StatusActive, s.Entries[0].Status)
	require.NotNil(t, s.Entries[0].CompletedAt, "completed_at is never cleared")
	assert.Equal(t, completedAt, *s.Entries[0].CompletedAt)

	assert.Equal(t, uint64(4), s.Rev)
}

func TestApply_SnoozeDefaultsToOneHour(t *testing.T) {
	r := NewReducer()
	s := New(nil)
	r.Apply(&s, createAction("Reply to Sam", entry.CategoryTodo))

	r.Apply(&s, action.Snooze{ID: s.Entries[0].ID})

	e := s.Entries[0]
	assert.Equal(t, entry.StatusSnoozed, e.Status)
	require.NotNil(t, e.SnoozeUntil)
	delta := e.SnoozeUntil.Sub(time.Now().UTC())
	assert.Greater(t, delta, 59*time.Minute)
	assert.Less(t, delta, 61*time.Minute)
}

func TestApply_SnoozeExplicitUntil(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("Reply to Sam", entry.CategoryTodo))
	until := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	r.Apply(&s, action.Snooze{ID: s.Entries[0].ID, Until: &until})

	require.NotNil(t, s.Entries[0].SnoozeUntil)
	assert.Equal(t, until, *s.Entries[0].SnoozeUntil)
}

func TestApply_DeleteRemovesEntry(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("one", entry.CategoryNote))
	r.Apply(&s, createAction("two", entry.CategoryNote))

	r.Apply(&s, action.Delete{ID: s.Entries[0].ID})

	require.Len(t, s.Entries, 1)
	assert.Equal(t, "two", s.Entries[0].Content)
	assert.Equal(t, uint64(3), s.Rev)
}

func TestApply_DeleteUnknownLeavesRevAndEntries(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("one", entry.CategoryNote))

	r.Apply(&s, action.Delete{ID: uuid.New()})

	assert.Equal(t, uint64(1), s.Rev)
	assert.Len(t, s.Entries, 1)
}

func TestApply_SubmitTranscriptSetsProcessing(t *testing.T) {
	r := newTestReducer()
	s := New(nil)

	r.Apply(&s, action.SubmitTranscript{Transcript: "buy milk", Source: entry.SourceText})

	assert.True(t, s.Processing)
	require.NotNil(t, s.CurrentTranscript)
	assert.Equal(t, "buy milk", *s.CurrentTranscript)
	assert.Equal(t, entry.SourceText, s.CurrentSource)
	assert.Equal(t, uint64(1), s.Rev)
}

func TestApply_SubmitThenApplyBatchScenario(t *testing.T) {
	r := newTestReducer()
	s := New(nil)

	r.Apply(&s, action.SubmitTranscript{Transcript: "buy milk and walk the dog", Source: entry.SourceVoice})
	revBefore := s.Rev

	r.Apply(&s, action.ApplyBatch{Results: []action.Result{
		action.CreateResult{
			Content:    "Buy milk",
			Category:   entry.CategoryTodo,
			SourceText: "buy milk",
			Summary:    "Buy milk",
		},
	}})

	require.Len(t, s.Entries, 1)
	assert.False(t, s.Processing)
	assert.Nil(t, s.CurrentTranscript)
	assert.Equal(t, revBefore+2, s.Rev)

	e := s.Entries[0]
	assert.Equal(t, "buy milk and walk the dog", e.Transcript)
	assert.Equal(t, entry.SourceVoice, e.Source)
	assert.Nil(t, e.Priority)
}

func TestApply_ApplyBatchPreservesOrder(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, action.SubmitTranscript{Transcript: "add stretch then it's done"})

	// The second result refers to the entry the first one creates.
	r.Apply(&s, action.ApplyBatch{Results: []action.Result{
		action.CreateResult{Content: "Stretch", Category: entry.CategoryHabit, Summary: "Stretch"},
		action.CompleteResult{ID: testutil.IDFor(1).String()[:6], Reason: "done"},
	}})

	require.Len(t, s.Entries, 1)
	assert.Equal(t, entry.StatusCompleted, s.Entries[0].Status)
	assert.Equal(t, uint64(4), s.Rev)
}

func TestApply_ApplyBatchUnresolvableReferencesAreAbsorbed(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("Buy milk", entry.CategoryTodo))
	r.Apply(&s, action.SubmitTranscript{Transcript: "finish the thing"})
	revBefore := s.Rev

	r.Apply(&s, action.ApplyBatch{Results: []action.Result{
		action.CompleteResult{ID: "zzzzzz", Reason: "no such entry"},
		action.ArchiveResult{ID: "", Reason: "blank"},
	}})

	assert.Equal(t, revBefore+1, s.Rev, "only the terminal bump")
	assert.Equal(t, entry.StatusActive, s.Entries[0].Status)
	assert.False(t, s.Processing)
}

func TestApply_EmptyBatchStillBumps(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, action.SubmitTranscript{Transcript: "nothing to do"})

	r.Apply(&s, action.ApplyBatch{})

	assert.Equal(t, uint64(2), s.Rev)
	assert.False(t, s.Processing)
}

func TestApply_ReportFailureSetsToast(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, action.SubmitTranscript{Transcript: "buy milk"})

	r.Apply(&s, action.ReportFailure{Message: "Reasoning failed: timeout"})

	require.NotNil(t, s.Toast)
	assert.Equal(t, "Reasoning failed: timeout", *s.Toast)
	assert.False(t, s.Processing)
	assert.Equal(t, uint64(2), s.Rev)
}

func TestApply_DismissToastAlwaysBumps(t *testing.T) {
	r := newTestReducer()
	s := New(nil)

	r.Apply(&s, action.DismissToast{})
	assert.Nil(t, s.Toast)
	assert.Equal(t, uint64(1), s.Rev)

	r.Apply(&s, action.ReportFailure{Message: "oops"})
	r.Apply(&s, action.DismissToast{})
	assert.Nil(t, s.Toast)
	assert.Equal(t, uint64(3), s.Rev)
}

func TestApply_RevCountsEffectiveMutations(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	missing := uuid.New()

	// 2 creates, 2 no-ops, 1 submit, a batch of one create plus its
	// terminal bump, 1 dismiss.
	intents := []action.Action{
		createAction("a", entry.CategoryTodo),
		createAction("b", entry.CategoryNote),
		action.Delete{ID: missing},
		action.Complete{ID: missing},
		action.SubmitTranscript{Transcript: "x"},
		action.ApplyBatch{Results: []action.Result{action.CreateResult{Content: "c"}}},
		action.DismissToast{},
	}
	for _, a := range intents {
		r.Apply(&s, a)
	}

	assert.Equal(t, uint64(6), s.Rev)
	assert.Len(t, s.Entries, 3)
}

func TestAppState_CloneIsDeep(t *testing.T) {
	r := newTestReducer()
	s := New(nil)
	r.Apply(&s, createAction("a", entry.CategoryTodo))
	r.Apply(&s, action.ReportFailure{Message: "boom"})

	c := s.Clone()
	c.Entries[0].Content = "changed"
	*c.Toast = "changed"

	assert.Equal(t, "a", s.Entries[0].Content)
	assert.Equal(t, "boom", *s.Toast)
}
