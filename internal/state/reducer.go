package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/entry"
)

// Reducer applies intents to an AppState.
//
// Now and NewID are the only sources of outside input. NewReducer wires them
// to UTC wall time and random UUIDs; tests substitute deterministic ones.
type Reducer struct {
	Now   func() time.Time
	NewID func() uuid.UUID
}

// NewReducer returns a Reducer backed by the wall clock and random v4 ids.
//
// Ids must be random in their leading characters: the first six double as
// the short id.
func NewReducer() Reducer {
	return Reducer{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.New,
	}
}

// Apply mutates s according to a.
//
// Rev increments exactly once for every branch that changes entries or
// flags. Branches whose target id is not present leave s untouched,
// including Rev.
func (r Reducer) Apply(s *AppState, a action.Action) {
	switch a := a.(type) {
	case action.Create, action.Update, action.Complete, action.Archive,
		action.Unarchive, action.Snooze, action.Delete:
		r.applyEntry(s, a)

	case action.SubmitTranscript:
		transcript := a.Transcript
		s.CurrentTranscript = &transcript
		s.CurrentSource = a.Source
		s.Processing = true
		s.bumpRev()

	case action.ApplyBatch:
		var transcript string
		if s.CurrentTranscript != nil {
			transcript = *s.CurrentTranscript
		}
		source := s.CurrentSource

		// Each result is translated against the entries as they stand after
		// the previous one, so a batch may refer to entries it just created.
		for _, res := range a.Results {
			r.applyEntry(s, Translate(res, transcript, source, s.Entries))
		}

		s.Processing = false
		s.CurrentTranscript = nil
		s.bumpRev()

	case action.ReportFailure:
		msg := a.Message
		s.Toast = &msg
		s.Processing = false
		s.bumpRev()

	case action.DismissToast:
		s.Toast = nil
		s.bumpRev()
	}
}

func (r Reducer) applyEntry(s *AppState, a action.Action) {
	now := r.Now()

	switch a := a.(type) {
	case action.Create:
		d := a.Data
		e := entry.New(r.NewID(), now, d.Transcript, d.Content, d.Category, d.SourceText, d.Source)
		e.Summary = d.Summary
		e.Priority = clonePtr(d.Priority)
		e.DueDateDescription = clonePtr(d.DueDateDescription)
		e.Cadence = clonePtr(d.Cadence)
		e.AudioDuration = clonePtr(d.AudioDuration)
		s.Entries = append(s.Entries, e)
		s.bumpRev()

	case action.Update:
		i := s.Index(a.ID)
		if i < 0 {
			return
		}
		patch(&s.Entries[i], a.Fields, now)
		s.bumpRev()

	case action.Complete:
		if i := s.Index(a.ID); i >= 0 {
			s.Entries[i].Complete(now)
			s.bumpRev()
		}

	case action.Archive:
		if i := s.Index(a.ID); i >= 0 {
			s.Entries[i].Archive(now)
			s.bumpRev()
		}

	case action.Unarchive:
		if i := s.Index(a.ID); i >= 0 {
			s.Entries[i].Unarchive(now)
			s.bumpRev()
		}

	case action.Snooze:
		if i := s.Index(a.ID); i >= 0 {
			s.Entries[i].Snooze(now, clonePtr(a.Until))
			s.bumpRev()
		}

	case action.Delete:
		i := s.Index(a.ID)
		if i < 0 {
			return
		}
		s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
		s.bumpRev()
	}
}

// patch applies every present field of f to e and refreshes UpdatedAt.
func patch(e *entry.Entry, f action.UpdateFields, now time.Time) {
	if f.Content != nil {
		e.Content = *f.Content
	}
	if f.Summary != nil {
		e.Summary = *f.Summary
	}
	if f.Category != nil {
		e.Category = *f.Category
	}
	if f.Priority != nil {
		e.Priority = clonePtr(f.Priority)
	}
	if f.DueDateDescription != nil {
		e.DueDateDescription = clonePtr(f.DueDateDescription)
	}
	if f.Cadence != nil {
		e.Cadence = clonePtr(f.Cadence)
	}
	if f.Status != nil && *f.Status != e.Status {
		switch *f.Status {
		case entry.StatusCompleted:
			e.Complete(now)
		case entry.StatusArchived:
			e.Archive(now)
		case entry.StatusActive:
			e.Unarchive(now)
		case entry.StatusSnoozed:
			e.Snooze(now, clonePtr(f.SnoozeUntil))
		}
	}
	e.UpdatedAt = now
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
