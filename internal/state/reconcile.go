package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/entry"
)

// Translate converts a reasoning result into an entry intent.
//
// Creates carry the triggering transcript and source forward. Updates,
// completions and archives are addressed through ResolveRef, so an
// unresolvable reference yields uuid.Nil and the reducer treats the intent
// as a no-op instead of failing the batch.
func Translate(r action.Result, transcript string, source entry.Source, entries []entry.Entry) action.Action {
	switch r := r.(type) {
	case action.CreateResult:
		return action.Create{Data: action.CreateData{
			Transcript:         transcript,
			Content:            r.Content,
			Category:           r.Category,
			SourceText:         r.SourceText,
			Summary:            r.Summary,
			Priority:           r.Priority,
			DueDateDescription: r.DueDateDescription,
			Cadence:            r.Cadence,
			Source:             source,
		}}

	case action.UpdateResult:
		return action.Update{
			ID:     ResolveRef(r.ID, entries),
			Fields: updateFields(r.Fields),
		}

	case action.CompleteResult:
		return action.Complete{ID: ResolveRef(r.ID, entries)}

	case action.ArchiveResult:
		return action.Archive{ID: ResolveRef(r.ID, entries)}
	}

	// Unknown result kinds become an update of nothing.
	return action.Update{ID: uuid.Nil}
}

// ResolveRef maps an entry reference to a canonical id.
//
// A full UUID is taken as is. Anything else is resolved as a short id
// against entries and must match exactly one. Otherwise uuid.Nil is
// returned.
func ResolveRef(ref string, entries []entry.Entry) uuid.UUID {
	if id, err := uuid.Parse(ref); err == nil {
		return id
	}
	if e, ok := entry.Find(entries, ref); ok {
		return e.ID
	}
	return uuid.Nil
}

func updateFields(f action.ResultFields) action.UpdateFields {
	out := action.UpdateFields{
		Content:            f.Content,
		Summary:            f.Summary,
		Category:           f.Category,
		Priority:           f.Priority,
		DueDateDescription: f.DueDateDescription,
		Cadence:            f.Cadence,
		Status:             f.Status,
	}
	// The service writes snooze times as phrases; only absolute RFC 3339
	// values can be honoured, the rest fall back to the default snooze.
	if f.SnoozeUntil != nil {
		if t, err := time.Parse(time.RFC3339, *f.SnoozeUntil); err == nil {
			t = t.UTC()
			out.SnoozeUntil = &t
		}
	}
	return out
}
