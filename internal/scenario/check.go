package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/entry"
)

// check compares the final state with exp and returns one message per
// mismatch.
func check(exp Expect, out Outcome) []string {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if exp.Rev != nil && *exp.Rev != out.Rev {
		fail("rev: expected %d, got %d", *exp.Rev, out.Rev)
	}
	if exp.Processing != nil && *exp.Processing != out.Processing {
		fail("processing: expected %t, got %t", *exp.Processing, out.Processing)
	}
	if exp.Toast != nil {
		got := ""
		if out.Toast != nil {
			got = *out.Toast
		}
		if got != *exp.Toast {
			fail("toast: expected %q, got %q", *exp.Toast, got)
		}
	}
	if exp.Count != nil && *exp.Count != len(out.Entries) {
		fail("count: expected %d entries, got %d", *exp.Count, len(out.Entries))
	}

	for _, n := range exp.Absent {
		if _, ok := byOrdinal(out.Entries, n); ok {
			fail("entry %d: expected absent, still present", n)
		}
	}

	for _, want := range exp.Entries {
		got, ok := byOrdinal(out.Entries, want.Entry)
		if !ok {
			fail("entry %d: not found", want.Entry)
			continue
		}
		for _, msg := range checkEntry(want, got) {
			fail("entry %d: %s", want.Entry, msg)
		}
	}

	return errs
}

func checkEntry(want ExpectEntry, got entry.Entry) []string {
	var errs []string
	str := func(field string, w *string, g string) {
		if w != nil && *w != g {
			errs = append(errs, fmt.Sprintf("%s: expected %q, got %q", field, *w, g))
		}
	}

	str("content", want.Content, got.Content)
	str("summary", want.Summary, got.Summary)
	str("transcript", want.Transcript, got.Transcript)
	if want.Category != nil {
		str("category", (*string)(want.Category), string(got.Category))
	}
	if want.Status != nil {
		str("status", (*string)(want.Status), string(got.Status))
	}
	if want.Source != nil {
		str("source", (*string)(want.Source), string(got.Source))
	}
	if want.Due != nil {
		str("due", want.Due, deref(got.DueDateDescription))
	}
	if want.Cadence != nil {
		var g string
		if got.Cadence != nil {
			g = string(*got.Cadence)
		}
		str("cadence", (*string)(want.Cadence), g)
	}
	if want.Priority != nil {
		switch {
		case got.Priority == nil:
			errs = append(errs, fmt.Sprintf("priority: expected %d, got none", *want.Priority))
		case *got.Priority != *want.Priority:
			errs = append(errs, fmt.Sprintf("priority: expected %d, got %d", *want.Priority, *got.Priority))
		}
	}
	if want.Completed != nil && *want.Completed != (got.CompletedAt != nil) {
		errs = append(errs, fmt.Sprintf("completed_at set: expected %t", *want.Completed))
	}
	if want.Snoozed != nil && *want.Snoozed != (got.SnoozeUntil != nil) {
		errs = append(errs, fmt.Sprintf("snooze_until set: expected %t", *want.Snoozed))
	}
	return errs
}

// compareStorage reports differences between the in-memory entries and the
// stored rows. Entries are compared by their JSON form so that equal
// instants with different internal representations match.
func compareStorage(mem, rows []entry.Entry) []string {
	var errs []string
	stored := make(map[uuid.UUID]entry.Entry, len(rows))
	for _, r := range rows {
		stored[r.ID] = r
	}

	for _, e := range mem {
		r, ok := stored[e.ID]
		if !ok {
			errs = append(errs, fmt.Sprintf("storage: entry %s missing", e.ShortID()))
			continue
		}
		delete(stored, e.ID)
		if !sameJSON(e, r) {
			errs = append(errs, fmt.Sprintf("storage: entry %s differs from memory", e.ShortID()))
		}
	}
	for id := range stored {
		errs = append(errs, fmt.Sprintf("storage: entry %s not in memory", entry.ShortID(id)))
	}
	return errs
}

func byOrdinal(entries []entry.Entry, n int) (entry.Entry, bool) {
	id := OrdinalID(n)
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return entry.Entry{}, false
}

func sameJSON(a, b entry.Entry) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
