package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roach88/murmur/internal/entry"
)

// unsetPriority orders entries without a priority after P5.
const unsetPriority = 6

// ContextEntry is the compact view of an entry sent to the reasoning
// service. ID is the short display id.
type ContextEntry struct {
	ID                 string
	Summary            string
	Category           entry.Category
	Priority           *int
	DueDateDescription *string
	Cadence            *entry.Cadence
	Status             entry.Status
	CreatedAt          time.Time
}

// FromEntry builds the context view of e.
func FromEntry(e entry.Entry) ContextEntry {
	c := e.Clone()
	return ContextEntry{
		ID:                 c.ShortID(),
		Summary:            c.Summary,
		Category:           c.Category,
		Priority:           c.Priority,
		DueDateDescription: c.DueDateDescription,
		Cadence:            c.Cadence,
		Status:             c.Status,
		CreatedAt:          c.CreatedAt,
	}
}

// FromEntries builds context views for every entry, preserving order.
func FromEntries(entries []entry.Entry) []ContextEntry {
	out := make([]ContextEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e))
	}
	return out
}

// FormatUserContent renders the user message for one transcript.
//
// With no entries the transcript is sent alone. Otherwise the current
// entries are listed one per line, most urgent first, followed by the
// transcript under its own heading. The input slice is not reordered.
func FormatUserContent(transcript string, entries []ContextEntry) string {
	if len(entries) == 0 {
		return transcript
	}

	sorted := make([]ContextEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := priorityRank(sorted[i]), priorityRank(sorted[j])
		if pi != pj {
			return pi < pj
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	lines := make([]string, 0, len(sorted)+5)
	lines = append(lines, "## Current Entries", "")
	for _, e := range sorted {
		lines = append(lines, formatContextLine(e))
	}
	lines = append(lines, "", "## User Transcript", transcript)

	return strings.Join(lines, "\n")
}

func priorityRank(e ContextEntry) int {
	if e.Priority == nil {
		return unsetPriority
	}
	return *e.Priority
}

// formatContextLine renders:
//
//	- [id] CATEGORY P2 "summary" due:tomorrow cadence:daily status:snoozed
func formatContextLine(e ContextEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- [%s] %s", e.ID, strings.ToUpper(string(e.Category)))

	if e.Priority != nil {
		fmt.Fprintf(&b, " P%d", *e.Priority)
	}

	summary, ok := cleanLine(e.Summary)
	if !ok {
		summary = "(no summary)"
	}
	b.WriteString(` "` + summary + `"`)

	if e.DueDateDescription != nil {
		if due, ok := cleanLine(*e.DueDateDescription); ok {
			b.WriteString(" due:" + due)
		}
	}
	if e.Cadence != nil {
		b.WriteString(" cadence:" + string(*e.Cadence))
	}
	if e.Status != entry.StatusActive {
		b.WriteString(" status:" + string(e.Status))
	}

	return b.String()
}

// cleanLine flattens tabs and newlines to spaces and trims. It reports false
// when nothing is left.
func cleanLine(s string) (string, bool) {
	s = strings.NewReplacer("\n", " ", "\t", " ").Replace(s)
	s = strings.TrimSpace(s)
	return s, s != ""
}
