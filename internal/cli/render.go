package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/murmur/internal/entry"
)

// entryList is a list payload. Text output is one line per entry.
type entryList []entry.Entry

func (l entryList) String() string {
	if len(l) == 0 {
		return "No entries."
	}
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = entryLine(e)
	}
	return strings.Join(lines, "\n")
}

// entryDetail renders every populated field of one entry.
type entryDetail entry.Entry

func (d entryDetail) String() string {
	e := entry.Entry(d)
	var b strings.Builder
	field := func(name, value string) {
		fmt.Fprintf(&b, "%-12s %s\n", name+":", value)
	}

	field("id", e.ID.String())
	field("category", e.Category.DisplayName())
	field("status", e.Status.DisplayName())
	field("content", e.Content)
	if e.Summary != "" {
		field("summary", e.Summary)
	}
	if e.Priority != nil {
		field("priority", fmt.Sprintf("P%d", *e.Priority))
	}
	if e.DueDateDescription != nil {
		field("due", *e.DueDateDescription)
	}
	if e.Cadence != nil {
		field("cadence", e.Cadence.DisplayName())
	}
	if e.SnoozeUntil != nil {
		field("snoozed", formatStamp(*e.SnoozeUntil))
	}
	if e.CompletedAt != nil {
		field("completed", formatStamp(*e.CompletedAt))
	}
	if e.Notes != "" {
		field("notes", e.Notes)
	}
	field("source", string(e.Source))
	if e.SourceText != "" && e.SourceText != e.Content {
		field("source text", e.SourceText)
	}
	field("created", formatStamp(e.CreatedAt))
	field("updated", formatStamp(e.UpdatedAt))
	return strings.TrimRight(b.String(), "\n")
}

// entryLine renders e as a single list line:
//
//	[000001] TODO     P1 Buy milk  due:tomorrow
func entryLine(e entry.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-8s", e.ShortID(), strings.ToUpper(string(e.Category)))

	prio := "  "
	if e.Priority != nil {
		prio = fmt.Sprintf("P%d", *e.Priority)
	}
	fmt.Fprintf(&b, " %s %s", prio, title(e))

	if e.DueDateDescription != nil {
		fmt.Fprintf(&b, "  due:%s", *e.DueDateDescription)
	}
	if e.Cadence != nil {
		fmt.Fprintf(&b, "  cadence:%s", *e.Cadence)
	}
	if e.Status != entry.StatusActive {
		fmt.Fprintf(&b, "  (%s)", e.Status)
	}
	return b.String()
}

// title is the summary when there is one, the content otherwise.
func title(e entry.Entry) string {
	if s := strings.TrimSpace(e.Summary); s != "" {
		return s
	}
	return e.Content
}

func formatStamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
