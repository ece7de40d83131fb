package entry

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSnooze is how long an entry sleeps when no explicit wake time is given.
const DefaultSnooze = time.Hour

// ShortIDLength is the number of leading id characters shown to users and to
// the reasoning service.
const ShortIDLength = 6

// Category classifies what kind of thing an entry is.
type Category string

const (
	CategoryTodo     Category = "todo"
	CategoryNote     Category = "note"
	CategoryReminder Category = "reminder"
	CategoryIdea     Category = "idea"
	CategoryList     Category = "list"
	CategoryHabit    Category = "habit"
	CategoryQuestion Category = "question"
	CategoryThought  Category = "thought"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTodo, CategoryNote, CategoryReminder, CategoryIdea,
	CategoryList, CategoryHabit, CategoryQuestion, CategoryThought,
}

// DisplayName returns the human-readable category label.
func (c Category) DisplayName() string {
	switch c {
	case CategoryTodo:
		return "Todo"
	case CategoryNote:
		return "Note"
	case CategoryReminder:
		return "Reminder"
	case CategoryIdea:
		return "Idea"
	case CategoryList:
		return "List"
	case CategoryHabit:
		return "Habit"
	case CategoryQuestion:
		return "Question"
	case CategoryThought:
		return "Thought"
	default:
		return string(c)
	}
}

// ParseCategory parses a category name. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// CategoryOrDefault parses s, falling back to CategoryNote.
func CategoryOrDefault(s string) Category {
	c, err := ParseCategory(s)
	if err != nil {
		return CategoryNote
	}
	return c
}

// Source records how an entry was captured.
type Source string

const (
	SourceVoice Source = "voice"
	SourceText  Source = "text"
)

// ParseSource parses a capture source name.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceVoice:
		return SourceVoice, nil
	case SourceText:
		return SourceText, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// SourceOrDefault parses s, falling back to SourceText.
func SourceOrDefault(s string) Source {
	src, err := ParseSource(s)
	if err != nil {
		return SourceText
	}
	return src
}

// Cadence is the recurrence of a habit entry.
type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekdays Cadence = "weekdays"
	CadenceWeekly   Cadence = "weekly"
	CadenceMonthly  Cadence = "monthly"
)

// Cadences lists every cadence in display order.
var Cadences = []Cadence{CadenceDaily, CadenceWeekdays, CadenceWeekly, CadenceMonthly}

// DisplayName returns the human-readable cadence label.
func (c Cadence) DisplayName() string {
	switch c {
	case CadenceDaily:
		return "Daily"
	case CadenceWeekdays:
		return "Weekdays"
	case CadenceWeekly:
		return "Weekly"
	case CadenceMonthly:
		return "Monthly"
	default:
		return string(c)
	}
}

// ParseCadence parses a cadence name.
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Cadences {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown cadence %q", s)
}

// Status is the lifecycle state of an entry.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
	StatusSnoozed   Status = "snoozed"
)

// Statuses lists every status.
var Statuses = []Status{StatusActive, StatusCompleted, StatusArchived, StatusSnoozed}

// DisplayName returns the human-readable status label.
func (s Status) DisplayName() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusArchived:
		return "Archived"
	case StatusSnoozed:
		return "Snoozed"
	default:
		return string(s)
	}
}

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// StatusOrDefault parses s, falling back to StatusActive.
func StatusOrDefault(s string) Status {
	st, err := ParseStatus(s)
	if err != nil {
		return StatusActive
	}
	return st
}

// Entry is a single captured note, task, reminder or habit.
//
// ID and CreatedAt never change after creation. Every lifecycle method
// refreshes UpdatedAt.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Transcript string    `json:"transcript"`
	Content    string    `json:"content"`
	Category   Category  `json:"category"`
	SourceText string    `json:"source_text"`
	Summary    string    `json:"summary"`
	Notes      string    `json:"notes"`

	Priority           *int       `json:"priority,omitempty"`
	DueDateDescription *string    `json:"due_date_description,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	Cadence            *Cadence   `json:"cadence,omitempty"`

	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	SnoozeUntil *time.Time `json:"snooze_until,omitempty"`

	Source        Source   `json:"source"`
	AudioDuration *float64 `json:"audio_duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an active entry with the given id and both timestamps set to now.
func New(id uuid.UUID, now time.Time, transcript, content string, category Category, sourceText string, source Source) Entry {
	return Entry{
		ID:         id,
		Transcript: transcript,
		Content:    content,
		Category:   category,
		SourceText: sourceText,
		Status:     StatusActive,
		Source:     source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ShortID returns the lower-cased display prefix of the id.
func (e *Entry) ShortID() string {
	return ShortID(e.ID)
}

// ShortID returns the lower-cased display prefix of id.
func ShortID(id uuid.UUID) string {
	return strings.ToLower(id.String()[:ShortIDLength])
}

// Complete marks the entry completed and stamps CompletedAt.
func (e *Entry) Complete(now time.Time) {
	e.Status = StatusCompleted
	e.CompletedAt = &now
	e.UpdatedAt = now
}

// Archive moves the entry out of the active set.
func (e *Entry) Archive(now time.Time) {
	e.Status = StatusArchived
	e.UpdatedAt = now
}

// Unarchive returns the entry to the active set.
// CompletedAt is left as is.
func (e *Entry) Unarchive(now time.Time) {
	e.Status = StatusActive
	e.UpdatedAt = now
}

// Snooze hides the entry until the given time, or for DefaultSnooze when
// until is nil.
func (e *Entry) Snooze(now time.Time, until *time.Time) {
	wake := now.Add(DefaultSnooze)
	if until != nil {
		wake = *until
	}
	e.Status = StatusSnoozed
	e.SnoozeUntil = &wake
	e.UpdatedAt = now
}

// Clone returns a deep copy of e. Pointer fields are duplicated so the copy
// shares no memory with the original.
func (e Entry) Clone() Entry {
	c := e
	c.Priority = clonePtr(e.Priority)
	c.DueDateDescription = clonePtr(e.DueDateDescription)
	c.DueDate = clonePtr(e.DueDate)
	c.Cadence = clonePtr(e.Cadence)
	c.CompletedAt = clonePtr(e.CompletedAt)
	c.SnoozeUntil = clonePtr(e.SnoozeUntil)
	c.AudioDuration = clonePtr(e.AudioDuration)
	return c
}

// CloneAll deep-copies a slice of entries. A nil slice yields an empty one.
func CloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = entries[i].Clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
