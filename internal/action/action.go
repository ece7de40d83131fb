// Package action defines the closed set of intents the state actor accepts,
// plus the loosely-identified result actions produced by the reasoning
// service.
//
// Intents are immutable values. Each is consumed exactly once by the actor.
package action

import (
	"time"

	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/entry"
)

// Action is a request to change application state.
// The set of implementations is closed; see the types below.
type Action interface {
	isAction()
}

// CreateData carries everything needed to create an entry.
type CreateData struct {
	Transcript         string
	Content            string
	Category           entry.Category
	SourceText         string
	Summary            string
	Priority           *int
	DueDateDescription *string
	Cadence            *entry.Cadence
	Source             entry.Source
	AudioDuration      *float64
}

// UpdateFields is a sparse patch. A nil field leaves the entry unchanged; a
// non-nil field replaces the current value, even when it points at a zero
// value.
//
// Status drives the matching lifecycle transition. SnoozeUntil is only read
// when Status is snoozed.
type UpdateFields struct {
	Content            *string
	Summary            *string
	Category           *entry.Category
	Priority           *int
	DueDateDescription *string
	Cadence            *entry.Cadence
	Status             *entry.Status
	SnoozeUntil        *time.Time
}

// IsEmpty reports whether the patch changes nothing but the update time.
func (f UpdateFields) IsEmpty() bool {
	return f.Content == nil && f.Summary == nil && f.Category == nil &&
		f.Priority == nil && f.DueDateDescription == nil && f.Cadence == nil &&
		f.Status == nil
}

type (
	// Create appends a new active entry.
	Create struct{ Data CreateData }

	// Update patches an existing entry.
	Update struct {
		ID     uuid.UUID
		Fields UpdateFields
	}

	// Complete marks an entry completed.
	Complete struct{ ID uuid.UUID }

	// Archive moves an entry to the archive.
	Archive struct{ ID uuid.UUID }

	// Unarchive restores an archived entry to active.
	Unarchive struct{ ID uuid.UUID }

	// Snooze hides an entry until Until, or for an hour when Until is nil.
	Snooze struct {
		ID    uuid.UUID
		Until *time.Time
	}

	// Delete removes an entry.
	Delete struct{ ID uuid.UUID }

	// SubmitTranscript records text sent for reasoning and raises the
	// processing flag.
	SubmitTranscript struct {
		Transcript string
		Source     entry.Source
	}

	// ApplyBatch applies reasoning results in order and lowers the
	// processing flag.
	ApplyBatch struct{ Results []Result }

	// ReportFailure surfaces a reasoning failure as a toast.
	ReportFailure struct{ Message string }

	// DismissToast clears the toast.
	DismissToast struct{}
)

func (Create) isAction()           {}
func (Update) isAction()           {}
func (Complete) isAction()         {}
func (Archive) isAction()          {}
func (Unarchive) isAction()        {}
func (Snooze) isAction()           {}
func (Delete) isAction()           {}
func (SubmitTranscript) isAction() {}
func (ApplyBatch) isAction()       {}
func (ReportFailure) isAction()    {}
func (DismissToast) isAction()     {}

// Kind returns a stable name for a, used in logs and metric labels.
func Kind(a Action) string {
	switch a.(type) {
	case Create:
		return "create"
	case Update:
		return "update"
	case Complete:
		return "complete"
	case Archive:
		return "archive"
	case Unarchive:
		return "unarchive"
	case Snooze:
		return "snooze"
	case Delete:
		return "delete"
	case SubmitTranscript:
		return "submit_transcript"
	case ApplyBatch:
		return "apply_batch"
	case ReportFailure:
		return "report_failure"
	case DismissToast:
		return "dismiss_toast"
	default:
		return "unknown"
	}
}
