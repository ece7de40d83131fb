package action

import "github.com/roach88/murmur/internal/entry"

// Result is a mutation proposed by the reasoning service. Existing entries
// are referenced by short display id, not by canonical id.
type Result interface {
	isResult()
}

// CreateResult proposes a new entry.
type CreateResult struct {
	Content            string
	Category           entry.Category
	SourceText         string
	Summary            string
	Priority           *int
	DueDateDescription *string
	Cadence            *entry.Cadence
}

// ResultFields is the patch carried by an UpdateResult.
//
// SnoozeUntil is kept as the natural-language phrase the service produced;
// it is not resolved to a timestamp.
type ResultFields struct {
	Content            *string
	Summary            *string
	Category           *entry.Category
	Priority           *int
	DueDateDescription *string
	Cadence            *entry.Cadence
	Status             *entry.Status
	SnoozeUntil        *string
}

// UpdateResult proposes a patch to an existing entry.
type UpdateResult struct {
	ID     string
	Fields ResultFields
	Reason string
}

// CompleteResult proposes completing an existing entry.
type CompleteResult struct {
	ID     string
	Reason string
}

// ArchiveResult proposes archiving an existing entry.
type ArchiveResult struct {
	ID     string
	Reason string
}

func (CreateResult) isResult()   {}
func (UpdateResult) isResult()   {}
func (CompleteResult) isResult() {}
func (ArchiveResult) isResult()  {}

// ResultKind returns "create", "update", "complete" or "archive".
func ResultKind(r Result) string {
	switch r.(type) {
	case CreateResult:
		return "create"
	case UpdateResult:
		return "update"
	case CompleteResult:
		return "complete"
	case ArchiveResult:
		return "archive"
	default:
		return "unknown"
	}
}
