package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/action"
)

type opKind int

const (
	opNone opKind = iota
	opInsert
	opUpdate
	opDelete
	opBatch
)

func (k opKind) String() string {
	switch k {
	case opInsert:
		return "insert"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	case opBatch:
		return "batch"
	default:
		return "none"
	}
}

// storageOp is the durable write an intent implies.
type storageOp struct {
	kind opKind
	id   uuid.UUID
}

// classify decides the storage effect from the intent's shape alone, before
// the reducer runs.
func classify(a action.Action) storageOp {
	switch a := a.(type) {
	case action.Create:
		return storageOp{kind: opInsert}
	case action.Update:
		return storageOp{kind: opUpdate, id: a.ID}
	case action.Complete:
		return storageOp{kind: opUpdate, id: a.ID}
	case action.Archive:
		return storageOp{kind: opUpdate, id: a.ID}
	case action.Unarchive:
		return storageOp{kind: opUpdate, id: a.ID}
	case action.Snooze:
		return storageOp{kind: opUpdate, id: a.ID}
	case action.Delete:
		return storageOp{kind: opDelete, id: a.ID}
	case action.ApplyBatch:
		return storageOp{kind: opBatch}
	default:
		return storageOp{kind: opNone}
	}
}

// persist executes op against the post-mutation state. Failures are logged
// and counted; they never undo the in-memory change.
func (e *Engine) persist(ctx context.Context, op storageOp) {
	if e.repo == nil || op.kind == opNone {
		return
	}

	switch op.kind {
	case opInsert:
		// Create always appends, so the new entry is last.
		n := len(e.state.Entries)
		if n == 0 {
			return
		}
		created := e.state.Entries[n-1]
		if err := e.repo.Insert(ctx, created); err != nil {
			e.storageFailed(op, created.ID, err)
		}

	case opUpdate:
		i := e.state.Index(op.id)
		if i < 0 {
			return
		}
		if err := e.repo.Replace(ctx, e.state.Entries[i]); err != nil {
			e.storageFailed(op, op.id, err)
		}

	case opDelete:
		if _, err := e.repo.Delete(ctx, op.id); err != nil {
			e.storageFailed(op, op.id, err)
		}

	case opBatch:
		// Every entry is upserted, not just the ones the batch touched.
		for _, ent := range e.state.Entries {
			insertErr := e.repo.Insert(ctx, ent)
			if insertErr == nil {
				continue
			}
			if err := e.repo.Replace(ctx, ent); err != nil {
				e.logger.Debug("batch insert failed before replace", "id", ent.ID, "error", insertErr)
				e.storageFailed(op, ent.ID, err)
			}
		}
	}
}

func (e *Engine) storageFailed(op storageOp, id uuid.UUID, err error) {
	storageFailures.WithLabelValues(op.kind.String()).Inc()
	e.logger.Error("storage write failed",
		"op", op.kind.String(),
		"id", id,
		"error", err,
	)
}
