package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/state"
)

// Repository is the durable storage the engine writes through to.
// *store.Store satisfies it.
type Repository interface {
	Insert(ctx context.Context, e entry.Entry) error
	Replace(ctx context.Context, e entry.Entry) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Engine is the single-writer state actor.
//
// It owns the only mutable AppState. Other goroutines enqueue intents with
// Dispatch and observe results through Snapshot and the notification
// methods.
//
// Thread-safety model:
//   - Dispatch, Snapshot, NextNotification, TryNextNotification, Stop: safe
//     from any goroutine
//   - Run: must be called from exactly one goroutine
type Engine struct {
	repo    Repository
	reducer state.Reducer
	logger  *slog.Logger

	intents       *queue[action.Action]
	notifications *queue[uint64]

	// authoritative state, touched only by the Run goroutine
	state state.AppState
	seq   uint64

	mu     sync.RWMutex
	shared state.AppState
}

// Option configures an Engine.
type Option func(*Engine)

// WithReducer replaces the default wall-clock reducer.
func WithReducer(r state.Reducer) Option {
	return func(e *Engine) {
		e.reducer = r
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine whose state is seeded with entries, typically the
// result of a store List. A nil repo keeps state in memory only.
//
// The seed is copied; the snapshot reflects it before Run starts.
func New(repo Repository, seed []entry.Entry, opts ...Option) *Engine {
	e := &Engine{
		repo:          repo,
		reducer:       state.NewReducer(),
		logger:        slog.Default(),
		intents:       newQueue[action.Action](),
		notifications: newQueue[uint64](),
		state:         state.New(seed),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.shared = e.state.Clone()
	return e
}

// Dispatch enqueues an intent for the run loop. It never blocks.
//
// After Stop, or after Run has returned on context cancellation, the intent
// is dropped and Dispatch returns false.
func (e *Engine) Dispatch(a action.Action) bool {
	if !e.intents.Push(a) {
		e.logger.Debug("intent dropped: engine stopped", "kind", action.Kind(a))
		return false
	}
	intentQueueDepth.Inc()
	return true
}

// Snapshot returns a copy of the most recently published state.
// The copy shares no memory with the engine and may be retained freely.
func (e *Engine) Snapshot() state.AppState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shared.Clone()
}

// NextNotification blocks until the next revision is published.
//
// Every processed intent produces exactly one notification, and each
// notification's revision is visible in Snapshot by the time it is
// received. Returns ErrClosed once the engine has stopped and all
// notifications have been consumed.
func (e *Engine) NextNotification(ctx context.Context) (uint64, error) {
	return e.notifications.Pop(ctx)
}

// TryNextNotification returns the next pending revision without blocking.
func (e *Engine) TryNextNotification() (uint64, bool) {
	return e.notifications.TryPop()
}

// Stop closes the intent queue. Intents already queued are still applied
// before Run returns.
func (e *Engine) Stop() {
	e.intents.Close()
}

// Run is the actor loop. It blocks until the intent queue is closed and
// drained (returns nil) or ctx is cancelled (returns ctx.Err()).
//
// ERROR HANDLING: storage failures are logged and counted, and processing
// continues. The in-memory state stays authoritative, so a failed write
// leaves storage behind memory until a later write of the same entry.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting", "entries", len(e.state.Entries), "rev", e.state.Rev)
	defer e.notifications.Close()

	for {
		if a, ok := e.intents.TryPop(); ok {
			intentQueueDepth.Dec()
			e.process(ctx, a)
			continue
		}
		if e.intents.drained() {
			e.logger.Info("engine stopping: queue closed", "rev", e.state.Rev)
			return nil
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled", "rev", e.state.Rev)
			e.intents.Close()
			return ctx.Err()
		case <-e.intents.Wait():
		}
	}
}

// process applies one intent. Called only from Run.
func (e *Engine) process(ctx context.Context, a action.Action) {
	e.seq++
	kind := action.Kind(a)
	before := e.state.Rev

	op := classify(a)
	e.reducer.Apply(&e.state, a)
	e.persist(ctx, op)
	e.publish()
	intentsProcessed.WithLabelValues(kind).Inc()

	e.logger.Debug("intent applied",
		"seq", e.seq,
		"kind", kind,
		"rev", e.state.Rev,
		"changed", e.state.Rev != before,
	)
}

// publish copies the authoritative state into the shared snapshot and
// queues its notification. Both happen under the write lock, so a revision
// seen in Snapshot always has its notification queued already.
func (e *Engine) publish() {
	next := e.state.Clone()

	e.mu.Lock()
	e.shared = next
	e.notifications.Push(next.Rev)
	e.mu.Unlock()

	stateRevision.Set(float64(next.Rev))
}
