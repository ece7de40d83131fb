// Package app wires configuration, storage and the state actor into a
// running session for the command-line surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/engine"
	"github.com/roach88/murmur/internal/state"
	"github.com/roach88/murmur/internal/store"
)

// Session owns an open store and a running engine seeded from it.
//
// Close must be called exactly once; it drains queued intents before the
// store is closed.
type Session struct {
	Store  *store.Store
	Engine *engine.Engine

	logger *slog.Logger
	cancel context.CancelFunc
	done   chan error
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	reducer *state.Reducer
	logger  *slog.Logger
}

// WithReducer replaces the wall-clock reducer. Tests use it for
// deterministic ids and timestamps.
func WithReducer(r state.Reducer) Option {
	return func(o *sessionOptions) { o.reducer = &r }
}

// WithLogger sets the logger handed to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

// Open opens the database at path, loads every stored entry and starts the
// engine on its own goroutine.
func Open(ctx context.Context, path string, opts ...Option) (*Session, error) {
	o := sessionOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	seed, err := st.List(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load entries: %w", err)
	}
	o.logger.Debug("session opened", "db", path, "entries", len(seed))

	engOpts := []engine.Option{engine.WithLogger(o.logger)}
	if o.reducer != nil {
		engOpts = append(engOpts, engine.WithReducer(*o.reducer))
	}
	eng := engine.New(st, seed, engOpts...)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(runCtx) }()

	return &Session{
		Store:  st,
		Engine: eng,
		logger: o.logger,
		cancel: cancel,
		done:   done,
	}, nil
}

// Apply dispatches a and waits until the engine has published its effect.
// It returns the snapshot taken right after.
//
// Apply pairs a with the next notification, so it must be the only
// notification consumer and must not run concurrently with other
// dispatchers. Notifications left over from intents that were already
// applied are discarded first.
func (s *Session) Apply(ctx context.Context, a action.Action) (state.AppState, error) {
	for {
		if _, ok := s.Engine.TryNextNotification(); !ok {
			break
		}
	}
	if !s.Engine.Dispatch(a) {
		return state.AppState{}, engine.ErrClosed
	}
	if _, err := s.Engine.NextNotification(ctx); err != nil {
		return state.AppState{}, err
	}
	return s.Engine.Snapshot(), nil
}

// Close stops the engine, waits for it to drain and closes the store.
func (s *Session) Close() error {
	s.Engine.Stop()
	runErr := <-s.done
	s.cancel()
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if err := s.Store.Close(); err != nil {
		return errors.Join(runErr, fmt.Errorf("close store: %w", err))
	}
	return runErr
}
