package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/agent"
	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/state"
)

// ErrEmptyTranscript is returned when a transcript is blank after
// normalization. Nothing is dispatched in that case.
var ErrEmptyTranscript = errors.New("capture: empty transcript")

// Processor turns a transcript into proposed mutations.
// *agent.Client satisfies it.
type Processor interface {
	Process(ctx context.Context, transcript string, entries []agent.ContextEntry) (agent.BatchResult, error)
}

// Engine is the part of the state actor the pipeline drives.
// *engine.Engine satisfies it.
type Engine interface {
	Dispatch(a action.Action) bool
	Snapshot() state.AppState
}

// Pipeline runs one transcript through the reasoning service and feeds the
// outcome back to the actor.
//
// The remote call happens on the caller's goroutine, never on the actor's,
// so the actor keeps serving intents while a request is in flight.
type Pipeline struct {
	engine    Engine
	processor Processor
	logger    *slog.Logger
}

// NewPipeline wires a pipeline. A nil logger means slog.Default().
func NewPipeline(e Engine, p Processor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{engine: e, processor: p, logger: logger}
}

// Submit processes one transcript:
//  1. normalizes it and rejects blank input with ErrEmptyTranscript
//  2. dispatches SubmitTranscript
//  3. asks the processor, with the current entries as context
//  4. dispatches ApplyBatch on success, ReportFailure otherwise
//
// The context is the latest published snapshot at the time of the call.
// Intents still queued ahead of SubmitTranscript, including ones the caller
// dispatched just before, may not be reflected in it yet.
//
// The processor's result or error is also returned to the caller.
func (p *Pipeline) Submit(ctx context.Context, transcript string, source entry.Source) (agent.BatchResult, error) {
	text := Normalize(transcript)
	if text == "" {
		return agent.BatchResult{}, ErrEmptyTranscript
	}

	p.engine.Dispatch(action.SubmitTranscript{Transcript: text, Source: source})

	snap := p.engine.Snapshot()
	entries := agent.FromEntries(snap.Entries)

	p.logger.Info("processing transcript", "source", source, "chars", len(text), "entries", len(entries))
	result, err := p.processor.Process(ctx, text, entries)
	if err != nil {
		p.engine.Dispatch(action.ReportFailure{Message: FailureMessage(err)})
		return agent.BatchResult{}, fmt.Errorf("process transcript: %w", err)
	}

	p.engine.Dispatch(action.ApplyBatch{Results: result.Results})
	p.logger.Info("transcript processed", "results", len(result.Results), "summary", result.Summary)
	return result, nil
}

// Normalize composes the transcript to NFC and trims surrounding space.
func Normalize(transcript string) string {
	return strings.TrimSpace(norm.NFC.String(transcript))
}

// FailureMessage renders err as a short message for the toast.
func FailureMessage(err error) string {
	var rerr *agent.Error
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case agent.KindAPI:
			return fmt.Sprintf("Reasoning service error (status %d)", rerr.Status)
		case agent.KindParse:
			return "Could not understand the reasoning service's reply"
		case agent.KindTransport:
			if errors.Is(err, context.DeadlineExceeded) {
				return "Reasoning service timed out"
			}
			return "Could not reach the reasoning service"
		}
	}
	if errors.Is(err, context.Canceled) {
		return "Processing cancelled"
	}
	return "Processing failed: " + err.Error()
}
