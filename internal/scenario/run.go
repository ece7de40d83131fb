package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/engine"
	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/state"
	"github.com/roach88/murmur/internal/store"
	"github.com/roach88/murmur/internal/testutil"
)

// ClockStep is how far the scenario clock advances per reading.
const ClockStep = time.Minute

// TraceEvent records the revision published after one step.
type TraceEvent struct {
	Step int    `json:"step"`
	Kind string `json:"kind"`
	Rev  uint64 `json:"rev"`
}

// Outcome is the state after the last step.
type Outcome struct {
	Rev        uint64        `json:"rev"`
	Processing bool          `json:"processing"`
	Toast      *string       `json:"toast,omitempty"`
	Entries    []entry.Entry `json:"entries"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation held and storage matches memory.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
	Final  Outcome      `json:"final"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run replays s through a real engine backed by an in-memory store, with a
// stepping clock starting at testutil.DefaultEpoch and sequential ids, so
// the same scenario always yields the same result.
//
// Execution flow:
//  1. open a fresh in-memory store and start the engine
//  2. dispatch each step and wait for its notification
//  3. stop the engine and capture the final snapshot
//  4. check expectations and compare stored rows with the snapshot
//
// A returned error means the scenario could not be executed; failed
// expectations are reported in Result.Errors instead.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock(testutil.DefaultEpoch, ClockStep)
	ids := testutil.NewSequentialIDs()
	eng := engine.New(st, nil,
		engine.WithReducer(state.Reducer{Now: clock.Now, NewID: ids.Next}),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- eng.Run(runCtx) }()

	result := &Result{Pass: true, Trace: []TraceEvent{}, Errors: []string{}}

	for i, step := range s.Steps {
		a, err := intent(step)
		if err != nil {
			eng.Stop()
			<-done
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		}
		eng.Dispatch(a)
		rev, err := eng.NextNotification(ctx)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		}
		result.Trace = append(result.Trace, TraceEvent{Step: i + 1, Kind: action.Kind(a), Rev: rev})
	}

	eng.Stop()
	if err := <-done; err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	snap := eng.Snapshot()
	result.Final = Outcome{
		Rev:        snap.Rev,
		Processing: snap.Processing,
		Toast:      snap.Toast,
		Entries:    snap.Entries,
	}

	for _, msg := range check(s.Expect, result.Final) {
		result.addError("%s", msg)
	}

	rows, err := st.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored entries: %w", err)
	}
	for _, msg := range compareStorage(snap.Entries, rows) {
		result.addError("%s", msg)
	}

	return result, nil
}

// OrdinalID is the id the n-th created entry receives during Run.
func OrdinalID(n int) uuid.UUID {
	return testutil.IDFor(uint32(n))
}

// intent converts a step to the intent it dispatches.
func intent(s Step) (action.Action, error) {
	switch s.Kind {
	case StepCreate:
		return createIntent(*s.Create), nil
	case StepUpdate:
		fields, err := updateFields(*s.Update)
		if err != nil {
			return nil, err
		}
		return action.Update{ID: OrdinalID(s.Update.Entry), Fields: fields}, nil
	case StepComplete:
		return action.Complete{ID: OrdinalID(s.Complete.Entry)}, nil
	case StepArchive:
		return action.Archive{ID: OrdinalID(s.Archive.Entry)}, nil
	case StepUnarchive:
		return action.Unarchive{ID: OrdinalID(s.Unarchive.Entry)}, nil
	case StepSnooze:
		until, err := parseTimestamp(s.Snooze.Until)
		if err != nil {
			return nil, err
		}
		return action.Snooze{ID: OrdinalID(s.Snooze.Entry), Until: until}, nil
	case StepDelete:
		return action.Delete{ID: OrdinalID(s.Delete.Entry)}, nil
	case StepSubmit:
		return action.SubmitTranscript{Transcript: s.Submit.Transcript, Source: sourceOrVoice(s.Submit.Source)}, nil
	case StepApply:
		results := make([]action.Result, 0, len(s.Apply))
		for _, r := range s.Apply {
			results = append(results, resultAction(r))
		}
		return action.ApplyBatch{Results: results}, nil
	case StepFail:
		return action.ReportFailure{Message: s.Fail.Message}, nil
	case StepDismiss:
		return action.DismissToast{}, nil
	default:
		return nil, fmt.Errorf("unknown step kind %q", s.Kind)
	}
}

func createIntent(c CreateStep) action.Create {
	category := c.Category
	if category == "" {
		category = entry.CategoryNote
	}
	sourceText := c.SourceText
	if sourceText == "" {
		sourceText = c.Content
	}
	transcript := c.Transcript
	if transcript == "" {
		transcript = c.Content
	}
	return action.Create{Data: action.CreateData{
		Transcript:         transcript,
		Content:            c.Content,
		Category:           category,
		SourceText:         sourceText,
		Summary:            c.Summary,
		Priority:           c.Priority,
		DueDateDescription: c.Due,
		Cadence:            c.Cadence,
		Source:             sourceOrVoice(c.Source),
	}}
}

func updateFields(u UpdateStep) (action.UpdateFields, error) {
	until, err := parseTimestamp(u.SnoozeUntil)
	if err != nil {
		return action.UpdateFields{}, err
	}
	return action.UpdateFields{
		Content:            u.Content,
		Summary:            u.Summary,
		Category:           u.Category,
		Priority:           u.Priority,
		DueDateDescription: u.Due,
		Cadence:            u.Cadence,
		Status:             u.Status,
		SnoozeUntil:        until,
	}, nil
}

func resultAction(r ResultStep) action.Result {
	switch r.Kind {
	case StepCreate:
		c := r.Create
		return action.CreateResult{
			Content:            c.Content,
			Category:           c.Category,
			SourceText:         c.SourceText,
			Summary:            c.Summary,
			Priority:           c.Priority,
			DueDateDescription: c.Due,
			Cadence:            c.Cadence,
		}
	case StepUpdate:
		u := r.Update
		return action.UpdateResult{
			ID: refID(u.ResultRef),
			Fields: action.ResultFields{
				Content:            u.Content,
				Summary:            u.Summary,
				Category:           u.Category,
				Priority:           u.Priority,
				DueDateDescription: u.Due,
				Cadence:            u.Cadence,
				Status:             u.Status,
				SnoozeUntil:        u.SnoozeUntil,
			},
			Reason: u.Reason,
		}
	case StepComplete:
		return action.CompleteResult{ID: refID(*r.Complete), Reason: r.Complete.Reason}
	default:
		return action.ArchiveResult{ID: refID(*r.Archive), Reason: r.Archive.Reason}
	}
}

func refID(r ResultRef) string {
	if r.Ref > 0 {
		return entry.ShortID(OrdinalID(r.Ref))
	}
	return r.ID
}

func sourceOrVoice(s entry.Source) entry.Source {
	if s == "" {
		return entry.SourceVoice
	}
	return s
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", *s, err)
	}
	t = t.UTC()
	return &t, nil
}
