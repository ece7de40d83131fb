package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/agent"
	"github.com/roach88/murmur/internal/app"
	"github.com/roach88/murmur/internal/capture"
	"github.com/roach88/murmur/internal/config"
	"github.com/roach88/murmur/internal/entry"
)

// CaptureOptions holds flags for the capture command.
type CaptureOptions struct {
	*RootOptions
	Source string
}

// proposedAction is one result action as reported to the user.
type proposedAction struct {
	Kind    string `json:"kind"`
	Target  string `json:"target,omitempty"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// captureResult is the payload of a successful capture.
type captureResult struct {
	Summary      string           `json:"summary"`
	Actions      []proposedAction `json:"actions"`
	InputTokens  int              `json:"input_tokens"`
	OutputTokens int              `json:"output_tokens"`
	Rev          uint64           `json:"rev"`
}

func (r captureResult) String() string {
	var b strings.Builder
	b.WriteString(r.Summary)
	for _, a := range r.Actions {
		fmt.Fprintf(&b, "\n  - %s", a.Kind)
		if a.Target != "" {
			fmt.Fprintf(&b, " [%s]", a.Target)
		}
		if a.Content != "" {
			fmt.Fprintf(&b, " %q", a.Content)
		}
		if a.Reason != "" {
			fmt.Fprintf(&b, ": %s", a.Reason)
		}
	}
	return b.String()
}

// NewCaptureCommand creates the capture command.
func NewCaptureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CaptureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "capture [text...]",
		Short: "Send a transcript to the reasoning service and apply its changes",
		Long: `Send a transcript to the reasoning service together with the current
entries, then apply the entries it creates, updates, completes or archives.

The transcript is read from the arguments, or from stdin when none are given.
The reasoning service needs an API key (reasoning.api_key or $PPQ_API_KEY).

Exit codes:
  0 - Transcript processed and changes applied
  1 - Reasoning service failed (nothing was changed)
  2 - Command error (no transcript, missing API key, database unavailable)

Examples:
  murmur capture "buy milk and walk the dog"
  echo "done with groceries" | murmur capture --source voice`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", string(entry.SourceText), "capture source (voice|text)")

	return cmd
}

func runCapture(opts *CaptureOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)

	source, err := entry.ParseSource(opts.Source)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
	}

	transcript := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidInput, "failed to read transcript from stdin", err)
		}
		transcript = string(data)
	}

	return withSession(opts.RootOptions, cmd, func(ctx context.Context, f *OutputFormatter, cfg *config.Config, sess *app.Session) error {
		proc := opts.Processor
		if proc == nil {
			if err := cfg.RequireAPIKey(); err != nil {
				return f.Fail(ExitCommandError, ErrCodeConfig, "reasoning service is not configured", err)
			}
			proc = agent.New(agent.Config{
				APIKey:  cfg.Reasoning.APIKey,
				Model:   cfg.Reasoning.Model,
				BaseURL: cfg.Reasoning.BaseURL,
				Timeout: cfg.Reasoning.Timeout,
			})
		}

		pipeline := capture.NewPipeline(sess.Engine, proc, nil)
		result, err := pipeline.Submit(ctx, transcript, source)
		if errors.Is(err, capture.ErrEmptyTranscript) {
			return f.Fail(ExitCommandError, ErrCodeInvalidInput, "transcript is empty", nil)
		}

		// Submit dispatched the transcript and then its outcome.
		for range 2 {
			if _, nerr := sess.Engine.NextNotification(ctx); nerr != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, "engine stopped before applying the transcript", nerr)
			}
		}

		if err != nil {
			return f.Fail(ExitFailure, ErrCodeReasoning, capture.FailureMessage(err), err)
		}

		f.VerboseLog("Reasoning used %d input / %d output tokens", result.Usage.InputTokens, result.Usage.OutputTokens)
		return f.Success(captureResult{
			Summary:      result.Summary,
			Actions:      describeResults(result.Results),
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
			Rev:          sess.Engine.Snapshot().Rev,
		})
	})
}

func describeResults(results []action.Result) []proposedAction {
	out := make([]proposedAction, 0, len(results))
	for _, r := range results {
		p := proposedAction{Kind: action.ResultKind(r)}
		switch r := r.(type) {
		case action.CreateResult:
			p.Content = r.Content
		case action.UpdateResult:
			p.Target, p.Reason = r.ID, r.Reason
		case action.CompleteResult:
			p.Target, p.Reason = r.ID, r.Reason
		case action.ArchiveResult:
			p.Target, p.Reason = r.ID, r.Reason
		}
		out = append(out, p)
	}
	return out
}
