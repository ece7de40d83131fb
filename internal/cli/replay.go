package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/murmur/internal/scenario"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
}

// ScenarioReport is the replay outcome of one scenario file.
type ScenarioReport struct {
	Path   string                `json:"path"`
	Name   string                `json:"name"`
	Pass   bool                  `json:"pass"`
	Steps  int                   `json:"steps"`
	Rev    uint64                `json:"rev"`
	Errors []string              `json:"errors,omitempty"`
	Trace  []scenario.TraceEvent `json:"trace,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Scenarios []ScenarioReport `json:"scenarios"`
	Total     int              `json:"total"`
	Failed    int              `json:"failed"`
	AllPassed bool             `json:"all_passed"`
}

func (r ReplayResult) String() string {
	var b strings.Builder
	for _, s := range r.Scenarios {
		status := "PASS"
		if !s.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s %s (%d steps, rev %d)\n", status, s.Name, s.Steps, s.Rev)
		for _, ev := range s.Trace {
			fmt.Fprintf(&b, "    step %d %-9s rev %d\n", ev.Step, ev.Kind, ev.Rev)
		}
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "    %s\n", e)
		}
	}
	fmt.Fprintf(&b, "\n%d/%d scenarios passed", r.Total-r.Failed, r.Total)
	return b.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Replay intent scenarios and check their expectations",
		Long: `Replay scripted intent scenarios through the engine and check the
expected final state.

Each scenario runs against a fresh in-memory database with a stepping clock
and sequential ids, so results are reproducible. The stored rows are also
compared with the in-memory state after the last step.

Exit codes:
  0 - All scenarios passed
  1 - At least one scenario failed its expectations
  2 - Command error (file not found, invalid scenario)

Examples:
  murmur replay testdata/lifecycle.yaml
  murmur replay scenarios/*.yaml --verbose
  murmur replay batch.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args)
		},
	}

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, paths []string) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	result := ReplayResult{
		Scenarios: make([]ScenarioReport, 0, len(paths)),
		Total:     len(paths),
		AllPassed: true,
	}

	for _, path := range paths {
		s, err := scenario.Load(path)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeScenario, fmt.Sprintf("failed to load scenario %s", path), err)
		}

		f.VerboseLog("Replaying %s (%d steps)", s.Name, len(s.Steps))
		run, err := scenario.Run(ctx, s)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeScenario, fmt.Sprintf("failed to run scenario %s", s.Name), err)
		}

		report := ScenarioReport{
			Path:   path,
			Name:   s.Name,
			Pass:   run.Pass,
			Steps:  len(s.Steps),
			Rev:    run.Final.Rev,
			Errors: run.Errors,
		}
		if opts.Verbose {
			report.Trace = run.Trace
		}
		if !run.Pass {
			result.Failed++
			result.AllPassed = false
		}
		result.Scenarios = append(result.Scenarios, report)
	}

	if err := f.Success(result); err != nil {
		return err
	}
	if !result.AllPassed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
	}
	return nil
}
