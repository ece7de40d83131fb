package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/murmur/internal/action"
	"github.com/roach88/murmur/internal/app"
	"github.com/roach88/murmur/internal/config"
	"github.com/roach88/murmur/internal/entry"
)

// mutationResult is the payload of every command that changes an entry.
type mutationResult struct {
	Action string      `json:"action"`
	Rev    uint64      `json:"rev"`
	Entry  entry.Entry `json:"entry"`
}

func (m mutationResult) String() string {
	return fmt.Sprintf("%s %s", m.Action, entryLine(m.Entry))
}

// errInvalidInput marks build errors caused by bad flag values.
var errInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidInput, fmt.Sprintf(format, args...))
}

// withSession loads config, opens a session, runs fn and closes the session.
// A close failure is reported only when fn succeeded.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, f *OutputFormatter, cfg *config.Config, sess *app.Session) error) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	cfg, logger, err := opts.setup(cmd)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	f.VerboseLog("Opening database %s", cfg.Database.Path)
	sess, err := opts.openSession(ctx, cfg, logger)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStorage, "failed to open database", err)
	}

	runErr := fn(ctx, f, cfg, sess)
	if closeErr := sess.Close(); closeErr != nil && runErr == nil {
		return f.Fail(ExitFailure, ErrCodeStorage, "failed to close database", closeErr)
	}
	return runErr
}

// resolveShortID returns the single entry whose id starts with short.
// No match and several matches are reported as distinct errors.
func resolveShortID(f *OutputFormatter, entries []entry.Entry, short string) (entry.Entry, error) {
	res, i := entry.Resolve(entries, short)
	switch res {
	case entry.ResolutionUnique:
		return entries[i], nil
	case entry.ResolutionAmbiguous:
		return entry.Entry{}, f.Fail(ExitCommandError, ErrCodeAmbiguous,
			fmt.Sprintf("short id %q matches more than one entry", short), nil)
	default:
		return entry.Entry{}, f.Fail(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("no entry matches %q", short), nil)
	}
}

// runEntryIntent resolves short, builds the intent for the target and
// applies it.
func runEntryIntent(opts *RootOptions, cmd *cobra.Command, short, verb string, build func(entry.Entry) (action.Action, error)) error {
	return withSession(opts, cmd, func(ctx context.Context, f *OutputFormatter, _ *config.Config, sess *app.Session) error {
		target, err := resolveShortID(f, sess.Engine.Snapshot().Entries, short)
		if err != nil {
			return err
		}

		a, err := build(target)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
		}

		f.VerboseLog("Dispatching %s for %s", action.Kind(a), target.ShortID())
		snap, err := sess.Apply(ctx, a)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, "failed to apply "+action.Kind(a), err)
		}

		result := mutationResult{Action: verb, Rev: snap.Rev, Entry: target}
		if i := snap.Index(target.ID); i >= 0 {
			result.Entry = snap.Entries[i]
		}
		return f.Success(result)
	})
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Category string
	Priority int
	Due      string
	Cadence  string
	Summary  string
	Source   string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <content...>",
		Short: "Add an entry directly, without the reasoning service",
		Long: `Add an entry directly. The content is stored verbatim and also used as
the transcript and source text.

Examples:
  murmur add "Buy milk" --category todo --priority 2
  murmur add Stretch --category habit --cadence daily`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", string(entry.CategoryNote), "entry category")
	cmd.Flags().IntVarP(&opts.Priority, "priority", "p", 0, "priority (lower is more urgent)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "due date phrase, e.g. \"friday\"")
	cmd.Flags().StringVar(&opts.Cadence, "cadence", "", "recurrence (daily|weekdays|weekly|monthly)")
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "short summary")
	cmd.Flags().StringVar(&opts.Source, "source", string(entry.SourceText), "capture source (voice|text)")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command, content string) error {
	return withSession(opts.RootOptions, cmd, func(ctx context.Context, f *OutputFormatter, _ *config.Config, sess *app.Session) error {
		data, err := opts.createData(cmd, content)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
		}

		snap, err := sess.Apply(ctx, action.Create{Data: data})
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, "failed to add entry", err)
		}
		created := snap.Entries[len(snap.Entries)-1]
		return f.Success(mutationResult{Action: "added", Rev: snap.Rev, Entry: created})
	})
}

func (o *AddOptions) createData(cmd *cobra.Command, content string) (action.CreateData, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return action.CreateData{}, invalidInput("content must not be empty")
	}
	category, err := entry.ParseCategory(o.Category)
	if err != nil {
		return action.CreateData{}, invalidInput("%v", err)
	}
	source, err := entry.ParseSource(o.Source)
	if err != nil {
		return action.CreateData{}, invalidInput("%v", err)
	}

	data := action.CreateData{
		Transcript: content,
		Content:    content,
		Category:   category,
		SourceText: content,
		Summary:    strings.TrimSpace(o.Summary),
		Source:     source,
	}
	if cmd.Flags().Changed("priority") {
		p := o.Priority
		data.Priority = &p
	}
	if o.Due != "" {
		due := o.Due
		data.DueDateDescription = &due
	}
	if o.Cadence != "" {
		c, err := entry.ParseCadence(o.Cadence)
		if err != nil {
			return action.CreateData{}, invalidInput("%v", err)
		}
		data.Cadence = &c
	}
	return data, nil
}

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Content  string
	Summary  string
	Category string
	Priority int
	Due      string
	Cadence  string
	Status   string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <short-id>",
		Short: "Change fields of an entry",
		Long: `Change fields of an entry. Only the flags given are applied; everything
else is left as it is. --status drives the matching lifecycle change.

Examples:
  murmur update a1b2c3 --priority 1 --due tomorrow
  murmur update a1b2c3 --status completed`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntryIntent(opts.RootOptions, cmd, args[0], "updated", func(target entry.Entry) (action.Action, error) {
				fields, err := opts.fields(cmd)
				if err != nil {
					return nil, err
				}
				return action.Update{ID: target.ID, Fields: fields}, nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Content, "content", "", "new content")
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "new summary")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "new category")
	cmd.Flags().IntVarP(&opts.Priority, "priority", "p", 0, "new priority")
	cmd.Flags().StringVar(&opts.Due, "due", "", "new due date phrase")
	cmd.Flags().StringVar(&opts.Cadence, "cadence", "", "new recurrence (daily|weekdays|weekly|monthly)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "new status (active|completed|archived|snoozed)")

	return cmd
}

func (o *UpdateOptions) fields(cmd *cobra.Command) (action.UpdateFields, error) {
	var f action.UpdateFields
	changed := cmd.Flags().Changed

	if changed("content") {
		f.Content = &o.Content
	}
	if changed("summary") {
		f.Summary = &o.Summary
	}
	if changed("category") {
		c, err := entry.ParseCategory(o.Category)
		if err != nil {
			return f, invalidInput("%v", err)
		}
		f.Category = &c
	}
	if changed("priority") {
		f.Priority = &o.Priority
	}
	if changed("due") {
		f.DueDateDescription = &o.Due
	}
	if changed("cadence") {
		c, err := entry.ParseCadence(o.Cadence)
		if err != nil {
			return f, invalidInput("%v", err)
		}
		f.Cadence = &c
	}
	if changed("status") {
		s, err := entry.ParseStatus(o.Status)
		if err != nil {
			return f, invalidInput("%v", err)
		}
		f.Status = &s
	}

	if f.IsEmpty() {
		return f, invalidInput("nothing to update: pass at least one field flag")
	}
	return f, nil
}

// newLifecycleCommand builds the commands that take only a short id.
func newLifecycleCommand(rootOpts *RootOptions, use, short, verb string, intent func(entry.Entry) action.Action) *cobra.Command {
	return &cobra.Command{
		Use:           use + " <short-id>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntryIntent(rootOpts, cmd, args[0], verb, func(target entry.Entry) (action.Action, error) {
				return intent(target), nil
			})
		},
	}
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return newLifecycleCommand(rootOpts, "complete", "Mark an entry completed", "completed",
		func(e entry.Entry) action.Action { return action.Complete{ID: e.ID} })
}

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	return newLifecycleCommand(rootOpts, "archive", "Move an entry to the archive", "archived",
		func(e entry.Entry) action.Action { return action.Archive{ID: e.ID} })
}

// NewUnarchiveCommand creates the unarchive command.
func NewUnarchiveCommand(rootOpts *RootOptions) *cobra.Command {
	return newLifecycleCommand(rootOpts, "unarchive", "Restore an archived entry", "unarchived",
		func(e entry.Entry) action.Action { return action.Unarchive{ID: e.ID} })
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return newLifecycleCommand(rootOpts, "delete", "Delete an entry permanently", "deleted",
		func(e entry.Entry) action.Action { return action.Delete{ID: e.ID} })
}

// SnoozeOptions holds flags for the snooze command.
type SnoozeOptions struct {
	*RootOptions
	Until string
	For   time.Duration
}

// NewSnoozeCommand creates the snooze command.
func NewSnoozeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnoozeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snooze <short-id>",
		Short: "Hide an entry until a later time",
		Long: `Hide an entry until a later time. Without --until or --for the entry is
snoozed for one hour.

Examples:
  murmur snooze a1b2c3
  murmur snooze a1b2c3 --for 3h
  murmur snooze a1b2c3 --until 2026-03-01T09:00:00Z`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntryIntent(opts.RootOptions, cmd, args[0], "snoozed", func(target entry.Entry) (action.Action, error) {
				until, err := opts.until(time.Now())
				if err != nil {
					return nil, err
				}
				return action.Snooze{ID: target.ID, Until: until}, nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Until, "until", "", "wake time (RFC 3339)")
	cmd.Flags().DurationVar(&opts.For, "for", 0, "snooze duration, e.g. 90m")
	cmd.MarkFlagsMutuallyExclusive("until", "for")

	return cmd
}

// until returns the wake time, or nil for the default snooze.
func (o *SnoozeOptions) until(now time.Time) (*time.Time, error) {
	switch {
	case o.Until != "":
		t, err := time.Parse(time.RFC3339, o.Until)
		if err != nil {
			return nil, invalidInput("--until must be an RFC 3339 timestamp (got %q)", o.Until)
		}
		t = t.UTC()
		return &t, nil
	case o.For < 0:
		return nil, invalidInput("--for must not be negative (got %s)", o.For)
	case o.For > 0:
		t := now.UTC().Add(o.For)
		return &t, nil
	default:
		return nil, nil
	}
}
