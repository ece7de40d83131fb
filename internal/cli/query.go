package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/store"
)

// withStore loads config and opens the store without starting an engine.
// Read-only commands use it.
func withStore(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, f *OutputFormatter, st *store.Store) error) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	cfg, _, err := opts.setup(cmd)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStorage, "failed to open database", err)
	}
	defer st.Close()

	return fn(ctx, f, st)
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Status   string
	Category string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Long: `List stored entries, newest first.

Examples:
  murmur list
  murmur list --status active --category todo
  murmur list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "only entries with this status")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "only entries in this category")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	return withStore(opts.RootOptions, cmd, func(ctx context.Context, f *OutputFormatter, st *store.Store) error {
		var category entry.Category
		if opts.Category != "" {
			c, err := entry.ParseCategory(opts.Category)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
			}
			category = c
		}

		var entries []entry.Entry
		var err error
		if opts.Status != "" {
			status, perr := entry.ParseStatus(opts.Status)
			if perr != nil {
				return f.Fail(ExitCommandError, ErrCodeInvalidInput, perr.Error(), nil)
			}
			entries, err = st.ListByStatus(ctx, status)
		} else {
			entries, err = st.List(ctx)
		}
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStorage, "failed to list entries", err)
		}

		if category != "" {
			filtered := entries[:0]
			for _, e := range entries {
				if e.Category == category {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		f.VerboseLog("Found %d entries", len(entries))
		return f.Success(entryList(entries))
	})
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <short-id>",
		Short: "Show every field of one entry",
		Long: `Show every field of one entry. The short id is matched case-insensitively
against the start of each entry id; it must match exactly one entry.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, f *OutputFormatter, st *store.Store) error {
				entries, err := st.List(ctx)
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeStorage, "failed to list entries", err)
				}
				e, err := resolveShortID(f, entries, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return f.Success(entryDetail(e))
			})
		},
	}
}
