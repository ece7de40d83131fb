package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/murmur/internal/app"
	"github.com/roach88/murmur/internal/capture"
	"github.com/roach88/murmur/internal/config"
	"github.com/roach88/murmur/internal/state"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string // overrides database.path when set

	// Reducer overrides the wall-clock reducer (for testing).
	Reducer *state.Reducer
	// Processor overrides the reasoning client built from config (for testing).
	Processor capture.Processor
	// LogWriter receives log output. Defaults to the command's stderr.
	LogWriter io.Writer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the murmur CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "murmur",
		Short: "murmur - capture thoughts, let the model file them",
		Long: `Capture free-form thoughts as text and let a reasoning service turn them
into todos, reminders, notes and habits, or update the ones you already have.

Entries are stored in a local SQLite database and addressed by the first
six characters of their id.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file (default $MURMUR_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	cmd.AddCommand(NewCaptureCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))
	cmd.AddCommand(NewUnarchiveCommand(opts))
	cmd.AddCommand(NewSnoozeCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// setup loads configuration, applies flag overrides and installs the logger.
func (o *RootOptions) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if o.Database != "" {
		cfg.Database.Path = o.Database
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}

	w := o.LogWriter
	if w == nil {
		w = cmd.ErrOrStderr()
	}
	return cfg, app.NewLogger(cfg.Log, w), nil
}

// openSession opens the configured database with a running engine.
func (o *RootOptions) openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.Session, error) {
	opts := []app.Option{app.WithLogger(logger)}
	if o.Reducer != nil {
		opts = append(opts, app.WithReducer(*o.Reducer))
	}
	return app.Open(ctx, cfg.Database.Path, opts...)
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
