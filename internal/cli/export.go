package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/roach88/murmur/internal/entry"
	"github.com/roach88/murmur/internal/store"
)

// ExportFile is the document written by the export command.
type ExportFile struct {
	ExportedAt time.Time     `json:"exported_at"`
	Count      int           `json:"count"`
	Entries    []entry.Entry `json:"entries"`
}

// exportResult is the payload reported after a successful export.
type exportResult struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (r exportResult) String() string {
	return fmt.Sprintf("Exported %d entries to %s", r.Count, r.Path)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write all entries to a JSON file",
		Long: `Write every stored entry, newest first, to a JSON file.

The file is replaced atomically: readers see either the previous file or
the complete new one, never a partial write.

Example:
  murmur export ~/murmur-backup.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, f *OutputFormatter, st *store.Store) error {
				return runExport(ctx, f, st, args[0], time.Now().UTC())
			})
		},
	}
}

func runExport(ctx context.Context, f *OutputFormatter, st *store.Store, path string, now time.Time) error {
	entries, err := st.List(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStorage, "failed to list entries", err)
	}

	data, err := json.MarshalIndent(ExportFile{
		ExportedAt: now,
		Count:      len(entries),
		Entries:    entries,
	}, "", "  ")
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, "failed to encode entries", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", path), err)
	}

	f.VerboseLog("Wrote %d bytes", len(data))
	return f.Success(exportResult{Path: path, Count: len(entries)})
}
