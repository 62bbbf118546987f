package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/display"
	"github.com/roach88/rpncalc/internal/engine"
	"github.com/roach88/rpncalc/internal/stack"
	"github.com/roach88/rpncalc/internal/store"
)

// StackSummary is one row of `stacks list`.
type StackSummary struct {
	Name      string `json:"name"`
	Primary   int    `json:"primary"`
	Secondary int    `json:"secondary"`
	SessionID string `json:"session_id,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

// StackDetail is the payload of `stacks show`. Values are shortest
// round-trip decimal strings in push order, so NaN and Inf survive JSON.
type StackDetail struct {
	Name      string   `json:"name"`
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	SessionID string   `json:"session_id,omitempty"`
	UpdatedAt string   `json:"updated_at"`
}

// NewStacksCommand creates the stacks command group.
func NewStacksCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stacks",
		Short: "Inspect and manage saved stacks",
		Long: `Inspect and manage the named stacks saved in the database.

Examples:
  rpncalc stacks list
  rpncalc stacks show default
  rpncalc stacks delete scratch
  rpncalc stacks list --format json`,
	}

	cmd.AddCommand(newStacksListCommand(rootOpts))
	cmd.AddCommand(newStacksShowCommand(rootOpts))
	cmd.AddCommand(newStacksDeleteCommand(rootOpts))

	return cmd
}

func newStacksListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved stacks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, func(st *store.Store, f *OutputFormatter) error {
				records, err := st.Records(cmd.Context())
				if err != nil {
					return outputStoreError(f, "failed to read stacks", err)
				}

				rows := make([]StackSummary, 0, len(records))
				lines := make([]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, StackSummary{
						Name:      rec.Name,
						Primary:   len(rec.Primary),
						Secondary: len(rec.Secondary),
						SessionID: rec.SessionID,
						UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
					})
					lines = append(lines, fmt.Sprintf("%-20s primary=%-4d secondary=%-4d %s",
						rec.Name, len(rec.Primary), len(rec.Secondary), rec.UpdatedAt.Format(time.RFC3339)))
				}
				return f.Lines(rows, lines, "No saved stacks")
			}, cmd)
		},
	}
}

func newStacksShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <name>",
		Short:         "Print a saved stack",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := engine.NormalizeName(args[0])
			return withStore(rootOpts, func(st *store.Store, f *OutputFormatter) error {
				rec, err := st.Lookup(cmd.Context(), name)
				if err != nil {
					return outputStoreError(f, fmt.Sprintf("failed to read stack %q", name), err)
				}

				if f.Format == "json" {
					return f.Success(StackDetail{
						Name:      rec.Name,
						Primary:   decimalStrings(rec.Primary),
						Secondary: decimalStrings(rec.Secondary),
						SessionID: rec.SessionID,
						UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
					})
				}

				var buf bytes.Buffer
				r := display.New(&buf)
				fmt.Fprintf(&buf, "Stack %s (updated %s)\n", rec.Name, rec.UpdatedAt.Format(time.RFC3339))
				fmt.Fprintln(&buf, "Primary:")
				r.Stack(stack.New(rec.Primary...).TopDown())
				fmt.Fprintln(&buf, "Secondary:")
				r.Stack(stack.New(rec.Secondary...).TopDown())
				_, err = f.Writer.Write(buf.Bytes())
				return err
			}, cmd)
		},
	}
}

func newStacksDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a saved stack",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := engine.NormalizeName(args[0])
			return withStore(rootOpts, func(st *store.Store, f *OutputFormatter) error {
				if err := st.Delete(cmd.Context(), name); err != nil {
					return outputStoreError(f, fmt.Sprintf("failed to delete stack %q", name), err)
				}
				f.VerboseLog("deleted %s", name)
				if f.Format == "json" {
					return f.Success(map[string]string{"deleted": name})
				}
				return f.Success(fmt.Sprintf("Deleted stack %s", name))
			}, cmd)
		},
	}
}

// withStore opens the configured database for one stacks subcommand.
func withStore(opts *RootOptions, fn func(*store.Store, *OutputFormatter) error, cmd *cobra.Command) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_ = f.Error(CodeCommandError, err.Error(), nil)
		return err
	}
	f.VerboseLog("database: %s", cfg.Database)

	exists, err := afero.Exists(opts.filesystem(), cfg.Database)
	if err != nil || !exists {
		_ = f.Error(CodeCommandError, "database not found: "+cfg.Database, nil)
		return NewExitError(ExitCommandError, "database not found: "+cfg.Database)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		_ = f.Error(CodeCommandError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	return fn(st, f)
}

// outputStoreError reports a store failure. A missing stack exits 1; a
// corrupt record or any other failure is a command error.
func outputStoreError(f *OutputFormatter, message string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		_ = f.Error(CodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, message, err)
	case errors.Is(err, store.ErrChecksumMismatch):
		_ = f.Error(CodeCorrupt, err.Error(), nil)
	default:
		_ = f.Error(ErrorCode(err), err.Error(), nil)
	}
	return WrapExitError(ExitCommandError, message, err)
}

func decimalStrings(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}
