package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/config"
)

// Version is the calculator version reported by `ver` and `rpncalc version`.
var Version = "5.1.0"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigPath string

	// SessionIDs overrides the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionIDs SessionIDGenerator

	// fs is the filesystem used for the config file and the database directory.
	fs afero.Fs
}

// SessionOptions holds the flags of the interactive session.
type SessionOptions struct {
	*RootOptions
	Debug     bool
	Load      string
	Align     string
	MemSlots  int
	UndoLimit int
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rpncalc CLI.
// Without a subcommand it runs the interactive calculator.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{fs: afero.NewOsFs()})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	sessOpts := &SessionOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "rpncalc",
		Short: "RPN stack calculator",
		Long: `An interactive Reverse Polish Notation calculator.

Numbers are pushed onto a stack and operators consume them. Stacks are
saved by name between sessions; each name holds a primary and a
secondary stack. Enter 'h' at the prompt for the command reference.

Examples:
  rpncalc
  rpncalc -l taxes -a d
  printf '2\n3\n+\n' | rpncalc`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, sessOpts)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the SQLite stack database")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to the CUE config file")

	// Session flags
	cmd.Flags().BoolVarP(&sessOpts.Debug, "debug", "D", false, "start with debug logging enabled")
	cmd.Flags().StringVarP(&sessOpts.Load, "load", "l", "", "name of the stack to load")
	cmd.Flags().StringVarP(&sessOpts.Align, "align", "a", "", "value alignment (l|r|d)")
	cmd.Flags().IntVarP(&sessOpts.MemSlots, "mem", "m", 0, "number of memory slots")
	cmd.Flags().IntVar(&sessOpts.UndoLimit, "undo-limit", 0, "maximum undo depth (0 = unbounded)")

	cmd.AddCommand(NewStacksCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// filesystem returns the filesystem for config and database paths.
func (o *RootOptions) filesystem() afero.Fs {
	if o.fs == nil {
		return afero.NewOsFs()
	}
	return o.fs
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// loadConfig reads the config file and applies the global overrides.
// An explicit --config path must exist; the default location is optional.
func loadConfig(opts *RootOptions) (config.Config, error) {
	path, required := opts.ConfigPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}

	cfg, err := config.Load(opts.filesystem(), path, required)
	if err != nil {
		return cfg, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	return cfg, nil
}
