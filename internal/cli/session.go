package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roach88/rpncalc/internal/config"
	"github.com/roach88/rpncalc/internal/display"
	"github.com/roach88/rpncalc/internal/engine"
	"github.com/roach88/rpncalc/internal/store"
)

const memoryDB = ":memory:"

// runSession runs the interactive calculator until x, end of input or a
// termination signal. The loaded stacks are saved on every one of those paths.
func runSession(cmd *cobra.Command, opts *SessionOptions) (err error) {
	cfg, err := sessionConfig(cmd, opts)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	if opts.Verbose {
		level.Set(slog.LevelDebug)
	}
	ids := opts.SessionIDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	sessionID := ids.Generate()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})).With("session", sessionID)

	st, err := openStore(opts.filesystem(), cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Debug("database ready", "path", cfg.Database)

	eng := engine.New(st.WithSession(sessionID),
		engine.WithStackName(cfg.Stack),
		engine.WithMemorySlots(cfg.MemorySlots),
		engine.WithUndoLimit(cfg.UndoLimit),
		engine.WithAlign(cfg.Align),
		engine.WithDebug(cfg.Debug),
		engine.WithLevel(level),
		engine.WithLogger(logger),
		engine.WithVersion(Version),
	)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Open(ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to load stack", err)
	}
	defer func() {
		// The signal context may already be cancelled here.
		if closeErr := eng.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = WrapExitError(ExitFailure, "failed to save stack", closeErr)
		}
	}()

	interactive := isTerminal(cmd.InOrStdin())
	r := display.New(cmd.OutOrStdout(),
		display.WithColor(interactive && isTerminal(cmd.OutOrStdout())),
		display.WithAlign(eng.Alignment()),
	)

	logger.Debug("session started", "stack", eng.StackName(), "interactive", interactive)
	r.Header(Version)

	lines := readLines(ctx, cmd.InOrStdin(), logger)
	for {
		r.SetAlign(eng.Alignment())
		r.Rule(eng.StackName(), eng.ActiveSlot())
		r.Stack(eng.Primary().TopDown())
		if interactive {
			r.Prompt()
		}

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			logger.Debug("end of input")
			return nil
		}

		res, execErr := eng.Execute(ctx, line)
		if res.ClearScreen {
			r.ClearScreen()
		}
		if res.ShowHelp {
			r.Help(Version)
		}
		r.Report(res.Report)
		r.Error(execErr)
		if res.Exit {
			return nil
		}
	}
}

// sessionConfig merges the config file with the session flags. Flags win
// over file values only when they were given explicitly.
func sessionConfig(cmd *cobra.Command, opts *SessionOptions) (config.Config, error) {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("load") {
		cfg.Stack = opts.Load
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.Debug
	}
	if flags.Changed("align") {
		switch opts.Align {
		case engine.AlignLeft, engine.AlignRight, engine.AlignDecimal:
			cfg.Align = opts.Align
		default:
			return cfg, NewExitError(ExitCommandError,
				fmt.Sprintf("invalid alignment %q: must be one of l, r, d", opts.Align))
		}
	}
	if flags.Changed("mem") {
		if opts.MemSlots < 1 || opts.MemSlots > 100 {
			return cfg, NewExitError(ExitCommandError,
				fmt.Sprintf("invalid memory slot count %d: must be between 1 and 100", opts.MemSlots))
		}
		cfg.MemorySlots = opts.MemSlots
	}
	if flags.Changed("undo-limit") {
		if opts.UndoLimit < 0 {
			return cfg, NewExitError(ExitCommandError,
				fmt.Sprintf("invalid undo limit %d: must not be negative", opts.UndoLimit))
		}
		cfg.UndoLimit = opts.UndoLimit
	}
	return cfg, nil
}

// openStore opens the database at path, creating its directory first.
func openStore(fs afero.Fs, path string) (*store.Store, error) {
	if path != memoryDB {
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return store.Open(path)
}

// readLines feeds input lines to the session loop from its own goroutine so
// the loop can also wait on the signal context. The channel is closed at end
// of input.
func readLines(ctx context.Context, in io.Reader, logger *slog.Logger) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Warn("error reading input", "error", err)
		}
	}()
	return lines
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
