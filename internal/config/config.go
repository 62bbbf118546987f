// Package config loads the calculator's configuration file.
//
// The file is CUE, validated against the embedded #Config schema. Values
// not set in the file keep the defaults from Default; command-line flags
// are applied on top by the caller.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/spf13/afero"
)

//go:embed schema.cue
var schemaCUE string

const (
	appDir          = "rpncalc"
	configFile      = "config.cue"
	databaseFile    = "stacks.db"
	defaultStack    = "default"
	defaultSlots    = 10
	defaultAlign    = "l"
	defaultUndoSize = 0
)

// Config holds the resolved settings for a calculator session.
type Config struct {
	Database    string
	Stack       string
	MemorySlots int
	Align       string
	Debug       bool
	UndoLimit   int
}

// fileConfig mirrors #Config. Pointers distinguish absent from zero.
type fileConfig struct {
	Database    *string `json:"database"`
	Stack       *string `json:"stack"`
	MemorySlots *int    `json:"memorySlots"`
	Align       *string `json:"align"`
	Debug       *bool   `json:"debug"`
	UndoLimit   *int    `json:"undoLimit"`
}

// Error reports an invalid configuration file.
type Error struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:    filepath.Join(Dir(), databaseFile),
		Stack:       defaultStack,
		MemorySlots: defaultSlots,
		Align:       defaultAlign,
		UndoLimit:   defaultUndoSize,
	}
}

// Dir returns the per-user configuration directory for rpncalc.
// It falls back to the working directory when the OS reports none.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, appDir)
}

// DefaultPath returns the configuration file consulted when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), configFile)
}

// Load reads the configuration file at path over the defaults.
//
// An empty path means DefaultPath. A missing file is not an error unless
// required is set, which callers use when the path was given explicitly.
func Load(fs afero.Fs, path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("stat config %s: %w", path, err)
	}
	if !exists {
		if required {
			return cfg, &Error{Path: path, Message: "configuration file not found"}
		}
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	fc, err := parse(path, data)
	if err != nil {
		return cfg, err
	}
	fc.apply(&cfg, filepath.Dir(path))
	return cfg, nil
}

// parse validates data against #Config and decodes it.
func parse(path string, data []byte) (*fileConfig, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueError(path, err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(path, err)
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return nil, cueError(path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config, dir string) {
	if fc.Database != nil {
		db := *fc.Database
		if !filepath.IsAbs(db) {
			db = filepath.Join(dir, db)
		}
		cfg.Database = db
	}
	if fc.Stack != nil {
		cfg.Stack = *fc.Stack
	}
	if fc.MemorySlots != nil {
		cfg.MemorySlots = *fc.MemorySlots
	}
	if fc.Align != nil {
		cfg.Align = *fc.Align
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	if fc.UndoLimit != nil {
		cfg.UndoLimit = *fc.UndoLimit
	}
}

// cueError keeps the first CUE error and its source position.
func cueError(path string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: path, Message: err.Error()}
	}

	first := errs[0]
	cfgErr := &Error{Path: path, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	return cfgErr
}
