package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/rpncalc/internal/stack"
)

// DefaultStackName is the stack used when no name is selected.
const DefaultStackName = "default"

// DefaultMemorySlots is the default size of the memory bank.
const DefaultMemorySlots = 10

// Alignment values understood by the display layer.
const (
	AlignLeft    = "l"
	AlignRight   = "r"
	AlignDecimal = "d"
)

// StackStore is the durable mapping from a stack name to its two stacks.
//
// Values are passed in push order (the last value is the top of the stack).
// Load returns empty slices for a name that has never been saved. Each call
// must be atomic with respect to a single name.
type StackStore interface {
	Load(ctx context.Context, name string) (primary, secondary []float64, err error)
	Save(ctx context.Context, name string, primary, secondary []float64) error
	ListNames(ctx context.Context) ([]string, error)
}

// Result describes what the caller should do after a command.
type Result struct {
	// Kind is the classification of the processed line.
	Kind Kind

	// Report holds read-only informational lines to display.
	Report []string

	// Exit ends the command loop.
	Exit bool

	// ClearScreen asks the display to clear before rendering.
	ClearScreen bool

	// ShowHelp asks the display to print the help text.
	ShowHelp bool
}

// Engine is the stack machine behind the calculator.
//
// It owns the primary and secondary stacks, the memory bank and the undo
// history. Commands are processed one at a time through Execute; the engine
// is not safe for concurrent use.
//
// INVARIANTS:
//   - A command that returns an error leaves stacks, memory and history unchanged.
//   - A snapshot of the primary stack is pushed onto history immediately
//     before every mutation of the primary stack, and only then.
type Engine struct {
	store     StackStore
	stackName string

	primary    *stack.Stack
	secondary  *stack.Stack
	history    *stack.History
	memory     *MemoryBank
	activeSlot int

	rng     RandSource
	logger  *slog.Logger
	level   *slog.LevelVar
	debug   bool
	version string
	align   string

	memorySlots int
	undoLimit   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStackName selects the named stack loaded by Open.
func WithStackName(name string) Option {
	return func(e *Engine) {
		e.stackName = NormalizeName(name)
	}
}

// WithMemorySlots sets the size of the memory bank.
func WithMemorySlots(n int) Option {
	return func(e *Engine) {
		e.memorySlots = n
	}
}

// WithUndoLimit bounds the undo history. 0 means unbounded.
func WithUndoLimit(n int) Option {
	return func(e *Engine) {
		e.undoLimit = n
	}
}

// WithRand replaces the random source used by rand and dice.
func WithRand(r RandSource) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithLogger sets the logger for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithLevel hands the engine the level variable the debug command toggles.
func WithLevel(lv *slog.LevelVar) Option {
	return func(e *Engine) {
		e.level = lv
	}
}

// WithDebug starts the engine in debug mode.
func WithDebug(on bool) Option {
	return func(e *Engine) {
		e.debug = on
	}
}

// WithVersion sets the version reported by the ver command.
func WithVersion(v string) Option {
	return func(e *Engine) {
		e.version = v
	}
}

// WithAlign sets the initial display alignment (l, r or d).
func WithAlign(a string) Option {
	return func(e *Engine) {
		if al, ok := parseAlign(a); ok {
			e.align = al
		}
	}
}

// New creates an Engine backed by the given store.
// Call Open to load the selected stack before executing commands.
func New(st StackStore, opts ...Option) *Engine {
	e := &Engine{
		store:       st,
		stackName:   DefaultStackName,
		primary:     stack.New(),
		secondary:   stack.New(),
		activeSlot:  1,
		rng:         defaultRand{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		version:     "dev",
		align:       AlignLeft,
		memorySlots: DefaultMemorySlots,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.memory = NewMemoryBank(e.memorySlots)
	e.history = stack.NewHistory(e.undoLimit)
	if e.level != nil && e.debug {
		e.level.Set(slog.LevelDebug)
	}

	return e
}

// Open loads the selected stack from the store.
// A failure here is fatal to the session; the engine is left empty.
func (e *Engine) Open(ctx context.Context) error {
	p, s, err := e.store.Load(ctx, e.stackName)
	if err != nil {
		return fmt.Errorf("load stack %q: %w", e.stackName, err)
	}
	e.primary = stack.New(p...)
	e.secondary = stack.New(s...)
	e.history.Clear()
	e.logger.Debug("stack loaded", "name", e.stackName, "primary", len(p), "secondary", len(s))
	return nil
}

// Close persists both stacks under the current name.
func (e *Engine) Close(ctx context.Context) error {
	if err := e.save(ctx); err != nil {
		return fmt.Errorf("save stack %q: %w", e.stackName, err)
	}
	e.logger.Debug("stack saved", "name", e.stackName)
	return nil
}

func (e *Engine) save(ctx context.Context) error {
	return e.store.Save(ctx, e.stackName, e.primary.Values(), e.secondary.Values())
}

// handler processes one classified command.
type handler func(e *Engine, ctx context.Context, cmd Command) (Result, error)

var handlers = map[Kind]handler{
	KindDebug:        (*Engine).cmdDebug,
	KindLoad:         (*Engine).cmdLoad,
	KindVersion:      (*Engine).cmdVersion,
	KindHelp:         (*Engine).cmdHelp,
	KindExit:         (*Engine).cmdExit,
	KindListUndo:     (*Engine).cmdListUndo,
	KindUndo:         (*Engine).cmdUndo,
	KindClear:        (*Engine).cmdClear,
	KindDelete:       (*Engine).cmdDelete,
	KindSqrt:         (*Engine).cmdFunction,
	KindSwapStacks:   (*Engine).cmdSwapStacks,
	KindSwapElements: (*Engine).cmdSwapElements,
	KindFlipSign:     (*Engine).cmdFlipSign,
	KindCopy:         (*Engine).cmdCopy,
	KindConstant:     (*Engine).cmdConstant,
	KindListStacks:   (*Engine).cmdListStacks,
	KindAlign:        (*Engine).cmdAlign,
	KindRandom:       (*Engine).cmdRandom,
	KindDice:         (*Engine).cmdDice,
	KindFraction:     (*Engine).cmdFraction,
	KindMemory:       (*Engine).cmdMemory,
	KindFunction:     (*Engine).cmdFunction,
	KindStats:        (*Engine).cmdStats,
	KindOperator:     (*Engine).cmdOperator,
	KindNumber:       (*Engine).cmdNumber,
	KindNumOp:        (*Engine).cmdNumOp,
	KindBlank:        (*Engine).cmdBlank,
	KindUnknown:      (*Engine).cmdUnknown,
}

// Execute classifies one line of input and runs the matching handler.
//
// Errors returned are user-facing and recoverable (see CalcError); the
// caller reports them and keeps reading input.
func (e *Engine) Execute(ctx context.Context, line string) (Result, error) {
	cmd := Classify(line)
	e.logger.Debug("command classified", "kind", cmd.Kind.String(), "input", cmd.Input)

	h, ok := handlers[cmd.Kind]
	if !ok {
		h = (*Engine).cmdUnknown
	}
	res, err := h(e, ctx, cmd)
	res.Kind = cmd.Kind
	if err != nil {
		e.logger.Debug("command rejected", "kind", cmd.Kind.String(), "error", err)
		return res, err
	}
	return res, nil
}

// snapshot records the pre-mutation primary stack for undo.
// Call it after validation, immediately before mutating e.primary.
func (e *Engine) snapshot() {
	e.history.Push(e.primary)
	e.logger.Debug("undo snapshot", "depth", e.history.Len())
}

// StackName returns the name of the loaded stack.
func (e *Engine) StackName() string {
	return e.stackName
}

// Primary returns a copy of the primary stack.
func (e *Engine) Primary() *stack.Stack {
	return e.primary.Clone()
}

// Secondary returns a copy of the secondary stack.
func (e *Engine) Secondary() *stack.Stack {
	return e.secondary.Clone()
}

// ActiveSlot reports which persisted stack (1 or 2) is currently primary.
func (e *Engine) ActiveSlot() int {
	return e.activeSlot
}

// UndoDepth returns the number of snapshots available to undo.
func (e *Engine) UndoDepth() int {
	return e.history.Len()
}

// Memory returns the engine's memory bank.
func (e *Engine) Memory() *MemoryBank {
	return e.memory
}

// Alignment returns the current display alignment (l, r or d).
func (e *Engine) Alignment() string {
	return e.align
}

// Debug reports whether debug mode is on.
func (e *Engine) Debug() bool {
	return e.debug
}

// NormalizeName trims and NFC-normalizes a stack name.
// An empty name selects DefaultStackName.
func NormalizeName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return DefaultStackName
	}
	return name
}
