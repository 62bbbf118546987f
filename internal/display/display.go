// Package display renders calculator state to a terminal.
//
// The stack prints deepest value first so that line 01, the top, sits
// directly above the prompt. Numbers are grouped with thousands separators.
package display

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/rpncalc/internal/engine"
)

// DefaultWidth is the width of the separator line.
const DefaultWidth = 70

// ANSI SGR sequences.
const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiWhite  = "\x1b[37m"
	ansiClear  = "\x1b[2J\x1b[H"
)

// Renderer writes calculator output to w.
type Renderer struct {
	w       io.Writer
	color   bool
	width   int
	align   string
	printer *message.Printer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColor enables ANSI colour. Use it only for interactive terminals.
func WithColor(on bool) Option {
	return func(r *Renderer) {
		r.color = on
	}
}

// WithWidth sets the separator width.
func WithWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.width = n
		}
	}
}

// WithAlign sets the initial alignment.
func WithAlign(a string) Option {
	return func(r *Renderer) {
		r.SetAlign(a)
	}
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:       w,
		width:   DefaultWidth,
		align:   engine.AlignLeft,
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetAlign changes the value alignment. Unknown values are ignored.
func (r *Renderer) SetAlign(a string) {
	switch a {
	case engine.AlignLeft, engine.AlignRight, engine.AlignDecimal:
		r.align = a
	}
}

// Stack prints values given top-first, labelled 01 for the top.
func (r *Renderer) Stack(topDown []float64) {
	if len(topDown) == 0 {
		return
	}

	formatted := make([]string, len(topDown))
	for i, v := range topDown {
		formatted[i] = r.FormatValue(v)
	}
	padded := r.pad(formatted)

	for i := len(padded) - 1; i >= 0; i-- {
		label := fmt.Sprintf("%02d:", i+1)
		fmt.Fprintf(r.w, "%s  %s\n", r.paint(ansiCyan, label), r.paint(ansiWhite, padded[i]))
	}
}

// pad applies the current alignment.
func (r *Renderer) pad(values []string) []string {
	out := make([]string, len(values))
	switch r.align {
	case engine.AlignRight:
		width := 0
		for _, v := range values {
			width = max(width, utf8.RuneCountInString(v))
		}
		for i, v := range values {
			out[i] = strings.Repeat(" ", width-utf8.RuneCountInString(v)) + v
		}

	case engine.AlignDecimal:
		width := 0
		for _, v := range values {
			width = max(width, integerWidth(v))
		}
		for i, v := range values {
			out[i] = strings.Repeat(" ", width-integerWidth(v)) + v
		}

	default:
		copy(out, values)
	}
	return out
}

// integerWidth is the number of runes before the decimal point.
func integerWidth(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return utf8.RuneCountInString(s[:i])
	}
	return utf8.RuneCountInString(s)
}

// FormatValue renders v for the stack display: thousands separators in the
// integer part, the shortest exact fraction, and exponent form for very
// large or very small magnitudes.
func (r *Renderer) FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e15 || abs < 1e-6 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	digits := strconv.FormatFloat(abs, 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	b.WriteString(r.printer.Sprintf("%d", n))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Rule prints the separator naming the loaded stack and the active slot.
func (r *Renderer) Rule(name string, slot int) {
	label := fmt.Sprintf("--[ %s:%d ]", name, slot)
	fill := r.width - utf8.RuneCountInString(label)
	if fill < 0 {
		fill = 0
	}
	fmt.Fprintln(r.w, r.paint(ansiCyan, label+strings.Repeat("-", fill)))
}

// Header prints the start-up banner.
func (r *Renderer) Header(version string) {
	title := "RPN Calculator v" + strings.TrimPrefix(version, "v")
	hint := "Enter command 'h' for help details"
	border := "+" + strings.Repeat("-", max(r.width-2, 0)) + "+"

	fmt.Fprintln(r.w, r.paint(ansiCyan, border))
	fmt.Fprintln(r.w, r.paint(ansiCyan, "|"+center(title, r.width-2)+"|"))
	fmt.Fprintln(r.w, r.paint(ansiCyan, "|"+center(hint, r.width-2)+"|"))
	fmt.Fprintln(r.w, r.paint(ansiCyan, border))
}

// Prompt prints the input prompt without a trailing newline.
func (r *Renderer) Prompt() {
	fmt.Fprint(r.w, r.paint(ansiYellow, ">>  "))
}

// Report prints informational lines.
func (r *Renderer) Report(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(r.w, r.paint(ansiYellow, line))
	}
}

// Error prints a recoverable command error on one line.
func (r *Renderer) Error(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	var calcErr *engine.CalcError
	if errors.As(err, &calcErr) {
		msg = calcErr.Message
	}
	fmt.Fprintln(r.w, r.paint(ansiRed, "Error: "+msg))
}

// ClearScreen clears an interactive terminal. It is a no-op without colour,
// where the output is most likely a pipe or a file.
func (r *Renderer) ClearScreen() {
	if r.color {
		fmt.Fprint(r.w, ansiClear)
	}
}

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
