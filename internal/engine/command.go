package engine

import (
	"strings"
)

// Kind identifies the operation a line of input was classified as.
type Kind int

const (
	KindUnknown Kind = iota
	KindDebug
	KindLoad
	KindVersion
	KindHelp
	KindExit
	KindListUndo
	KindUndo
	KindClear
	KindDelete
	KindSqrt
	KindSwapStacks
	KindSwapElements
	KindFlipSign
	KindCopy
	KindConstant
	KindListStacks
	KindAlign
	KindRandom
	KindDice
	KindFraction
	KindMemory
	KindFunction
	KindStats
	KindOperator
	KindNumber
	KindNumOp
	KindBlank
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindDebug:        "debug",
	KindLoad:         "load",
	KindVersion:      "version",
	KindHelp:         "help",
	KindExit:         "exit",
	KindListUndo:     "list-undo",
	KindUndo:         "undo",
	KindClear:        "clear",
	KindDelete:       "delete",
	KindSqrt:         "sqrt",
	KindSwapStacks:   "swap-stacks",
	KindSwapElements: "swap-elements",
	KindFlipSign:     "flip-sign",
	KindCopy:         "copy",
	KindConstant:     "constant",
	KindListStacks:   "list-stacks",
	KindAlign:        "align",
	KindRandom:       "rand",
	KindDice:         "dice",
	KindFraction:     "frac",
	KindMemory:       "mem",
	KindFunction:     "function",
	KindStats:        "stats",
	KindOperator:     "operator",
	KindNumber:       "number",
	KindNumOp:        "numop",
	KindBlank:        "blank",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Command is one classified line of input.
type Command struct {
	Kind Kind

	// Input is the whitespace-trimmed line as typed.
	Input string

	// Name is the lowercased keyword for constants, functions and statistics.
	Name string

	// Arg is the remainder after the keyword, trimmed, case preserved.
	// For KindNumber and KindNumOp it holds the numeric literal.
	Arg string

	// Op is the operator character for KindOperator and KindNumOp.
	Op byte
}

// rule is one entry of the ordered classification table.
type rule struct {
	kind  Kind
	match func(in input) (Command, bool)
}

// input carries the forms of a line the rules match against.
type input struct {
	raw   string // trimmed, case preserved
	lower string // trimmed, lowercased
	words string // lowercased with internal whitespace collapsed
}

// rules is evaluated top to bottom and the first match wins. The order is
// part of the contract: categories overlap (a bare "-" is both an operator
// and a prefix of a number, "d" prefixes "dice").
var rules = []rule{
	{KindDebug, exact("debug")},
	{KindLoad, keyword("load")},
	{KindVersion, prefix("ver")},
	{KindHelp, exact("h", "?", "help")},
	{KindExit, exact("x")},
	{KindListUndo, exact("queryundo", "list undo")},
	{KindUndo, exact("u")},
	{KindClear, exact("c")},
	{KindDelete, letter('d')},
	{KindSqrt, exact("sqrt")},
	{KindSwapStacks, exact("ss")},
	{KindSwapElements, letter('s')},
	{KindFlipSign, exact("f")},
	{KindCopy, exact("copy")},
	{KindConstant, named(constants)},
	{KindListStacks, exact("list stacks", "liststacks")},
	{KindAlign, keyword("align", "a")},
	{KindRandom, keyword("rand")},
	{KindDice, keyword("dice")},
	{KindFraction, keyword("frac")},
	{KindMemory, keyword("mem")},
	{KindFunction, named(functions)},
	{KindStats, named(statistics)},
	{KindOperator, operator},
	{KindNumber, number},
	{KindNumOp, numOp},
	{KindBlank, blank},
}

// Classify maps one line of raw input to exactly one Command.
// Classification never fails: lines matching no rule yield KindUnknown.
func Classify(line string) Command {
	raw := strings.TrimSpace(line)
	in := input{
		raw:   raw,
		lower: strings.ToLower(raw),
	}
	in.words = strings.Join(strings.Fields(in.lower), " ")

	for _, r := range rules {
		if cmd, ok := r.match(in); ok {
			cmd.Kind = r.kind
			cmd.Input = raw
			return cmd
		}
	}
	return Command{Kind: KindUnknown, Input: raw}
}

// exact matches any of the given words, case-insensitively.
func exact(words ...string) func(input) (Command, bool) {
	return func(in input) (Command, bool) {
		for _, w := range words {
			if in.words == w {
				return Command{Name: w}, true
			}
		}
		return Command{}, false
	}
}

// prefix matches lines starting with p.
func prefix(p string) func(input) (Command, bool) {
	return func(in input) (Command, bool) {
		if strings.HasPrefix(in.lower, p) {
			return Command{Name: p}, true
		}
		return Command{}, false
	}
}

// keyword matches a word alone or followed by whitespace and arguments.
func keyword(words ...string) func(input) (Command, bool) {
	return func(in input) (Command, bool) {
		for _, w := range words {
			if in.lower == w {
				return Command{Name: w}, true
			}
			if strings.HasPrefix(in.lower, w) && len(in.lower) > len(w) && isSpace(in.lower[len(w)]) {
				return Command{Name: w, Arg: strings.TrimSpace(in.raw[len(w):])}, true
			}
		}
		return Command{}, false
	}
}

// letter matches a single-letter command optionally followed by numeric
// arguments. The character after the letter must be whitespace, a digit or
// a minus sign, so longer words starting with the same letter do not match.
func letter(c byte) func(input) (Command, bool) {
	return func(in input) (Command, bool) {
		if in.lower == "" || in.lower[0] != c {
			return Command{}, false
		}
		if len(in.lower) == 1 {
			return Command{Name: string(c)}, true
		}
		next := in.lower[1]
		if isSpace(next) || isDigit(next) || next == '-' {
			return Command{Name: string(c), Arg: strings.TrimSpace(in.raw[1:])}, true
		}
		return Command{}, false
	}
}

// named matches the keys of a lookup table.
func named[V any](table map[string]V) func(input) (Command, bool) {
	return func(in input) (Command, bool) {
		if _, ok := table[in.lower]; ok {
			return Command{Name: in.lower}, true
		}
		return Command{}, false
	}
}

const binaryOperators = "+-*/^%"

// numOpOperators excludes '%': a trailing percent is not a fused operator.
const numOpOperators = "*+-/^"

func operator(in input) (Command, bool) {
	if len(in.raw) == 1 && strings.IndexByte(binaryOperators, in.raw[0]) >= 0 {
		return Command{Op: in.raw[0]}, true
	}
	return Command{}, false
}

// number matches -?\d*\.?\d* over the whole non-empty line.
func number(in input) (Command, bool) {
	if in.raw == "" || scanNumber(in.raw) != len(in.raw) {
		return Command{}, false
	}
	return Command{Arg: in.raw}, true
}

// numOp matches a numeric literal, an optional space and one trailing operator.
func numOp(in input) (Command, bool) {
	n := scanNumber(in.raw)
	rest := in.raw[n:]
	if strings.HasPrefix(rest, " ") {
		rest = rest[1:]
	}
	if len(rest) != 1 || strings.IndexByte(numOpOperators, rest[0]) < 0 {
		return Command{}, false
	}
	return Command{Arg: in.raw[:n], Op: rest[0]}, true
}

func blank(in input) (Command, bool) {
	return Command{}, in.raw == ""
}

// scanNumber returns the length of the longest prefix of s matching -?\d*\.?\d*.
func scanNumber(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' }
