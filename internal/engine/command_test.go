package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		arg  string
		op   byte
	}{
		{"debug", KindDebug, "", 0},
		{"DeBuG", KindDebug, "", 0},
		{"load work", KindLoad, "work", 0},
		{"load   My Stack  ", KindLoad, "My Stack", 0},
		{"load", KindLoad, "", 0},
		{"ver", KindVersion, "", 0},
		{"version", KindVersion, "", 0},
		{"h", KindHelp, "", 0},
		{"H", KindHelp, "", 0},
		{"?", KindHelp, "", 0},
		{"help", KindHelp, "", 0},
		{"x", KindExit, "", 0},
		{"X", KindExit, "", 0},
		{"queryundo", KindListUndo, "", 0},
		{"list undo", KindListUndo, "", 0},
		{"list   undo", KindListUndo, "", 0},
		{"u", KindUndo, "", 0},
		{"U", KindUndo, "", 0},
		{"c", KindClear, "", 0},
		{"d", KindDelete, "", 0},
		{"d 3", KindDelete, "3", 0},
		{"d3", KindDelete, "3", 0},
		{"D 2", KindDelete, "2", 0},
		{"d abc", KindDelete, "abc", 0},
		{"sqrt", KindSqrt, "", 0},
		{"ss", KindSwapStacks, "", 0},
		{"SS", KindSwapStacks, "", 0},
		{"s", KindSwapElements, "", 0},
		{"s 1 3", KindSwapElements, "1 3", 0},
		{"f", KindFlipSign, "", 0},
		{"copy", KindCopy, "", 0},
		{"pi", KindConstant, "", 0},
		{"phi", KindConstant, "", 0},
		{"euler", KindConstant, "", 0},
		{"list stacks", KindListStacks, "", 0},
		{"align r", KindAlign, "r", 0},
		{"a d", KindAlign, "d", 0},
		{"rand", KindRandom, "", 0},
		{"rand 1 6", KindRandom, "1 6", 0},
		{"dice", KindDice, "", 0},
		{"dice 3d6", KindDice, "3d6", 0},
		{"frac", KindFraction, "", 0},
		{"frac 16", KindFraction, "16", 0},
		{"mem add", KindMemory, "add", 0},
		{"mem 3 recall", KindMemory, "3 recall", 0},
		{"sin", KindFunction, "", 0},
		{"log10", KindFunction, "", 0},
		{"abs", KindFunction, "", 0},
		{"sum", KindStats, "", 0},
		{"sd", KindStats, "", 0},
		{"avg", KindStats, "", 0},
		{"+", KindOperator, "", '+'},
		{"-", KindOperator, "", '-'},
		{"%", KindOperator, "", '%'},
		{"^", KindOperator, "", '^'},
		{"3", KindNumber, "3", 0},
		{"-3.5", KindNumber, "-3.5", 0},
		{".5", KindNumber, ".5", 0},
		{"5.", KindNumber, "5.", 0},
		{"  42  ", KindNumber, "42", 0},
		{".", KindNumber, ".", 0},
		{"3+", KindNumOp, "3", '+'},
		{"3 *", KindNumOp, "3", '*'},
		{"-2.5/", KindNumOp, "-2.5", '/'},
		{"10^", KindNumOp, "10", '^'},
		{"", KindBlank, "", 0},
		{"   ", KindBlank, "", 0},
		{"3%", KindUnknown, "", 0},
		{"3  +", KindUnknown, "", 0},
		{"hello", KindUnknown, "", 0},
		{"1e5", KindUnknown, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd := Classify(tt.line)
			assert.Equal(t, tt.kind, cmd.Kind, "kind for %q: got %s", tt.line, cmd.Kind)
			assert.Equal(t, tt.arg, cmd.Arg)
			assert.Equal(t, tt.op, cmd.Op)
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A bare number must never be captured by the fused number+operator rule.
	assert.Equal(t, KindNumber, Classify("3").Kind)

	// A single operator must be tried before the numeric patterns.
	assert.Equal(t, KindOperator, Classify("-").Kind)

	// Words starting with command letters are not captured by d or s.
	assert.Equal(t, KindDice, Classify("dice 2d8").Kind)
	assert.Equal(t, KindFunction, Classify("sin").Kind)
	assert.Equal(t, KindStats, Classify("sum").Kind)

	// ss precedes s.
	assert.Equal(t, KindSwapStacks, Classify("ss").Kind)
}

func TestClassify_PreservesInput(t *testing.T) {
	cmd := Classify("  Load Work  ")
	assert.Equal(t, "Load Work", cmd.Input)
	assert.Equal(t, "Work", cmd.Arg, "load keeps the name's case")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "numop", KindNumOp.String())
	assert.Equal(t, "unknown", Kind(999).String())
}
