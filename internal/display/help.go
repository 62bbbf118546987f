package display

import (
	"fmt"
	"strings"
)

type helpSection struct {
	title string
	lines [][2]string
}

var helpSections = []helpSection{
	{"Operators", [][2]string{
		{"+", "Add line1 to line2"},
		{"-", "Subtract line1 from line2"},
		{"*", "Multiply line2 by line1"},
		{"/", "Divide line2 by line1"},
		{"^", "Raise line2 to the power of line1"},
		{"%", "Remainder of line2 divided by line1"},
		{"<num><op>", "Push a number and apply an operator in one step, e.g. 3+"},
	}},
	{"Stack Commands", [][2]string{
		{"u", "Undo the last change"},
		{"list undo", "Show the undo history"},
		{"c", "Clear the screen and empty the stack"},
		{"d [#]", "Delete line1 or the given line"},
		{"s [# #]", "Swap line1 and line2 or the given lines"},
		{"ss", "Swap the primary and secondary stacks"},
		{"f", "Flip the sign of line1"},
		{"copy", "Push a copy of line1"},
	}},
	{"Functions", [][2]string{
		{"sqrt", "Square root of line1"},
		{"sin|cos|tan", "Trigonometry on line1, in radians"},
		{"asin|acos|atan", "Inverse trigonometry, result in radians"},
		{"log|log10", "Natural or base-10 logarithm of line1"},
		{"abs|int", "Absolute value or integer part of line1"},
		{"sum|mean|sd", "Replace the stack with its sum, mean or standard deviation"},
		{"min|max", "Replace the stack with its smallest or largest value"},
		{"frac [base]", "Show line1 as a fraction, default base 64"},
		{"rand [lo hi]", "Push a random integer, default 1 to 100"},
		{"dice XdY", "Roll a Y-sided die X times, default 1d6"},
	}},
	{"Constants", [][2]string{
		{"pi", "Push pi"},
		{"phi", "Push the golden ratio"},
		{"euler", "Push Euler's number"},
	}},
	{"Memory", [][2]string{
		{"mem [#] add", "Store line1 in a slot, default slot 0"},
		{"mem [#] recall", "Push the value in a slot"},
		{"mem [#] clr", "Empty a slot"},
		{"mem show", "List every slot"},
	}},
	{"Session", [][2]string{
		{"load <name>", "Save the current stack and load (or create) another"},
		{"list stacks", "Show the saved stacks"},
		{"a [l|r|d]", "Align values left, right or on the decimal point"},
		{"debug", "Toggle debug logging"},
		{"ver", "Show the version"},
		{"h|?", "Show this help"},
		{"x", "Save and exit"},
	}},
}

// Help prints the command reference.
func (r *Renderer) Help(version string) {
	border := "+" + strings.Repeat("-", max(r.width-2, 0)) + "+"
	fmt.Fprintln(r.w, r.paint(ansiCyan, border))
	fmt.Fprintln(r.w, r.paint(ansiCyan, "|"+center("RPN Calculator v"+strings.TrimPrefix(version, "v"), r.width-2)+"|"))
	fmt.Fprintln(r.w, r.paint(ansiCyan, border))

	for _, sec := range helpSections {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, r.paint(ansiYellow, sec.title+":"))
		for _, l := range sec.lines {
			fmt.Fprintln(r.w, r.paint(ansiWhite, fmt.Sprintf(" %-16s %s", l[0], l[1])))
		}
	}
}
