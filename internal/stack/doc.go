// Package stack provides the numeric stack and undo history used by the
// calculator engine.
//
// Positions are counted from the top: index 0 is the most recently pushed
// value. All operations are all-or-nothing; a failed call never leaves a
// stack partially modified.
//
// Stack and History are not safe for concurrent use. The engine owns them
// and touches them from a single goroutine.
package stack
