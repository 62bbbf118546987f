package engine

import (
	"errors"
	"fmt"
)

// CalcError represents a recoverable, user-facing error raised by a command.
//
// Every CalcError leaves the engine state exactly as it was before the
// command ran. The command loop reports it as a single line and continues.
type CalcError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes command errors.
type ErrorCode string

const (
	// ErrCodeInsufficientDepth indicates an operation needs more values than the stack holds.
	ErrCodeInsufficientDepth ErrorCode = "INSUFFICIENT_STACK_DEPTH"

	// ErrCodeIndexOutOfRange indicates a delete, swap or memory slot index outside valid bounds.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeMalformedArgument indicates a numeric or sub-command argument failed to parse.
	ErrCodeMalformedArgument ErrorCode = "MALFORMED_ARGUMENT"

	// ErrCodeEmptyMemorySlot indicates a recall from a slot holding no value.
	ErrCodeEmptyMemorySlot ErrorCode = "EMPTY_MEMORY_SLOT"

	// ErrCodeUndoExhausted indicates there is no snapshot left to restore.
	ErrCodeUndoExhausted ErrorCode = "UNDO_HISTORY_EXHAUSTED"

	// ErrCodeUnrecognizedInput indicates the line matched no command.
	ErrCodeUnrecognizedInput ErrorCode = "UNRECOGNIZED_INPUT"

	// ErrCodeStorage indicates the stack store failed during a session command.
	ErrCodeStorage ErrorCode = "STORAGE_FAILURE"
)

// Error implements the error interface.
func (e *CalcError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a CalcError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// CodeOf returns the code of a CalcError, or "" for any other error.
func CodeOf(err error) ErrorCode {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// NewDepthError creates a CalcError for an operation that needs at least
// need values while only have are present.
func NewDepthError(op string, need, have int) *CalcError {
	noun := "numbers are"
	if need == 1 {
		noun = "number is"
	}
	return &CalcError{
		Code:    ErrCodeInsufficientDepth,
		Message: fmt.Sprintf("%d %s required for '%s'", need, noun, op),
		Details: map[string]string{
			"op":   op,
			"need": fmt.Sprintf("%d", need),
			"have": fmt.Sprintf("%d", have),
		},
	}
}

// NewIndexError creates a CalcError for an index outside [low, high].
func NewIndexError(what string, index, low, high int) *CalcError {
	return &CalcError{
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("invalid %s %d: must be between %d and %d", what, index, low, high),
		Details: map[string]string{
			"index": fmt.Sprintf("%d", index),
			"low":   fmt.Sprintf("%d", low),
			"high":  fmt.Sprintf("%d", high),
		},
	}
}

// NewMalformedError creates a CalcError for an argument that failed to parse.
func NewMalformedError(format string, args ...any) *CalcError {
	return &CalcError{
		Code:    ErrCodeMalformedArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

func newEmptySlotError(slot int) *CalcError {
	return &CalcError{
		Code:    ErrCodeEmptyMemorySlot,
		Message: fmt.Sprintf("memory slot #%d is empty", slot),
		Details: map[string]string{"slot": fmt.Sprintf("%d", slot)},
	}
}

func newUndoExhaustedError() *CalcError {
	return &CalcError{
		Code:    ErrCodeUndoExhausted,
		Message: "already at oldest change",
	}
}

func newUnrecognizedError(input string) *CalcError {
	return &CalcError{
		Code:    ErrCodeUnrecognizedInput,
		Message: fmt.Sprintf("input not recognized: '%s'", input),
	}
}

func newStorageError(action string, err error) *CalcError {
	return &CalcError{
		Code:    ErrCodeStorage,
		Message: fmt.Sprintf("%s: %v", action, err),
	}
}
