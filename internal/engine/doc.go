// Package engine implements the RPN calculator's stack machine.
//
// The engine owns the session state: the primary and secondary numeric
// stacks, the memory bank and the undo history. It is fed one line of input
// at a time through Execute.
//
// Command Processing Flow:
//  1. Classify trims the line and walks an ordered rule table; the first
//     matching rule determines the command Kind. Unmatched lines classify as
//     KindUnknown, so classification itself never fails.
//  2. Execute looks up the handler for the Kind and runs it.
//  3. The handler validates its arguments and stack depth first. Only when
//     the mutation is certain does it push an undo snapshot of the primary
//     stack and mutate.
//  4. The handler returns a Result (report lines, exit or clear-screen
//     requests) or a *CalcError.
//
// All CalcErrors are recoverable: the state is unchanged and the caller
// reports the message and keeps reading input.
//
// Persistence goes through the StackStore interface. Open loads the selected
// stack at the start of a session and Close saves both stacks at the end;
// load <name> saves and switches mid-session. The memory bank is
// process-local and never persisted.
//
// The engine is single-threaded. Callers must not use it from more than one
// goroutine at a time.
package engine
