// Package nfa provides a character-range NFA used to normalize and
// transliterate streams of characters.
//
// An Automaton is built once through the construction API (AddState,
// AddTransition, AddRange, AddSequence, SetResult, SetBackrefPoint) or the
// rule helpers (AddStringRule, AddCharRangeRule, AddCharStringRule). Matching
// finds the longest prefix of the input accepted by some terminal state;
// the terminal state's payload, normally a *Converter, then re-emits
// literal text and captured spans into an output buffer.
package nfa

import (
	"errors"
	"fmt"
)

// Construction errors
var (
	// ErrInvalidState indicates a state ID that does not belong to the automaton
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrAlreadySet indicates a conflicting result or backref marker on a state.
	// When returned by a rule helper it signals a duplicate rule.
	ErrAlreadySet = errors.New("already set")

	// ErrNoSuchStart indicates a backref end marker for a slot that was never started
	ErrNoSuchStart = errors.New("backref end without start")

	// ErrEmptySequence indicates an attempt to add a zero-length sequence
	ErrEmptySequence = errors.New("empty sequence")

	// ErrInvalidRange indicates a rule range whose start exceeds its end
	ErrInvalidRange = errors.New("range start after end")
)

// Matching and conversion errors
var (
	// ErrNoMatch indicates no terminal state was reached. ConvertSlice
	// recovers from it by copying one character verbatim.
	ErrNoMatch = errors.New("no match")

	// ErrLoop indicates the epsilon step budget was exhausted
	ErrLoop = errors.New("epsilon loop detected")

	// ErrOverrun indicates the input ended while transitions were still pending
	ErrOverrun = errors.New("input overrun")

	// ErrTooDeep indicates the search exceeded the configured recursion depth
	ErrTooDeep = errors.New("match exceeds maximum depth")

	// ErrNoSpace indicates the output buffer is full
	ErrNoSpace = errors.New("no space in output buffer")

	// ErrNoSuchSlot indicates a backref slot outside the automaton's slot range
	ErrNoSuchSlot = errors.New("no such backref slot")

	// ErrNoSuchBackref indicates a range conversion on a slot that captured nothing
	ErrNoSuchBackref = errors.New("no such backref")

	// ErrNoMatchYet indicates captures were queried before a successful match
	ErrNoMatchYet = errors.New("no successful match yet")

	// ErrInternal indicates an inconsistency that should not happen
	ErrInternal = errors.New("internal NFA error")
)

// BuildError represents an error during automaton construction
type BuildError struct {
	Message string
	StateID StateID
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s: %v", e.StateID, e.Message, e.Err)
	}
	return fmt.Sprintf("NFA build error: %s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying sentinel error
func (e *BuildError) Unwrap() error {
	return e.Err
}
