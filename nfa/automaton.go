package nfa

import (
	"fmt"
)

// StateID identifies an automaton state.
// IDs are assigned in creation order and break ties between equally long matches.
type StateID uint32

const (
	// InvalidState represents an invalid/uninitialized state ID
	InvalidState StateID = 0xFFFFFFFF

	// Root may be passed as a source state to mean the automaton's initial
	// state. The initial state is created on demand.
	Root = InvalidState
)

// Epsilon transitions are labelled with the impossible range [1, 0].
// Any range with Lo > Hi consumes no input.
const (
	EmptyStart rune = 1
	EmptyEnd   rune = 0
)

// Transition is an edge labelled with the inclusive character range [Lo, Hi].
type Transition struct {
	Lo   rune
	Hi   rune
	Next StateID
}

// IsEmpty reports whether t consumes no input
func (t Transition) IsEmpty() bool {
	return t.Lo > t.Hi
}

// Contains reports whether t consumes r
func (t Transition) Contains(r rune) bool {
	return t.Lo <= r && r <= t.Hi
}

// State is a single automaton node.
type State struct {
	id          StateID
	result      any
	transitions []Transition

	// backref slot markers, 0 when unset
	backrefStart int
	backrefEnd   int
}

// ID returns the state's identifier
func (s *State) ID() StateID {
	return s.id
}

// IsTerminal reports whether the state carries a result
func (s *State) IsTerminal() bool {
	return s.result != nil
}

// Result returns the state's payload, nil for non-terminal states
func (s *State) Result() any {
	return s.result
}

// Transitions returns the outgoing edges in insertion order.
// The returned slice must not be modified.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// BackrefStart returns the slot started at this state, 0 if none
func (s *State) BackrefStart() int {
	return s.backrefStart
}

// BackrefEnd returns the slot ended at this state, 0 if none
func (s *State) BackrefEnd() int {
	return s.backrefEnd
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	if s.result != nil {
		return fmt.Sprintf("State(%d, final, %d transitions)", s.id, len(s.transitions))
	}
	return fmt.Sprintf("State(%d, %d transitions)", s.id, len(s.transitions))
}

// Span is a captured region [Start, End) of the input passed to Match.
// Unbound captures have Start == End == -1.
type Span struct {
	Start int
	End   int
}

// Valid reports whether the span was captured
func (sp Span) Valid() bool {
	return sp.Start >= 0 && sp.End >= sp.Start
}

// Len returns the number of captured characters
func (sp Span) Len() int {
	if !sp.Valid() {
		return 0
	}
	return sp.End - sp.Start
}

var unsetSpan = Span{Start: -1, End: -1}

// Automaton is a character-range NFA together with the capture tables of its
// most recent match.
//
// An Automaton is not safe for concurrent use: matching writes the capture
// tables. Callers sharing one instance across goroutines must synchronize.
type Automaton struct {
	states []State

	// nbackrefs is the number of capture slots; slot 0 is always present
	nbackrefs int

	// curr holds captures along the path being explored, best those of the
	// best match so far. Both are (re)allocated lazily when tablesDirty.
	curr        []Span
	best        []Span
	tablesDirty bool

	// lastErr is the outcome of the last Match call; nil on success
	lastErr   error
	lastInput []rune

	loopLimit int
	maxDepth  int
}

// Default search limits.
const (
	DefaultLoopLimit = 100
	DefaultMaxDepth  = 10000
)

// New creates an empty automaton with the default search limits
func New() *Automaton {
	return NewWithLimits(DefaultLoopLimit, DefaultMaxDepth)
}

// NewWithLimits creates an empty automaton.
// loopLimit bounds the epsilon steps taken since the last consumed
// character, maxDepth bounds the search
// recursion. Non-positive values select the defaults.
func NewWithLimits(loopLimit, maxDepth int) *Automaton {
	if loopLimit <= 0 {
		loopLimit = DefaultLoopLimit
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Automaton{
		states:      make([]State, 0, 16),
		nbackrefs:   1,
		tablesDirty: true,
		lastErr:     ErrNoMatchYet,
		loopLimit:   loopLimit,
		maxDepth:    maxDepth,
	}
}

// Start returns the initial state, or InvalidState if the automaton is empty
func (a *Automaton) Start() StateID {
	if len(a.states) == 0 {
		return InvalidState
	}
	return 0
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (a *Automaton) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(a.states) {
		return nil
	}
	return &a.states[id]
}

// States returns the total number of states
func (a *Automaton) States() int {
	return len(a.states)
}

// Backrefs returns the number of capture slots, including slot 0
func (a *Automaton) Backrefs() int {
	return a.nbackrefs
}

// LoopLimit returns the epsilon step budget between consumed characters
func (a *Automaton) LoopLimit() int {
	return a.loopLimit
}

// MaxDepth returns the maximum search recursion depth
func (a *Automaton) MaxDepth() int {
	return a.maxDepth
}

// Iter returns an iterator over all states in creation order
func (a *Automaton) Iter() *StateIter {
	return &StateIter{a: a}
}

// StateIter is an iterator over automaton states
type StateIter struct {
	a   *Automaton
	pos int
}

// Next returns the next state in the iteration.
// Returns nil when iteration is complete.
func (it *StateIter) Next() *State {
	if it.pos >= len(it.a.states) {
		return nil
	}
	s := &it.a.states[it.pos]
	it.pos++
	return s
}

// HasNext returns true if there are more states to iterate
func (it *StateIter) HasNext() bool {
	return it.pos < len(it.a.states)
}

// String returns a human-readable representation of the automaton
func (a *Automaton) String() string {
	return fmt.Sprintf("NFA{states: %d, backrefs: %d}", len(a.states), a.nbackrefs)
}
