package nfa

import (
	"github.com/coregx/charnfa/internal/conv"
)

// AddState appends a new state with no transitions, result or backref
// markers and returns its ID.
func (a *Automaton) AddState() StateID {
	id := StateID(conv.IntToUint32(len(a.states)))
	a.states = append(a.states, State{id: id})
	return id
}

// resolve maps Root to the initial state, creating it when the automaton
// is still empty.
func (a *Automaton) resolve(from StateID) (StateID, error) {
	if from == Root {
		if len(a.states) == 0 {
			return a.AddState(), nil
		}
		return 0, nil
	}
	if a.State(from) == nil {
		return InvalidState, &BuildError{
			Message: "unknown source state",
			StateID: from,
			Err:     ErrInvalidState,
		}
	}
	return from, nil
}

// SetResult installs payload on state s, making it terminal.
// A non-nil payload cannot replace another non-nil payload.
func (a *Automaton) SetResult(s StateID, payload any) error {
	st := a.State(s)
	if st == nil {
		return &BuildError{Message: "set result", StateID: s, Err: ErrInvalidState}
	}
	if st.result != nil && payload != nil {
		return &BuildError{Message: "state already has a result", StateID: s, Err: ErrAlreadySet}
	}
	st.result = payload
	return nil
}

// Result returns the payload of state s, nil if s is unknown or not terminal.
func (a *Automaton) Result(s StateID) any {
	if st := a.State(s); st != nil {
		return st.result
	}
	return nil
}

// AddTransition adds an edge from -> to labelled [lo, hi].
// A range with lo > hi consumes no input; use AddEmptyTransition for
// the canonical epsilon label.
func (a *Automaton) AddTransition(from, to StateID, lo, hi rune) error {
	if a.State(to) == nil {
		return &BuildError{Message: "unknown target state", StateID: to, Err: ErrInvalidState}
	}
	from, err := a.resolve(from)
	if err != nil {
		return err
	}
	st := &a.states[from]
	st.transitions = append(st.transitions, Transition{Lo: lo, Hi: hi, Next: to})
	return nil
}

// AddEmptyTransition adds an epsilon edge from -> to.
func (a *Automaton) AddEmptyTransition(from, to StateID) error {
	return a.AddTransition(from, to, EmptyStart, EmptyEnd)
}

// findSingle returns the target of the edge from s labelled exactly [lo, hi].
func (a *Automaton) findSingle(s StateID, lo, hi rune) StateID {
	for _, t := range a.states[s].transitions {
		if t.Lo == lo && t.Hi == hi {
			return t.Next
		}
	}
	return InvalidState
}

// AddRange returns the state reached from `from` over [lo, hi].
// An existing edge with exactly this label is reused; otherwise a new
// state and edge are created.
func (a *Automaton) AddRange(from StateID, lo, hi rune) (StateID, error) {
	from, err := a.resolve(from)
	if err != nil {
		return InvalidState, err
	}
	if next := a.findSingle(from, lo, hi); next != InvalidState {
		return next, nil
	}
	next := a.AddState()
	st := &a.states[from]
	st.transitions = append(st.transitions, Transition{Lo: lo, Hi: hi, Next: next})
	return next, nil
}

// AddSequence adds a path spelling seq from `from` and returns its last
// state. Any existing prefix of single-character edges is shared.
func (a *Automaton) AddSequence(from StateID, seq []rune) (StateID, error) {
	if len(seq) == 0 {
		return InvalidState, &BuildError{Message: "add sequence", StateID: from, Err: ErrEmptySequence}
	}
	s, err := a.resolve(from)
	if err != nil {
		return InvalidState, err
	}
	for _, c := range seq {
		if s, err = a.AddRange(s, c, c); err != nil {
			return InvalidState, err
		}
	}
	return s, nil
}

// SetBackrefPoint marks state s as the start (isStart) or end of capture
// slot. Starting a slot beyond the current count grows the slot table; the
// capture tables are reallocated before the next match.
func (a *Automaton) SetBackrefPoint(s StateID, slot int, isStart bool) error {
	st := a.State(s)
	if st == nil {
		return &BuildError{Message: "set backref point", StateID: s, Err: ErrInvalidState}
	}
	if slot < 1 {
		return &BuildError{Message: "backref slots start at 1", StateID: s, Err: ErrNoSuchSlot}
	}
	if isStart {
		if st.backrefStart != 0 {
			return &BuildError{Message: "state already starts a backref", StateID: s, Err: ErrAlreadySet}
		}
		st.backrefStart = slot
		if slot >= a.nbackrefs {
			a.nbackrefs = slot + 1
			a.tablesDirty = true
		}
		return nil
	}
	if st.backrefEnd != 0 {
		return &BuildError{Message: "state already ends a backref", StateID: s, Err: ErrAlreadySet}
	}
	if slot >= a.nbackrefs {
		return &BuildError{Message: "backref end", StateID: s, Err: ErrNoSuchStart}
	}
	st.backrefEnd = slot
	return nil
}

// BackrefPoint returns the slot started (isStart) or ended at s, 0 if none.
func (a *Automaton) BackrefPoint(s StateID, isStart bool) int {
	st := a.State(s)
	if st == nil {
		return 0
	}
	if isStart {
		return st.backrefStart
	}
	return st.backrefEnd
}
