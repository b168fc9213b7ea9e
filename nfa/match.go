package nfa

// matcher is the search context threaded through one Match call.
type matcher struct {
	a     *Automaton
	input []rune

	// eof reports that no input follows input; running out of characters
	// is then a dead end instead of ErrOverrun
	eof bool

	// longest is the length of the best match so far, bestNode the state
	// that produced it
	longest  int
	bestNode StateID
	result   any

	// empties counts epsilon steps, sibling edges included, since the
	// consumed character this path is below
	empties int
	depth   int
	err     error
}

// Match finds the longest prefix of input accepted by a terminal state.
// It returns the prefix length and the terminal state's payload.
//
// Of two terminal states accepting equally long prefixes, the one with the
// lower StateID wins. Terminal states reached without consuming input are
// ignored, so a successful match always has n >= 1.
//
// Errors:
//   - ErrNoMatch: no terminal state was reached
//   - ErrLoop: more than LoopLimit epsilon steps below one consumed character
//   - ErrOverrun: input ended at a state that still has transitions; more
//     input could produce a longer match
//   - ErrTooDeep: the search exceeded MaxDepth nested steps
//
// Captures of a successful match are available through Backref and stay
// valid until the next call. They index into input, which is retained.
func (a *Automaton) Match(input []rune) (n int, payload any, err error) {
	return a.match(input, false)
}

// MatchEOF is like Match but treats input as the end of the stream:
// exhausting it is never an error, only a dead end for the path being tried.
func (a *Automaton) MatchEOF(input []rune) (n int, payload any, err error) {
	return a.match(input, true)
}

func (a *Automaton) match(input []rune, eof bool) (int, any, error) {
	a.lastInput = input
	if len(a.states) == 0 {
		a.lastErr = ErrNoMatch
		return 0, nil, ErrNoMatch
	}
	a.resetTables()

	m := matcher{
		a:        a,
		input:    input,
		eof:      eof,
		bestNode: InvalidState,
	}
	m.matchState(a.Start(), 0)

	if m.err == nil && m.result == nil {
		m.err = ErrNoMatch
	}
	a.lastErr = m.err
	if m.err != nil {
		return 0, nil, m.err
	}
	return m.longest, m.result, nil
}

// resetTables (re)allocates the capture tables if the slot count changed
// and marks every slot unset.
func (a *Automaton) resetTables() {
	if a.tablesDirty || len(a.curr) != a.nbackrefs {
		a.curr = make([]Span, a.nbackrefs)
		a.best = make([]Span, a.nbackrefs)
		a.tablesDirty = false
	}
	for i := range a.curr {
		a.curr[i] = unsetSpan
		a.best[i] = unsetSpan
	}
}

// matchState explores every path leaving state sid at input position pos.
// Backref markers of sid apply to the subtree explored from here and are
// restored on return.
//
//nolint:gocyclo,cyclop // one loop over transitions with three edge kinds
func (m *matcher) matchState(sid StateID, pos int) {
	if m.depth >= m.a.maxDepth {
		m.err = ErrTooDeep
		return
	}
	m.depth++

	st := &m.a.states[sid]
	curr := m.a.curr

	var savedStart, savedEnd int
	if slot := st.backrefStart; slot != 0 {
		savedStart = curr[slot].Start
		curr[slot].Start = pos
	}
	if slot := st.backrefEnd; slot != 0 {
		savedEnd = curr[slot].End
		curr[slot].End = pos
	}

	if len(st.transitions) > 0 {
		if pos < len(m.input) {
			m.step(st, pos)
		} else if m.eof {
			m.stepEmpty(st, pos)
		} else {
			m.err = ErrOverrun
		}
	}

	if st.result != nil && m.err == nil && pos > 0 {
		if pos > m.longest || (pos == m.longest && sid < m.bestNode) {
			m.longest = pos
			m.bestNode = sid
			m.result = st.result
			copy(m.a.best, curr)
		}
	}

	if slot := st.backrefEnd; slot != 0 {
		curr[slot].End = savedEnd
	}
	if slot := st.backrefStart; slot != 0 {
		curr[slot].Start = savedStart
	}
	m.depth--
}

// step follows the transitions of st that consume input[pos], and the
// epsilon transitions, in insertion order.
func (m *matcher) step(st *State, pos int) {
	c := m.input[pos]
	curr := m.a.curr
	for _, t := range st.transitions {
		switch {
		case t.Contains(c):
			// the epsilon budget restarts only below a consumed character
			savedEmpties := m.empties
			m.empties = 0
			saved := curr[0]
			// slot 0 is the last proper range consumed
			if t.Lo != t.Hi {
				curr[0] = Span{Start: pos, End: pos + 1}
			}
			m.matchState(t.Next, pos+1)
			curr[0] = saved
			m.empties = savedEmpties
		case t.IsEmpty():
			m.epsilon(t.Next, pos)
		}
		if m.err != nil {
			return
		}
	}
}

// stepEmpty follows only the epsilon transitions of st.
func (m *matcher) stepEmpty(st *State, pos int) {
	for _, t := range st.transitions {
		if t.IsEmpty() {
			m.epsilon(t.Next, pos)
			if m.err != nil {
				return
			}
		}
	}
}

func (m *matcher) epsilon(next StateID, pos int) {
	if m.empties >= m.a.loopLimit {
		m.err = ErrLoop
		return
	}
	m.empties++
	m.matchState(next, pos)
}

// Backref returns the span captured in slot by the last successful match.
// Slots that were not bound on the accepting path report an unset Span
// with a nil error.
func (a *Automaton) Backref(slot int) (Span, error) {
	if slot < 0 || slot >= a.nbackrefs {
		return unsetSpan, ErrNoSuchSlot
	}
	if a.lastErr != nil || a.tablesDirty || slot >= len(a.best) {
		return unsetSpan, ErrNoMatchYet
	}
	return a.best[slot], nil
}

// LastInput returns the input of the most recent Match call.
func (a *Automaton) LastInput() []rune {
	return a.lastInput
}
