package nfa

import (
	"github.com/coregx/charnfa/internal/conv"
	"github.com/coregx/charnfa/internal/sparse"
)

// Reachable returns the number of states reachable from the initial state.
func (a *Automaton) Reachable() int {
	if len(a.states) == 0 {
		return 0
	}
	seen := sparse.NewSparseSet(conv.IntToUint32(len(a.states)))
	stack := []StateID{a.Start()}
	seen.Insert(uint32(a.Start()))
	for len(stack) > 0 {
		sid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range a.states[sid].transitions {
			if seen.Insert(uint32(t.Next)) {
				stack = append(stack, t.Next)
			}
		}
	}
	return seen.Size()
}

// FindEpsilonCycle returns the states of a cycle made only of epsilon
// transitions, or nil if there is none. Matching an automaton with such a
// cycle can fail with ErrLoop.
func (a *Automaton) FindEpsilonCycle() []StateID {
	n := conv.IntToUint32(len(a.states))
	done := sparse.NewSparseSet(n)
	onPath := sparse.NewSparseSet(n)
	var path []StateID

	var visit func(sid StateID) []StateID
	visit = func(sid StateID) []StateID {
		onPath.Insert(uint32(sid))
		path = append(path, sid)
		for _, t := range a.states[sid].transitions {
			if !t.IsEmpty() {
				continue
			}
			if onPath.Contains(uint32(t.Next)) {
				for i, p := range path {
					if p == t.Next {
						return append([]StateID(nil), path[i:]...)
					}
				}
			}
			if done.Contains(uint32(t.Next)) {
				continue
			}
			if cycle := visit(t.Next); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		onPath.Remove(uint32(sid))
		done.Insert(uint32(sid))
		return nil
	}

	for i := range a.states {
		sid := a.states[i].id
		if done.Contains(uint32(sid)) {
			continue
		}
		if cycle := visit(sid); cycle != nil {
			return cycle
		}
	}
	return nil
}
