package nfa

import (
	"fmt"
)

// AddStringRule adds a rule rewriting the sequence from into to.
// Rules sharing a prefix share states. Adding the same from twice fails
// with ErrAlreadySet.
func (a *Automaton) AddStringRule(from, to []rune) error {
	s, err := a.AddSequence(Root, from)
	if err != nil {
		return err
	}
	return a.SetResult(s, NewStringConverter(to))
}

// AddTextRule is AddStringRule for Go strings.
func (a *Automaton) AddTextRule(from, to string) error {
	return a.AddStringRule([]rune(from), []rune(to))
}

// AddCharRangeRule adds a rule mapping each character of [lo, hi] to the
// character at the same offset from outLo.
func (a *Automaton) AddCharRangeRule(lo, hi, outLo rune) error {
	if lo > hi {
		return &BuildError{Message: fmt.Sprintf("range %q-%q", lo, hi), StateID: InvalidState, Err: ErrInvalidRange}
	}
	s, err := a.AddRange(Root, lo, hi)
	if err != nil {
		return err
	}
	// single characters do not bind slot 0, so emit the literal instead
	if lo == hi {
		return a.SetResult(s, NewStringConverter([]rune{outLo}))
	}
	return a.SetResult(s, NewRangeConverter(0, lo, outLo))
}

// AddCharStringRule adds a rule rewriting any character of [lo, hi] into to.
func (a *Automaton) AddCharStringRule(lo, hi rune, to []rune) error {
	if lo > hi {
		return &BuildError{Message: fmt.Sprintf("range %q-%q", lo, hi), StateID: InvalidState, Err: ErrInvalidRange}
	}
	s, err := a.AddRange(Root, lo, hi)
	if err != nil {
		return err
	}
	return a.SetResult(s, NewStringConverter(to))
}
