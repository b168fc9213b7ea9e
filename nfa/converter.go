package nfa

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/charnfa/internal/conv"
)

type actionKind uint8

const (
	actionNone actionKind = iota
	actionString
	actionBackref
	actionRange
)

// action is one emit step of a Converter.
type action struct {
	kind  actionKind
	text  []rune
	slot  int
	delta int32
}

// Converter is an ordered list of emit actions, normally installed as the
// result of a terminal state. Running it after a match writes literal text
// and captured spans of the matched input.
type Converter struct {
	actions []action
}

// NewStringConverter returns a converter emitting a copy of s.
func NewStringConverter(s []rune) *Converter {
	text := make([]rune, len(s))
	copy(text, s)
	return &Converter{actions: []action{{kind: actionString, text: text}}}
}

// NewBackrefConverter returns a converter emitting the span captured in slot.
// A slot that captured nothing emits nothing.
func NewBackrefConverter(slot int) *Converter {
	return &Converter{actions: []action{{kind: actionBackref, slot: slot}}}
}

// NewRangeConverter returns a converter emitting the span captured in slot
// with every character shifted by to-from.
// Running it when the slot captured nothing fails with ErrNoSuchBackref.
func NewRangeConverter(slot int, from, to rune) *Converter {
	return &Converter{actions: []action{{
		kind:  actionRange,
		slot:  slot,
		delta: conv.RuneDelta(from, to),
	}}}
}

// Append adds the actions of next after those of c and returns c.
func (c *Converter) Append(next *Converter) *Converter {
	if next != nil {
		c.actions = append(c.actions, next.actions...)
	}
	return c
}

// Len returns the number of actions
func (c *Converter) Len() int {
	if c == nil {
		return 0
	}
	return len(c.actions)
}

// Run executes the actions in order against the captures of a's last
// match, writing to out. It returns the number of runes written.
//
// On ErrNoSpace the runes written before out filled up are left in place
// and counted in n.
func (c *Converter) Run(a *Automaton, out []rune) (n int, err error) {
	if c == nil {
		return 0, nil
	}
	for _, act := range c.actions {
		switch act.kind {
		case actionString:
			n, err = emit(out, n, act.text, 0)

		case actionBackref:
			sp, berr := a.Backref(act.slot)
			if errors.Is(berr, ErrNoMatchYet) {
				return n, fmt.Errorf("%w: backref %d before any match", ErrInternal, act.slot)
			}
			if berr != nil || !sp.Valid() {
				// optional captures produce no output
				continue
			}
			n, err = emit(out, n, a.lastInput[sp.Start:sp.End], 0)

		case actionRange:
			sp, berr := a.Backref(act.slot)
			if errors.Is(berr, ErrNoMatchYet) {
				return n, fmt.Errorf("%w: range %d before any match", ErrInternal, act.slot)
			}
			if berr != nil || !sp.Valid() {
				return n, fmt.Errorf("%w: slot %d", ErrNoSuchBackref, act.slot)
			}
			n, err = emit(out, n, a.lastInput[sp.Start:sp.End], act.delta)

		default:
			return n, fmt.Errorf("%w: converter action %d", ErrInternal, act.kind)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// emit copies src shifted by delta into out at n.
// Shifts leaving the code point range produce utf8.RuneError.
func emit(out []rune, n int, src []rune, delta int32) (int, error) {
	for _, r := range src {
		if n >= len(out) {
			return n, ErrNoSpace
		}
		if delta != 0 {
			r, _ = conv.ShiftRune(r, delta)
		}
		out[n] = r
		n++
	}
	return n, nil
}

// String renders the actions for debugging, e.g. (string 'ss')(backref 1)
func (c *Converter) String() string {
	if c == nil || len(c.actions) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, act := range c.actions {
		switch act.kind {
		case actionString:
			sb.WriteString("(string '")
			sb.WriteString(string(act.text))
			sb.WriteString("')")
		case actionBackref:
			sb.WriteString("(backref ")
			sb.WriteString(strconv.Itoa(act.slot))
			sb.WriteString(")")
		case actionRange:
			fmt.Fprintf(&sb, "(range %d %+d)", act.slot, act.delta)
		default:
			sb.WriteString("(none)")
		}
	}
	return sb.String()
}
