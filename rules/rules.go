// Package rules loads normalization rule sets from YAML and compiles them
// into an nfa.Automaton.
//
// A rule file lists rules of three kinds, told apart by their fields:
//
//	name: latin-fold
//	rules:
//	  - from: "ß"          # string: rewrite a literal sequence
//	    to: "ss"
//	  - range: "A-Z"       # range: shift a character range
//	    shift_to: "a"
//	  - range: "0-9"       # range_string: rewrite any character of a range
//	    to: "#"
//
// Range bounds are single characters or U+XXXX code points, e.g.
// "U+00C0-U+00C5". Rules are compiled in file order; longest match wins and
// equally long matches go to the rule whose target state was created first.
package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coregx/charnfa/internal/conv"
	"github.com/coregx/charnfa/nfa"
)

// Kind identifies the shape of a rule.
type Kind string

// Rule kinds.
const (
	KindString      Kind = "string"
	KindRange       Kind = "range"
	KindRangeString Kind = "range_string"
)

var (
	// ErrUnknownKind indicates a rule whose fields match no kind
	ErrUnknownKind = errors.New("cannot determine rule kind")

	// ErrBadRange indicates a malformed range expression
	ErrBadRange = errors.New("malformed range")

	// ErrBadShift indicates a shift_to value that is not a single character
	ErrBadShift = errors.New("shift_to must be a single character")
)

// Rule is one entry of a rule file.
type Rule struct {
	Name    string `yaml:"name,omitempty"`
	From    string `yaml:"from,omitempty"`
	To      string `yaml:"to,omitempty"`
	Range   string `yaml:"range,omitempty"`
	ShiftTo string `yaml:"shift_to,omitempty"`
}

// Kind infers the rule kind from the fields that are set.
// An empty string is returned for inconsistent rules.
func (r Rule) Kind() Kind {
	switch {
	case r.From != "" && r.Range == "" && r.ShiftTo == "":
		return KindString
	case r.Range != "" && r.From == "" && r.ShiftTo != "" && r.To == "":
		return KindRange
	case r.Range != "" && r.From == "" && r.ShiftTo == "":
		return KindRangeString
	default:
		return ""
	}
}

// RuleSet is a named, ordered list of rules.
type RuleSet struct {
	Name  string `yaml:"name,omitempty"`
	Rules []Rule `yaml:"rules"`
}

// RuleError reports a problem with one rule.
type RuleError struct {
	Index int
	Name  string
	Err   error
}

// Error implements the error interface
func (e *RuleError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("rule %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("rule %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error
func (e *RuleError) Unwrap() error {
	return e.Err
}

// Validate checks every rule without building anything.
func (rs *RuleSet) Validate() error {
	for i, r := range rs.Rules {
		if err := r.validate(); err != nil {
			return &RuleError{Index: i, Name: r.Name, Err: err}
		}
	}
	return nil
}

func (r Rule) validate() error {
	switch r.Kind() {
	case KindString:
		return nil
	case KindRange:
		if _, _, err := ParseRange(r.Range); err != nil {
			return err
		}
		_, err := parseShift(r.ShiftTo)
		return err
	case KindRangeString:
		_, _, err := ParseRange(r.Range)
		return err
	default:
		return ErrUnknownKind
	}
}

// Build adds every rule to a, in order.
func (rs *RuleSet) Build(a *nfa.Automaton) error {
	for i, r := range rs.Rules {
		if err := r.build(a); err != nil {
			return &RuleError{Index: i, Name: r.Name, Err: err}
		}
	}
	return nil
}

func (r Rule) build(a *nfa.Automaton) error {
	switch r.Kind() {
	case KindString:
		return a.AddTextRule(r.From, r.To)
	case KindRange:
		lo, hi, err := ParseRange(r.Range)
		if err != nil {
			return err
		}
		out, err := parseShift(r.ShiftTo)
		if err != nil {
			return err
		}
		return a.AddCharRangeRule(lo, hi, out)
	case KindRangeString:
		lo, hi, err := ParseRange(r.Range)
		if err != nil {
			return err
		}
		return a.AddCharStringRule(lo, hi, []rune(r.To))
	default:
		return ErrUnknownKind
	}
}

// Compile builds a new automaton with the default limits from rs.
func (rs *RuleSet) Compile() (*nfa.Automaton, error) {
	a := nfa.New()
	if err := rs.Build(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseRange parses "a", "a-z", "U+0041" or "U+0041-U+005A".
// A literal '-' can be written as U+002D.
func ParseRange(s string) (lo, hi rune, err error) {
	lo, rest, err := parseCodePoint(s)
	if err != nil {
		return 0, 0, err
	}
	if rest == "" {
		return lo, lo, nil
	}
	if rest[0] != '-' {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	hi, rest, err = parseCodePoint(rest[1:])
	if err != nil {
		return 0, 0, err
	}
	if rest != "" {
		return 0, 0, fmt.Errorf("%w: trailing %q in %q", ErrBadRange, rest, s)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: %q starts after it ends", ErrBadRange, s)
	}
	return lo, hi, nil
}

// parseCodePoint reads one bound from the front of s.
func parseCodePoint(s string) (rune, string, error) {
	if s == "" {
		return 0, "", fmt.Errorf("%w: missing character", ErrBadRange)
	}
	if len(s) > 2 && (s[:2] == "U+" || s[:2] == "u+") {
		end := 2
		for end < len(s) && end < 8 && isHex(s[end]) {
			end++
		}
		if end > 2 {
			v, err := strconv.ParseUint(s[2:end], 16, 32)
			if err != nil {
				return 0, "", fmt.Errorf("%w: %v", ErrBadRange, err)
			}
			r, err := conv.Uint64ToRune(v)
			if err != nil {
				return 0, "", fmt.Errorf("%w: %s: %w", ErrBadRange, s[:end], err)
			}
			return r, s[end:], nil
		}
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return 0, "", fmt.Errorf("%w: invalid UTF-8 in %q", ErrBadRange, s)
	}
	return r, s[size:], nil
}

func isHex(c byte) bool {
	return strings.IndexByte("0123456789abcdefABCDEF", c) >= 0
}

func parseShift(s string) (rune, error) {
	r, rest, err := parseCodePoint(s)
	if err != nil || rest != "" {
		return 0, fmt.Errorf("%w: %q", ErrBadShift, s)
	}
	return r, nil
}
