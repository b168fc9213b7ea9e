package nfa

import (
	"fmt"
	"io"
	"strconv"
	"unicode"
)

// Dump writes a human-readable table of all states to w.
// describe renders terminal payloads; nil uses fmt.Sprint.
func (a *Automaton) Dump(w io.Writer, describe func(any) string) error {
	if describe == nil {
		describe = func(v any) string { return fmt.Sprint(v) }
	}
	d := dumper{w: w}
	d.printf("NFA has %d states and %d backrefs\n", len(a.states), a.nbackrefs)
	for i := range a.states {
		s := &a.states[i]
		d.printf("  state [%d]", s.id)
		if s.result != nil {
			d.printf(" (final) %s", describe(s.result))
		}
		if s.backrefStart != 0 {
			d.printf(" start-%d", s.backrefStart)
		}
		if s.backrefEnd != 0 {
			d.printf(" end-%d", s.backrefEnd)
		}
		d.printf("\n")
		if len(s.transitions) == 0 {
			d.printf("    (no transitions)\n")
		}
		for _, t := range s.transitions {
			d.printf("    -> [%d] %s\n", t.Next, FormatRange(t.Lo, t.Hi))
		}
	}
	return d.err
}

// dumper remembers the first write error.
type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// FormatRange renders a transition label: (empty) for epsilon, 'a' for a
// single character and 'a'-'z' for a range. Non-printable characters use
// U+XXXX notation.
func FormatRange(lo, hi rune) string {
	if lo > hi {
		return "(empty)"
	}
	if lo == hi {
		return formatRune(lo)
	}
	return formatRune(lo) + "-" + formatRune(hi)
}

func formatRune(r rune) string {
	if unicode.IsPrint(r) && r != ' ' {
		return strconv.QuoteRune(r)
	}
	return fmt.Sprintf("U+%04X", r)
}
