package nfa

import (
	"errors"
	"fmt"
)

// maxConvertBuffer caps the scratch buffer Convert grows for one rule output.
const maxConvertBuffer = 1 << 24

// ConvertSlice performs one rewrite step: it matches a prefix of in and
// runs the matched converter into out. nIn and nOut report the runes
// consumed and written.
//
// When no rule matches, the first rune of in is copied verbatim, so every
// successful call with non-empty in consumes at least one rune. An empty
// out fails with ErrNoSpace without consuming input; an empty in succeeds
// without doing anything. Matcher errors other than ErrNoMatch are returned
// with nothing consumed.
//
// If the converter fails after a match, nIn still reports the matched
// prefix and nOut the runes already written; no rollback is done.
func (a *Automaton) ConvertSlice(in, out []rune) (nIn, nOut int, err error) {
	return a.convertSlice(in, out, false)
}

// ConvertSliceEOF is ConvertSlice for the final chunk of a stream: the
// matcher never reports ErrOverrun.
func (a *Automaton) ConvertSliceEOF(in, out []rune) (nIn, nOut int, err error) {
	return a.convertSlice(in, out, true)
}

func (a *Automaton) convertSlice(in, out []rune, eof bool) (int, int, error) {
	if len(out) == 0 {
		return 0, 0, ErrNoSpace
	}
	if len(in) == 0 {
		return 0, 0, nil
	}

	n, payload, err := a.match(in, eof)
	switch {
	case err == nil:
		c, ok := payload.(*Converter)
		if !ok {
			return n, 0, fmt.Errorf("%w: result %T is not a converter", ErrInternal, payload)
		}
		written, err := c.Run(a, out)
		return n, written, err
	case errors.Is(err, ErrNoMatch):
		out[0] = in[0]
		return 1, 1, nil
	default:
		return 0, 0, err
	}
}

// Convert rewrites all of in, treating it as a complete stream.
func (a *Automaton) Convert(in []rune) ([]rune, error) {
	out := make([]rune, 0, len(in)+len(in)/4)
	scratch := make([]rune, 64)
	for len(in) > 0 {
		nIn, nOut, err := a.ConvertSliceEOF(in, scratch)
		if errors.Is(err, ErrNoSpace) && len(scratch) < maxConvertBuffer {
			scratch = make([]rune, 2*len(scratch))
			continue
		}
		if err != nil {
			return out, err
		}
		out = append(out, scratch[:nOut]...)
		in = in[nIn:]
	}
	return out, nil
}
