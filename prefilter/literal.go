package prefilter

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
)

// errNoLiterals indicates no start character has a UTF-8 encoding
var errNoLiterals = errors.New("prefilter: no encodable start characters")

// LiteralPrefilter searches for the UTF-8 encodings of a small set of start
// characters with an Aho-Corasick automaton.
type LiteralPrefilter struct {
	auto  *ahocorasick.Automaton
	runes int
}

// NewLiteral builds an Aho-Corasick prefilter for every character in ranges.
// Surrogates and other characters without a UTF-8 encoding are skipped; they
// never occur in decoded text.
func NewLiteral(ranges []Range) (*LiteralPrefilter, error) {
	builder := ahocorasick.NewBuilder()
	var buf [utf8.UTFMax]byte
	count := 0
	for _, r := range ranges {
		for v := int64(r.Lo); v <= int64(r.Hi); v++ {
			c := rune(v)
			if !utf8.ValidRune(c) {
				continue
			}
			n := utf8.EncodeRune(buf[:], c)
			pattern := make([]byte, n)
			copy(pattern, buf[:n])
			builder.AddPattern(pattern)
			count++
		}
	}
	if count == 0 {
		return nil, errNoLiterals
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &LiteralPrefilter{auto: auto, runes: count}, nil
}

// Find implements Prefilter
func (p *LiteralPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// Runes implements Prefilter
func (p *LiteralPrefilter) Runes() int {
	return p.runes
}

// String returns a short description, e.g. literal(38)
func (p *LiteralPrefilter) String() string {
	return "literal(" + strconv.Itoa(p.runes) + ")"
}
