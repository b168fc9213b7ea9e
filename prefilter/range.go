package prefilter

import (
	"strconv"
	"unicode/utf8"
)

// RangePrefilter decodes the haystack and tests each character against a
// sorted list of ranges. It is used for start alphabets too large to
// expand into literals.
type RangePrefilter struct {
	ranges []Range
	runes  int
}

// NewRange builds a range prefilter. ranges must be sorted and merged.
func NewRange(ranges []Range) *RangePrefilter {
	return &RangePrefilter{ranges: ranges, runes: countRunes(ranges)}
}

// Find implements Prefilter. Invalid UTF-8 bytes are tested as utf8.RuneError.
func (p *RangePrefilter) Find(haystack []byte, start int) int {
	for i := start; i < len(haystack); {
		c, size := utf8.DecodeRune(haystack[i:])
		if covers(p.ranges, c) {
			return i
		}
		i += size
	}
	return -1
}

// Runes implements Prefilter
func (p *RangePrefilter) Runes() int {
	return p.runes
}

// String returns a short description, e.g. range(1114112)
func (p *RangePrefilter) String() string {
	return "range(" + strconv.Itoa(p.runes) + ")"
}
