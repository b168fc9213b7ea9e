// Package prefilter finds positions in UTF-8 text where an automaton could
// possibly match, so runs of text no rule applies to can be copied verbatim
// without running the matcher on every character.
//
// A prefilter is derived from the labels of the automaton's initial state.
// Any position whose character is outside those labels is a guaranteed
// nfa.ErrNoMatch. No prefilter is built when the initial state has epsilon
// transitions, since those can reach arbitrary labels.
//
// Strategy selection:
//   - up to maxRunes distinct start characters → Aho-Corasick over their
//     UTF-8 encodings (github.com/coregx/ahocorasick)
//   - otherwise → RangePrefilter, a binary search over the start ranges
//
// Example usage:
//
//	pf := prefilter.FromAutomaton(a, prefilter.DefaultMaxRunes)
//	if pf != nil {
//	    pos := pf.Find(text, 0) // first byte where a rule may apply
//	}
package prefilter

import (
	"sort"
	"unicode/utf8"

	"github.com/coregx/charnfa/nfa"
)

// DefaultMaxRunes is the largest start alphabet expanded into literals.
const DefaultMaxRunes = 256

// Prefilter finds candidate match positions in UTF-8 text.
type Prefilter interface {
	// Find returns the byte index of the first candidate position at or
	// after start, or -1 if none exists. Candidates are rune boundaries.
	Find(haystack []byte, start int) int

	// Runes returns the number of distinct characters that start a candidate.
	Runes() int
}

// Range is an inclusive character range.
type Range struct {
	Lo, Hi rune
}

// FromAutomaton builds a prefilter for a, or returns nil when every
// position must be handed to the matcher.
func FromAutomaton(a *nfa.Automaton, maxRunes int) Prefilter {
	start := a.State(a.Start())
	if start == nil {
		return nil
	}
	ranges := make([]Range, 0, len(start.Transitions()))
	for _, t := range start.Transitions() {
		if t.IsEmpty() {
			return nil
		}
		ranges = append(ranges, Range{Lo: t.Lo, Hi: t.Hi})
	}
	if len(ranges) == 0 {
		return nil
	}
	ranges = mergeRanges(ranges)

	if count := countRunes(ranges); count <= maxRunes && !covers(ranges, utf8.RuneError) {
		if pf, err := NewLiteral(ranges); err == nil {
			return pf
		}
	}
	return NewRange(ranges)
}

// mergeRanges sorts ranges and joins overlapping or adjacent ones.
func mergeRanges(ranges []Range) []Range {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Lo < ranges[j].Lo })
	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if int64(r.Lo) <= int64(last.Hi)+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func countRunes(ranges []Range) int {
	var n int64
	for _, r := range ranges {
		n += int64(r.Hi) - int64(r.Lo) + 1
	}
	if n > int64(^uint32(0)>>1) {
		return int(^uint32(0) >> 1)
	}
	return int(n)
}

// covers reports whether sorted, merged ranges contain c.
func covers(ranges []Range, c rune) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].Hi >= c })
	return i < len(ranges) && ranges[i].Lo <= c
}
