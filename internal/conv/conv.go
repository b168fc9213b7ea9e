// Package conv provides checked integer conversions for automaton
// construction and rule parsing.
//
// Narrowing helpers panic on overflow since that indicates a programming
// error (an automaton larger than its ID space). Code point helpers return
// errors because their input comes from user-authored rule files.
package conv

import (
	"errors"
	"math"
	"unicode/utf8"
)

// ErrInvalidCodePoint indicates a value outside the Unicode code point range
var ErrInvalidCodePoint = errors.New("invalid code point")

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint64ToRune converts n to a rune if it is a Unicode code point.
// Surrogates are accepted; they are valid transition labels even though
// they never appear in decoded UTF-8.
func Uint64ToRune(n uint64) (rune, error) {
	if n > utf8.MaxRune {
		return 0, ErrInvalidCodePoint
	}
	return rune(n), nil
}

// RuneDelta returns the signed offset mapping from onto to.
func RuneDelta(from, to rune) int32 {
	return int32(to) - int32(from)
}

// ShiftRune adds delta to r.
// ok is false when the result leaves the code point range.
func ShiftRune(r rune, delta int32) (shifted rune, ok bool) {
	v := int64(r) + int64(delta)
	if v < 0 || v > utf8.MaxRune {
		return utf8.RuneError, false
	}
	return rune(v), true
}
