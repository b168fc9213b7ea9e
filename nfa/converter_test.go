package nfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_String(t *testing.T) {
	c := NewStringConverter([]rune("ss")).
		Append(NewBackrefConverter(1)).
		Append(NewRangeConverter(0, 'A', 'a'))

	assert.Equal(t, "(string 'ss')(backref 1)(range 0 +32)", c.String())
	assert.Equal(t, 3, c.Len())

	var empty *Converter
	assert.Equal(t, "(none)", empty.String())
	assert.Equal(t, 0, empty.Len())
}

func TestNewStringConverter_CopiesInput(t *testing.T) {
	src := []rune("ab")
	c := NewStringConverter(src)
	src[0] = 'z'
	assert.Equal(t, "(string 'ab')", c.String())
}

func TestConverter_RunBeforeMatch(t *testing.T) {
	a := New()
	out := make([]rune, 8)

	n, err := NewStringConverter([]rune("ok")).Run(a, out)
	require.NoError(t, err, "literals need no captures")
	assert.Equal(t, 2, n)

	_, err = NewBackrefConverter(0).Run(a, out)
	require.ErrorIs(t, err, ErrInternal)

	_, err = NewRangeConverter(0, 'a', 'b').Run(a, out)
	require.ErrorIs(t, err, ErrInternal)
}

func TestConverter_NoSpaceKeepsPartialOutput(t *testing.T) {
	a := New()
	require.NoError(t, a.AddTextRule("ß", "ss"))
	_, payload, err := a.Match([]rune("ß"))
	require.NoError(t, err)

	out := make([]rune, 1)
	n, err := payload.(*Converter).Run(a, out)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, 1, n)
	assert.Equal(t, 's', out[0])
}

// singleCharRule matches 'x' through a single-character edge, which does
// not bind slot 0.
func singleCharRule(t *testing.T, c *Converter) *Automaton {
	t.Helper()
	a := New()
	s, err := a.AddRange(Root, 'x', 'x')
	require.NoError(t, err)
	require.NoError(t, a.SetResult(s, c))
	return a
}

func TestConverter_UnboundBackrefIsSilent(t *testing.T) {
	c := NewStringConverter([]rune("<")).
		Append(NewBackrefConverter(0)).
		Append(NewBackrefConverter(7)).
		Append(NewStringConverter([]rune(">")))
	a := singleCharRule(t, c)

	out, err := a.Convert([]rune("x"))
	require.NoError(t, err)
	assert.Equal(t, "<>", string(out))
}

func TestConverter_UnboundRangeFails(t *testing.T) {
	a := singleCharRule(t, NewRangeConverter(0, 'a', 'b'))
	_, err := a.Convert([]rune("x"))
	require.ErrorIs(t, err, ErrNoSuchBackref)

	a = singleCharRule(t, NewRangeConverter(3, 'a', 'b'))
	_, err = a.Convert([]rune("x"))
	require.ErrorIs(t, err, ErrNoSuchBackref)
}

func TestConverter_RangeShift(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   rune
		outLo    rune
		input    string
		expected string
	}{
		{"upper to lower", 'A', 'Z', 'a', "HELLO", "hello"},
		{"lower to upper", 'a', 'z', 'A', "hello, world", "HELLO, WORLD"},
		{"fullwidth digits", '０', '９', '0', "１２３", "123"},
		{"single character", 'x', 'x', 'y', "xxx", "yyy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			require.NoError(t, a.AddCharRangeRule(tt.lo, tt.hi, tt.outLo))
			out, err := a.Convert([]rune(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestConverter_ShiftOutOfRange(t *testing.T) {
	a := New()
	s, err := a.AddRange(Root, 'a', 'b')
	require.NoError(t, err)
	require.NoError(t, a.SetResult(s, &Converter{actions: []action{{kind: actionRange, delta: -1000}}}))

	out, err := a.Convert([]rune("a"))
	require.NoError(t, err)
	assert.Equal(t, []rune{0xFFFD}, out)
}

func TestConverter_UnknownAction(t *testing.T) {
	a := singleCharRule(t, &Converter{actions: []action{{kind: actionNone}}})
	_, err := a.Convert([]rune("x"))
	require.ErrorIs(t, err, ErrInternal)
}
