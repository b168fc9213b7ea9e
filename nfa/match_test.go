package nfa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_LongestWins(t *testing.T) {
	for _, order := range [][2]string{{"a", "ab"}, {"ab", "a"}} {
		t.Run(order[0]+" then "+order[1], func(t *testing.T) {
			a := New()
			for _, from := range order {
				require.NoError(t, a.AddTextRule(from, strings.ToUpper(from)))
			}

			n, payload, err := a.Match([]rune("abc"))
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Equal(t, "(string 'AB')", payload.(*Converter).String())
		})
	}
}

func TestMatch_TieBreakLowerStateWins(t *testing.T) {
	a := New()
	root := a.AddState()
	first := a.AddState()
	second := a.AddState()

	// the edge to the higher state is declared first
	require.NoError(t, a.AddTransition(root, second, 'x', 'x'))
	require.NoError(t, a.AddTransition(root, first, 'x', 'x'))
	require.NoError(t, a.SetResult(second, "second"))
	require.NoError(t, a.SetResult(first, "first"))

	n, payload, err := a.Match([]rune("xy"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "first", payload)
}

func TestMatch_NoMatch(t *testing.T) {
	a := New()
	_, _, err := a.Match([]rune("a"))
	require.ErrorIs(t, err, ErrNoMatch, "empty automaton")

	require.NoError(t, a.AddTextRule("x", "y"))
	_, _, err = a.Match([]rune("a"))
	require.ErrorIs(t, err, ErrNoMatch)

	_, err = a.Backref(0)
	require.ErrorIs(t, err, ErrNoMatchYet)
}

func TestMatch_ZeroLengthTerminalIgnored(t *testing.T) {
	a := New()
	root := a.AddState()
	require.NoError(t, a.SetResult(root, "empty"))

	_, _, err := a.MatchEOF([]rune("a"))
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestMatch_Overrun(t *testing.T) {
	a := New()
	require.NoError(t, a.AddTextRule("ab", "x"))
	require.NoError(t, a.AddTextRule("a", "y"))

	_, _, err := a.Match([]rune("a"))
	require.ErrorIs(t, err, ErrOverrun)

	n, payload, err := a.MatchEOF([]rune("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "(string 'y')", payload.(*Converter).String())
}

func TestMatch_EpsilonLoop(t *testing.T) {
	a := New()
	s0 := a.AddState()
	require.NoError(t, a.AddEmptyTransition(s0, s0))

	_, _, err := a.Match([]rune("a"))
	require.ErrorIs(t, err, ErrLoop)
}

func TestMatch_EpsilonLoopBesideConsumingEdge(t *testing.T) {
	for _, epsilonFirst := range []bool{false, true} {
		a := New()
		s0 := a.AddState()
		s1 := a.AddState()
		if epsilonFirst {
			require.NoError(t, a.AddEmptyTransition(s0, s0))
		}
		require.NoError(t, a.AddTransition(s0, s1, 'a', 'a'))
		if !epsilonFirst {
			require.NoError(t, a.AddEmptyTransition(s0, s0))
		}
		require.NoError(t, a.SetResult(s1, "a"))

		_, _, err := a.MatchEOF([]rune("a"))
		require.ErrorIs(t, err, ErrLoop, "epsilonFirst=%v", epsilonFirst)

		_, _, err = a.Match([]rune("ab"))
		require.ErrorIs(t, err, ErrLoop, "epsilonFirst=%v", epsilonFirst)
	}
}

func TestMatch_LoopLimitBoundsEpsilonSteps(t *testing.T) {
	// 100 epsilon steps enter 101 states; one more frame would be ErrTooDeep
	a := NewWithLimits(100, 101)
	s0 := a.AddState()
	require.NoError(t, a.AddEmptyTransition(s0, s0))

	_, _, err := a.Match([]rune("a"))
	require.ErrorIs(t, err, ErrLoop)

	small := NewWithLimits(3, 0)
	s0 = small.AddState()
	require.NoError(t, small.AddEmptyTransition(s0, s0))
	_, _, err = small.MatchEOF(nil)
	require.ErrorIs(t, err, ErrLoop)
}

func TestMatch_EpsilonChain(t *testing.T) {
	a := New()
	s0 := a.AddState()
	s1 := a.AddState()
	s2 := a.AddState()
	require.NoError(t, a.AddEmptyTransition(s0, s1))
	require.NoError(t, a.AddTransition(s1, s2, 'q', 'q'))
	require.NoError(t, a.SetResult(s2, "q"))

	n, payload, err := a.Match([]rune("qq"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "q", payload)
}

func TestMatch_TooDeep(t *testing.T) {
	a := NewWithLimits(0, 10)
	require.NoError(t, a.AddTextRule(strings.Repeat("a", 50), "b"))

	_, _, err := a.MatchEOF([]rune(strings.Repeat("a", 50)))
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestMatch_LengthWithinInput(t *testing.T) {
	a := New()
	require.NoError(t, a.AddTextRule("foo", "1"))
	require.NoError(t, a.AddTextRule("fo", "2"))
	require.NoError(t, a.AddCharStringRule('a', 'z', []rune("3")))

	for _, in := range []string{"f", "fo", "foo", "foox", "zzz", "q"} {
		n, payload, err := a.MatchEOF([]rune(in))
		require.NoError(t, err, in)
		assert.LessOrEqual(t, n, len([]rune(in)))
		assert.Positive(t, n)
		assert.NotNil(t, payload)
	}
}

// captureAutomaton accepts [a-z]+ and captures the whole run in slot 1.
func captureAutomaton(t *testing.T) (*Automaton, StateID) {
	t.Helper()
	a := New()
	s0 := a.AddState()
	s1 := a.AddState()
	require.NoError(t, a.AddTransition(s0, s1, 'a', 'z'))
	require.NoError(t, a.AddTransition(s1, s1, 'a', 'z'))
	require.NoError(t, a.SetBackrefPoint(s0, 1, true))
	require.NoError(t, a.SetBackrefPoint(s1, 1, false))
	return a, s1
}

func TestMatch_Backrefs(t *testing.T) {
	a, s1 := captureAutomaton(t)
	require.NoError(t, a.SetResult(s1, "word"))

	n, _, err := a.Match([]rune("cat!"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	sp, err := a.Backref(1)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 3}, sp)
	assert.Equal(t, 3, sp.Len())

	// slot 0 holds the last proper range consumed
	sp, err = a.Backref(0)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 2, End: 3}, sp)

	_, err = a.Backref(2)
	require.ErrorIs(t, err, ErrNoSuchSlot)
	_, err = a.Backref(-1)
	require.ErrorIs(t, err, ErrNoSuchSlot)
}

func TestMatch_UnboundSlot(t *testing.T) {
	a := New()
	s0 := a.AddState()
	s1 := a.AddState()
	s2 := a.AddState()
	require.NoError(t, a.AddTransition(s0, s1, 'x', 'x'))
	require.NoError(t, a.AddTransition(s0, s2, 'y', 'y'))
	require.NoError(t, a.SetBackrefPoint(s2, 1, true))
	require.NoError(t, a.SetResult(s1, "x"))
	require.NoError(t, a.SetResult(s2, "y"))

	_, _, err := a.Match([]rune("x"))
	require.NoError(t, err)
	sp, err := a.Backref(1)
	require.NoError(t, err)
	assert.False(t, sp.Valid())
	assert.Equal(t, 0, sp.Len())

	// a single character edge does not bind slot 0
	sp, err = a.Backref(0)
	require.NoError(t, err)
	assert.False(t, sp.Valid())
}

func TestMatch_CapturesScopedToBranch(t *testing.T) {
	a := New()
	s0 := a.AddState()
	marked := a.AddState()
	plain := a.AddState()
	end := a.AddState()
	require.NoError(t, a.AddTransition(s0, marked, 'a', 'a'))
	require.NoError(t, a.AddTransition(s0, plain, 'a', 'a'))
	require.NoError(t, a.AddTransition(plain, end, 'b', 'b'))
	require.NoError(t, a.SetBackrefPoint(marked, 1, true))
	require.NoError(t, a.SetBackrefPoint(end, 1, false))
	require.NoError(t, a.SetResult(end, "ab"))

	_, _, err := a.Match([]rune("ab"))
	require.NoError(t, err)
	sp, err := a.Backref(1)
	require.NoError(t, err)
	assert.Equal(t, -1, sp.Start, "the start marker of a sibling branch must not leak")
	assert.Equal(t, 2, sp.End)
}

func TestMatch_TablesReallocatedAfterGrowth(t *testing.T) {
	a, s1 := captureAutomaton(t)
	require.NoError(t, a.SetResult(s1, "word"))
	_, _, err := a.Match([]rune("ab "))
	require.NoError(t, err)

	s2 := a.AddState()
	require.NoError(t, a.SetBackrefPoint(s2, 4, true))
	_, err = a.Backref(1)
	require.ErrorIs(t, err, ErrNoMatchYet, "tables are stale until the next match")

	_, _, err = a.Match([]rune("ab "))
	require.NoError(t, err)
	sp, err := a.Backref(4)
	require.NoError(t, err)
	assert.False(t, sp.Valid())
	sp, err = a.Backref(1)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 2}, sp)
}

func TestMatch_FailedMatchResetsCaptures(t *testing.T) {
	a, s1 := captureAutomaton(t)
	require.NoError(t, a.SetResult(s1, "word"))

	_, _, err := a.Match([]rune("ab "))
	require.NoError(t, err)
	_, _, err = a.Match([]rune("!"))
	require.ErrorIs(t, err, ErrNoMatch)
	_, err = a.Backref(1)
	require.ErrorIs(t, err, ErrNoMatchYet)

	_, _, err = a.Match([]rune("xyz "))
	require.NoError(t, err)
	sp, err := a.Backref(1)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 3}, sp)
	assert.Equal(t, []rune("xyz "), a.LastInput())
}
