package nfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddState_AssignsIncreasingIDs(t *testing.T) {
	a := New()
	for want := StateID(0); want < 5; want++ {
		assert.Equal(t, want, a.AddState())
	}
	assert.Equal(t, 5, a.States())
	assert.Equal(t, StateID(0), a.Start())
}

func TestStart_Empty(t *testing.T) {
	a := New()
	assert.Equal(t, InvalidState, a.Start())
	assert.Nil(t, a.State(0))
	assert.Equal(t, 1, a.Backrefs(), "slot 0 always exists")
}

func TestSetResult(t *testing.T) {
	a := New()
	s := a.AddState()

	require.NoError(t, a.SetResult(s, "first"))
	assert.Equal(t, "first", a.Result(s))
	assert.True(t, a.State(s).IsTerminal())

	err := a.SetResult(s, "second")
	require.ErrorIs(t, err, ErrAlreadySet)
	assert.Equal(t, "first", a.Result(s), "payload is immutable once set")

	require.NoError(t, a.SetResult(s, nil), "clearing with nil is permitted")
	assert.Nil(t, a.Result(s))

	require.ErrorIs(t, a.SetResult(42, "x"), ErrInvalidState)
}

func TestAddTransition(t *testing.T) {
	a := New()
	s0 := a.AddState()
	s1 := a.AddState()

	require.NoError(t, a.AddTransition(s0, s1, 'a', 'z'))
	require.NoError(t, a.AddEmptyTransition(Root, s1))

	trans := a.State(s0).Transitions()
	require.Len(t, trans, 2)
	assert.Equal(t, Transition{Lo: 'a', Hi: 'z', Next: s1}, trans[0])
	assert.True(t, trans[1].IsEmpty())
	assert.False(t, trans[0].IsEmpty())

	var be *BuildError
	err := a.AddTransition(s0, 99, 'a', 'a')
	require.ErrorAs(t, err, &be)
	assert.Equal(t, StateID(99), be.StateID)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.ErrorIs(t, a.AddTransition(77, s1, 'a', 'a'), ErrInvalidState)
}

func TestAddRange_CreatesInitialState(t *testing.T) {
	a := New()
	s, err := a.AddRange(Root, 'a', 'z')
	require.NoError(t, err)
	assert.Equal(t, StateID(1), s)
	assert.Equal(t, 2, a.States())
}

func TestAddRange_ReusesExactRange(t *testing.T) {
	a := New()
	s1, err := a.AddRange(Root, 'a', 'z')
	require.NoError(t, err)
	s2, err := a.AddRange(Root, 'a', 'z')
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	s3, err := a.AddRange(Root, 'a', 'y')
	require.NoError(t, err)
	assert.NotEqual(t, s1, s3, "only the exact label is shared")
	assert.Equal(t, 3, a.States())
}

func TestAddSequence_SharesPrefix(t *testing.T) {
	a := New()
	abc, err := a.AddSequence(Root, []rune("abc"))
	require.NoError(t, err)
	abd, err := a.AddSequence(Root, []rune("abd"))
	require.NoError(t, err)
	ab, err := a.AddSequence(Root, []rune("ab"))
	require.NoError(t, err)

	assert.NotEqual(t, abc, abd)
	// root, a, b, c, d
	assert.Equal(t, 5, a.States())
	assert.Equal(t, StateID(2), ab)

	again, err := a.AddSequence(Root, []rune("abc"))
	require.NoError(t, err)
	assert.Equal(t, abc, again)
}

func TestAddSequence_Empty(t *testing.T) {
	a := New()
	_, err := a.AddSequence(Root, nil)
	require.ErrorIs(t, err, ErrEmptySequence)
}

func TestSetBackrefPoint(t *testing.T) {
	a := New()
	s0 := a.AddState()
	s1 := a.AddState()

	require.ErrorIs(t, a.SetBackrefPoint(s1, 1, false), ErrNoSuchStart)

	require.NoError(t, a.SetBackrefPoint(s0, 3, true))
	assert.Equal(t, 4, a.Backrefs())
	assert.Equal(t, 3, a.BackrefPoint(s0, true))

	require.ErrorIs(t, a.SetBackrefPoint(s0, 1, true), ErrAlreadySet)

	require.NoError(t, a.SetBackrefPoint(s1, 2, false), "slot 2 is below the slot count")
	require.ErrorIs(t, a.SetBackrefPoint(s1, 3, false), ErrAlreadySet)
	assert.Equal(t, 2, a.BackrefPoint(s1, false))
	assert.Equal(t, 0, a.BackrefPoint(s1, true))

	require.ErrorIs(t, a.SetBackrefPoint(s0, 0, false), ErrNoSuchSlot)
	require.ErrorIs(t, a.SetBackrefPoint(9, 1, true), ErrInvalidState)
}

func TestBuildError_Message(t *testing.T) {
	err := &BuildError{Message: "boom", StateID: 3, Err: ErrAlreadySet}
	assert.Equal(t, "NFA build error at state 3: boom: already set", err.Error())

	err = &BuildError{Message: "boom", StateID: InvalidState, Err: ErrInvalidRange}
	assert.Equal(t, "NFA build error: boom: range start after end", err.Error())
}

func TestIter(t *testing.T) {
	a := New()
	a.AddState()
	a.AddState()

	var ids []StateID
	for it := a.Iter(); it.HasNext(); {
		ids = append(ids, it.Next().ID())
	}
	assert.Equal(t, []StateID{0, 1}, ids)
}
