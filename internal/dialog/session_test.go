package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	st := NewSessionStore[StudyState]()

	_, ok := st.Get("u1")
	assert.False(t, ok)

	s := st.Begin("u1", "Ana", 10)
	s.Discipline = "Math"
	s.State = StudyStartTimeInput

	got, ok := st.Get("u1")
	require.True(t, ok)
	assert.Same(t, s, got)

	fresh := st.Begin("u1", "Ana", 10)
	assert.NotSame(t, s, fresh)
	assert.Empty(t, fresh.Discipline)
	assert.Equal(t, StudyStart, fresh.State)
	assert.Greater(t, fresh.seq, s.seq)
	assert.Equal(t, 1, st.Len())

	assert.True(t, st.Discard("u1"))
	assert.False(t, st.Discard("u1"))
	assert.Zero(t, st.Len())
}

func TestSessionStoresAreIndependent(t *testing.T) {
	study := NewSessionStore[StudyState]()
	sleep := NewSessionStore[SleepState]()

	study.Begin("u1", "Ana", 1)
	sleep.Begin("u1", "Ana", 1)
	study.Discard("u1")

	_, ok := sleep.Get("u1")
	assert.True(t, ok)
}
