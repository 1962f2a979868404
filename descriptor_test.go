package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deepRope(t *testing.T, leaves int) *Rope {
	t.Helper()
	chunk := strings.Repeat("q", 600)
	r := Empty
	for i := 0; i < leaves; i++ {
		r = r.Concat(FromString(chunk))
	}
	require.True(t, r.root.Height() > 4)
	return r
}

func TestCursorDescriptorRoundTripBasic(t *testing.T) {
	r := FromString("hello world, this is a test string for descriptors")
	c := r.Cursor(10)
	desc, ok := c.ToDescriptor()
	require.True(t, ok)

	restored, ok := desc.Restore(r.root)
	require.True(t, ok)
	assert.Equal(t, c.Pos(), restored.Pos())
	leaf1, off1, ok1 := c.GetLeaf()
	leaf2, off2, ok2 := restored.GetLeaf()
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Same(t, leaf1, leaf2)
	assert.Equal(t, off1, off2)
}

func TestCursorDescriptorHandlesDeepPaths(t *testing.T) {
	r := deepRope(t, 32768)
	c := r.Cursor(r.Len() / 2)
	desc, ok := c.ToDescriptor()
	require.True(t, ok)
	assert.True(t, desc.Depth() > 4)

	restored, ok := desc.Restore(r.root)
	require.True(t, ok)
	assert.Equal(t, c.Pos(), restored.Pos())
}

func TestCursorDescriptorInvalidatesAfterRebuild(t *testing.T) {
	r := FromString(strings.Repeat("m", 5000))
	c := r.Cursor(2500)
	desc, ok := c.ToDescriptor()
	require.True(t, ok)

	rebuilt := FromString(strings.Repeat("m", 5000))
	_, ok = desc.Restore(rebuilt.root)
	assert.False(t, ok)
}

func TestCursorDescriptorRejectsInvalidSnapshot(t *testing.T) {
	r := FromString(strings.Repeat("n", 5000))
	c := r.Cursor(2500)
	desc, ok := c.ToDescriptor()
	require.True(t, ok)

	edited := r.Edit(0, 1, "X")
	_, ok = desc.Restore(edited.root)
	assert.False(t, ok)
}

func TestCursorStateRoundTripAndInvalidate(t *testing.T) {
	r := deepRope(t, 5000)
	c := r.Cursor(r.Len() / 3)
	state, ok := c.ToState()
	require.True(t, ok)
	assert.True(t, state.IsValid(r.root))

	restored, ok := state.Restore(r.root)
	require.True(t, ok)
	assert.Equal(t, c.Pos(), restored.Pos())

	other := deepRope(t, 5000)
	assert.False(t, state.IsValid(other.root))
}

func TestApplyDescriptorLeavesCursorUnchangedOnFailure(t *testing.T) {
	r := FromString(strings.Repeat("p", 5000))
	c := r.Cursor(2000)
	desc, ok := c.ToDescriptor()
	require.True(t, ok)

	other := FromString(strings.Repeat("p", 5000))
	otherCursor := other.Cursor(1000)
	beforePos := otherCursor.Pos()
	applied := ApplyDescriptor(otherCursor, &desc)
	assert.False(t, applied)
	assert.Equal(t, beforePos, otherCursor.Pos())
}
