package breaks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAddBreakAndNoBreak(t *testing.T) {
	b := NewBuilder()
	b.AddBreak(10)
	b.AddNoBreak(5)
	b.AddBreak(3)
	tree := b.Build()

	assert.Equal(t, 18, tree.Len())
	assert.Equal(t, 1, tree.CountBreaksUpTo(10))
	assert.Equal(t, 2, tree.CountBreaksUpTo(18))
	assert.Equal(t, 10, tree.OffsetOfBreak(0))
	assert.Equal(t, 18, tree.OffsetOfBreak(1))
}

func TestNewNoBreak(t *testing.T) {
	tree := NewNoBreak(100)
	assert.Equal(t, 100, tree.Len())
	assert.Equal(t, 0, tree.CountBreaksUpTo(100))
}

func TestBuilderManyBreaksAcrossLeaves(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 500; i++ {
		b.AddBreak(7)
	}
	tree := b.Build()
	require.Equal(t, 500*7, tree.Len())
	assert.Equal(t, 500, tree.CountBreaksUpTo(tree.Len()))
	assert.Equal(t, 7, tree.OffsetOfBreak(0))
	assert.Equal(t, 500*7, tree.OffsetOfBreak(499))
}

func TestCountBreaksInRange(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 20; i++ {
		b.AddBreak(4)
	}
	tree := b.Build()
	assert.Equal(t, 20, tree.CountBreaksInRange(0, tree.Len()))
	assert.Equal(t, 0, tree.CountBreaksInRange(5, 5))
	assert.Equal(t, 1, tree.CountBreaksInRange(0, 4))
}
