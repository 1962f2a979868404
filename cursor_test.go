package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorLineNavigation(t *testing.T) {
	s := "one\ntwo\nthree\nfour\n"
	r := FromString(s)
	c := r.Cursor(0)

	var starts []int
	for {
		pos, ok := c.Next(LinesMetric)
		if !ok {
			break
		}
		starts = append(starts, pos)
	}
	assert.Equal(t, []int{4, 8, 14, 19}, starts)
}

func TestCursorPrevCountsLineBoundaries(t *testing.T) {
	s := strings.Repeat("ab\n", 5000)
	r := FromString(s)
	c := r.Cursor(r.Len())
	count := 0
	for {
		_, ok := c.Prev(LinesMetric)
		if !ok {
			break
		}
		count++
	}
	// Boundaries 3, 6, ..., 14997: the starting end position and offset 0
	// are not visited.
	assert.Equal(t, 4999, count)
}

func TestCursorAtOrNextAtBoundary(t *testing.T) {
	r := FromString("abc\ndef\n")
	c := r.Cursor(4)
	pos, ok := c.AtOrNext(LinesMetric)
	require.True(t, ok)
	assert.Equal(t, 4, pos)
}

func TestCursorCodepointBoundaries(t *testing.T) {
	r := FromString("a\xF0\x9F\x98\x80b")
	c := r.Cursor(0)
	var offsets []int
	for {
		pos, ok := c.Next(CodepointMetric)
		if !ok {
			break
		}
		offsets = append(offsets, pos)
	}
	assert.Equal(t, []int{1, 5, 6}, offsets)
}

func TestCursorNextTriangleText(t *testing.T) {
	var b strings.Builder
	want := make([]int, 0, 2000)
	total := 0
	for i := 1; i <= 2000; i++ {
		b.WriteString(strings.Repeat("a", i-1))
		b.WriteByte('\n')
		total += i
		want = append(want, total)
	}
	r := FromString(b.String())
	c := r.Cursor(0)

	var got []int
	for {
		pos, ok := c.Next(LinesMetric)
		if !ok {
			break
		}
		got = append(got, pos)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 2000, len(got))
	assert.Equal(t, 2000*2001/2, r.Len())
}

func TestCursorNextLeafAcrossManyLeaves(t *testing.T) {
	chunk := strings.Repeat("x", 600)
	r := Empty
	for i := 0; i < 200; i++ {
		r = r.Concat(FromString(chunk))
	}
	c := r.Cursor(0)
	leaves := 0
	for {
		_, _, ok := c.GetLeaf()
		if !ok {
			break
		}
		leaves++
		if _, _, ok := c.NextLeaf(); !ok {
			break
		}
	}
	assert.True(t, leaves > 1)
}
