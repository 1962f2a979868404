package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStringRoundTrip(t *testing.T) {
	testCases := []string{
		"",
		"hello",
		strings.Repeat("a\n", 2000),
		strings.Repeat("the quick brown fox jumps over the lazy dog\n", 500),
	}
	for _, s := range testCases {
		r := FromString(s)
		assert.Equal(t, len(s), r.Len())
		assert.Equal(t, s, r.String())
	}
}

func TestFromStringLineCount(t *testing.T) {
	s := strings.Repeat("line\n", 2000)
	r := FromString(s)
	assert.Equal(t, 2000, r.Lines())
}

func TestEmptyRopeCursor(t *testing.T) {
	c := Empty.Cursor(0)
	_, _, ok := c.GetLeaf()
	require.True(t, ok)
	assert.True(t, c.IsBoundary(BaseUnits))
	_, ok = c.Next(BaseUnits)
	assert.False(t, ok)
}

func TestSliceAndConcat(t *testing.T) {
	r := FromString("hello world")
	left := r.Slice(0, 5)
	right := r.Slice(6, 11)
	assert.Equal(t, "hello", left.String())
	assert.Equal(t, "world", right.String())

	joined := left.Concat(FromString(" ")).Concat(right)
	assert.Equal(t, "hello world", joined.String())
}

func TestEdit(t *testing.T) {
	r := FromString("hello world")
	edited := r.Edit(6, 11, "there")
	assert.Equal(t, "hello there", edited.String())
	assert.Equal(t, "hello world", r.String())
}

func TestCRLFAndEmoji(t *testing.T) {
	s := "line one\r\nline two \xF0\x9F\x98\x80 end\r\n"
	r := FromString(s)
	assert.Equal(t, len(s), r.Len())
	assert.Equal(t, 2, r.Lines())
	assert.Equal(t, s, r.String())
}

func TestUtf16Len(t *testing.T) {
	r := FromString("a\xF0\x9F\x98\x80b")
	assert.Equal(t, 4, r.Utf16Len())
}

func TestLineToOffsetRoundTrip(t *testing.T) {
	lines := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		lines = append(lines, strings.Repeat("x", i%17+1))
	}
	s := strings.Join(lines, "\n") + "\n"
	r := FromString(s)
	for i := 0; i < 300; i++ {
		off := r.LineToOffset(i)
		assert.Equal(t, i, r.OffsetToLine(off))
	}
}

func TestDeepTreeConcat(t *testing.T) {
	r := Empty
	chunk := strings.Repeat("z", 600)
	for i := 0; i < 5000; i++ {
		r = r.Concat(FromString(chunk))
	}
	assert.Equal(t, 600*5000, r.Len())
	assert.True(t, r.root.Height() > 2)
}
