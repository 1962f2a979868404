package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindLeafSplitPrefersNewline(t *testing.T) {
	s := []byte(strings.Repeat("x", 520) + "\n" + strings.Repeat("y", 600))
	splitpoint := findLeafSplitForBulk(s)
	assert.LessOrEqual(t, splitpoint, MaxLeaf)
	assert.Equal(t, byte('\n'), s[splitpoint-1])
}

func TestFindLeafSplitFallsBackToBoundary(t *testing.T) {
	s := []byte(strings.Repeat("x", 2000))
	splitpoint := findLeafSplitForBulk(s)
	assert.True(t, splitpoint >= MinLeaf && splitpoint <= MaxLeaf)
}

func TestFindLeafSplitRespectsCodepointBoundary(t *testing.T) {
	s := append([]byte(strings.Repeat("x", 1020)), []byte("\xF0\x9F\x98\x80")...)
	s = append(s, []byte(strings.Repeat("y", 200))...)
	splitpoint := findLeafSplitForMerge(s)
	ok := splitpoint == 0 || splitpoint == len(s)
	if !ok {
		assert.True(t, isCodepointBoundaryForTest(s, splitpoint))
	}
}

func isCodepointBoundaryForTest(s []byte, offset int) bool {
	return isCodepointBoundary(s, offset)
}

func TestCountUTF16CodeUnits(t *testing.T) {
	assert.Equal(t, 1, countUTF16CodeUnitsBytes([]byte("a")))
	assert.Equal(t, 2, countUTF16CodeUnitsBytes([]byte("\xF0\x9F\x98\x80")))
	assert.Equal(t, 1, countUTF16CodeUnitsBytes([]byte("\xE4\xB8\xAD")))
}

func TestNewlineBoundaryHelpers(t *testing.T) {
	s := []byte("abc\ndef\n")
	assert.True(t, isNewlineBoundary(s, 4))
	assert.False(t, isNewlineBoundary(s, 3))
	pos, ok := findNextNewline(s, 0)
	assert.True(t, ok)
	assert.Equal(t, 4, pos)
	pos, ok = findPrevNewline(s, 8)
	assert.True(t, ok)
	assert.Equal(t, 4, pos)
}
