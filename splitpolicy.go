package rope

import (
	"bytes"
	"unicode/utf8"
)

// MinLeaf and MaxLeaf bound the byte size of a text leaf. The gap between
// them is the window PushMaybeSplit searches for a trailing newline so
// that splits tend to land on line boundaries rather than mid-line.
const (
	MinLeaf       = 511
	MaxLeaf       = 1024
	newlineWindow = MaxLeaf - MinLeaf
)

// findLeafSplitForBulk picks a split point favoring MinLeaf, for building
// a tree from many same-sized chunks (TreeBuilder's bulk path).
func findLeafSplitForBulk(s []byte) int {
	return findLeafSplit(s, MinLeaf)
}

// findLeafSplitForMerge picks a split point favoring leaving as much as
// possible in the first leaf, for merging an overflowing leaf in place.
func findLeafSplitForMerge(s []byte) int {
	minsplit := MinLeaf
	if rem := len(s) - MaxLeaf; rem > minsplit {
		minsplit = rem
	}
	return findLeafSplit(s, minsplit)
}

// findLeafSplit returns a byte offset in (0, len(s)] at which to split s,
// preferring the position just after the last newline in the search window
// (from the lower bound, at least minsplit clamped to [MinLeaf, MaxLeaf],
// up to the split limit), and otherwise landing on a UTF-8 code point
// boundary.
func findLeafSplit(s []byte, minsplit int) int {
	boundedMinsplit := clamp(minsplit, MinLeaf, MaxLeaf)

	remainderLower := len(s) - MaxLeaf
	if remainderLower < 0 {
		remainderLower = 0
	}
	if remainderLower > MaxLeaf {
		remainderLower = MaxLeaf
	}

	lowerBound := boundedMinsplit
	if remainderLower > lowerBound {
		lowerBound = remainderLower
	}

	upperWindow := boundedMinsplit + newlineWindow
	if upperWindow > MaxLeaf {
		upperWindow = MaxLeaf
	}

	upperRemaining := len(s) - MinLeaf
	if upperRemaining < 0 {
		upperRemaining = 0
	}
	if upperRemaining > MaxLeaf {
		upperRemaining = MaxLeaf
	}

	splitpoint := upperWindow
	if upperRemaining < splitpoint {
		splitpoint = upperRemaining
	}
	if splitpoint < lowerBound {
		splitpoint = lowerBound
	}

	searchStart := lowerBound - 1
	if searchStart < 0 {
		searchStart = 0
	}
	if splitpoint > searchStart && splitpoint <= len(s) {
		if pos := bytes.LastIndexByte(s[searchStart:splitpoint], '\n'); pos >= 0 {
			return searchStart + pos + 1
		}
	}

	if splitpoint > len(s) {
		splitpoint = len(s)
	}
	for splitpoint > 0 && !utf8.RuneStart(s[splitpoint]) {
		splitpoint--
	}
	return splitpoint
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

func isCodepointBoundary(s []byte, offset int) bool {
	if offset == 0 || offset == len(s) {
		return true
	}
	return utf8.RuneStart(s[offset])
}

func prevCodepointBoundary(s []byte, offset int) (int, bool) {
	if offset == 0 {
		return 0, false
	}
	i := offset - 1
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i, true
}

func nextCodepointBoundary(s []byte, offset int) (int, bool) {
	if offset >= len(s) {
		return 0, false
	}
	i := offset + 1
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i, true
}

func lenUTF8FromFirstByte(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// countUTF16CodeUnitsBytes counts the UTF-16 code units the UTF-8 bytes s
// would decode to, without decoding runes: a byte counts as a unit start
// whenever it is not a UTF-8 continuation byte, plus one extra unit for
// every 4-byte (surrogate-pair) lead byte.
func countUTF16CodeUnitsBytes(s []byte) int {
	count := 0
	for _, b := range s {
		if int8(b) >= -0x40 {
			count++
		}
		if b >= 0xf0 {
			count++
		}
	}
	return count
}

func countCodepointsBytes(s []byte) int {
	count := 0
	for _, b := range s {
		if !isContinuation(b) {
			count++
		}
	}
	return count
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

func countNewlinesBytes(s []byte) int {
	return bytes.Count(s, []byte{'\n'})
}

func isNewlineBoundary(s []byte, offset int) bool {
	return offset > 0 && offset <= len(s) && s[offset-1] == '\n'
}

func findNextNewline(s []byte, offset int) (int, bool) {
	if offset >= len(s) {
		return 0, false
	}
	pos := bytes.IndexByte(s[offset:], '\n')
	if pos < 0 {
		return 0, false
	}
	return offset + pos + 1, true
}

func findPrevNewline(s []byte, offset int) (int, bool) {
	if offset == 0 {
		return 0, false
	}
	pos := bytes.LastIndexByte(s[:offset-1], '\n')
	if pos < 0 {
		return 0, false
	}
	return pos + 1, true
}
