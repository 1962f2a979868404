package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatRebalancesHeight(t *testing.T) {
	left := FromString(strings.Repeat("a", 5000))
	right := FromString(strings.Repeat("b", 5000))
	joined := Concat(left.root, right.root)
	assert.Equal(t, 10000, joined.Len())
	assert.Equal(t, strings.Repeat("a", 5000)+strings.Repeat("b", 5000), bytesOf(t, joined))
}

func TestSubseqMatchesSlice(t *testing.T) {
	s := strings.Repeat("0123456789", 300)
	r := FromString(s)
	sub := r.root.Subseq(NewInterval(125, 2875))
	assert.Equal(t, s[125:2875], bytesOf(t, sub))
}

func TestEditReplacesMiddle(t *testing.T) {
	s := strings.Repeat("x", 2000)
	r := FromString(s)
	edited := r.root.Edit(NewInterval(900, 1100), FromString(strings.Repeat("Y", 50)).root)
	want := s[:900] + strings.Repeat("Y", 50) + s[1100:]
	assert.Equal(t, want, bytesOf(t, edited))
}

func bytesOf(t *testing.T, n *Node) string {
	t.Helper()
	r := &Rope{root: n}
	return r.String()
}
