// Package breaks implements a secondary tree of break offsets (soft line
// wraps, in the editor this rope was built for) over the same B-tree
// machinery the root package uses for text, per xi-editor's breaks.rs:
// a BreaksLeaf stores nothing but a length and a sorted list of break
// offsets within it, reusing rope.Node/rope.Cursor/rope.TreeBuilder
// unmodified.
package breaks

import (
	"sort"

	"github.com/aretext/rope"
)

// MinLeaf and MaxLeaf bound the number of break entries a leaf holds,
// independent of how many base units (bytes) it spans.
const (
	MinLeaf = 32
	MaxLeaf = 64
)

// Leaf is the Leaf implementation backing a Breaks tree: Span base units
// of text containing breaks at the byte offsets in Offsets (each in
// (0, Span], strictly increasing).
type Leaf struct {
	Span    int
	Offsets []int
}

var _ rope.Leaf = (*Leaf)(nil)

func (l *Leaf) Len() int { return l.Span }

func (l *Leaf) IsOkChild() bool { return len(l.Offsets) >= MinLeaf }

func (l *Leaf) PushMaybeSplit(other rope.Leaf, iv rope.Interval) (rope.Leaf, bool) {
	o := other.(*Leaf)
	for _, v := range o.Offsets {
		if v > iv.Start && v <= iv.End {
			l.Offsets = append(l.Offsets, v-iv.Start+l.Span)
		}
	}
	l.Span += iv.Len()
	if len(l.Offsets) <= MaxLeaf {
		return nil, false
	}
	splitpoint := len(l.Offsets) / 2
	splitOffsetUnits := l.Offsets[splitpoint-1]
	tail := append([]int(nil), l.Offsets[splitpoint:]...)
	for i := range tail {
		tail[i] -= splitOffsetUnits
	}
	l.Offsets = l.Offsets[:splitpoint]
	newSpan := l.Span - splitOffsetUnits
	l.Span = splitOffsetUnits
	return &Leaf{Span: newSpan, Offsets: tail}, true
}

func (l *Leaf) ComputeInfo() rope.Info {
	return Info(len(l.Offsets))
}

func (l *Leaf) Clone() rope.Leaf {
	return &Leaf{Span: l.Span, Offsets: append([]int(nil), l.Offsets...)}
}

func (l *Leaf) Empty() rope.Leaf {
	return &Leaf{}
}

// Info is the Info accumulated over a Breaks subtree: the count of break
// offsets it contains.
type Info int

func (i Info) Accumulate(other rope.Info) rope.Info {
	return i + other.(Info)
}

// Metric measures byte offsets in units of break boundaries.
var Metric rope.Metric = breaksMetric{}

type breaksMetric struct{}

func (breaksMetric) Measure(info rope.Info, _ int) int {
	return int(info.(Info))
}

func (breaksMetric) ToBaseUnits(leaf rope.Leaf, measured int) int {
	l := leaf.(*Leaf)
	if measured <= 0 || measured > len(l.Offsets) {
		return l.Span
	}
	return l.Offsets[measured-1]
}

func (breaksMetric) FromBaseUnits(leaf rope.Leaf, base int) int {
	l := leaf.(*Leaf)
	return sort.Search(len(l.Offsets), func(i int) bool { return l.Offsets[i] > base })
}

func (breaksMetric) IsBoundary(leaf rope.Leaf, baseOffset int) bool {
	l := leaf.(*Leaf)
	i := sort.SearchInts(l.Offsets, baseOffset)
	return i < len(l.Offsets) && l.Offsets[i] == baseOffset
}

func (breaksMetric) Prev(leaf rope.Leaf, baseOffset int) (int, bool) {
	l := leaf.(*Leaf)
	i := sort.SearchInts(l.Offsets, baseOffset) - 1
	if i < 0 {
		return 0, false
	}
	return l.Offsets[i], true
}

func (breaksMetric) Next(leaf rope.Leaf, baseOffset int) (int, bool) {
	l := leaf.(*Leaf)
	i := sort.Search(len(l.Offsets), func(i int) bool { return l.Offsets[i] > baseOffset })
	if i >= len(l.Offsets) {
		return 0, false
	}
	return l.Offsets[i], true
}

func (breaksMetric) CanFragment() bool { return true }

// Breaks is a tree of break offsets over a span of base units.
type Breaks struct {
	root *rope.Node
}

// NewNoBreak returns a Breaks tree spanning length base units with no
// breaks in it.
func NewNoBreak(length int) *Breaks {
	b := NewBuilder()
	b.AddNoBreak(length)
	return b.Build()
}

// Len reports the number of base units the tree spans.
func (b *Breaks) Len() int { return b.root.Len() }

// CountBreaksUpTo returns the number of breaks at or before offset.
func (b *Breaks) CountBreaksUpTo(offset int) int {
	return b.root.Count(Metric, offset)
}

// OffsetOfBreak returns the base-unit offset of the n-th break (0-based).
func (b *Breaks) OffsetOfBreak(n int) int {
	return b.root.CountBaseUnits(Metric, n+1)
}

// CountBreaksInRange returns the number of breaks in (start, end].
func (b *Breaks) CountBreaksInRange(start, end int) int {
	if start >= end {
		return 0
	}
	return b.CountBreaksUpTo(end) - b.CountBreaksUpTo(start)
}

// Root exposes the underlying tree node.
func (b *Breaks) Root() *rope.Node { return b.root }
