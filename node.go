package rope

import "sync/atomic"

// MinChildren and MaxChildren bound the fan-out of an internal node.
const (
	MinChildren = 4
	MaxChildren = 8
)

// Node is a node of a persistent, copy-on-write B-tree. A *Node pointer
// is itself the shared handle spec.md describes: pointer equality is
// identity equality, and refs is an atomic hint used to decide whether a
// mutation can happen in place or must clone first.
//
// A Node is either a leaf (height == 0, leaf != nil) or internal
// (height > 0, 2..=MaxChildren children of identical height == height-1).
type Node struct {
	refs     int32
	height   int
	length   int
	info     Info
	leaf     Leaf
	children []*Node
}

// newLeafNode builds a height-0 node wrapping l.
func newLeafNode(l Leaf) *Node {
	return &Node{
		refs:   1,
		height: 0,
		length: l.Len(),
		info:   l.ComputeInfo(),
		leaf:   l,
	}
}

// newInternalNode builds a node from 2..=MaxChildren children of equal
// height, recomputing length and info from them.
func newInternalNode(children []*Node) *Node {
	if len(children) < 2 || len(children) > MaxChildren {
		panic("rope: newInternalNode requires 2..=MaxChildren children")
	}
	n := &Node{
		refs:     1,
		height:   children[0].height + 1,
		children: children,
	}
	n.length = 0
	var info Info
	for i, c := range children {
		if c.height != children[0].height {
			panic("rope: newInternalNode children must share height")
		}
		n.length += c.length
		if i == 0 {
			info = c.info
		} else {
			info = info.Accumulate(c.info)
		}
		atomic.AddInt32(&c.refs, 1)
	}
	n.info = info
	return n
}

// fromNodes builds a node from a slice of 1 or more equal-height nodes,
// collapsing to the single node if there is exactly one.
func fromNodes(nodes []*Node) *Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternalNode(nodes)
}

// NewEmpty returns a one-leaf tree wrapping the zero value of the leaf
// type behind emptyLeaf (used as the "default" leaf since Go has no
// generic zero-value factory for an interface).
func NewEmpty(emptyLeaf Leaf) *Node {
	return newLeafNode(emptyLeaf)
}

// Len reports the node's length in base units.
func (n *Node) Len() int { return n.length }

// IsEmpty reports whether the node's length is zero.
func (n *Node) IsEmpty() bool { return n.length == 0 }

// Height reports the node's height (0 for a leaf).
func (n *Node) Height() int { return n.height }

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool { return n.height == 0 }

// PtrEq reports whether n and other share the same underlying handle.
func (n *Node) PtrEq(other *Node) bool { return n == other }

// Info returns the node's accumulated monoid value.
func (n *Node) Info() Info { return n.info }

func (n *Node) interval() Interval { return NewInterval(0, n.length) }

func (n *Node) getChildren() []*Node {
	if n.height == 0 {
		panic("rope: getChildren called on leaf node")
	}
	return n.children
}

// GetLeaf returns the node's leaf value; it panics on an internal node.
func (n *Node) GetLeaf() Leaf {
	if n.height != 0 {
		panic("rope: GetLeaf called on internal node")
	}
	return n.leaf
}

func (n *Node) isOkChild() bool {
	if n.height == 0 {
		return n.leaf.IsOkChild()
	}
	return len(n.children) >= MinChildren
}

// ensureUnique returns n itself if it is uniquely referenced, otherwise
// a cloned copy that is safe to mutate in place. Callers that obtain a
// clone must discard the original pointer.
func (n *Node) ensureUnique() *Node {
	if atomic.LoadInt32(&n.refs) <= 1 {
		return n
	}
	clone := &Node{refs: 1, height: n.height, length: n.length, info: n.info}
	if n.height == 0 {
		clone.leaf = n.leaf.Clone()
	} else {
		clone.children = append([]*Node(nil), n.children...)
		for _, c := range clone.children {
			atomic.AddInt32(&c.refs, 1)
		}
	}
	return clone
}

// withLeafMut applies f to a mutable, uniquely-owned view of n's leaf,
// recomputing length and info afterward, and returns the (possibly
// cloned) node together with f's result.
func withLeafMut[T any](n *Node, f func(l Leaf) T) (*Node, T) {
	if n.height != 0 {
		panic("rope: withLeafMut called on internal node")
	}
	u := n.ensureUnique()
	result := f(u.leaf)
	u.length = u.leaf.Len()
	u.info = u.leaf.ComputeInfo()
	return u, result
}

func retain(n *Node) *Node {
	atomic.AddInt32(&n.refs, 1)
	return n
}

// mergeNodes combines two equal-height child lists into one or two
// parent nodes, splitting when the combined fan-out would exceed
// MaxChildren. Splitting leans left.
func mergeNodes(children1, children2 []*Node) *Node {
	total := len(children1) + len(children2)
	if total <= MaxChildren {
		combined := make([]*Node, 0, total)
		combined = append(combined, children1...)
		combined = append(combined, children2...)
		return fromNodes(combined)
	}
	splitpoint := MaxChildren
	if total-MinChildren < splitpoint {
		splitpoint = total - MinChildren
	}
	combined := make([]*Node, 0, total)
	combined = append(combined, children1...)
	combined = append(combined, children2...)
	left := fromNodes(combined[:splitpoint])
	right := fromNodes(combined[splitpoint:])
	return newInternalNode([]*Node{left, right})
}

// mergeLeaves concatenates two leaf nodes, splitting the result if it
// would overflow the leaf maximum.
func mergeLeaves(rope1, rope2 *Node) *Node {
	if rope1.height != 0 || rope2.height != 0 {
		panic("rope: mergeLeaves called on non-leaf")
	}
	if rope1.leaf.IsOkChild() && rope2.leaf.IsOkChild() {
		return newInternalNode([]*Node{rope1, rope2})
	}
	leaf2 := rope2.leaf
	iv := NewInterval(0, leaf2.Len())
	// rope1 belongs to the caller: mark it shared so the merge goes into a copy.
	merged, overflow := withLeafMut(retain(rope1), func(l Leaf) Leaf {
		rest, split := l.PushMaybeSplit(leaf2, iv)
		if !split {
			return nil
		}
		return rest
	})
	if overflow == nil {
		return merged
	}
	return newInternalNode([]*Node{merged, newLeafNode(overflow)})
}

// Concat concatenates rope1 and rope2, rebalancing by height so the
// result is a valid tree.
func Concat(rope1, rope2 *Node) *Node {
	h1, h2 := rope1.height, rope2.height
	switch {
	case h1 < h2:
		children2 := rope2.getChildren()
		if h1 == h2-1 && rope1.isOkChild() {
			return mergeNodes([]*Node{rope1}, children2)
		}
		newrope := Concat(rope1, children2[0])
		if newrope.height == h2-1 {
			return mergeNodes([]*Node{newrope}, children2[1:])
		}
		return mergeNodes(newrope.getChildren(), children2[1:])
	case h1 > h2:
		children1 := rope1.getChildren()
		if h2 == h1-1 && rope2.isOkChild() {
			return mergeNodes(children1, []*Node{rope2})
		}
		lastix := len(children1) - 1
		newrope := Concat(children1[lastix], rope2)
		if newrope.height == h1-1 {
			return mergeNodes(children1[:lastix], []*Node{newrope})
		}
		return mergeNodes(children1[:lastix], newrope.getChildren())
	default:
		if rope1.isOkChild() && rope2.isOkChild() {
			return newInternalNode([]*Node{rope1, rope2})
		}
		if h1 == 0 {
			return mergeLeaves(rope1, rope2)
		}
		return mergeNodes(rope1.getChildren(), rope2.getChildren())
	}
}

// Measure returns the count of m's measured units across the whole node.
func (n *Node) Measure(m Metric) int {
	return m.Measure(n.info, n.length)
}

// Subseq returns a new tree holding the slice of n denoted by iv.
func (n *Node) Subseq(iv Interval) *Node {
	b := NewTreeBuilder(emptyLeafLike(n))
	b.PushSlice(n, iv)
	return b.Build()
}

// Edit replaces the slice of n denoted by iv with replacement, returning
// the new root. n itself is not mutated; assign the result back.
func (n *Node) Edit(iv Interval, replacement *Node) *Node {
	b := NewTreeBuilder(emptyLeafLike(n))
	selfIv := n.interval()
	b.PushSlice(n, selfIv.Prefix(iv))
	b.Push(replacement)
	b.PushSlice(n, selfIv.Suffix(iv))
	return b.Build()
}

// emptyLeafLike returns the zero-length default leaf for n's concrete
// leaf type, descending to a leaf node if necessary, for use as a
// builder's "default" leaf.
func emptyLeafLike(n *Node) Leaf {
	for n.height != 0 {
		n = n.children[0]
	}
	return n.leaf.Empty()
}

// ConvertMetrics converts an m1-measured offset into an m2-measured
// offset, descending the tree to find the leaf that owns the m1
// boundary. It does not handle the tree's own endpoint specially; callers
// needing that behavior special-case it themselves.
func (n *Node) ConvertMetrics(m1, m2 Metric, offset int) int {
	if offset == 0 {
		return 0
	}
	fudge := 0
	if m1.CanFragment() {
		fudge = 1
	}
	m2total := 0
	node := n
	for node.height > 0 {
		for _, child := range node.getChildren() {
			childM1 := child.Measure(m1)
			if offset < childM1+fudge {
				node = child
				break
			}
			m2total += child.Measure(m2)
			offset -= childM1
		}
	}
	base := m1.ToBaseUnits(node.leaf, offset)
	return m2total + m2.FromBaseUnits(node.leaf, base)
}

// Count converts a base-unit offset into m's measured units.
func (n *Node) Count(m Metric, offset int) int {
	return n.ConvertMetrics(BaseUnits, m, offset)
}

// CountBaseUnits converts an m-measured offset into a base-unit offset.
func (n *Node) CountBaseUnits(m Metric, offset int) int {
	return n.ConvertMetrics(m, BaseUnits, offset)
}
