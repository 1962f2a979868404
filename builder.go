package rope

import "unsafe"

// TreeBuilderEventKind identifies the shape of a TreeBuilderEvent.
type TreeBuilderEventKind int

const (
	EventPushFrame TreeBuilderEventKind = iota
	EventExtendFrame
	EventMergePop
	EventLeafSlice
	EventEnterChild
)

// TreeBuilderEvent is emitted to an attached TreeBuilderTracer as the
// builder works. NodePtr is an opaque identity a consumer can use to
// correlate multiple events with the same node; the core never
// dereferences it after emission.
type TreeBuilderEvent struct {
	Kind       TreeBuilderEventKind
	Depth      int
	NodeHeight int
	NodeLen    int
	NodePtr    uintptr
	Reuse      bool

	// MergedChildren is set for EventMergePop.
	MergedChildren int
	// Interval is set for EventLeafSlice.
	Interval Interval
	// Requested/Translated are set for EventEnterChild.
	Requested  Interval
	Translated Interval
}

// TreeBuilderTracer observes TreeBuilder activity without influencing the
// tree produced. Implementations must be deterministic and free of side
// effects other than recording.
type TreeBuilderTracer interface {
	Record(event TreeBuilderEvent)
}

// TreeBuilder incrementally constructs a balanced tree from leaves, nodes,
// and slices of existing trees. The stack holds partial child lists in
// strictly descending height order; each list has length in [1, MaxChildren).
type TreeBuilder struct {
	stack     [][]*Node
	emptyLeaf Leaf
	tracer    TreeBuilderTracer
}

// NewTreeBuilder returns an empty builder. emptyLeaf supplies the default
// (zero-length) leaf value Build returns when nothing was ever pushed.
func NewTreeBuilder(emptyLeaf Leaf) *TreeBuilder {
	return &TreeBuilder{emptyLeaf: emptyLeaf}
}

// WithTracer attaches a tracer and returns the builder for chaining.
func (b *TreeBuilder) WithTracer(t TreeBuilderTracer) *TreeBuilder {
	b.tracer = t
	return b
}

func (b *TreeBuilder) trace(event TreeBuilderEvent) {
	if b.tracer != nil {
		event.Depth = len(b.stack)
		b.tracer.Record(event)
	}
}

func nodePtr(n *Node) uintptr {
	return uintptr(unsafe.Pointer(n))
}

// Push appends a node to the tree being built.
func (b *TreeBuilder) Push(n *Node) {
	// n stays visible to the caller, so a later leaf merge into it must copy.
	retain(n)
	for {
		var cmp int // <0: top height < n height, 0: equal, >0: top height > n height
		if len(b.stack) == 0 {
			cmp = 1
		} else {
			top := b.stack[len(b.stack)-1]
			cmp = top[0].height - n.height
		}
		switch {
		case cmp < 0:
			n = Concat(b.pop(), n)
		case cmp == 0:
			tos := b.stack[len(b.stack)-1]
			last := tos[len(tos)-1]
			if last.isOkChild() && n.isOkChild() {
				tos = append(tos, n)
				b.stack[len(b.stack)-1] = tos
				b.trace(TreeBuilderEvent{Kind: EventExtendFrame, NodeHeight: n.height, NodeLen: n.length, NodePtr: nodePtr(n)})
			} else if n.height == 0 {
				iv := NewInterval(0, n.length)
				merged, overflow := withLeafMut(last, func(l Leaf) Leaf {
					rest, split := l.PushMaybeSplit(n.leaf, iv)
					if !split {
						return nil
					}
					return rest
				})
				tos[len(tos)-1] = merged
				if overflow != nil {
					tos = append(tos, newLeafNode(overflow))
				}
				b.stack[len(b.stack)-1] = tos
			} else {
				last = tos[len(tos)-1]
				existing := last.getChildren()
				incoming := n.getChildren()
				total := len(existing) + len(incoming)
				if total <= MaxChildren {
					merged := make([]*Node, 0, total)
					merged = append(merged, existing...)
					merged = append(merged, incoming...)
					tos[len(tos)-1] = newInternalNode(merged)
				} else {
					combined := make([]*Node, 0, total)
					combined = append(combined, existing...)
					combined = append(combined, incoming...)
					splitpoint := MaxChildren
					if total-MinChildren < splitpoint {
						splitpoint = total - MinChildren
					}
					tos[len(tos)-1] = fromNodes(combined[:splitpoint])
					tos = append(tos, fromNodes(combined[splitpoint:]))
				}
				b.stack[len(b.stack)-1] = tos
				b.trace(TreeBuilderEvent{Kind: EventMergePop, MergedChildren: total})
			}
			if len(b.stack[len(b.stack)-1]) < MaxChildren {
				return
			}
			n = b.pop()
		default:
			b.stack = append(b.stack, []*Node{n})
			b.trace(TreeBuilderEvent{Kind: EventPushFrame, NodeHeight: n.height, NodeLen: n.length, NodePtr: nodePtr(n)})
			return
		}
	}
}

// PushSlice pushes the subsequence of n denoted by iv onto the builder,
// minimizing intermediate allocation compared to Subseq-then-Push.
func (b *TreeBuilder) PushSlice(n *Node, iv Interval) {
	if iv.IsEmpty() {
		return
	}
	if iv == n.interval() {
		b.Push(n)
		return
	}
	if n.height == 0 {
		b.trace(TreeBuilderEvent{Kind: EventLeafSlice, Interval: iv, NodeHeight: n.height, NodeLen: n.length})
		b.PushLeafSlice(n.leaf, iv)
		return
	}
	offset := 0
	for _, child := range n.children {
		if iv.IsBefore(offset) {
			break
		}
		childIv := child.interval()
		recIv := iv.Intersect(childIv.Translate(offset)).TranslateNeg(offset)
		b.trace(TreeBuilderEvent{Kind: EventEnterChild, Requested: iv, Translated: recIv})
		b.PushSlice(child, recIv)
		offset += child.length
	}
}

// PushLeaves appends a sequence of leaves in order.
func (b *TreeBuilder) PushLeaves(leaves []Leaf) {
	for _, l := range leaves {
		b.Push(newLeafNode(l))
	}
}

// PushLeaf appends a single leaf.
func (b *TreeBuilder) PushLeaf(l Leaf) {
	b.Push(newLeafNode(l))
}

// PushLeafSlice appends the slice of a single leaf denoted by iv.
func (b *TreeBuilder) PushLeafSlice(l Leaf, iv Interval) {
	result := l.Empty()
	_, split := result.PushMaybeSplit(l, iv)
	if split {
		panic("rope: unexpected split building a leaf subsequence")
	}
	b.Push(newLeafNode(result))
}

// Build concatenates everything pushed so far into the final tree.
func (b *TreeBuilder) Build() *Node {
	if len(b.stack) == 0 {
		return NewEmpty(b.emptyLeaf)
	}
	n := b.pop()
	for len(b.stack) > 0 {
		n = Concat(b.pop(), n)
	}
	return n
}

func (b *TreeBuilder) pop() *Node {
	last := len(b.stack) - 1
	nodes := b.stack[last]
	b.stack = b.stack[:last]
	return fromNodes(nodes)
}
