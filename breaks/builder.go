package breaks

import "github.com/aretext/rope"

// Builder constructs a Breaks tree incrementally, accumulating runs of
// unbroken base units and break positions without building an
// intermediate leaf per break.
type Builder struct {
	b    *rope.TreeBuilder
	leaf Leaf
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{b: rope.NewTreeBuilder(&Leaf{})}
}

// AddBreak extends the tree by length base units and records a break at
// the end of that run.
func (bb *Builder) AddBreak(length int) {
	if len(bb.leaf.Offsets) == MaxLeaf {
		bb.flush()
	}
	bb.leaf.Span += length
	bb.leaf.Offsets = append(bb.leaf.Offsets, bb.leaf.Span)
}

// AddNoBreak extends the tree by length base units with no break in them.
func (bb *Builder) AddNoBreak(length int) {
	bb.leaf.Span += length
}

func (bb *Builder) flush() {
	if bb.leaf.Span == 0 && len(bb.leaf.Offsets) == 0 {
		return
	}
	bb.b.PushLeaf(&Leaf{Span: bb.leaf.Span, Offsets: bb.leaf.Offsets})
	bb.leaf = Leaf{}
}

// Build finishes construction and returns the resulting tree.
func (bb *Builder) Build() *Breaks {
	bb.flush()
	return &Breaks{root: bb.b.Build()}
}
