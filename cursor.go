package rope

// CacheSize is the number of (parent, child index) frames a Cursor keeps
// without reallocating. It is a tuning knob, not a correctness boundary:
// a cache miss always falls back to a fresh descent from the root.
const CacheSize = 4

type cacheFrame struct {
	node  *Node
	index int
}

// Cursor is a stateful, single-threaded navigator over a tree. It can be
// valid (positioned at a real leaf) or invalid (after Prev/Next fails to
// find another boundary); Set always returns it to a valid state.
type Cursor struct {
	root         *Node
	position     int
	cache        [CacheSize]cacheFrame
	cacheDepth   [CacheSize]bool // true if cache[i] is populated
	leaf         Leaf
	hasLeaf      bool
	offsetOfLeaf int
}

// NewCursor creates a cursor at position within root.
func NewCursor(root *Node, position int) *Cursor {
	c := &Cursor{root: root, position: position}
	c.descend()
	return c
}

// TotalLen returns the length of the tree being traversed.
func (c *Cursor) TotalLen() int { return c.root.Len() }

// Root returns the tree being traversed.
func (c *Cursor) Root() *Node { return c.root }

// GetLeaf returns the leaf containing the current position and the
// offset within it, or ok=false if the cursor is invalid.
func (c *Cursor) GetLeaf() (leaf Leaf, offsetInLeaf int, ok bool) {
	if !c.hasLeaf {
		return nil, 0, false
	}
	return c.leaf, c.position - c.offsetOfLeaf, true
}

// Pos returns the cursor's current absolute position.
func (c *Cursor) Pos() int { return c.position }

// Set moves the cursor to position, redescending only if necessary.
func (c *Cursor) Set(position int) {
	c.position = position
	if c.hasLeaf && c.position >= c.offsetOfLeaf && c.position < c.offsetOfLeaf+c.leaf.Len() {
		return
	}
	c.descend()
}

func (c *Cursor) setLeafFromNode(leafNode *Node, offset int) {
	c.leaf = leafNode.leaf
	c.hasLeaf = true
	c.offsetOfLeaf = offset
}

func (c *Cursor) invalidate(position int) {
	c.hasLeaf = false
	c.leaf = nil
	if position > c.root.Len() {
		position = c.root.Len()
	}
	if position < 0 {
		position = 0
	}
	c.position = position
	c.offsetOfLeaf = c.position
}

// descend walks from the root to the leaf containing c.position,
// populating the cache bottom-up.
func (c *Cursor) descend() {
	node := c.root
	offset := 0
	for node.height > 0 {
		children := node.getChildren()
		i := 0
		for i+1 < len(children) {
			nextoff := offset + children[i].length
			if nextoff > c.position {
				break
			}
			offset = nextoff
			i++
		}
		cacheIx := node.height - 1
		if cacheIx < CacheSize {
			c.cache[cacheIx] = cacheFrame{node: node, index: i}
			c.cacheDepth[cacheIx] = true
		}
		node = children[i]
	}
	c.setLeafFromNode(node, offset)
}

// measureLeaf returns the m-measure accumulated at the start of the leaf
// containing pos. O(log n) regardless of cursor state.
func (c *Cursor) measureLeaf(m Metric, pos int) int {
	node := c.root
	metric := 0
	for node.height > 0 {
		for _, child := range node.getChildren() {
			length := child.length
			if pos < length {
				node = child
				break
			}
			pos -= length
			metric += child.Measure(m)
		}
	}
	return metric
}

// descendMetric moves the cursor to the beginning of the leaf containing
// the smallest offset with the given m-measure, updating cache as descend
// would. If measure exceeds the tree's total, it lands on the last leaf.
func (c *Cursor) descendMetric(m Metric, measure int) {
	node := c.root
	offset := 0
	for node.height > 0 {
		children := node.getChildren()
		i := 0
		for i+1 < len(children) {
			child := children[i]
			childM := child.Measure(m)
			if childM >= measure {
				break
			}
			offset += child.length
			measure -= childM
			i++
		}
		cacheIx := node.height - 1
		if cacheIx < CacheSize {
			c.cache[cacheIx] = cacheFrame{node: node, index: i}
			c.cacheDepth[cacheIx] = true
		}
		node = children[i]
	}
	c.position = offset
	c.setLeafFromNode(node, offset)
}

// IsBoundary reports whether the current position is a boundary under m.
func (c *Cursor) IsBoundary(m Metric) bool {
	if !c.hasLeaf {
		return false
	}
	if c.position == c.offsetOfLeaf && !m.CanFragment() {
		return true
	}
	if c.position == 0 || c.position > c.offsetOfLeaf {
		return m.IsBoundary(c.leaf, c.position-c.offsetOfLeaf)
	}
	l, _, ok := c.PrevLeaf()
	if !ok {
		// unreachable: position>0 and not at start of root implies a
		// previous leaf exists.
		return false
	}
	result := m.IsBoundary(l, l.Len())
	c.NextLeaf()
	return result
}

// Prev moves the cursor to the previous m-boundary, invalidating it if
// none exists.
func (c *Cursor) Prev(m Metric) (int, bool) {
	if c.position == 0 || !c.hasLeaf {
		c.invalidate(c.position)
		return 0, false
	}
	origPos := c.position
	offsetInLeaf := origPos - c.offsetOfLeaf
	if offsetInLeaf > 0 {
		if off, ok := m.Prev(c.leaf, offsetInLeaf); ok {
			c.position = c.offsetOfLeaf + off
			return c.position, true
		}
	}
	if _, _, ok := c.PrevLeaf(); !ok {
		return 0, false
	}
	if pos, ok := c.lastInsideLeaf(m, origPos); ok {
		return pos, true
	}
	measure := c.measureLeaf(m, c.position)
	if measure == 0 {
		c.invalidate(0)
		return 0, false
	}
	c.descendMetric(m, measure)
	return c.lastInsideLeaf(m, origPos)
}

// Next moves the cursor to the next m-boundary, invalidating it if none
// exists.
func (c *Cursor) Next(m Metric) (int, bool) {
	if c.position >= c.root.Len() || !c.hasLeaf {
		c.invalidate(c.position)
		return 0, false
	}
	if pos, ok := c.nextInsideLeaf(m); ok {
		return pos, true
	}
	if _, _, ok := c.NextLeaf(); !ok {
		return 0, false
	}
	if pos, ok := c.nextInsideLeaf(m); ok {
		return pos, true
	}
	measure := c.measureLeaf(m, c.position)
	c.descendMetric(m, measure+1)
	if pos, ok := c.nextInsideLeaf(m); ok {
		return pos, true
	}
	c.invalidate(c.root.Len())
	return 0, false
}

// AtOrNext returns the current position if it is already a boundary,
// otherwise behaves like Next.
func (c *Cursor) AtOrNext(m Metric) (int, bool) {
	if c.IsBoundary(m) {
		return c.Pos(), true
	}
	return c.Next(m)
}

// AtOrPrev returns the current position if it is already a boundary,
// otherwise behaves like Prev.
func (c *Cursor) AtOrPrev(m Metric) (int, bool) {
	if c.IsBoundary(m) {
		return c.Pos(), true
	}
	return c.Prev(m)
}

func (c *Cursor) lastInsideLeaf(m Metric, origPos int) (int, bool) {
	l := c.leaf
	length := l.Len()
	if c.offsetOfLeaf+length < origPos && m.IsBoundary(l, length) {
		c.NextLeaf()
		return c.position, true
	}
	off, ok := m.Prev(l, length)
	if !ok {
		return 0, false
	}
	c.position = c.offsetOfLeaf + off
	return c.position, true
}

func (c *Cursor) nextInsideLeaf(m Metric) (int, bool) {
	l := c.leaf
	offsetInLeaf := c.position - c.offsetOfLeaf
	off, ok := m.Next(l, offsetInLeaf)
	if !ok {
		return 0, false
	}
	if off == l.Len() && c.offsetOfLeaf+off != c.root.Len() {
		c.NextLeaf()
	} else {
		c.position = c.offsetOfLeaf + off
	}
	return c.position, true
}

// NextLeaf moves to the beginning of the next leaf, using the cached
// path when possible and falling back to a fresh descent otherwise.
func (c *Cursor) NextLeaf() (Leaf, int, bool) {
	if !c.hasLeaf {
		return nil, 0, false
	}
	leaf := c.leaf
	newOffset := c.offsetOfLeaf + leaf.Len()
	c.position = newOffset
	if newOffset >= c.root.Len() {
		c.invalidate(c.position)
		return nil, 0, false
	}
	for i := 0; i < CacheSize; i++ {
		if !c.cacheDepth[i] {
			break
		}
		frame := c.cache[i]
		children := frame.node.getChildren()
		if frame.index+1 < len(children) {
			c.cache[i] = cacheFrame{node: frame.node, index: frame.index + 1}
			nodeDown := children[frame.index+1]
			for k := i - 1; k >= 0; k-- {
				c.cache[k] = cacheFrame{node: nodeDown, index: 0}
				c.cacheDepth[k] = true
				nodeDown = nodeDown.getChildren()[0]
			}
			c.setLeafFromNode(nodeDown, newOffset)
			return c.GetLeaf()
		}
	}
	c.descend()
	return c.GetLeaf()
}

// PrevLeaf moves to the beginning of the previous leaf, using the cached
// path when possible and falling back to a fresh descent otherwise.
func (c *Cursor) PrevLeaf() (Leaf, int, bool) {
	if c.offsetOfLeaf == 0 {
		c.hasLeaf = false
		c.leaf = nil
		c.position = 0
		return nil, 0, false
	}
	for i := 0; i < CacheSize; i++ {
		if !c.cacheDepth[i] {
			break
		}
		frame := c.cache[i]
		if frame.index > 0 {
			c.cache[i] = cacheFrame{node: frame.node, index: frame.index - 1}
			nodeDown := frame.node.getChildren()[frame.index-1]
			for k := i - 1; k >= 0; k-- {
				lastIx := len(nodeDown.getChildren()) - 1
				c.cache[k] = cacheFrame{node: nodeDown, index: lastIx}
				c.cacheDepth[k] = true
				nodeDown = nodeDown.getChildren()[lastIx]
			}
			newOffset := c.offsetOfLeaf - nodeDown.length
			c.position = newOffset
			c.setLeafFromNode(nodeDown, newOffset)
			return c.GetLeaf()
		}
	}
	c.position = c.offsetOfLeaf - 1
	c.descend()
	c.position = c.offsetOfLeaf
	return c.GetLeaf()
}

// Iter returns a lazy, finite sequence of boundary positions produced by
// successive calls to Next. It is restartable only by constructing a new
// cursor or calling Set.
func (c *Cursor) Iter(m Metric) func(yield func(int) bool) {
	return func(yield func(int) bool) {
		for {
			pos, ok := c.Next(m)
			if !ok {
				return
			}
			if !yield(pos) {
				return
			}
		}
	}
}
