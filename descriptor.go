package rope

// PathFrame records one step of a cursor's descent: the parent node, the
// index of the child entered, and the base-unit offset at which that
// child begins within the parent.
type PathFrame struct {
	node        *Node
	childIndex  int
	childOffset int
}

// CursorDescriptor is a borrow-free snapshot of a Cursor's path, suitable
// for storing outside the lifetime of any particular tree. It restores
// successfully only if every frame's node pointer still identifies the
// same node in the tree passed to Restore; any structural change below
// or at a recorded frame invalidates it.
type CursorDescriptor struct {
	position     int
	offsetOfLeaf int
	leaf         *Node
	frames       []PathFrame
}

// ToDescriptor captures the cursor's current path. The cursor itself is
// left unchanged. Returns ok=false if the cursor is invalid.
func (c *Cursor) ToDescriptor() (CursorDescriptor, bool) {
	if !c.hasLeaf {
		return CursorDescriptor{}, false
	}
	d := CursorDescriptor{
		position:     c.position,
		offsetOfLeaf: c.offsetOfLeaf,
	}
	leafNode := c.root
	offset := 0
	frames := make([]PathFrame, 0, c.root.height)
	for leafNode.height > 0 {
		cacheIx := leafNode.height - 1
		var childIndex int
		if cacheIx < CacheSize && c.cacheDepth[cacheIx] && c.cache[cacheIx].node == leafNode {
			childIndex = c.cache[cacheIx].index
		} else {
			childIndex = findChildContaining(leafNode, c.position-offset)
		}
		children := leafNode.getChildren()
		childOffset := 0
		for i := 0; i < childIndex; i++ {
			childOffset += children[i].length
		}
		frames = append(frames, PathFrame{node: leafNode, childIndex: childIndex, childOffset: childOffset})
		offset += childOffset
		leafNode = children[childIndex]
	}
	d.leaf = leafNode
	d.frames = frames
	return d, true
}

func findChildContaining(n *Node, posWithinNode int) int {
	children := n.getChildren()
	offset := 0
	for i := 0; i+1 < len(children); i++ {
		next := offset + children[i].length
		if next > posWithinNode {
			return i
		}
		offset = next
	}
	return len(children) - 1
}

// Depth reports the number of recorded path frames.
func (d *CursorDescriptor) Depth() int { return len(d.frames) }

// Restore builds a new Cursor from the descriptor against root, succeeding
// only if every frame's node pointer is still reachable at the expected
// position within root. On failure it returns ok=false and a nil Cursor.
func (d *CursorDescriptor) Restore(root *Node) (*Cursor, bool) {
	if len(d.frames) == 0 {
		if root.height != 0 || root != d.leaf {
			return nil, false
		}
		c := &Cursor{root: root, position: d.position}
		c.setLeafFromNode(root, 0)
		return c, true
	}
	if d.frames[0].node != root {
		return nil, false
	}
	for i, f := range d.frames {
		children := f.node.getChildren()
		if f.childIndex < 0 || f.childIndex >= len(children) {
			return nil, false
		}
		child := children[f.childIndex]
		if i+1 < len(d.frames) {
			if d.frames[i+1].node != child {
				return nil, false
			}
		} else if child != d.leaf {
			return nil, false
		}
	}
	c := &Cursor{root: root, position: d.position}
	n := len(d.frames)
	for i := 0; i < CacheSize && i < n; i++ {
		f := d.frames[n-1-i]
		c.cache[i] = cacheFrame{node: f.node, index: f.childIndex}
		c.cacheDepth[i] = true
	}
	c.setLeafFromNode(d.leaf, d.offsetOfLeaf)
	return c, true
}

// ApplyDescriptor restores a descriptor into an existing cursor in place,
// leaving the cursor unchanged if restoration fails.
func ApplyDescriptor(cursor *Cursor, d *CursorDescriptor) bool {
	restored, ok := d.Restore(cursor.root)
	if !ok {
		return false
	}
	*cursor = *restored
	return true
}

// CursorState is an owned variant of CursorDescriptor: it also retains the
// nodes along its path (raising their refs hint), so a later copy-on-write
// leaf mutation clones those nodes instead of changing them in place, while
// it still validates by pointer identity the same way a CursorDescriptor
// does.
type CursorState struct {
	descriptor CursorDescriptor
	retained   []*Node
}

// ToState captures the cursor's path as a CursorState, retaining every
// node along it.
func (c *Cursor) ToState() (CursorState, bool) {
	d, ok := c.ToDescriptor()
	if !ok {
		return CursorState{}, false
	}
	retained := make([]*Node, 0, len(d.frames)+1)
	for _, f := range d.frames {
		retained = append(retained, retain(f.node))
	}
	retained = append(retained, retain(d.leaf))
	return CursorState{descriptor: d, retained: retained}, true
}

// Restore rebuilds a Cursor from the state against root, with the same
// validity rule as CursorDescriptor.Restore.
func (s *CursorState) Restore(root *Node) (*Cursor, bool) {
	return s.descriptor.Restore(root)
}

// IsValid reports whether the state can still restore against root.
func (s *CursorState) IsValid(root *Node) bool {
	_, ok := s.descriptor.Restore(root)
	return ok
}

// Depth reports the number of recorded path frames.
func (s *CursorState) Depth() int { return s.descriptor.Depth() }
