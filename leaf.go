package rope

// Leaf is the value stored at height 0 of a Node tree. Implementations
// must be safe to share: PushMaybeSplit and Clone are the only ways the
// tree mutates a leaf's content, and both produce new values rather than
// aliasing the receiver's backing storage with anyone else's.
type Leaf interface {
	// Len reports the leaf's size in base units.
	Len() int

	// IsOkChild reports whether the leaf is large enough to stand as a
	// child of an internal node on its own.
	IsOkChild() bool

	// PushMaybeSplit merges the slice of other denoted by iv into the
	// receiver. If the combined leaf would exceed the leaf's maximum size,
	// the overflow is returned as a second leaf and split is true.
	//
	// Invariant: if either input satisfies IsOkChild, both the receiver
	// and any returned overflow satisfy IsOkChild afterward.
	PushMaybeSplit(other Leaf, iv Interval) (overflow Leaf, split bool)

	// ComputeInfo derives this leaf's contribution to the tree's
	// accumulated Info. Applying Info.Accumulate to the info of two
	// leaves must equal ComputeInfo of their concatenation.
	ComputeInfo() Info

	// Clone returns a deep copy that shares no mutable backing storage
	// with the receiver, used by the copy-on-write path when a leaf is
	// mutated while its owning Node is aliased.
	Clone() Leaf

	// Empty returns the zero-length default value of the receiver's
	// concrete type, standing in for Rust's Leaf: Default bound.
	Empty() Leaf
}

// Info is a monoid accumulated bottom-up over a subtree. Implementations
// should make Accumulate associative, though this is a convention the
// type system cannot enforce.
type Info interface {
	// Accumulate combines the receiver with other, returning the info for
	// their concatenation in leaf order (receiver first).
	Accumulate(other Info) Info
}

// Metric translates between base units and some measured unit (lines,
// UTF-16 code units, breaks, ...) within a single leaf, and reports
// aggregate measured counts from a subtree's cached Info.
type Metric interface {
	// Measure returns the count of measured units represented by info/length,
	// the cached aggregate of an entire subtree.
	Measure(info Info, length int) int

	// ToBaseUnits converts a measured-unit offset within leaf to a base-unit
	// offset within the same leaf.
	ToBaseUnits(leaf Leaf, measured int) int

	// FromBaseUnits converts a base-unit offset within leaf to a
	// measured-unit offset within the same leaf.
	FromBaseUnits(leaf Leaf, base int) int

	// IsBoundary reports whether baseOffset is a boundary between measured
	// units within leaf.
	IsBoundary(leaf Leaf, baseOffset int) bool

	// Prev returns the nearest strict boundary before baseOffset within
	// leaf, if any.
	Prev(leaf Leaf, baseOffset int) (offset int, ok bool)

	// Next returns the nearest strict boundary after baseOffset within
	// leaf, if any.
	Next(leaf Leaf, baseOffset int) (offset int, ok bool)

	// CanFragment reports whether a single measured unit can span more
	// than one leaf.
	CanFragment() bool
}

// baseUnitsMetric is the trivial metric whose measured unit is the base
// unit itself: every base offset is a boundary, nothing can fragment.
// It serves as the "default metric" for any tree (the text rope's byte
// count, the breaks tree's own length) without needing a leaf-specific
// implementation, since it never inspects leaf content beyond Len().
type baseUnitsMetric struct{}

func (baseUnitsMetric) Measure(_ Info, length int) int { return length }

func (baseUnitsMetric) ToBaseUnits(_ Leaf, measured int) int { return measured }

func (baseUnitsMetric) FromBaseUnits(_ Leaf, base int) int { return base }

func (baseUnitsMetric) IsBoundary(_ Leaf, _ int) bool { return true }

func (baseUnitsMetric) Prev(_ Leaf, baseOffset int) (int, bool) {
	if baseOffset == 0 {
		return 0, false
	}
	return baseOffset - 1, true
}

func (baseUnitsMetric) Next(leaf Leaf, baseOffset int) (int, bool) {
	if baseOffset >= leaf.Len() {
		return 0, false
	}
	return baseOffset + 1, true
}

func (baseUnitsMetric) CanFragment() bool { return false }

// BaseUnits is the identity metric over base units, shared by every tree
// built on this package regardless of leaf type.
var BaseUnits Metric = baseUnitsMetric{}
