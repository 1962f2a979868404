// Package rope implements a persistent, copy-on-write B-tree rope for
// text, following the structure of xi-editor's rope crate: a generic
// tree of Leaf/Info/Metric values (node.go, builder.go, cursor.go,
// descriptor.go) specialized here to UTF-8 text (textleaf.go,
// metrics_text.go, splitpolicy.go).
package rope

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

var errInvalidUTF8 = errors.New("rope: invalid UTF-8")

// Rope is an immutable, cheaply-copyable handle to a piece of text. All
// operations that appear to mutate a Rope instead return a new one
// sharing unchanged structure with the original.
type Rope struct {
	root *Node
}

// Empty is the zero-length rope.
var Empty = &Rope{root: NewEmpty(&TextLeaf{})}

// FromString builds a rope from s in a single balanced construction pass.
func FromString(s string) *Rope {
	return FromBytes([]byte(s))
}

// FromBytes builds a rope from b, copying it into leaves sized between
// MinLeaf and MaxLeaf.
func FromBytes(b []byte) *Rope {
	builder := NewTreeBuilder(&TextLeaf{})
	rest := b
	for len(rest) > 0 {
		n := len(rest)
		if n > MaxLeaf {
			n = findLeafSplitForBulk(rest)
			if n == 0 {
				n = MinLeaf
				if n > len(rest) {
					n = len(rest)
				}
			}
		}
		chunk := append([]byte(nil), rest[:n]...)
		builder.PushLeaf(&TextLeaf{bytes: chunk})
		rest = rest[n:]
	}
	return &Rope{root: builder.Build()}
}

// NewFromReader streams r into a rope, validating UTF-8 across chunk
// boundaries as it goes.
func NewFromReader(r io.Reader) (*Rope, error) {
	builder := NewTreeBuilder(&TextLeaf{})
	var v utf8Validator
	buf := make([]byte, 64*1024)
	var carry []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if len(carry) > 0 {
				chunk = append(carry, chunk...)
				carry = nil
			}
			complete, verr := v.Validate(chunk)
			if verr != nil {
				return nil, errors.Wrap(verr, "rope: NewFromReader")
			}
			appendChunked(builder, complete)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "rope: NewFromReader")
		}
	}
	if err := v.Finish(); err != nil {
		return nil, errors.Wrap(err, "rope: NewFromReader")
	}
	return &Rope{root: builder.Build()}, nil
}

func appendChunked(b *TreeBuilder, data []byte) {
	rest := data
	for len(rest) > 0 {
		n := len(rest)
		if n > MaxLeaf {
			n = findLeafSplitForBulk(rest)
			if n == 0 {
				n = MinLeaf
				if n > len(rest) {
					n = len(rest)
				}
			}
		}
		chunk := append([]byte(nil), rest[:n]...)
		b.PushLeaf(&TextLeaf{bytes: chunk})
		rest = rest[n:]
	}
}

// Len reports the rope's length in bytes.
func (r *Rope) Len() int { return r.root.Len() }

// IsEmpty reports whether the rope has zero length.
func (r *Rope) IsEmpty() bool { return r.root.IsEmpty() }

// Lines reports the number of newline-terminated lines in the rope.
func (r *Rope) Lines() int { return r.root.Measure(LinesMetric) }

// Codepoints reports the number of Unicode code points in the rope.
func (r *Rope) Codepoints() int { return r.root.Measure(CodepointMetric) }

// Utf16Len reports the rope's length in UTF-16 code units.
func (r *Rope) Utf16Len() int { return r.root.Measure(Utf16CodeUnitsMetric) }

// String materializes the rope's full contents.
func (r *Rope) String() string { return string(r.Bytes()) }

// Bytes materializes the rope's full contents.
func (r *Rope) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(r.Len())
	c := NewCursor(r.root, 0)
	for {
		leaf, off, ok := c.GetLeaf()
		if !ok {
			break
		}
		tl := leaf.(*TextLeaf)
		buf.Write(tl.bytes[off:])
		if _, _, ok := c.NextLeaf(); !ok {
			break
		}
	}
	return buf.Bytes()
}

// Slice returns the subsequence [start, end) as a new rope.
func (r *Rope) Slice(start, end int) *Rope {
	return &Rope{root: r.root.Subseq(NewInterval(start, end))}
}

// Edit replaces [start, end) with replacement, returning a new rope.
func (r *Rope) Edit(start, end int, replacement string) *Rope {
	repl := FromString(replacement)
	return &Rope{root: r.root.Edit(NewInterval(start, end), repl.root)}
}

// Concat returns the concatenation of r and other.
func (r *Rope) Concat(other *Rope) *Rope {
	return &Rope{root: Concat(r.root, other.root)}
}

// Cursor returns a navigation cursor positioned at offset.
func (r *Rope) Cursor(offset int) *Cursor {
	return NewCursor(r.root, offset)
}

// Root exposes the underlying tree node, for callers building on the
// generic tree machinery directly.
func (r *Rope) Root() *Node { return r.root }

// LineToOffset converts a 0-based line index to the byte offset of its
// first byte.
func (r *Rope) LineToOffset(line int) int {
	return r.root.CountBaseUnits(LinesMetric, line)
}

// OffsetToLine converts a byte offset to its 0-based line index.
func (r *Rope) OffsetToLine(offset int) int {
	return r.root.Count(LinesMetric, offset)
}
