package rope

// TextLeaf is the Leaf implementation backing a text rope: a contiguous
// run of well-formed UTF-8 bytes between MinLeaf and MaxLeaf in size
// (the root leaf of a short rope may be smaller).
type TextLeaf struct {
	bytes []byte
}

// NewTextLeaf wraps s as a leaf without copying. Callers must not mutate
// s afterward.
func NewTextLeaf(s []byte) *TextLeaf {
	return &TextLeaf{bytes: s}
}

// Bytes returns the leaf's backing bytes. Callers must not mutate the
// returned slice.
func (l *TextLeaf) Bytes() []byte { return l.bytes }

func (l *TextLeaf) Len() int { return len(l.bytes) }

func (l *TextLeaf) IsOkChild() bool { return len(l.bytes) >= MinLeaf }

func (l *TextLeaf) PushMaybeSplit(other Leaf, iv Interval) (Leaf, bool) {
	o := other.(*TextLeaf)
	l.bytes = append(l.bytes, o.bytes[iv.Start:iv.End]...)
	if len(l.bytes) <= MaxLeaf {
		return nil, false
	}
	splitpoint := findLeafSplitForMerge(l.bytes)
	rest := append([]byte(nil), l.bytes[splitpoint:]...)
	l.bytes = l.bytes[:splitpoint]
	return &TextLeaf{bytes: rest}, true
}

func (l *TextLeaf) ComputeInfo() Info {
	return TextInfo{
		Bytes:      len(l.bytes),
		Codepoints: countCodepointsBytes(l.bytes),
		Newlines:   countNewlinesBytes(l.bytes),
		Utf16:      countUTF16CodeUnitsBytes(l.bytes),
	}
}

func (l *TextLeaf) Clone() Leaf {
	return &TextLeaf{bytes: append([]byte(nil), l.bytes...)}
}

func (l *TextLeaf) Empty() Leaf {
	return &TextLeaf{}
}

// TextInfo is the Info accumulated over a text subtree: its byte length,
// line count, and UTF-16 code unit count, each summed left to right.
type TextInfo struct {
	Bytes      int
	Codepoints int
	Newlines   int
	Utf16      int
}

func (i TextInfo) Accumulate(other Info) Info {
	o := other.(TextInfo)
	return TextInfo{
		Bytes:      i.Bytes + o.Bytes,
		Codepoints: i.Codepoints + o.Codepoints,
		Newlines:   i.Newlines + o.Newlines,
		Utf16:      i.Utf16 + o.Utf16,
	}
}
