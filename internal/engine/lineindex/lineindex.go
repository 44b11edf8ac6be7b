// Package lineindex maintains the mapping between character offsets and
// line numbers for a document, updated incrementally on every edit.
//
// The index stores the start offset of every line in a sorted slice. An
// insertion shifts the starts after the edit point and splices in one start
// per inserted newline; a removal drops the starts that fell inside the
// removed range and shifts the rest back. Lines are delimited by '\n' only;
// callers normalise other line endings before editing.
//
// Offsets and lengths are measured in characters (runes), not bytes.
package lineindex

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by index operations.
var (
	ErrLineNotFound     = errors.New("line not found")
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// LineSegment describes one line of the document.
// Length includes the trailing delimiter when there is one.
type LineSegment struct {
	Number          int
	Offset          int
	Length          int
	DelimiterLength int
}

// EditableLength returns the length of the line without its delimiter.
func (s LineSegment) EditableLength() int {
	return s.Length - s.DelimiterLength
}

// EndOffset returns the offset just past the line, delimiter included.
func (s LineSegment) EndOffset() int {
	return s.Offset + s.Length
}

// Contains reports whether offset lies within the line, delimiter included.
func (s LineSegment) Contains(offset int) bool {
	return offset >= s.Offset && offset < s.EndOffset()
}

// String returns a debug representation.
func (s LineSegment) String() string {
	return fmt.Sprintf("Line(%d @%d len=%d)", s.Number, s.Offset, s.Length)
}

// Index maps offsets to lines. The zero value is not usable; call New.
type Index struct {
	starts []int
	length int
}

// New creates an index for the given text.
func New(text string) *Index {
	idx := &Index{}
	idx.Rebuild(text)
	return idx
}

// Rebuild recomputes the index from scratch.
func (idx *Index) Rebuild(text string) {
	idx.starts = idx.starts[:0]
	idx.starts = append(idx.starts, 0)
	n := 0
	for _, r := range text {
		n++
		if r == '\n' {
			idx.starts = append(idx.starts, n)
		}
	}
	idx.length = n
}

// Len returns the number of characters the index covers.
func (idx *Index) Len() int {
	return idx.length
}

// LineCount returns the number of lines. An empty document has one line.
func (idx *Index) LineCount() int {
	return len(idx.starts)
}

// OffsetToLine returns the line containing offset. The offset of a newline
// maps to the line it terminates. Offsets past the end clamp to the last
// line and negative offsets to the first.
func (idx *Index) OffsetToLine(offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset >= idx.length {
		return len(idx.starts) - 1
	}
	// First start strictly greater than offset, minus one.
	return sort.SearchInts(idx.starts, offset+1) - 1
}

// Line returns the segment for line n (0-based).
func (idx *Index) Line(n int) (LineSegment, error) {
	if n < 0 || n >= len(idx.starts) {
		return LineSegment{}, fmt.Errorf("%w: %d (have %d)", ErrLineNotFound, n, len(idx.starts))
	}
	start := idx.starts[n]
	end := idx.length
	delim := 0
	if n+1 < len(idx.starts) {
		end = idx.starts[n+1]
		delim = 1
	}
	return LineSegment{Number: n, Offset: start, Length: end - start, DelimiterLength: delim}, nil
}

// LineAt returns the segment containing offset, clamped like OffsetToLine.
func (idx *Index) LineAt(offset int) LineSegment {
	seg, _ := idx.Line(idx.OffsetToLine(offset))
	return seg
}

// Insert updates the index for text inserted at offset.
func (idx *Index) Insert(offset int, text string) error {
	if offset < 0 || offset > idx.length {
		return fmt.Errorf("%w: insert at %d (len %d)", ErrOffsetOutOfRange, offset, idx.length)
	}

	var added []int
	n := 0
	for _, r := range text {
		n++
		if r == '\n' {
			added = append(added, offset+n)
		}
	}
	if n == 0 {
		return nil
	}

	line := idx.OffsetToLine(offset)
	for i := line + 1; i < len(idx.starts); i++ {
		idx.starts[i] += n
	}
	if len(added) > 0 {
		tail := append(added, idx.starts[line+1:]...)
		idx.starts = append(idx.starts[:line+1], tail...)
	}
	idx.length += n
	return nil
}

// Remove updates the index for count characters removed at offset.
func (idx *Index) Remove(offset, count int) error {
	if offset < 0 || count < 0 || offset+count > idx.length {
		return fmt.Errorf("%w: remove [%d,%d) (len %d)", ErrOffsetOutOfRange, offset, offset+count, idx.length)
	}
	if count == 0 {
		return nil
	}

	end := offset + count
	// Starts in (offset, end] belonged to newlines inside the removed range.
	lo := sort.SearchInts(idx.starts, offset+1)
	hi := sort.SearchInts(idx.starts, end+1)
	idx.starts = append(idx.starts[:lo], idx.starts[hi:]...)
	for i := lo; i < len(idx.starts); i++ {
		idx.starts[i] -= count
	}
	idx.length -= count
	return nil
}
