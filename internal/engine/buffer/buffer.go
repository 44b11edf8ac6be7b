// Package buffer provides the mutable character storage behind a document.
//
// Buffer is a gap buffer of runes: edits near the previous edit point only
// move the gap a short distance, which matches how typing behaves. Offsets are
// character offsets. Buffer does no line bookkeeping and fires no events; the
// document package layers both on top.
package buffer

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

const minGap = 64

// Buffer is a gap buffer. It is not safe for concurrent use.
type Buffer struct {
	data     []rune
	gapStart int
	gapEnd   int
}

// New creates a buffer holding text.
func New(text string) *Buffer {
	runes := []rune(text)
	data := make([]rune, len(runes)+minGap)
	copy(data, runes)
	return &Buffer{data: data, gapStart: len(runes), gapEnd: len(data)}
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return len(b.data) - (b.gapEnd - b.gapStart)
}

// Text returns the full content.
func (b *Buffer) Text() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	for _, r := range b.data[:b.gapStart] {
		sb.WriteRune(r)
	}
	for _, r := range b.data[b.gapEnd:] {
		sb.WriteRune(r)
	}
	return sb.String()
}

// CharAt returns the character at offset, or false when offset is out of range.
func (b *Buffer) CharAt(offset int) (rune, bool) {
	if offset < 0 || offset >= b.Len() {
		return 0, false
	}
	if offset < b.gapStart {
		return b.data[offset], true
	}
	return b.data[offset+(b.gapEnd-b.gapStart)], true
}

// TextAt returns up to length characters starting at offset. The range is
// clamped to the buffer, so stale positions yield a shorter or empty string.
func (b *Buffer) TextAt(offset, length int) string {
	if offset < 0 {
		length += offset
		offset = 0
	}
	if end := b.Len(); offset+length > end {
		length = end - offset
	}
	if length <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := offset; i < offset+length; i++ {
		r, _ := b.CharAt(i)
		sb.WriteRune(r)
	}
	return sb.String()
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) error {
	if offset < 0 || offset > b.Len() {
		return fmt.Errorf("%w: insert at %d (len %d)", ErrOffsetOutOfRange, offset, b.Len())
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	b.moveGap(offset)
	b.ensureGap(len(runes))
	copy(b.data[b.gapStart:], runes)
	b.gapStart += len(runes)
	return nil
}

// Remove deletes count characters at offset and returns them.
func (b *Buffer) Remove(offset, count int) (string, error) {
	if offset < 0 || count < 0 || offset+count > b.Len() {
		return "", fmt.Errorf("%w: remove [%d,%d) (len %d)", ErrRangeInvalid, offset, offset+count, b.Len())
	}
	if count == 0 {
		return "", nil
	}

	b.moveGap(offset)
	removed := string(b.data[b.gapEnd : b.gapEnd+count])
	b.gapEnd += count
	return removed, nil
}

// moveGap positions the gap so that it starts at offset.
func (b *Buffer) moveGap(offset int) {
	switch {
	case offset < b.gapStart:
		n := b.gapStart - offset
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[offset:b.gapStart])
		b.gapStart -= n
		b.gapEnd -= n
	case offset > b.gapStart:
		n := offset - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

// ensureGap grows the backing array so the gap holds at least n runes.
func (b *Buffer) ensureGap(n int) {
	if b.gapEnd-b.gapStart >= n {
		return
	}
	tail := len(b.data) - b.gapEnd
	newCap := 2*len(b.data) + n + minGap
	data := make([]rune, newCap)
	copy(data, b.data[:b.gapStart])
	copy(data[newCap-tail:], b.data[b.gapEnd:])
	b.data = data
	b.gapEnd = newCap - tail
}
