package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesLineEndings(t *testing.T) {
	d := New("a\r\nb\r\nc")
	assert.Equal(t, "a\nb\nc", d.Text())
	assert.Equal(t, LineEndingCRLF, d.LineEnding())
	assert.Equal(t, "a\r\nb\r\nc", d.SaveText())
	assert.Equal(t, 3, d.LineCount())
}

func TestDetectLineEnding(t *testing.T) {
	assert.Equal(t, LineEndingLF, DetectLineEnding("no newline"))
	assert.Equal(t, LineEndingLF, DetectLineEnding("a\nb\r\nc\n"))
	assert.Equal(t, LineEndingCR, DetectLineEnding("a\rb\r"))
}

func TestChangeEventsAfterIndexUpdate(t *testing.T) {
	d := New("one\ntwo")

	var events []ChangeEvent
	var linesSeen []int
	d.OnChange(func(ev ChangeEvent) {
		events = append(events, ev)
		linesSeen = append(linesSeen, d.LineCount())
	})

	require.NoError(t, d.Insert(3, "\nmid"))
	require.NoError(t, d.Replace(0, 3, "1"))
	require.NoError(t, d.Remove(1, 4))

	assert.Equal(t, "1\ntwo", d.Text())
	require.Len(t, events, 3)
	assert.Equal(t, ChangeEvent{Offset: 3, InsertedLength: 4, InsertedText: "\nmid"}, events[0])
	assert.Equal(t, ChangeEvent{Offset: 0, RemovedLength: 3, InsertedLength: 1, RemovedText: "one", InsertedText: "1"}, events[1])
	assert.Equal(t, 3, events[1].End())
	assert.Equal(t, []int{3, 3, 2}, linesSeen, "listeners observe the updated line table")
}

func TestInvalidEditFiresNothing(t *testing.T) {
	d := New("abc")
	fired := false
	d.OnChange(func(ChangeEvent) { fired = true })

	assert.ErrorIs(t, d.Insert(5, "x"), ErrOffsetOutOfRange)
	assert.ErrorIs(t, d.Remove(2, 2), ErrOffsetOutOfRange)
	require.NoError(t, d.Insert(1, ""))
	assert.False(t, fired)
	assert.Equal(t, "abc", d.Text())
}

func TestUnsubscribe(t *testing.T) {
	d := New("")
	count := 0
	unsub := d.OnChange(func(ChangeEvent) { count++ })
	require.NoError(t, d.Insert(0, "a"))
	unsub()
	require.NoError(t, d.Insert(0, "b"))
	assert.Equal(t, 1, count)
}

func TestLocations(t *testing.T) {
	d := New("abc\nde\n")

	assert.Equal(t, Location{Line: 1, Column: 1}, d.OffsetToLocation(5))
	assert.Equal(t, Location{Line: 2, Column: 0}, d.OffsetToLocation(99))
	assert.Equal(t, 5, d.LocationToOffset(Location{Line: 1, Column: 1}))
	assert.Equal(t, 6, d.LocationToOffset(Location{Line: 1, Column: 40}), "column clamps to line end")
	assert.Equal(t, 7, d.LocationToOffset(Location{Line: 10, Column: 0}))
	assert.Equal(t, "de", d.LineText(1))
	assert.Equal(t, "", d.LineText(10))
}

func TestUndoRedoKeepsIndexConsistent(t *testing.T) {
	d := New("hello")
	require.NoError(t, d.Insert(5, "\nworld\n"))
	require.NoError(t, d.Remove(0, 2))
	assert.Equal(t, "llo\nworld\n", d.Text())

	require.NoError(t, d.Undo())
	assert.Equal(t, "hello\nworld\n", d.Text())
	require.NoError(t, d.Undo())
	assert.Equal(t, "hello", d.Text())
	assert.Equal(t, 1, d.LineCount())
	assert.False(t, d.CanUndo())

	require.NoError(t, d.Redo())
	assert.Equal(t, 3, d.LineCount())
	seg, err := d.Line(1)
	require.NoError(t, err)
	assert.Equal(t, 6, seg.Offset)
}

func TestUndoGroup(t *testing.T) {
	d := New("fo")
	d.BeginUndoGroup()
	require.NoError(t, d.Remove(0, 2))
	require.NoError(t, d.Insert(0, "for (;;)"))
	d.EndUndoGroup()

	require.NoError(t, d.Undo())
	assert.Equal(t, "fo", d.Text())
}

func TestReadOnly(t *testing.T) {
	d := New("x", WithReadOnly(true))
	assert.ErrorIs(t, d.Insert(0, "y"), ErrReadOnly)
}
