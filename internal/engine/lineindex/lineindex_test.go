package lineindex

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkConsistent verifies the index against a fresh rebuild and the
// containment property for every offset.
func checkConsistent(t *testing.T, idx *Index, text string) {
	t.Helper()

	want := New(text)
	require.Equal(t, want.starts, idx.starts, "starts for %q", text)
	require.Equal(t, want.length, idx.length)

	runes := []rune(text)
	for o := 0; o < len(runes); o++ {
		seg, err := idx.Line(idx.OffsetToLine(o))
		require.NoError(t, err)
		require.True(t, seg.Contains(o), "offset %d not in %v (text %q)", o, seg, text)
	}
}

func TestNewEmpty(t *testing.T) {
	idx := New("")
	assert.Equal(t, 1, idx.LineCount())
	seg, err := idx.Line(0)
	require.NoError(t, err)
	assert.Equal(t, LineSegment{Number: 0, Offset: 0, Length: 0}, seg)
}

func TestLineSegments(t *testing.T) {
	idx := New("abc\ndef\n\nxy")
	require.Equal(t, 4, idx.LineCount())

	seg, err := idx.Line(1)
	require.NoError(t, err)
	assert.Equal(t, 4, seg.Offset)
	assert.Equal(t, 4, seg.Length)
	assert.Equal(t, 3, seg.EditableLength())

	seg, err = idx.Line(2)
	require.NoError(t, err)
	assert.Equal(t, 8, seg.Offset)
	assert.Equal(t, 0, seg.EditableLength())

	seg, err = idx.Line(3)
	require.NoError(t, err)
	assert.Equal(t, 9, seg.Offset)
	assert.Equal(t, 2, seg.Length)
	assert.Equal(t, 0, seg.DelimiterLength)
}

func TestOffsetToLineBoundaries(t *testing.T) {
	idx := New("abc\ndef")

	assert.Equal(t, 0, idx.OffsetToLine(0))
	assert.Equal(t, 0, idx.OffsetToLine(3), "newline belongs to the line it terminates")
	assert.Equal(t, 1, idx.OffsetToLine(4))
	assert.Equal(t, 1, idx.OffsetToLine(7), "end of buffer")
	assert.Equal(t, 1, idx.OffsetToLine(100), "past the end clamps")
	assert.Equal(t, 0, idx.OffsetToLine(-5))
}

func TestLineNotFound(t *testing.T) {
	idx := New("a\nb")
	_, err := idx.Line(2)
	assert.ErrorIs(t, err, ErrLineNotFound)
	_, err = idx.Line(-1)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestInsertMultiline(t *testing.T) {
	text := "hello\nworld"
	idx := New(text)

	require.NoError(t, idx.Insert(3, "X\nY\nZ"))
	text = "helX\nY\nZlo\nworld"
	checkConsistent(t, idx, text)
	assert.Equal(t, 4, idx.LineCount())
}

func TestInsertAtLineStartAndEnd(t *testing.T) {
	idx := New("ab\ncd")
	require.NoError(t, idx.Insert(3, "\n"))
	checkConsistent(t, idx, "ab\n\ncd")

	require.NoError(t, idx.Insert(6, "\n"))
	checkConsistent(t, idx, "ab\n\ncd\n")
	assert.Equal(t, 4, idx.LineCount())
}

func TestRemoveSpanningLines(t *testing.T) {
	idx := New("one\ntwo\nthree")
	require.NoError(t, idx.Remove(2, 7))
	checkConsistent(t, idx, "onhree")
}

func TestRemoveOutOfRange(t *testing.T) {
	idx := New("abc")
	assert.ErrorIs(t, idx.Remove(2, 5), ErrOffsetOutOfRange)
	assert.ErrorIs(t, idx.Insert(4, "x"), ErrOffsetOutOfRange)
	checkConsistent(t, idx, "abc")
}

func TestMultibyteOffsets(t *testing.T) {
	idx := New("héllo\nwörld")
	assert.Equal(t, 11, idx.Len())
	assert.Equal(t, 1, idx.OffsetToLine(6))
}

func TestRandomEditsStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("ab\n\nxé")
	text := []rune("start\nof\ntext")
	idx := New(string(text))

	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 || len(text) == 0 {
			off := rng.Intn(len(text) + 1)
			var sb strings.Builder
			for j := rng.Intn(6); j >= 0; j-- {
				sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
			}
			ins := sb.String()
			require.NoError(t, idx.Insert(off, ins))
			text = append(text[:off], append([]rune(ins), text[off:]...)...)
		} else {
			off := rng.Intn(len(text))
			count := rng.Intn(len(text) - off + 1)
			require.NoError(t, idx.Remove(off, count))
			text = append(text[:off], text[off+count:]...)
		}
		checkConsistent(t, idx, string(text))
	}
}
