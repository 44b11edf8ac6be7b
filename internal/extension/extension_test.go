package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/extedit/internal/input/key"
)

func TestFuncs(t *testing.T) {
	var moved bool
	var changed [2]int
	var ext Extension = Funcs{
		OnCursor: func() { moved = true },
		OnText:   func(s, e int) { changed = [2]int{s, e} },
		OnKey:    func(ev key.Event) bool { return ev.Rune == 'x' },
	}

	ext.CursorPositionChanged()
	ext.TextChanged(2, 5)
	assert.True(t, moved)
	assert.Equal(t, [2]int{2, 5}, changed)
	assert.True(t, ext.KeyPress(key.NewRuneEvent('x', key.ModNone)))
	assert.False(t, ext.KeyPress(key.NewRuneEvent('y', key.ModNone)))

	var empty Extension = Funcs{}
	empty.CursorPositionChanged()
	empty.TextChanged(0, 0)
	assert.False(t, empty.KeyPress(key.NewRuneEvent('x', key.ModNone)))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{Consume: func(ev key.Event) bool { return ev.Is(key.KeyTab) }}
	assert.True(t, r.KeyPress(key.NewSpecialEvent(key.KeyTab, key.ModNone)))
	assert.False(t, r.KeyPress(key.NewRuneEvent('a', key.ModNone)))
	r.TextChanged(1, 3)
	r.CursorPositionChanged()

	assert.Len(t, r.Keys, 2)
	assert.Equal(t, [][2]int{{1, 3}}, r.Changes)
	assert.Equal(t, 1, r.Moves)
}
