package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/extedit/internal/config"
	"github.com/dshills/extedit/internal/engine/document"
	"github.com/dshills/extedit/internal/extension"
	"github.com/dshills/extedit/internal/extension/luaext"
	"github.com/dshills/extedit/internal/input/key"
	"github.com/dshills/extedit/internal/input/mouse"
	"github.com/dshills/extedit/internal/loop"
	"github.com/dshills/extedit/internal/parser"
	"github.com/dshills/extedit/internal/template"
	"github.com/dshills/extedit/internal/tooltip"
)

var _ luaext.Host = (*Editor)(nil)

type fakeWindow struct {
	content   tooltip.Content
	destroyed bool
}

func (w *fakeWindow) Destroy() { w.destroyed = true }

type fakeDisplay struct {
	windows []*fakeWindow
}

func (d *fakeDisplay) Show(c tooltip.Content, _, _ int) tooltip.Window {
	w := &fakeWindow{content: c}
	d.windows = append(d.windows, w)
	return w
}

type fakeContext struct {
	items map[string]parser.Item
	calls []string
}

func (c *fakeContext) ResolveIdentifier(_ context.Context, expr string, _, _ int, _, _ string) (parser.LanguageItem, error) {
	c.calls = append(c.calls, expr)
	if it, ok := c.items[expr]; ok {
		return it, nil
	}
	return nil, nil
}

func (c *fakeContext) ExpressionFinder(string) parser.ExpressionFinder { return nil }

func newEditor(t *testing.T, text string, opts ...Option) (*Editor, *loop.ManualScheduler) {
	t.Helper()
	sched := loop.NewManualScheduler()
	e := New(document.New(text), sched, opts...)
	t.Cleanup(e.Close)
	return e, sched
}

func atEnd(e *Editor) *Editor {
	e.SetCaretOffset(e.Document().Len())
	return e
}

func typeRune(e *Editor, r rune) Outcome {
	return e.HandleKey(key.NewRuneEvent(r, key.ModNone))
}

func TestBracketCompletion(t *testing.T) {
	e, _ := newEditor(t, "foo")
	atEnd(e)

	out := typeRune(e, '(')
	assert.Equal(t, "foo()", e.Text())
	assert.Equal(t, 4, e.CaretOffset())
	assert.Equal(t, Outcome{Handled: true, DefaultRan: true, By: "bracket"}, out)
}

func TestBracketClosers(t *testing.T) {
	for open, want := range map[rune]string{'[': "[]", '(': "()", '<': "<>", '\'': "''", '"': `""`} {
		e, _ := newEditor(t, "")
		typeRune(e, open)
		assert.Equal(t, want, e.Text(), string(open))
		assert.Equal(t, 1, e.CaretOffset(), string(open))
	}
}

func TestBracketCompletionDisabled(t *testing.T) {
	e, _ := newEditor(t, "", WithOptions(config.New(config.WithAutoInsertMatchingBracket(false))))

	out := typeRune(e, '(')
	assert.Equal(t, "(", e.Text())
	assert.Equal(t, "default", out.By)
}

func TestBraceBlock(t *testing.T) {
	e, _ := newEditor(t, "  if x ", WithOptions(config.New(config.WithIndentString("\t"))))
	atEnd(e)

	typeRune(e, '{')
	assert.Equal(t, "  if x {\n  \t\n  }", e.Text())
	assert.Equal(t, 12, e.CaretOffset())
	assert.Equal(t, document.Location{Line: 1, Column: 3}, e.Caret().Location())

	require.NoError(t, e.Document().Undo())
	assert.Equal(t, "  if x ", e.Text(), "block is one undo step")
}

func TestBraceBlockIgnoresExtension(t *testing.T) {
	rec := &extension.Recorder{}
	e, _ := newEditor(t, "", WithExtension(rec))

	typeRune(e, '{')
	assert.Equal(t, "{\n\t\n}", e.Text())
	assert.Len(t, rec.Keys, 1, "no synthesized keys")
}

func forStore(shortcuts ...string) *template.Store {
	g := &template.Group{Extensions: []string{"*"}}
	for _, s := range shortcuts {
		g.Templates = append(g.Templates, template.Template{Shortcut: s, Text: s + " (|) {\n}"})
	}
	return template.NewStore(g)
}

func TestTemplateOnSpace(t *testing.T) {
	e, _ := newEditor(t, "  for", WithTemplates(forStore("for")))
	atEnd(e)

	out := typeRune(e, ' ')
	assert.Equal(t, "template", out.By)
	assert.False(t, out.DefaultRan)
	assert.Equal(t, "  for () {\n  }", e.Text())
	assert.Equal(t, 7, e.CaretOffset())
}

func TestTemplateReplacesTypedCharacter(t *testing.T) {
	tests := []struct {
		name string
		r    rune
	}{
		{"semicolon", ';'},
		{"bracket opener", '('},
		{"letter", 'x'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEditor(t, "for", WithTemplates(forStore("for")))
			atEnd(e)

			out := typeRune(e, tt.r)
			assert.Equal(t, "template", out.By)
			assert.False(t, out.DefaultRan)
			assert.Equal(t, "for () {\n}", e.Text())
			assert.Equal(t, 5, e.CaretOffset())
		})
	}
}

func TestUnknownWordTypesThrough(t *testing.T) {
	e, _ := newEditor(t, "fo", WithTemplates(forStore("for")))
	atEnd(e)

	assert.Equal(t, "default", typeRune(e, 'r').By)
	assert.Equal(t, "for", e.Text())
}

func TestAmbiguousTemplateWaitsForTab(t *testing.T) {
	e, _ := newEditor(t, "for", WithTemplates(forStore("for", "foreach")))
	atEnd(e)

	assert.False(t, e.IsTemplateKnown())
	typeRune(e, ' ')
	assert.Equal(t, "for ", e.Text())

	e.Document().SetText("for")
	atEnd(e)
	out := e.HandleKey(key.NewSpecialEvent(key.KeyTab, key.ModNone))
	assert.Equal(t, "template", out.By)
	assert.Equal(t, "for () {\n}", e.Text())
}

func TestTemplatesDisabled(t *testing.T) {
	e, _ := newEditor(t, "for",
		WithTemplates(forStore("for")),
		WithOptions(config.New(config.WithAutoInsertTemplates(false))))
	atEnd(e)

	typeRune(e, ' ')
	assert.Equal(t, "for ", e.Text())
}

func TestTabWithoutTemplateIndents(t *testing.T) {
	e, _ := newEditor(t, "x", WithOptions(config.New(config.WithIndentString("    "))))
	atEnd(e)

	out := e.HandleKey(key.NewSpecialEvent(key.KeyTab, key.ModNone))
	assert.Equal(t, "default", out.By)
	assert.Equal(t, "x    ", e.Text())
}

func TestWordHelpers(t *testing.T) {
	e, _ := newEditor(t, "\t  a.b(c\nnext")
	e.SetCaretOffset(8)

	assert.Equal(t, "a.b(c", e.WordBeforeCaret())
	assert.Equal(t, "\t  ", e.LeadingWhitespace(0))
	assert.Equal(t, "", e.LeadingWhitespace(1))

	assert.Equal(t, 3, e.DeleteWordBeforeCaret())
	assert.Equal(t, "\t  \nnext", e.Text())
	assert.Equal(t, 3, e.CaretOffset())
	assert.Equal(t, "", e.WordBeforeCaret())
}

func TestExtensionFirst(t *testing.T) {
	rec := &extension.Recorder{Consume: func(ev key.Event) bool { return ev.Rune == 'x' }}
	e, _ := newEditor(t, "", WithExtension(rec))

	out := typeRune(e, 'x')
	assert.Equal(t, Outcome{Handled: true, By: "extension"}, out)
	assert.Equal(t, "", e.Text())

	typeRune(e, 'a')
	assert.Equal(t, "a", e.Text())
	assert.Equal(t, [][2]int{{0, 1}}, rec.Changes)
	assert.Equal(t, 1, rec.Moves)
	assert.Len(t, rec.Keys, 2)
}

func TestExtensionSeesRemovedRange(t *testing.T) {
	rec := &extension.Recorder{}
	e, _ := newEditor(t, "hello world", WithExtension(rec))

	require.NoError(t, e.Document().Remove(2, 5))
	require.NoError(t, e.Document().Replace(0, 2, "x"))
	assert.Equal(t, "xworld", e.Text())
	assert.Equal(t, [][2]int{{2, 7}, {0, 2}}, rec.Changes)
}

func TestLuaExtension(t *testing.T) {
	e, _ := newEditor(t, "")
	ext := luaext.New(e)
	t.Cleanup(ext.Close)
	e.SetExtension(ext)

	require.NoError(t, ext.LoadString(`
function on_key(name, char, mods)
  if char == ";" then
    editor.insert(";\n")
    return true
  end
  return false
end
`))

	typeRune(e, 'a')
	out := typeRune(e, ';')
	assert.Equal(t, "extension", out.By)
	assert.Equal(t, "a;\n", e.Text())
	assert.Equal(t, 3, e.CaretOffset())
}

func TestDefaultEditing(t *testing.T) {
	e, _ := newEditor(t, "\tfoo()")
	e.SetCaretOffset(5)

	e.HandleKey(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
	assert.Equal(t, "\tfoo", e.Text(), "empty pair removed")

	e.HandleKey(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
	assert.Equal(t, "\tfoo\n\t", e.Text())
	assert.Equal(t, 6, e.CaretOffset())

	e.HandleKey(key.NewSpecialEvent(key.KeyHome, key.ModNone))
	assert.Equal(t, 5, e.CaretOffset())
	e.HandleKey(key.NewSpecialEvent(key.KeyUp, key.ModNone))
	assert.Equal(t, 0, e.CaretOffset())
	e.HandleKey(key.NewSpecialEvent(key.KeyEnd, key.ModNone))
	assert.Equal(t, 4, e.CaretOffset())
	e.HandleKey(key.NewSpecialEvent(key.KeyHome, key.ModNone))
	assert.Equal(t, 1, e.CaretOffset())
	e.HandleKey(key.NewSpecialEvent(key.KeyDelete, key.ModNone))
	assert.Equal(t, "\too\n\t", e.Text())

	e.HandleKey(key.NewRuneEvent('z', key.ModCtrl))
	assert.Equal(t, "\tfoo\n\t", e.Text())

	out := e.HandleKey(key.NewSpecialEvent(key.KeyInsert, key.ModNone))
	assert.False(t, out.Handled)
}

func TestTooltipFollowsPointer(t *testing.T) {
	pc := &fakeContext{items: map[string]parser.Item{
		"foo": {Kind: parser.KindVariable, Name: "foo"},
	}}
	d := &fakeDisplay{}
	e, sched := newEditor(t, "foo := bar\n",
		WithFileName("main.go"), WithParserContext(pc), WithDisplay(d))

	e.HandleMouse(mouse.Event{Action: mouse.ActionMove, Position: mouse.Position{X: 1, Y: 0}})
	assert.Equal(t, tooltip.StateScheduled, e.Tooltip().State())

	sched.Advance(config.DefaultTipDelay)
	require.Equal(t, tooltip.StateShowing, e.Tooltip().State())
	require.Len(t, d.windows, 1)
	assert.Equal(t, "variable foo", d.windows[0].content.Title)
	assert.Equal(t, []string{"foo"}, pc.calls)

	e.HandleMouse(mouse.Event{Action: mouse.ActionMove, Position: mouse.Position{X: 8, Y: 0}})
	assert.Equal(t, tooltip.StateIdle, e.Tooltip().State(), "bar resolves to nothing")
	assert.True(t, d.windows[0].destroyed)
}

func TestTooltipHiddenByTyping(t *testing.T) {
	pc := &fakeContext{items: map[string]parser.Item{"foo": {Name: "foo"}}}
	d := &fakeDisplay{}
	e, sched := newEditor(t, "foo", WithFileName("main.go"), WithParserContext(pc), WithDisplay(d))

	e.HandleMouse(mouse.Event{Action: mouse.ActionMove, Position: mouse.Position{X: 0, Y: 0}})
	sched.Advance(config.DefaultTipDelay)
	require.Equal(t, tooltip.StateShowing, e.Tooltip().State())

	typeRune(e, 'x')
	assert.Equal(t, tooltip.StateIdle, e.Tooltip().State())
	assert.True(t, d.windows[0].destroyed)
}

func TestTooltipHideTriggers(t *testing.T) {
	diags := parser.DiagnosticList{{Start: 0, End: 3, Message: "undefined: foo"}}
	var menuAt = -1

	triggers := map[string]func(e *Editor){
		"leave":  func(e *Editor) { e.HandleMouse(mouse.Event{Action: mouse.ActionLeave}) },
		"scroll": func(e *Editor) { e.HandleMouse(mouse.Event{Action: mouse.ActionScroll, Button: mouse.ButtonScrollDown}) },
		"focus":  func(e *Editor) { e.FocusChanged(false) },
		"right-click": func(e *Editor) {
			e.HandleMouse(mouse.Event{Action: mouse.ActionPress, Button: mouse.ButtonRight, Position: mouse.Position{X: 2}})
		},
		"close": func(e *Editor) { e.Close() },
	}
	for name, trigger := range triggers {
		t.Run(name, func(t *testing.T) {
			d := &fakeDisplay{}
			e, sched := newEditor(t, "foo\nbar\n", WithDiagnostics(diags), WithDisplay(d),
				WithContextMenu(func(offset int) { menuAt = offset }))

			e.HandleMouse(mouse.Event{Action: mouse.ActionMove, Position: mouse.Position{X: 1}})
			sched.Advance(config.DefaultTipDelay)
			require.Equal(t, tooltip.StateShowing, e.Tooltip().State())
			assert.True(t, d.windows[0].content.IsError())

			trigger(e)
			assert.Equal(t, tooltip.StateIdle, e.Tooltip().State())
			assert.True(t, d.windows[0].destroyed)
		})
	}
	assert.Equal(t, 2, menuAt)
}

func TestClosedEditorIgnoresInput(t *testing.T) {
	e, sched := newEditor(t, "")
	e.HandleMouse(mouse.Event{Action: mouse.ActionMove})
	e.Close()
	e.Close()

	assert.True(t, e.Closed())
	assert.Equal(t, Outcome{}, typeRune(e, 'a'))
	assert.Equal(t, "", e.Text())
	sched.Advance(config.DefaultTipDelay)
	assert.Equal(t, tooltip.StateIdle, e.Tooltip().State())
}

func TestLeftClickMovesCaret(t *testing.T) {
	e, _ := newEditor(t, "abc\n\tdef")

	e.HandleMouse(mouse.Event{Action: mouse.ActionPress, Button: mouse.ButtonLeft, Position: mouse.Position{X: 5, Y: 1}})
	assert.Equal(t, document.Location{Line: 1, Column: 2}, e.Caret().Location())
}

func TestSessionIDs(t *testing.T) {
	a, _ := newEditor(t, "")
	b, _ := newEditor(t, "")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestRouterEditing(t *testing.T) {
	e, _ := newEditor(t, "")
	e.Router().Insert("bracket", Named("upper", KeyHandlerFunc(func(e *Editor, ev key.Event) Result {
		if ev.IsChar() && ev.Rune >= 'a' && ev.Rune <= 'z' {
			e.InsertText(string(ev.Rune - 'a' + 'A'))
			return Handled
		}
		return PassThrough
	})))

	assert.Equal(t, "upper", typeRune(e, 'q').By)
	assert.Equal(t, "Q", e.Text())

	assert.True(t, e.Router().Remove("upper"))
	assert.False(t, e.Router().Remove("upper"))
	typeRune(e, 'q')
	assert.Equal(t, "Qq", e.Text())

	var names []string
	for _, h := range e.Router().Handlers() {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"extension", "template", "bracket", "default"}, names)
}
