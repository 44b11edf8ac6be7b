package key

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
}

// FromTcell converts a terminal key event. Control-letter combinations that
// tcell reports as their own key codes come back as rune events with ModCtrl.
func FromTcell(ev *tcell.EventKey) Event {
	mods := FromTcellMod(ev.Modifiers())
	out := Event{Modifiers: mods, Timestamp: ev.When()}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now()
	}

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		out.Key = KeyRune
		out.Rune = ev.Rune()
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && k != tcell.KeyTab && k != tcell.KeyEnter && k != tcell.KeyBackspace:
		out.Key = KeyRune
		out.Rune = rune('a' + (k - tcell.KeyCtrlA))
		out.Modifiers = out.Modifiers.With(ModCtrl)
	default:
		out.Key = tcellKeys[k]
	}
	return out
}

// FromTcellMod converts tcell modifier flags.
func FromTcellMod(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}
