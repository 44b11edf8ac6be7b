// Package mouse defines the pointer events the editor reacts to: motion for
// tooltips, presses for the context popup, scrolling and leaving the view.
package mouse

import (
	"time"

	"github.com/dshills/extedit/internal/input/key"
	"github.com/gdamore/tcell/v2"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button.
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonScrollUp indicates scroll wheel up.
	ButtonScrollUp
	// ButtonScrollDown indicates scroll wheel down.
	ButtonScrollDown
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	default:
		return "none"
	}
}

// IsScroll returns true if this is a scroll button.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates pointer motion.
	ActionMove
	// ActionScroll indicates a wheel event.
	ActionScroll
	// ActionLeave indicates the pointer left the text view.
	ActionLeave
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionScroll:
		return "scroll"
	case ActionLeave:
		return "leave"
	default:
		return "none"
	}
}

// Position represents a coordinate relative to the widget origin.
type Position struct {
	X int
	Y int
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Event represents a mouse input event.
type Event struct {
	Position  Position
	Button    Button
	Modifiers key.Modifier
	Action    Action
	Timestamp time.Time
}

// Translator turns raw tcell mouse reports, which carry only the current
// button mask, into press/release/move/scroll events.
type Translator struct {
	last tcell.ButtonMask
}

// FromTcell converts a terminal mouse event.
func (t *Translator) FromTcell(ev *tcell.EventMouse) Event {
	x, y := ev.Position()
	out := Event{
		Position:  Position{X: x, Y: y},
		Modifiers: key.FromTcellMod(ev.Modifiers()),
		Timestamp: ev.When(),
	}

	buttons := ev.Buttons()
	prev := t.last
	t.last = buttons &^ (tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight)

	switch {
	case buttons&tcell.WheelUp != 0:
		out.Action, out.Button = ActionScroll, ButtonScrollUp
	case buttons&tcell.WheelDown != 0:
		out.Action, out.Button = ActionScroll, ButtonScrollDown
	case buttons&tcell.Button1 != 0 && prev&tcell.Button1 == 0:
		out.Action, out.Button = ActionPress, ButtonLeft
	case buttons&tcell.Button3 != 0 && prev&tcell.Button3 == 0:
		out.Action, out.Button = ActionPress, ButtonMiddle
	case buttons&tcell.Button2 != 0 && prev&tcell.Button2 == 0:
		out.Action, out.Button = ActionPress, ButtonRight
	case buttons == tcell.ButtonNone && prev != tcell.ButtonNone:
		out.Action = ActionRelease
	default:
		out.Action = ActionMove
	}
	return out
}
