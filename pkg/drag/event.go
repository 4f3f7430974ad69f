package drag

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Button is a pointer button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// ParseButton maps a button name back to its value. Unknown names map to
// ButtonNone.
func ParseButton(s string) Button {
	switch s {
	case "left":
		return ButtonLeft
	case "middle":
		return ButtonMiddle
	case "right":
		return ButtonRight
	default:
		return ButtonNone
	}
}

// Action is what happened to the pointer.
type Action uint8

const (
	ActionNone Action = iota
	ActionPress
	ActionRelease
	ActionMove
	// ActionCancel is the host's abort signal, typically the Escape key.
	ActionCancel
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Event is one input event delivered by the host viewport.
type Event struct {
	Action Action
	Button Button
	Pos    v2.Vec
	Shift  bool
	Ctrl   bool
	Alt    bool
}

// Trigger is the button and modifier combination that starts a gesture.
type Trigger struct {
	Button Button
	Shift  bool
	Ctrl   bool
	Alt    bool
}

// DefaultTrigger is Shift + right button.
var DefaultTrigger = Trigger{Button: ButtonRight, Shift: true}

// Matches reports whether ev is a press of the trigger combination.
func (t Trigger) Matches(ev Event) bool {
	return ev.Action == ActionPress &&
		ev.Button == t.Button &&
		ev.Shift == t.Shift &&
		ev.Ctrl == t.Ctrl &&
		ev.Alt == t.Alt
}
