// Package tui is a terminal viewport for snapping the 3D cursor. The scene
// is drawn as a braille wireframe; Shift + right drag (or "s" then moving
// the mouse) runs the snap gesture.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/drag"
	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/snap"
	"github.com/chazu/snapcursor/pkg/view"
)

// Virtual pixels per terminal cell. Snap radii are measured in these.
const (
	cellPxW = 8
	cellPxH = 16
)

const (
	headerHeight = 1
	footerHeight = 2
)

// Options configures a Model.
type Options struct {
	Title    string
	Scene    *scene.Scene
	Camera   view.Viewpoint
	Target   v3.Vec
	Settings snap.Settings
	Trigger  drag.Trigger
	// OnPlace is called after each finished gesture.
	OnPlace func(snap.Candidate)
}

// Model is the bubbletea model.
type Model struct {
	title   string
	width   int
	height  int
	status  string
	keys    keyMap
	help    help.Model
	onPlace func(snap.Candidate)

	sess    *session
	cursor  *drag.PointCursor
	overlay *drag.ViewOverlay
	ctrl    *drag.Controller
	trigger drag.Trigger

	hover   v2.Vec
	hovered bool
	last    *snap.Candidate
}

// New builds a model over opts.Scene. The scene's wireframe overlay starts
// hidden; the drag gesture forces it on while it runs.
func New(opts Options) Model {
	if opts.Title == "" {
		opts.Title = "snapcursor"
	}
	if opts.Trigger == (drag.Trigger{}) {
		opts.Trigger = drag.DefaultTrigger
	}
	if opts.Scene == nil {
		opts.Scene = scene.New()
	}
	sess := newSession(opts.Scene, opts.Camera, opts.Target, opts.Settings)
	cursor := drag.NewPointCursor(v3.Vec{})
	overlay := drag.NewViewOverlay(drag.OverlayState{ShowWireframes: false, WireframeOpacity: 0.5})
	ctrl := drag.NewController(sess, cursor, overlay)
	ctrl.SetTrigger(opts.Trigger)

	h := help.New()
	return Model{
		title:   opts.Title,
		status:  "ready",
		keys:    defaultKeyMap(),
		help:    h,
		onPlace: opts.OnPlace,
		sess:    sess,
		cursor:  cursor,
		overlay: overlay,
		ctrl:    ctrl,
		trigger: opts.Trigger,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Cursor returns the current cursor location.
func (m Model) Cursor() v3.Vec { return m.cursor.Location() }

// Overlay returns the viewport's wireframe setting.
func (m Model) Overlay() drag.OverlayState { return m.overlay.OverlayState() }

// Dragging reports whether a snap gesture is running.
func (m Model) Dragging() bool { return m.ctrl.State() != drag.StateInactive }

// Run starts a full-screen program with mouse motion reporting.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m Model) mapSize() (int, int) {
	w := max(10, m.width)
	h := max(4, m.height-headerHeight-footerHeight)
	return w, h
}

// cellToPixel maps a terminal cell to the virtual pixel at its center.
func cellToPixel(cx, cy int) v2.Vec {
	return v2.Vec{
		X: float64(cx*cellPxW) + cellPxW/2,
		Y: float64((cy-headerHeight)*cellPxH) + cellPxH/2,
	}
}

// mouseEvent translates a terminal mouse message into a gesture event.
// Releases that carry no button are attributed to the trigger button, which
// is how several terminals report them.
func mouseEvent(msg tea.MouseMsg, trigger drag.Trigger) (drag.Event, bool) {
	ev := drag.Event{
		Pos:   cellToPixel(msg.X, msg.Y),
		Shift: msg.Shift,
		Ctrl:  msg.Ctrl,
		Alt:   msg.Alt,
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = drag.ButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = drag.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = drag.ButtonRight
	case tea.MouseButtonNone:
	default:
		// wheel and extra buttons
		return drag.Event{}, false
	}
	switch msg.Action {
	case tea.MouseActionPress:
		ev.Action = drag.ActionPress
	case tea.MouseActionRelease:
		ev.Action = drag.ActionRelease
		if ev.Button == drag.ButtonNone {
			ev.Button = trigger.Button
		}
	case tea.MouseActionMotion:
		ev.Action = drag.ActionMove
	default:
		return drag.Event{}, false
	}
	return ev, true
}
