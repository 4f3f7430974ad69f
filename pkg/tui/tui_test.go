package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/drag"
	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/snap"
	"github.com/chazu/snapcursor/pkg/view"
)

func near(a, b v3.Vec) bool { return a.Sub(b).Length() < 1e-6 }

func cubeModel(t *testing.T) Model {
	t.Helper()
	sc := scene.New()
	sc.Add(scene.NewObject("cube", scene.MeshData{Mesh: scene.Cube(2)}))
	m := New(Options{
		Scene:    sc,
		Camera:   view.LookAt(v3.Vec{X: 0.5, Y: 0.5, Z: 10}, v3.Vec{}, v3.Vec{Y: 1}, 1, 1),
		Settings: snap.DefaultSettings(),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return next.(Model)
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// cellOf returns the terminal cell that world point p falls in.
func cellOf(t *testing.T, m Model, p v3.Vec) (int, int) {
	t.Helper()
	cx, cy, ok := cell(m.sess.viewpoint(), p)
	if !ok {
		t.Fatalf("%v does not project", p)
	}
	return cx, cy + headerHeight
}

func TestMouseEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.MouseMsg
		want drag.Event
		ok   bool
	}{
		{
			name: "shift right press",
			msg:  tea.MouseMsg{X: 2, Y: 3, Shift: true, Action: tea.MouseActionPress, Button: tea.MouseButtonRight},
			want: drag.Event{Action: drag.ActionPress, Button: drag.ButtonRight, Shift: true, Pos: cellToPixel(2, 3)},
			ok:   true,
		},
		{
			name: "motion",
			msg:  tea.MouseMsg{X: 0, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone},
			want: drag.Event{Action: drag.ActionMove, Pos: cellToPixel(0, 1)},
			ok:   true,
		},
		{
			name: "buttonless release uses trigger",
			msg:  tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone},
			want: drag.Event{Action: drag.ActionRelease, Button: drag.ButtonRight, Pos: cellToPixel(5, 5)},
			ok:   true,
		},
		{
			name: "wheel ignored",
			msg:  tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp},
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mouseEvent(tt.msg, drag.DefaultTrigger)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("event = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCellToPixelCenters(t *testing.T) {
	p := cellToPixel(0, headerHeight)
	if p.X != cellPxW/2 || p.Y != cellPxH/2 {
		t.Errorf("cellToPixel(0, header) = %v", p)
	}
}

func TestShiftRightDragSnapsToVertex(t *testing.T) {
	m := cubeModel(t)
	corner := v3.Vec{X: 1, Y: 1, Z: 1}
	cx, cy := cellOf(t, m, corner)

	m = send(m, tea.MouseMsg{X: 1, Y: 2, Shift: true, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if !m.Dragging() {
		t.Fatal("gesture did not start")
	}
	if got := m.Overlay(); !got.ShowWireframes || got.WireframeOpacity != 1.0 {
		t.Errorf("overlay during drag = %+v", got)
	}

	m = send(m, tea.MouseMsg{X: cx, Y: cy, Shift: true, Action: tea.MouseActionMotion, Button: tea.MouseButtonRight})
	if !near(m.Cursor(), corner) {
		t.Errorf("cursor = %v, want %v", m.Cursor(), corner)
	}
	if m.last == nil || m.last.Kind != snap.KindVertex {
		t.Errorf("last = %+v, want vertex", m.last)
	}

	var placed []snap.Candidate
	m.onPlace = func(c snap.Candidate) { placed = append(placed, c) }
	m = send(m, tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionRelease, Button: tea.MouseButtonRight})
	if m.Dragging() {
		t.Fatal("gesture still running after release")
	}
	if got := m.Overlay(); got.ShowWireframes || got.WireframeOpacity != 0.5 {
		t.Errorf("overlay after drag = %+v, want restored", got)
	}
	if len(placed) != 1 || !near(placed[0].Point, corner) {
		t.Errorf("placed = %+v", placed)
	}
}

func TestKeyStartedGestureFinishesOnClick(t *testing.T) {
	m := cubeModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if !m.Dragging() {
		t.Fatal("s did not start a gesture")
	}
	m = send(m, tea.MouseMsg{X: 0, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Dragging() {
		t.Fatal("left click did not finish the gesture")
	}
	if m.last == nil || m.last.Kind != snap.KindFreeSpace {
		t.Errorf("last = %+v, want free-space placement", m.last)
	}
}

func TestEscapeCancels(t *testing.T) {
	m := cubeModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Dragging() {
		t.Fatal("esc did not cancel")
	}
	if m.Overlay().ShowWireframes {
		t.Error("overlay not restored after cancel")
	}
	if !near(m.Cursor(), v3.Vec{}) {
		t.Errorf("cursor moved on cancel: %v", m.Cursor())
	}
}

func TestWireframeToggle(t *testing.T) {
	m := cubeModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	if !m.Overlay().ShowWireframes {
		t.Fatal("w did not enable wireframes")
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	if m.Overlay().ShowWireframes {
		t.Fatal("w did not disable wireframes")
	}
}

func TestViewDrawsScene(t *testing.T) {
	m := cubeModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	out := m.View()
	if !strings.Contains(out, "snapcursor") {
		t.Error("missing title")
	}
	dots := 0
	for _, r := range out {
		if r > 0x2800 && r <= 0x28FF {
			dots++
		}
	}
	if dots == 0 {
		t.Error("no braille dots in view")
	}
	if !strings.Contains(out, "⊕") {
		t.Error("cursor glyph missing")
	}
}

func TestOrbitKeepsTargetDistance(t *testing.T) {
	m := cubeModel(t)
	before := m.sess.viewpoint().Eye.Length()
	m = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	vp := m.sess.viewpoint()
	if d := vp.Eye.Length() - before; d > 1e-9 || d < -1e-9 {
		t.Errorf("eye distance changed by %g", d)
	}
	if vp.Width != 80*cellPxW {
		t.Errorf("viewport width = %d", vp.Width)
	}
}
