package drag

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/snap"
)

// fakeResolver snaps every position to (x, y, 1) and free-space placement to
// (x, y, -1), recording which path was taken.
type fakeResolver struct {
	resolves int
	frees    int
}

func (f *fakeResolver) Resolve(s v2.Vec) snap.Candidate {
	f.resolves++
	return snap.Candidate{Point: v3.Vec{X: s.X, Y: s.Y, Z: 1}, Kind: snap.KindVertex}
}

func (f *fakeResolver) FreeSpace(s v2.Vec) snap.Candidate {
	f.frees++
	return snap.Candidate{Point: v3.Vec{X: s.X, Y: s.Y, Z: -1}, Kind: snap.KindFreeSpace}
}

func press(x, y float64) Event {
	return Event{Action: ActionPress, Button: ButtonRight, Shift: true, Pos: v2.Vec{X: x, Y: y}}
}

func move(x, y float64) Event {
	return Event{Action: ActionMove, Pos: v2.Vec{X: x, Y: y}}
}

func release(x, y float64) Event {
	return Event{Action: ActionRelease, Button: ButtonRight, Pos: v2.Vec{X: x, Y: y}}
}

func setup() (*Controller, *fakeResolver, *PointCursor, *ViewOverlay, *ViewOverlay) {
	r := &fakeResolver{}
	cur := NewPointCursor(v3.Vec{X: 9, Y: 9, Z: 9})
	a := NewViewOverlay(OverlayState{ShowWireframes: false, WireframeOpacity: 0.3})
	b := NewViewOverlay(OverlayState{ShowWireframes: true, WireframeOpacity: 0.6})
	return NewController(r, cur, a, b), r, cur, a, b
}

func TestTriggerOnlyOnShiftRightPress(t *testing.T) {
	c, _, _, _, _ := setup()
	tests := []struct {
		name string
		ev   Event
	}{
		{"plain right press", Event{Action: ActionPress, Button: ButtonRight}},
		{"shift left press", Event{Action: ActionPress, Button: ButtonLeft, Shift: true}},
		{"shift right release", Event{Action: ActionRelease, Button: ButtonRight, Shift: true}},
		{"motion", move(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Handle(tt.ev); got != ResultPassThrough {
				t.Errorf("Handle = %v, want pass-through", got)
			}
			if c.State() != StateInactive {
				t.Errorf("state = %v, want inactive", c.State())
			}
		})
	}
	if got := c.Handle(press(0, 0)); got != ResultRunning {
		t.Fatalf("trigger press = %v, want running", got)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestOverlayForcedAndRestored(t *testing.T) {
	for _, finish := range []Event{release(5, 5), {Action: ActionCancel}} {
		t.Run(finish.Action.String(), func(t *testing.T) {
			c, _, _, a, b := setup()
			c.Handle(press(0, 0))

			forced := OverlayState{ShowWireframes: true, WireframeOpacity: 1.0}
			if a.OverlayState() != forced || b.OverlayState() != forced {
				t.Fatalf("overlays not forced: %+v %+v", a.OverlayState(), b.OverlayState())
			}

			c.Handle(move(3, 4))
			c.Handle(finish)

			if got := a.OverlayState(); got != (OverlayState{ShowWireframes: false, WireframeOpacity: 0.3}) {
				t.Errorf("overlay a = %+v", got)
			}
			if got := b.OverlayState(); got != (OverlayState{ShowWireframes: true, WireframeOpacity: 0.6}) {
				t.Errorf("overlay b = %+v", got)
			}
			if c.State() != StateInactive {
				t.Errorf("state = %v, want inactive", c.State())
			}
		})
	}
}

func TestDragMovesCursor(t *testing.T) {
	c, r, cur, _, _ := setup()
	c.Handle(press(0, 0))

	if got := c.Handle(move(10, 20)); got != ResultRunning {
		t.Fatalf("move = %v", got)
	}
	if c.State() != StateDragging {
		t.Errorf("state = %v, want dragging", c.State())
	}
	if cur.Location() != (v3.Vec{X: 10, Y: 20, Z: 1}) {
		t.Errorf("cursor = %v", cur.Location())
	}
	c.Handle(move(11, 21))

	if got := c.Handle(release(30, 30)); got != ResultFinished {
		t.Fatalf("release = %v, want finished", got)
	}
	// Release after motion keeps the last resolved point.
	if cur.Location() != (v3.Vec{X: 11, Y: 21, Z: 1}) {
		t.Errorf("cursor after release = %v", cur.Location())
	}
	if r.resolves != 2 || r.frees != 0 {
		t.Errorf("resolves=%d frees=%d", r.resolves, r.frees)
	}
}

func TestClickPlacesInFreeSpace(t *testing.T) {
	c, r, cur, _, _ := setup()
	c.Handle(press(7, 8))
	if got := c.Handle(release(7, 8)); got != ResultFinished {
		t.Fatalf("release = %v", got)
	}
	if cur.Location() != (v3.Vec{X: 7, Y: 8, Z: -1}) {
		t.Errorf("cursor = %v, want free-space placement", cur.Location())
	}
	if r.resolves != 0 || r.frees != 1 {
		t.Errorf("resolves=%d frees=%d, want free-space only", r.resolves, r.frees)
	}
	last, ok := c.Last()
	if !ok || last.Kind != snap.KindFreeSpace {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestCancelKeepsMovedCursor(t *testing.T) {
	c, _, cur, _, _ := setup()
	c.Handle(press(0, 0))
	c.Handle(move(2, 3))
	if got := c.Handle(Event{Action: ActionCancel}); got != ResultCancelled {
		t.Fatalf("cancel = %v", got)
	}
	if cur.Location() != (v3.Vec{X: 2, Y: 3, Z: 1}) {
		t.Errorf("cursor = %v", cur.Location())
	}

	c2, _, cur2, _, _ := setup()
	c2.Handle(press(0, 0))
	c2.Handle(Event{Action: ActionCancel})
	if cur2.Location() != (v3.Vec{X: 9, Y: 9, Z: 9}) {
		t.Errorf("cancel without motion moved the cursor to %v", cur2.Location())
	}
}

func TestGestureIsModal(t *testing.T) {
	c, _, _, _, _ := setup()
	c.Handle(press(0, 0))
	if got := c.Handle(Event{Action: ActionPress, Button: ButtonLeft}); got != ResultRunning {
		t.Errorf("left press during gesture = %v, want running", got)
	}
	if got := c.Handle(Event{Action: ActionRelease, Button: ButtonLeft}); got != ResultRunning {
		t.Errorf("left release during gesture = %v, want running", got)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestDirectAPI(t *testing.T) {
	c, _, cur, _, _ := setup()
	if _, ok := c.Move(v2.Vec{X: 1}); ok {
		t.Error("Move before Start should report false")
	}
	if c.Cancel() {
		t.Error("Cancel before Start should report false")
	}
	if !c.Start() || c.Start() {
		t.Fatal("Start should succeed once")
	}
	if _, ok := c.Move(v2.Vec{X: 4, Y: 4}); !ok {
		t.Fatal("Move after Start failed")
	}
	got, ok := c.Release(v2.Vec{X: 100, Y: 100})
	if !ok || got.Point != (v3.Vec{X: 4, Y: 4, Z: 1}) {
		t.Errorf("Release = %+v, %v", got, ok)
	}
	if cur.Location() != got.Point {
		t.Errorf("cursor = %v, want %v", cur.Location(), got.Point)
	}
}

func TestCustomTrigger(t *testing.T) {
	c, _, _, _, _ := setup()
	c.SetTrigger(Trigger{Button: ButtonLeft, Ctrl: true})
	if c.Handle(press(0, 0)) != ResultPassThrough {
		t.Error("default trigger should no longer start the gesture")
	}
	if c.Handle(Event{Action: ActionPress, Button: ButtonLeft, Ctrl: true}) != ResultRunning {
		t.Error("custom trigger should start the gesture")
	}
	if c.Handle(release(0, 0)) != ResultRunning {
		t.Error("right release should not finish a left-button gesture")
	}
	if c.Handle(Event{Action: ActionRelease, Button: ButtonLeft}) != ResultFinished {
		t.Error("left release should finish")
	}
}

func TestParseButton(t *testing.T) {
	for _, b := range []Button{ButtonNone, ButtonLeft, ButtonMiddle, ButtonRight} {
		if got := ParseButton(b.String()); got != b {
			t.Errorf("ParseButton(%q) = %v", b.String(), got)
		}
	}
}
