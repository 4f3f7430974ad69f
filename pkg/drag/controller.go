// Package drag implements the interactive cursor-placement gesture. While the
// gesture is active, pointer motion is resolved through a snap resolver and
// the 3D cursor follows; the host's wireframe overlay is forced on for the
// duration and restored afterwards.
package drag

import (
	"sync"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/snap"
)

// State is the gesture state.
type State uint8

const (
	// StateInactive means no gesture is running and events pass through.
	StateInactive State = iota
	// StateIdle means the gesture started but the pointer has not moved.
	StateIdle
	// StateDragging means at least one pointer move has been resolved.
	StateDragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return "inactive"
	}
}

// Result tells the host what happened to an event.
type Result uint8

const (
	// ResultPassThrough means the controller did not consume the event.
	ResultPassThrough Result = iota
	// ResultRunning means the event was consumed and the gesture continues.
	ResultRunning
	// ResultFinished means the gesture completed on release.
	ResultFinished
	// ResultCancelled means the gesture was aborted.
	ResultCancelled
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultRunning:
		return "running"
	case ResultFinished:
		return "finished"
	case ResultCancelled:
		return "cancelled"
	default:
		return "pass-through"
	}
}

// Resolver produces snap candidates for pointer positions.
type Resolver interface {
	Resolve(s v2.Vec) snap.Candidate
	FreeSpace(s v2.Vec) snap.Candidate
}

// Cursor is the host-owned 3D cursor the gesture moves.
type Cursor interface {
	Location() v3.Vec
	SetLocation(p v3.Vec)
}

// OverlayState is the wireframe display setting of one viewport.
type OverlayState struct {
	ShowWireframes   bool
	WireframeOpacity float64
}

// Overlay is a viewport whose wireframe display the gesture overrides.
type Overlay interface {
	OverlayState() OverlayState
	SetOverlayState(OverlayState)
}

// Controller runs the gesture state machine. It is safe for concurrent use;
// events are processed one at a time.
type Controller struct {
	mu sync.Mutex

	resolver Resolver
	cursor   Cursor
	overlays []Overlay
	trigger  Trigger

	state State
	saved []OverlayState
	last  snap.Candidate
	have  bool
}

// NewController returns an inactive controller started by DefaultTrigger.
func NewController(r Resolver, c Cursor, overlays ...Overlay) *Controller {
	return &Controller{
		resolver: r,
		cursor:   c,
		overlays: overlays,
		trigger:  DefaultTrigger,
	}
}

// SetTrigger changes the combination that starts a gesture.
func (c *Controller) SetTrigger(t Trigger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trigger = t
}

// State returns the current gesture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Last returns the most recent candidate placed by the gesture, if any.
func (c *Controller) Last() (snap.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.have
}

// Handle feeds one event through the state machine.
func (c *Controller) Handle(ev Event) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateInactive {
		if !c.trigger.Matches(ev) {
			return ResultPassThrough
		}
		c.start()
		return ResultRunning
	}

	switch ev.Action {
	case ActionMove:
		c.move(ev.Pos)
		return ResultRunning
	case ActionRelease:
		if ev.Button != c.trigger.Button {
			return ResultRunning
		}
		c.release(ev.Pos)
		return ResultFinished
	case ActionCancel:
		c.cancel()
		return ResultCancelled
	default:
		// The gesture is modal: swallow everything else.
		return ResultRunning
	}
}

// Start begins a gesture at the current pointer position without checking
// the trigger. It reports false if a gesture is already running.
func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInactive {
		return false
	}
	c.start()
	return true
}

// Move resolves s and moves the cursor there.
func (c *Controller) Move(s v2.Vec) (snap.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateInactive {
		return snap.Candidate{}, false
	}
	return c.move(s), true
}

// Release ends the gesture and returns where the cursor ended up.
func (c *Controller) Release(s v2.Vec) (snap.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateInactive {
		return snap.Candidate{}, false
	}
	return c.release(s), true
}

// Cancel aborts the gesture. The cursor keeps whatever position the last
// move gave it.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateInactive {
		return false
	}
	c.cancel()
	return true
}

func (c *Controller) start() {
	c.saved = make([]OverlayState, len(c.overlays))
	for i, o := range c.overlays {
		c.saved[i] = o.OverlayState()
		o.SetOverlayState(OverlayState{ShowWireframes: true, WireframeOpacity: 1.0})
	}
	c.state = StateIdle
	c.have = false
	snap.Logger().Debug("drag started", "overlays", len(c.overlays))
}

func (c *Controller) move(s v2.Vec) snap.Candidate {
	cand := c.resolver.Resolve(s)
	c.cursor.SetLocation(cand.Point)
	c.last, c.have = cand, true
	c.state = StateDragging
	return cand
}

func (c *Controller) release(s v2.Vec) snap.Candidate {
	if c.state == StateIdle {
		// No motion: a plain click places the cursor in free space only.
		cand := c.resolver.FreeSpace(s)
		c.cursor.SetLocation(cand.Point)
		c.last, c.have = cand, true
	}
	c.restore()
	snap.Logger().Debug("drag finished", "kind", c.last.Kind.String())
	return c.last
}

func (c *Controller) cancel() {
	c.restore()
	snap.Logger().Debug("drag cancelled")
}

func (c *Controller) restore() {
	for i, o := range c.overlays {
		if i < len(c.saved) {
			o.SetOverlayState(c.saved[i])
		}
	}
	c.saved = nil
	c.state = StateInactive
}
