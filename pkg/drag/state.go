package drag

import (
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PointCursor is a mutex-guarded Cursor for hosts with no cursor of their
// own.
type PointCursor struct {
	mu sync.RWMutex
	p  v3.Vec
}

// NewPointCursor returns a cursor at p.
func NewPointCursor(p v3.Vec) *PointCursor {
	return &PointCursor{p: p}
}

// Location implements Cursor.
func (c *PointCursor) Location() v3.Vec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.p
}

// SetLocation implements Cursor.
func (c *PointCursor) SetLocation(p v3.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.p = p
}

// ViewOverlay is a mutex-guarded Overlay.
type ViewOverlay struct {
	mu sync.RWMutex
	s  OverlayState
}

// NewViewOverlay returns an overlay holding s.
func NewViewOverlay(s OverlayState) *ViewOverlay {
	return &ViewOverlay{s: s}
}

// OverlayState implements Overlay.
func (o *ViewOverlay) OverlayState() OverlayState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.s
}

// SetOverlayState implements Overlay.
func (o *ViewOverlay) SetOverlayState(s OverlayState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.s = s
}
