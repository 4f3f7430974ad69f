package tui

import (
	"math"
	"sync"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/snap"
	"github.com/chazu/snapcursor/pkg/view"
)

// session is the mutable state shared between the model copies bubbletea
// passes around. It implements drag.Resolver against whatever camera is
// current when a query arrives.
type session struct {
	mu       sync.RWMutex
	scene    *scene.Scene
	vp       view.Viewpoint
	target   v3.Vec
	settings snap.Settings
}

func newSession(sc *scene.Scene, vp view.Viewpoint, target v3.Vec, settings snap.Settings) *session {
	return &session{scene: sc, vp: vp, target: target, settings: settings}
}

func (s *session) viewpoint() view.Viewpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vp
}

func (s *session) resolver() *snap.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snap.NewResolver(s.scene, s.vp, s.settings)
}

// Resolve implements drag.Resolver.
func (s *session) Resolve(q v2.Vec) snap.Candidate {
	return s.resolver().Resolve(q)
}

// FreeSpace implements drag.Resolver.
func (s *session) FreeSpace(q v2.Vec) snap.Candidate {
	return s.resolver().FreeSpace(q)
}

func (s *session) resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vp = s.vp.WithSize(width, height)
}

// orbit rotates the eye around the target: yaw about the camera up axis,
// pitch about the camera right axis.
func (s *session) orbit(yaw, pitch float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	off := s.vp.Eye.Sub(s.target)
	off = rotateAbout(off, s.vp.Up, yaw)
	up := rotateAbout(s.vp.Up, s.vp.Right, pitch)
	off = rotateAbout(off, s.vp.Right, pitch)
	s.reframe(s.target.Add(off), up)
}

// dolly scales the eye distance to the target by f.
func (s *session) dolly(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	off := s.vp.Eye.Sub(s.target).MulScalar(f)
	if off.Length() < 1e-3 {
		return
	}
	if s.vp.Projection == view.Orthographic {
		s.vp.OrthoScale *= f
	}
	s.reframe(s.target.Add(off), s.vp.Up)
}

func (s *session) toggleOrtho() view.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vp.Projection == view.Orthographic {
		s.vp.Projection = view.Perspective
	} else {
		if s.vp.OrthoScale <= 0 {
			s.vp.OrthoScale = s.vp.Eye.Sub(s.target).Length()
		}
		s.vp.Projection = view.Orthographic
	}
	return s.vp.Projection
}

func (s *session) reframe(eye, up v3.Vec) {
	next := view.LookAt(eye, s.target, up, s.vp.Width, s.vp.Height)
	next.Projection = s.vp.Projection
	next.FOV = s.vp.FOV
	next.OrthoScale = s.vp.OrthoScale
	s.vp = next
}

// rotateAbout rotates v by angle radians about the unit axis k.
func rotateAbout(v, k v3.Vec, angle float64) v3.Vec {
	c, sn := math.Cos(angle), math.Sin(angle)
	return v.MulScalar(c).
		Add(k.Cross(v).MulScalar(sn)).
		Add(k.MulScalar(k.Dot(v) * (1 - c)))
}
