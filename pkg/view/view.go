// Package view implements the viewport projection used by snapping: mapping
// world points to pixels and pixels back to world-space rays.
//
// Screen coordinates have their origin at the top-left corner of the
// viewport with y growing downward.
package view

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/geom"
)

// Projection selects perspective or orthographic projection.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

// String returns the projection name.
func (p Projection) String() string {
	if p == Orthographic {
		return "ortho"
	}
	return "persp"
}

// DefaultFOV is the vertical field of view in degrees used by LookAt.
const DefaultFOV = 50.0

// Viewpoint is a camera looking into the scene through a pixel viewport.
// Right, Up and Back form an orthonormal basis; the camera looks along -Back.
type Viewpoint struct {
	Eye   v3.Vec
	Right v3.Vec
	Up    v3.Vec
	Back  v3.Vec

	Projection Projection
	FOV        float64 // vertical, degrees
	OrthoScale float64 // vertical world extent for Orthographic

	Width, Height int
}

// LookAt builds a perspective viewpoint at eye looking toward target.
// If up is parallel to the view direction a fallback up axis is chosen.
func LookAt(eye, target, up v3.Vec, width, height int) Viewpoint {
	back := eye.Sub(target)
	if back.Length() == 0 {
		back = v3.Vec{Z: 1}
	}
	back = back.Normalize()
	if up.Length() == 0 {
		up = v3.Vec{Y: 1}
	}
	right := up.Cross(back)
	if right.Length() < 1e-9 {
		up = v3.Vec{Y: 1}
		if math.Abs(back.Y) > 0.99 {
			up = v3.Vec{Z: -1}
		}
		right = up.Cross(back)
	}
	right = right.Normalize()
	return Viewpoint{
		Eye:        eye,
		Right:      right,
		Up:         back.Cross(right),
		Back:       back,
		Projection: Perspective,
		FOV:        DefaultFOV,
		OrthoScale: 10,
		Width:      width,
		Height:     height,
	}
}

// WithOrtho returns a copy using orthographic projection with the given
// vertical extent.
func (v Viewpoint) WithOrtho(scale float64) Viewpoint {
	v.Projection = Orthographic
	v.OrthoScale = scale
	return v
}

// WithSize returns a copy with a different viewport size.
func (v Viewpoint) WithSize(width, height int) Viewpoint {
	v.Width, v.Height = width, height
	return v
}

// EyePosition returns the world-space position of the viewer, the
// translation of the inverse view matrix.
func (v Viewpoint) EyePosition() v3.Vec {
	return v.Eye
}

func (v Viewpoint) aspect() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// halfExtent returns the half-height of the view volume at unit depth for
// perspective, or the absolute half-height for orthographic.
func (v Viewpoint) halfExtent() float64 {
	if v.Projection == Orthographic {
		return v.OrthoScale / 2
	}
	return math.Tan(v.FOV * math.Pi / 360)
}

// toCamera returns p in camera coordinates (x right, y up, z back).
func (v Viewpoint) toCamera(p v3.Vec) v3.Vec {
	d := p.Sub(v.Eye)
	return v3.Vec{X: d.Dot(v.Right), Y: d.Dot(v.Up), Z: d.Dot(v.Back)}
}

// WorldToScreen projects p into viewport pixels. It reports false when the
// point is behind a perspective camera or the result is not finite.
func (v Viewpoint) WorldToScreen(p v3.Vec) (v2.Vec, bool) {
	c := v.toCamera(p)
	h := v.halfExtent()
	if h == 0 {
		return v2.Vec{}, false
	}
	var nx, ny float64
	if v.Projection == Orthographic {
		nx = c.X / (h * v.aspect())
		ny = c.Y / h
	} else {
		depth := -c.Z
		if depth <= 1e-9 {
			return v2.Vec{}, false
		}
		nx = c.X / (depth * h * v.aspect())
		ny = c.Y / (depth * h)
	}
	s := v2.Vec{
		X: (nx + 1) * float64(v.Width) / 2,
		Y: (1 - ny) * float64(v.Height) / 2,
	}
	if math.IsNaN(s.X) || math.IsNaN(s.Y) || math.IsInf(s.X, 0) || math.IsInf(s.Y, 0) {
		return v2.Vec{}, false
	}
	return s, true
}

// ScreenToRay returns the world-space ray through pixel s with a unit
// direction. Perspective rays start at the eye; orthographic rays start on
// the eye plane.
func (v Viewpoint) ScreenToRay(s v2.Vec) geom.Ray {
	nx, ny := 0.0, 0.0
	if v.Width > 0 {
		nx = 2*s.X/float64(v.Width) - 1
	}
	if v.Height > 0 {
		ny = 1 - 2*s.Y/float64(v.Height)
	}
	h := v.halfExtent()
	forward := v.Back.MulScalar(-1)

	if v.Projection == Orthographic {
		origin := v.Eye.
			Add(v.Right.MulScalar(nx * h * v.aspect())).
			Add(v.Up.MulScalar(ny * h))
		return geom.Ray{Origin: origin, Direction: forward}
	}
	dir := forward.
		Add(v.Right.MulScalar(nx * h * v.aspect())).
		Add(v.Up.MulScalar(ny * h))
	return geom.Ray{Origin: v.Eye, Direction: dir}.Normalized()
}
