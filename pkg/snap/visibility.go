package snap

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Visibility decides whether a world point can be seen from the viewer by
// casting a ray from the eye toward it.
type Visibility struct {
	scene   Scene
	proj    Projector
	epsilon float64
}

// NewVisibility returns a visibility test with the given depth tolerance.
func NewVisibility(sc Scene, proj Projector, epsilon float64) *Visibility {
	return &Visibility{scene: sc, proj: proj, epsilon: epsilon}
}

// IsVisible reports whether p is unoccluded. A point coincident with the eye
// is visible. A ray that hits nothing means the point is treated as not
// visible; the point is expected to lie on raycastable geometry.
func (v *Visibility) IsVisible(p v3.Vec) bool {
	eye := v.proj.EyePosition()
	d := p.Sub(eye)
	dist := d.Length()
	if dist == 0 {
		return true
	}
	hit := v.scene.Raycast(eye, d.DivScalar(dist))
	if !hit.Hit {
		return false
	}
	return hit.Point.Sub(eye).Length() >= dist-v.epsilon
}
