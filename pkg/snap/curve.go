package snap

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/geom"
	"github.com/chazu/snapcursor/pkg/scene"
)

// CurveSource snaps to curve control points. It returns the first point in
// enumeration order that lies within the radius, not the nearest one:
// objects in scene order, then authored control points spline by spline,
// then the evaluated curve samples.
type CurveSource struct {
	scene  Scene
	proj   Projector
	radius float64
}

// NewCurveSource returns a curve source accepting points within radius
// pixels, inclusive.
func NewCurveSource(sc Scene, proj Projector, radius float64) *CurveSource {
	return &CurveSource{scene: sc, proj: proj, radius: radius}
}

// Name implements Source.
func (s *CurveSource) Name() string { return "curve" }

// Query implements Source.
func (s *CurveSource) Query(q v2.Vec) (Candidate, bool) {
	for _, o := range s.scene.VisibleObjects() {
		cd, ok := o.Data.(scene.CurveData)
		if !ok || cd.Curve == nil {
			continue
		}
		if c, ok := s.firstWithin(o, cd.Curve.ControlPoints(), q); ok {
			return c, true
		}
		if c, ok := s.firstWithin(o, s.scene.EvaluatedCurve(o), q); ok {
			return c, true
		}
	}
	return Candidate{}, false
}

func (s *CurveSource) firstWithin(o *scene.Object, local []v3.Vec, q v2.Vec) (Candidate, bool) {
	for _, lp := range local {
		w := o.ToWorld(lp)
		p, ok := s.proj.WorldToScreen(w)
		if !ok {
			continue
		}
		if d := geom.ScreenDistance(p, q); d <= s.radius {
			return Candidate{Point: w, Kind: KindCurvePoint, Object: o, ScreenDistance: d}, true
		}
	}
	return Candidate{}, false
}
