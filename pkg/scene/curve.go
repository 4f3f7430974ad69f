package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultCurveResolution is the number of samples per Bezier segment used
// when a curve does not set its own resolution.
const DefaultCurveResolution = 12

// SplineKind distinguishes how a spline stores its control points.
type SplineKind int

const (
	SplineBezier SplineKind = iota
	SplinePoly
)

// String returns the spline kind name.
func (k SplineKind) String() string {
	switch k {
	case SplineBezier:
		return "bezier"
	case SplinePoly:
		return "poly"
	default:
		return "unknown"
	}
}

// BezierPoint is a Bezier knot with its two handles.
type BezierPoint struct {
	Co          v3.Vec
	HandleLeft  v3.Vec
	HandleRight v3.Vec
}

// Spline is one sequence of control points within a curve.
type Spline struct {
	Kind         SplineKind
	BezierPoints []BezierPoint // SplineBezier
	Points       []v3.Vec      // SplinePoly
	Cyclic       bool
}

// ControlPoints returns the authored control points in enumeration order:
// the knot positions for a Bezier spline, the points for a poly spline.
func (s Spline) ControlPoints() []v3.Vec {
	switch s.Kind {
	case SplineBezier:
		out := make([]v3.Vec, len(s.BezierPoints))
		for i, bp := range s.BezierPoints {
			out[i] = bp.Co
		}
		return out
	default:
		out := make([]v3.Vec, len(s.Points))
		copy(out, s.Points)
		return out
	}
}

// Evaluate tessellates the spline into sample points. Bezier segments get
// resolution samples each; poly splines evaluate to their own points.
func (s Spline) Evaluate(resolution int) []v3.Vec {
	if s.Kind != SplineBezier {
		return s.ControlPoints()
	}
	if resolution < 1 {
		resolution = 1
	}
	n := len(s.BezierPoints)
	if n < 2 {
		return s.ControlPoints()
	}

	segments := n - 1
	if s.Cyclic {
		segments = n
	}
	out := make([]v3.Vec, 0, segments*resolution+1)
	for i := 0; i < segments; i++ {
		a := s.BezierPoints[i]
		b := s.BezierPoints[(i+1)%n]
		for k := 0; k < resolution; k++ {
			t := float64(k) / float64(resolution)
			out = append(out, cubic(a.Co, a.HandleRight, b.HandleLeft, b.Co, t))
		}
	}
	if !s.Cyclic {
		out = append(out, s.BezierPoints[n-1].Co)
	}
	return out
}

func cubic(p0, p1, p2, p3 v3.Vec, t float64) v3.Vec {
	u := 1 - t
	return p0.MulScalar(u * u * u).
		Add(p1.MulScalar(3 * u * u * t)).
		Add(p2.MulScalar(3 * u * t * t)).
		Add(p3.MulScalar(t * t * t))
}

// Curve is a set of splines sharing one object transform.
type Curve struct {
	Splines    []Spline
	Resolution int
}

// ControlPoints returns every authored control point across all splines.
func (c *Curve) ControlPoints() []v3.Vec {
	var out []v3.Vec
	for _, s := range c.Splines {
		out = append(out, s.ControlPoints()...)
	}
	return out
}

// Evaluate returns the tessellated samples of every spline.
func (c *Curve) Evaluate() []v3.Vec {
	res := c.Resolution
	if res <= 0 {
		res = DefaultCurveResolution
	}
	var out []v3.Vec
	for _, s := range c.Splines {
		out = append(out, s.Evaluate(res)...)
	}
	return out
}
