// Package geom holds the ray, box and transform helpers shared by the scene,
// view and snap packages. World points are sdfx v3.Vec values; viewport
// positions are v2.Vec values in pixels.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the barycentric slack used by IntersectTriangle so that rays
// passing exactly through a shared edge or corner still register a hit.
const Epsilon = 1e-9

// Ray is a half-line starting at Origin.
type Ray struct {
	Origin    v3.Vec
	Direction v3.Vec
}

// At returns the point Origin + Direction*t.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Direction.MulScalar(t))
}

// Normalized returns the ray with a unit direction. A zero direction is
// returned unchanged.
func (r Ray) Normalized() Ray {
	l := r.Direction.Length()
	if l == 0 {
		return r
	}
	return Ray{Origin: r.Origin, Direction: r.Direction.DivScalar(l)}
}

// IntersectTriangle returns the ray parameter of the hit with triangle abc
// using the Möller–Trumbore algorithm. Both faces of the triangle are hit.
func IntersectTriangle(r Ray, a, b, c v3.Vec) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < 1e-12 {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < -Epsilon || u > 1+Epsilon {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < -Epsilon || u+v > 1+Epsilon {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max v3.Vec
}

// EmptyBox returns a box that contains nothing; extending it with a point
// yields a degenerate box around that point.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: v3.Vec{X: inf, Y: inf, Z: inf},
		Max: v3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to contain p.
func (b Box) Extend(p v3.Vec) Box {
	return Box{
		Min: v3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: v3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Center returns the midpoint of the box.
func (b Box) Center() v3.Vec {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// IntersectRay runs the slab test and returns the entry distance along the
// ray. Rays starting inside the box report an entry of zero.
func (b Box) IntersectRay(r Ray) (float64, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			// Parallel to this slab: miss unless the origin lies inside it.
			if o[i] < lo[i]-Epsilon || o[i] > hi[i]+Epsilon {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax+Epsilon {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return math.Max(tmin, 0), true
}

// Mean returns the arithmetic mean of pts, or the zero vector for an empty
// slice.
func Mean(pts []v3.Vec) v3.Vec {
	if len(pts) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(pts)))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b v3.Vec) v3.Vec {
	return a.Add(b).MulScalar(0.5)
}

// ScreenDistance is the Euclidean distance between two viewport positions.
func ScreenDistance(a, b v2.Vec) float64 {
	return a.Sub(b).Length()
}

// Transform builds a translate * rotate * scale matrix. Rotation is given as
// Euler angles in degrees, applied X then Y then Z.
func Transform(translate, rotateDeg, scale v3.Vec) sdf.M44 {
	r := sdf.RotateZ(rotateDeg.Z * math.Pi / 180).
		Mul(sdf.RotateY(rotateDeg.Y * math.Pi / 180)).
		Mul(sdf.RotateX(rotateDeg.X * math.Pi / 180))
	return sdf.Translate3d(translate).Mul(r).Mul(sdf.Scale3d(scale))
}
