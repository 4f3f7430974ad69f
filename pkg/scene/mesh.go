package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/geom"
)

// Polygon is an ordered loop of vertex indices. Consecutive indices, with
// wraparound, form the polygon's edges.
type Polygon struct {
	Vertices []int
}

// EdgeCount returns the number of edges in the loop.
func (p Polygon) EdgeCount() int {
	if len(p.Vertices) < 2 {
		return 0
	}
	return len(p.Vertices)
}

// Edge returns the vertex indices of the i-th edge.
func (p Polygon) Edge(i int) (int, int) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// Mesh is polygon geometry in object-local coordinates.
type Mesh struct {
	Vertices []v3.Vec
	Polygons []Polygon
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: make([]v3.Vec, len(m.Vertices)),
		Polygons: make([]Polygon, len(m.Polygons)),
	}
	copy(out.Vertices, m.Vertices)
	for i, p := range m.Polygons {
		idx := make([]int, len(p.Vertices))
		copy(idx, p.Vertices)
		out.Polygons[i] = Polygon{Vertices: idx}
	}
	return out
}

// PolygonCenter returns the mean of the polygon's vertices in local space.
func (m *Mesh) PolygonCenter(i int) v3.Vec {
	p := m.Polygons[i]
	pts := make([]v3.Vec, len(p.Vertices))
	for j, vi := range p.Vertices {
		pts[j] = m.Vertices[vi]
	}
	return geom.Mean(pts)
}

// Bounds returns the local-space bounding box of the vertices.
func (m *Mesh) Bounds() geom.Box {
	b := geom.EmptyBox()
	for _, v := range m.Vertices {
		b = b.Extend(v)
	}
	return b
}

// IsEmpty reports whether the mesh has no vertices.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0
}

// Cube returns an axis-aligned cube of the given edge length centered on the
// origin, with six quad faces wound counter-clockwise from outside.
func Cube(size float64) *Mesh {
	h := size / 2
	return &Mesh{
		Vertices: []v3.Vec{
			{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
			{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
		},
		Polygons: []Polygon{
			{Vertices: []int{0, 3, 2, 1}}, // -Z
			{Vertices: []int{4, 5, 6, 7}}, // +Z
			{Vertices: []int{0, 1, 5, 4}}, // -Y
			{Vertices: []int{2, 3, 7, 6}}, // +Y
			{Vertices: []int{0, 4, 7, 3}}, // -X
			{Vertices: []int{1, 2, 6, 5}}, // +X
		},
	}
}

// Plane returns a single square quad of the given edge length in the XY
// plane, centered on the origin.
func Plane(size float64) *Mesh {
	h := size / 2
	return &Mesh{
		Vertices: []v3.Vec{
			{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
		},
		Polygons: []Polygon{{Vertices: []int{0, 1, 2, 3}}},
	}
}
