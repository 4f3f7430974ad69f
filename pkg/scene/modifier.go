package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Modifier rewrites authored mesh geometry into evaluated geometry. Apply
// must not mutate its input.
type Modifier interface {
	Apply(m *Mesh) *Mesh
	modifier()
}

// ArrayModifier repeats the mesh Count times, each copy shifted by Offset
// from the previous one.
type ArrayModifier struct {
	Count  int
	Offset v3.Vec
}

func (ArrayModifier) modifier() {}

// Apply returns Count copies of m laid out along Offset.
func (a ArrayModifier) Apply(m *Mesh) *Mesh {
	if a.Count <= 1 {
		return m.Clone()
	}
	out := &Mesh{
		Vertices: make([]v3.Vec, 0, len(m.Vertices)*a.Count),
		Polygons: make([]Polygon, 0, len(m.Polygons)*a.Count),
	}
	for c := 0; c < a.Count; c++ {
		base := len(out.Vertices)
		shift := a.Offset.MulScalar(float64(c))
		for _, v := range m.Vertices {
			out.Vertices = append(out.Vertices, v.Add(shift))
		}
		for _, p := range m.Polygons {
			idx := make([]int, len(p.Vertices))
			for i, vi := range p.Vertices {
				idx[i] = vi + base
			}
			out.Polygons = append(out.Polygons, Polygon{Vertices: idx})
		}
	}
	return out
}

// DisplaceModifier moves every vertex by a constant Offset.
type DisplaceModifier struct {
	Offset v3.Vec
}

func (DisplaceModifier) modifier() {}

// Apply returns a copy of m with every vertex shifted by Offset.
func (d DisplaceModifier) Apply(m *Mesh) *Mesh {
	out := m.Clone()
	for i := range out.Vertices {
		out.Vertices[i] = out.Vertices[i].Add(d.Offset)
	}
	return out
}
