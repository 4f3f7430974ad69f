package snap

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/geom"
	"github.com/chazu/snapcursor/pkg/scene"
)

// EdgeFaceSource raycasts through the query position and snaps to the
// nearest edge midpoint of the hit polygon, or failing that to the polygon's
// center.
type EdgeFaceSource struct {
	scene      Scene
	proj       Projector
	edgeRadius float64
	faceRadius float64
}

// NewEdgeFaceSource returns a source accepting midpoints within edgeRadius
// and centers within faceRadius pixels, both inclusive.
func NewEdgeFaceSource(sc Scene, proj Projector, edgeRadius, faceRadius float64) *EdgeFaceSource {
	return &EdgeFaceSource{scene: sc, proj: proj, edgeRadius: edgeRadius, faceRadius: faceRadius}
}

// Name implements Source.
func (s *EdgeFaceSource) Name() string { return "edge-face" }

// Query implements Source.
func (s *EdgeFaceSource) Query(q v2.Vec) (Candidate, bool) {
	ray := s.proj.ScreenToRay(q)
	hit := s.scene.Raycast(ray.Origin, ray.Direction)
	if !hit.Hit || hit.Object == nil || hit.Object.Kind() != scene.KindMesh {
		return Candidate{}, false
	}

	h := s.scene.EvaluatedMesh(hit.Object)
	if h == nil {
		return Candidate{}, false
	}
	defer h.Release()

	m := h.Mesh
	if hit.FaceIndex < 0 || hit.FaceIndex >= len(m.Polygons) {
		Logger().Warn("raycast face index out of range",
			"object", hit.Object.Name, "face", hit.FaceIndex, "polygons", len(m.Polygons))
		return Candidate{Point: hit.Point, Kind: KindFaceHit, Object: hit.Object}, true
	}
	poly := m.Polygons[hit.FaceIndex]
	o := hit.Object

	best := Candidate{Kind: KindEdgeMidpoint, Object: o, ScreenDistance: math.Inf(1)}
	for i := 0; i < poly.EdgeCount(); i++ {
		a, b := poly.Edge(i)
		if a < 0 || b < 0 || a >= len(m.Vertices) || b >= len(m.Vertices) {
			continue
		}
		mid := o.ToWorld(geom.Midpoint(m.Vertices[a], m.Vertices[b]))
		p, ok := s.proj.WorldToScreen(mid)
		if !ok {
			continue
		}
		d := geom.ScreenDistance(p, q)
		if d <= s.edgeRadius && d < best.ScreenDistance {
			best.Point = mid
			best.ScreenDistance = d
		}
	}
	if !math.IsInf(best.ScreenDistance, 1) {
		return best, true
	}

	center := o.ToWorld(polygonCenter(m, poly))
	if p, ok := s.proj.WorldToScreen(center); ok {
		if d := geom.ScreenDistance(p, q); d <= s.faceRadius {
			return Candidate{Point: center, Kind: KindFaceCenter, Object: o, ScreenDistance: d}, true
		}
	}
	return Candidate{}, false
}

func polygonCenter(m *scene.Mesh, p scene.Polygon) v3.Vec {
	pts := make([]v3.Vec, 0, len(p.Vertices))
	for _, vi := range p.Vertices {
		if vi >= 0 && vi < len(m.Vertices) {
			pts = append(pts, m.Vertices[vi])
		}
	}
	return geom.Mean(pts)
}
