package snap

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/snapcursor/pkg/geom"
	"github.com/chazu/snapcursor/pkg/scene"
)

// VertexSource snaps to the visible mesh vertex whose projection is nearest
// the query, across all visible mesh objects.
type VertexSource struct {
	scene  Scene
	proj   Projector
	vis    *Visibility
	radius float64
}

// NewVertexSource returns a vertex source accepting vertices strictly
// closer than radius pixels.
func NewVertexSource(sc Scene, proj Projector, vis *Visibility, radius float64) *VertexSource {
	return &VertexSource{scene: sc, proj: proj, vis: vis, radius: radius}
}

// Name implements Source.
func (s *VertexSource) Name() string { return "vertex" }

// Query returns the nearest qualifying vertex.
func (s *VertexSource) Query(q v2.Vec) (Candidate, bool) {
	best := Candidate{Kind: KindVertex, ScreenDistance: math.Inf(1)}
	found := false
	for _, o := range s.scene.VisibleObjects() {
		if o.Kind() != scene.KindMesh {
			continue
		}
		if s.scanObject(o, q, &best) {
			found = true
		}
	}
	return best, found
}

func (s *VertexSource) scanObject(o *scene.Object, q v2.Vec, best *Candidate) bool {
	h := s.scene.EvaluatedMesh(o)
	if h == nil {
		return false
	}
	defer h.Release()

	improved := false
	for _, v := range h.Mesh.Vertices {
		w := o.ToWorld(v)
		p, ok := s.proj.WorldToScreen(w)
		if !ok {
			continue
		}
		d := geom.ScreenDistance(p, q)
		if d >= s.radius || d >= best.ScreenDistance {
			continue
		}
		// Visibility is the expensive part, so test it last.
		if !s.vis.IsVisible(w) {
			continue
		}
		best.Point = w
		best.Object = o
		best.ScreenDistance = d
		improved = true
	}
	return improved
}
