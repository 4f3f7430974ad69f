package snap

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// FreeSpaceSource always produces a point: the first surface under the
// query position, or a point at a fixed depth along the view ray.
type FreeSpaceSource struct {
	scene Scene
	proj  Projector
	depth float64
}

// NewFreeSpaceSource returns the fallback source.
func NewFreeSpaceSource(sc Scene, proj Projector, depth float64) *FreeSpaceSource {
	return &FreeSpaceSource{scene: sc, proj: proj, depth: depth}
}

// Name implements Source.
func (s *FreeSpaceSource) Name() string { return "free-space" }

// Query implements Source. It never fails.
func (s *FreeSpaceSource) Query(q v2.Vec) (Candidate, bool) {
	return s.Place(q), true
}

// Place returns the surface hit under q, or origin + direction*depth.
func (s *FreeSpaceSource) Place(q v2.Vec) Candidate {
	ray := s.proj.ScreenToRay(q).Normalized()
	hit := s.scene.Raycast(ray.Origin, ray.Direction)
	if hit.Hit {
		return Candidate{Point: hit.Point, Kind: KindSurface, Object: hit.Object}
	}
	return Candidate{Point: ray.At(s.depth), Kind: KindFreeSpace}
}
