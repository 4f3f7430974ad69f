// Package scene models the objects a snap query runs against: meshes with
// modifier stacks, curves, and opaque objects, each with a world transform.
// It provides the evaluated-geometry and raycast queries the snapping
// sources depend on.
package scene

import (
	"math"
	"sync"
	"sync/atomic"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/geom"
)

// MeshHandle is a temporary evaluated mesh. The holder must call Release
// once it is done with Mesh; Release is idempotent.
type MeshHandle struct {
	Mesh *Mesh

	once    sync.Once
	release func()
}

// NewMeshHandle wraps m with a release callback. A nil callback is allowed.
func NewMeshHandle(m *Mesh, release func()) *MeshHandle {
	return &MeshHandle{Mesh: m, release: release}
}

// Release returns the evaluated mesh to its owner.
func (h *MeshHandle) Release() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.release != nil {
			h.release()
		}
	})
}

// RaycastResult describes the nearest surface hit along a ray.
type RaycastResult struct {
	Hit       bool
	Point     v3.Vec
	Normal    v3.Vec
	FaceIndex int
	Object    *Object
	Distance  float64
}

// Scene is an ordered collection of objects. Order is the view-layer
// enumeration order and is preserved by every query.
type Scene struct {
	mu      sync.RWMutex
	objects []*Object

	live atomic.Int64
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends objects to the scene.
func (s *Scene) Add(objs ...*Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, objs...)
}

// Objects returns every object in enumeration order.
func (s *Scene) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// VisibleObjects returns the visible objects in enumeration order.
func (s *Scene) VisibleObjects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		if o.Visible {
			out = append(out, o)
		}
	}
	return out
}

// Lookup finds an object by name.
func (s *Scene) Lookup(name string) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// LiveMeshes returns the number of evaluated meshes that have been handed
// out and not yet released.
func (s *Scene) LiveMeshes() int {
	return int(s.live.Load())
}

// EvaluatedMesh runs the object's modifier stack and returns the result in
// object-local space. It returns nil for objects that are not meshes.
func (s *Scene) EvaluatedMesh(o *Object) *MeshHandle {
	md, ok := o.Data.(MeshData)
	if !ok || md.Mesh == nil {
		return nil
	}
	m := md.Mesh
	if len(md.Modifiers) == 0 {
		m = m.Clone()
	}
	for _, mod := range md.Modifiers {
		m = mod.Apply(m)
	}
	s.live.Add(1)
	return NewMeshHandle(m, func() { s.live.Add(-1) })
}

// EvaluatedCurve returns the tessellated samples of a curve object in
// object-local space, or nil for other kinds.
func (s *Scene) EvaluatedCurve(o *Object) []v3.Vec {
	cd, ok := o.Data.(CurveData)
	if !ok || cd.Curve == nil {
		return nil
	}
	return cd.Curve.Evaluate()
}

// Raycast finds the nearest visible surface hit by the ray from origin along
// dir. A zero direction never hits.
func (s *Scene) Raycast(origin, dir v3.Vec) RaycastResult {
	ray := geom.Ray{Origin: origin, Direction: dir}.Normalized()
	if ray.Direction.Length() == 0 {
		return RaycastResult{}
	}

	best := RaycastResult{Distance: math.Inf(1)}
	for _, o := range s.VisibleObjects() {
		s.raycastObject(o, ray, &best)
	}
	if !best.Hit {
		return RaycastResult{}
	}
	return best
}

func (s *Scene) raycastObject(o *Object, ray geom.Ray, best *RaycastResult) {
	var m *Mesh
	switch d := o.Data.(type) {
	case MeshData:
		h := s.EvaluatedMesh(o)
		if h == nil {
			return
		}
		defer h.Release()
		m = h.Mesh
	case OtherData:
		m = d.Proxy
	}
	if m.IsEmpty() {
		return
	}

	world := make([]v3.Vec, len(m.Vertices))
	bounds := geom.EmptyBox()
	for i, v := range m.Vertices {
		world[i] = o.ToWorld(v)
		bounds = bounds.Extend(world[i])
	}
	if entry, ok := bounds.IntersectRay(ray); !ok || entry > best.Distance {
		return
	}

	for fi, p := range m.Polygons {
		if len(p.Vertices) < 3 || !inRange(p.Vertices, len(world)) {
			continue
		}
		a := world[p.Vertices[0]]
		for k := 1; k+1 < len(p.Vertices); k++ {
			b := world[p.Vertices[k]]
			c := world[p.Vertices[k+1]]
			t, ok := geom.IntersectTriangle(ray, a, b, c)
			if !ok || t >= best.Distance {
				continue
			}
			*best = RaycastResult{
				Hit:       true,
				Point:     ray.At(t),
				Normal:    b.Sub(a).Cross(c.Sub(a)).Normalize(),
				FaceIndex: fi,
				Object:    o,
				Distance:  t,
			}
		}
	}
}

func inRange(idx []int, n int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
