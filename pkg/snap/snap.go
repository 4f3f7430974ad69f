// Package snap resolves a 2D viewport position to a 3D point by trying a
// fixed priority of snap sources: mesh vertices, edge midpoints and face
// centers, curve control points, and finally free space. The first source
// that produces a point wins.
package snap

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/geom"
	"github.com/chazu/snapcursor/pkg/scene"
)

// Projector maps between world space and viewport pixels.
type Projector interface {
	WorldToScreen(p v3.Vec) (v2.Vec, bool)
	ScreenToRay(s v2.Vec) geom.Ray
	EyePosition() v3.Vec
}

// Scene is the read-only view of the scene that the sources query.
type Scene interface {
	VisibleObjects() []*scene.Object
	EvaluatedMesh(o *scene.Object) *scene.MeshHandle
	EvaluatedCurve(o *scene.Object) []v3.Vec
	Raycast(origin, dir v3.Vec) scene.RaycastResult
}

// Kind records which source produced a resolved point.
type Kind int

const (
	KindVertex Kind = iota
	KindEdgeMidpoint
	KindFaceCenter
	KindFaceHit
	KindCurvePoint
	KindSurface
	KindFreeSpace
)

var kindNames = map[Kind]string{
	KindVertex:       "vertex",
	KindEdgeMidpoint: "edge-midpoint",
	KindFaceCenter:   "face-center",
	KindFaceHit:      "face-hit",
	KindCurvePoint:   "curve-point",
	KindSurface:      "surface",
	KindFreeSpace:    "free-space",
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("snap: unknown kind %q", s)
}

// Candidate is a resolved snap point.
type Candidate struct {
	Point  v3.Vec
	Kind   Kind
	Object *scene.Object // nil for free space
	// ScreenDistance is the pixel distance between the query position and
	// the projected point. It is zero for free-space results.
	ScreenDistance float64
}

// Source is one tier of the snap priority list.
type Source interface {
	Name() string
	Query(s v2.Vec) (Candidate, bool)
}

// Settings holds the per-source radii and free-space parameters.
type Settings struct {
	VertexRadius      float64
	EdgeRadius        float64
	FaceRadius        float64
	CurveRadius       float64
	FreeDepth         float64
	VisibilityEpsilon float64
}

// DefaultSettings returns the standard radii in pixels and a free-space
// depth of 50 world units.
func DefaultSettings() Settings {
	return Settings{
		VertexRadius:      20,
		EdgeRadius:        18,
		FaceRadius:        30,
		CurveRadius:       20,
		FreeDepth:         50,
		VisibilityEpsilon: 1e-5,
	}
}

// Validate reports settings that would make a source unusable.
func (s Settings) Validate() error {
	check := []struct {
		name string
		v    float64
	}{
		{"vertex radius", s.VertexRadius},
		{"edge radius", s.EdgeRadius},
		{"face radius", s.FaceRadius},
		{"curve radius", s.CurveRadius},
		{"free depth", s.FreeDepth},
	}
	for _, c := range check {
		if c.v <= 0 {
			return fmt.Errorf("snap: %s must be positive, got %v", c.name, c.v)
		}
	}
	if s.VisibilityEpsilon < 0 {
		return fmt.Errorf("snap: visibility epsilon must not be negative, got %v", s.VisibilityEpsilon)
	}
	return nil
}
