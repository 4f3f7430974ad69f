package scene

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
)

// Kind is the snapping-relevant category of an object.
type Kind int

const (
	KindMesh Kind = iota
	KindCurve
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindCurve:
		return "curve"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Data is the kind-specific payload of an object. Implementations are
// MeshData, CurveData and OtherData.
type Data interface {
	objectData()
}

// MeshData is polygon geometry plus the modifier stack that produces the
// evaluated mesh.
type MeshData struct {
	Mesh      *Mesh
	Modifiers []Modifier
}

func (MeshData) objectData() {}

// CurveData is spline geometry.
type CurveData struct {
	Curve *Curve
}

func (CurveData) objectData() {}

// OtherData covers objects that contribute no snap candidates. Proxy, when
// set, is still raycast so the object occludes what lies behind it.
type OtherData struct {
	Proxy *Mesh
}

func (OtherData) objectData() {}

// Object is a named scene entity with a world transform.
type Object struct {
	ID      uuid.UUID
	Name    string
	Matrix  sdf.M44
	Visible bool
	Data    Data
}

// NewObject creates a visible object with an identity transform.
func NewObject(name string, data Data) *Object {
	return &Object{
		ID:      uuid.New(),
		Name:    name,
		Matrix:  sdf.Identity3d(),
		Visible: true,
		Data:    data,
	}
}

// Kind derives the object's category from its payload.
func (o *Object) Kind() Kind {
	switch o.Data.(type) {
	case MeshData:
		return KindMesh
	case CurveData:
		return KindCurve
	default:
		return KindOther
	}
}

// ToWorld maps an object-local point into world space.
func (o *Object) ToWorld(p v3.Vec) v3.Vec {
	return o.Matrix.MulPosition(p)
}
