package graph

// ---------------------------------------------------------------------------
// Mesh
// ---------------------------------------------------------------------------

// ModifierKind enumerates the supported mesh modifiers.
type ModifierKind int

const (
	ModArray    ModifierKind = iota // repeat along an offset
	ModDisplace                     // constant vertex offset
)

func (k ModifierKind) String() string {
	switch k {
	case ModArray:
		return "array"
	case ModDisplace:
		return "displace"
	default:
		return "unknown"
	}
}

// ModifierDef is one entry of a mesh's modifier stack.
type ModifierDef struct {
	Kind   ModifierKind `json:"kind"`
	Count  int          `json:"count,omitempty"` // ModArray
	Offset Vec3         `json:"offset"`
}

// MeshData is an authored polygon mesh. Faces index into Vertices.
type MeshData struct {
	Vertices  []Vec3         `json:"vertices"`
	Faces     [][]int        `json:"faces"`
	Modifiers []ModifierDef `json:"modifiers,omitempty"`
}

func (MeshData) nodeData() {}

// ---------------------------------------------------------------------------
// Curve
// ---------------------------------------------------------------------------

// SplineKind distinguishes Bezier and poly splines.
type SplineKind int

const (
	SplineBezier SplineKind = iota
	SplinePoly
)

func (k SplineKind) String() string {
	if k == SplinePoly {
		return "poly"
	}
	return "bezier"
}

// BezierKnot is a Bezier control point with its handles.
type BezierKnot struct {
	Co    Vec3 `json:"co"`
	Left  Vec3 `json:"left"`
	Right Vec3 `json:"right"`
}

// SplineData is one spline of a curve.
type SplineData struct {
	Kind   SplineKind   `json:"kind"`
	Knots  []BezierKnot `json:"knots,omitempty"`  // SplineBezier
	Points []Vec3       `json:"points,omitempty"` // SplinePoly
	Cyclic bool         `json:"cyclic,omitempty"`
}

// PointCount returns the number of authored control points.
func (s SplineData) PointCount() int {
	if s.Kind == SplineBezier {
		return len(s.Knots)
	}
	return len(s.Points)
}

// CurveData is a spline curve object.
type CurveData struct {
	Splines    []SplineData `json:"splines"`
	Resolution int          `json:"resolution,omitempty"` // samples per Bezier segment
}

func (CurveData) nodeData() {}

// ---------------------------------------------------------------------------
// Solid
// ---------------------------------------------------------------------------

// SolidData is an object meshed from the CSG tree in its single child.
type SolidData struct{}

func (SolidData) nodeData() {}

// CSGOp enumerates CSG operand kinds.
type CSGOp int

const (
	CSGBox CSGOp = iota
	CSGCylinder
	CSGSphere
	CSGUnion
	CSGDifference
	CSGIntersection
)

func (op CSGOp) String() string {
	switch op {
	case CSGBox:
		return "box"
	case CSGCylinder:
		return "cylinder"
	case CSGSphere:
		return "sphere"
	case CSGUnion:
		return "union"
	case CSGDifference:
		return "difference"
	case CSGIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// IsBoolean reports whether op combines child operands.
func (op CSGOp) IsBoolean() bool {
	return op == CSGUnion || op == CSGDifference || op == CSGIntersection
}

// CSGData is a primitive or boolean in a solid's CSG tree. Boolean operands
// are the node's children, in order. Rotate (degrees) then At are applied to
// the operand's result inside the solid's local space.
type CSGData struct {
	Op     CSGOp   `json:"op"`
	Size   Vec3    `json:"size,omitempty"`   // CSGBox
	Radius float64 `json:"radius,omitempty"` // CSGCylinder, CSGSphere
	Height float64 `json:"height,omitempty"` // CSGCylinder
	At     Vec3    `json:"at,omitempty"`
	Rotate Vec3    `json:"rotate,omitempty"`
}

func (CSGData) nodeData() {}

// ---------------------------------------------------------------------------
// Proxy
// ---------------------------------------------------------------------------

// ProxyData is occluding geometry that is never a snap target.
type ProxyData struct {
	Vertices []Vec3  `json:"vertices"`
	Faces    [][]int `json:"faces"`
}

func (ProxyData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to its children.
// Created by the (place ...) form.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
	Scale       *Vec3 `json:"scale,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData is a logical grouping.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Camera
// ---------------------------------------------------------------------------

// CameraDef is the viewpoint declared by the program.
type CameraDef struct {
	Eye        Vec3    `json:"eye"`
	Target     Vec3    `json:"target"`
	Up         Vec3    `json:"up"`
	FOV        float64 `json:"fov,omitempty"` // degrees
	Ortho      bool    `json:"ortho,omitempty"`
	OrthoScale float64 `json:"ortho_scale,omitempty"`
}
