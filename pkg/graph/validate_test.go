package graph

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildValidScene creates a group root holding a mesh, a curve and a solid
// whose CSG tree is a box minus a cylinder.
func buildValidScene() *SceneGraph {
	g := New()

	meshID := NewNodeID("mesh/floor")
	curveID := NewNodeID("curve/rail")
	boxID := NewNodeID("box/0")
	cylID := NewNodeID("cylinder/0")
	diffID := NewNodeID("difference/0")
	solidID := NewNodeID("solid/block")
	placeID := NewNodeID("place/block")
	groupID := NewNodeID("group/room")

	g.AddNode(&Node{
		ID: meshID, Kind: NodeMesh, Name: "floor",
		Data: MeshData{
			Vertices: []Vec3{{0, 0, 0}, {4, 0, 0}, {4, 4, 0}, {0, 4, 0}},
			Faces:    [][]int{{0, 1, 2, 3}},
		},
	})
	g.AddNode(&Node{
		ID: curveID, Kind: NodeCurve, Name: "rail",
		Data: CurveData{Splines: []SplineData{{Kind: SplinePoly, Points: []Vec3{{0, 0, 1}, {4, 0, 1}}}}},
	})
	g.AddNode(&Node{ID: boxID, Kind: NodeCSG, Data: CSGData{Op: CSGBox, Size: Vec3{2, 2, 2}}})
	g.AddNode(&Node{ID: cylID, Kind: NodeCSG, Data: CSGData{Op: CSGCylinder, Radius: 0.5, Height: 3}})
	g.AddNode(&Node{ID: diffID, Kind: NodeCSG, Children: []NodeID{boxID, cylID}, Data: CSGData{Op: CSGDifference}})
	g.AddNode(&Node{ID: solidID, Kind: NodeSolid, Name: "block", Children: []NodeID{diffID}, Data: SolidData{}})
	tr := Vec3{2, 2, 1}
	g.AddNode(&Node{ID: placeID, Kind: NodeTransform, Children: []NodeID{solidID}, Data: TransformData{Translation: &tr}})
	g.AddNode(&Node{
		ID: groupID, Kind: NodeGroup, Name: "room",
		Children: []NodeID{meshID, curveID, placeID},
		Data:     GroupData{Description: "test room"},
	})
	g.AddRoot(groupID)
	g.Camera = &CameraDef{Eye: Vec3{0, -10, 5}, Target: Vec3{2, 2, 0}, Up: Vec3{0, 0, 1}, FOV: 50}

	return g
}

func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func logAll(t *testing.T, errs []ValidationError) {
	t.Helper()
	for _, e := range errs {
		t.Logf("  %s", e)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidate_ValidGraph(t *testing.T) {
	errs := Validate(buildValidScene())
	for _, e := range errs {
		t.Errorf("unexpected validation finding: %s", e)
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	for _, e := range Validate(New()) {
		t.Errorf("unexpected validation finding on empty graph: %s", e)
	}
}

func TestValidate_CycleDetection(t *testing.T) {
	g := New()
	aID, bID, cID := NewNodeID("a"), NewNodeID("b"), NewNodeID("c")

	g.AddNode(&Node{ID: aID, Kind: NodeGroup, Name: "a", Children: []NodeID{bID}, Data: GroupData{}})
	g.AddNode(&Node{ID: bID, Kind: NodeGroup, Name: "b", Children: []NodeID{cID}, Data: GroupData{}})
	g.AddNode(&Node{ID: cID, Kind: NodeGroup, Name: "c", Children: []NodeID{aID}, Data: GroupData{}})
	g.AddRoot(aID)

	errs := Validate(g)
	if !hasError(errs, "cycle") {
		t.Error("expected cycle detection error, got none")
		logAll(t, errs)
	}
}

func TestValidate_DanglingReference(t *testing.T) {
	g := New()
	parentID := NewNodeID("parent")
	g.AddNode(&Node{
		ID: parentID, Kind: NodeGroup, Name: "parent",
		Children: []NodeID{NewNodeID("missing-child")},
		Data:     GroupData{},
	})
	g.AddRoot(parentID)

	errs := Validate(g)
	if !hasError(errs, "does not exist") {
		t.Error("expected dangling reference error, got none")
		logAll(t, errs)
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	g := New()
	a, b := NewNodeID("mesh/1"), NewNodeID("mesh/2")
	g.AddNode(&Node{ID: a, Kind: NodeMesh, Name: "dup", Data: MeshData{Vertices: []Vec3{{}}}})
	g.AddNode(&Node{ID: b, Kind: NodeMesh, Name: "dup", Data: MeshData{Vertices: []Vec3{{}}}})
	g.AddRoot(a)
	g.AddRoot(b)

	if errs := Validate(g); !hasError(errs, "duplicate name") {
		t.Error("expected duplicate name error")
		logAll(t, errs)
	}
}

func TestValidate_MissingRootAndOrphan(t *testing.T) {
	g := buildValidScene()
	g.AddRoot(NewNodeID("ghost"))
	g.AddNode(&Node{ID: NewNodeID("stray"), Kind: NodeGroup, Name: "stray", Data: GroupData{}})

	errs := Validate(g)
	if !hasError(errs, "root reference") {
		t.Error("expected missing root error")
	}
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning")
	}
}

func TestValidate_MeshFaces(t *testing.T) {
	tests := []struct {
		name  string
		data  NodeData
		want  string
		isErr bool
	}{
		{"index out of range", MeshData{Vertices: []Vec3{{}, {}, {}}, Faces: [][]int{{0, 1, 5}}}, "references vertex 5", true},
		{"negative index", ProxyData{Vertices: []Vec3{{}, {}, {}}, Faces: [][]int{{0, -1, 2}}}, "references vertex -1", true},
		{"degenerate face", MeshData{Vertices: []Vec3{{}, {}}, Faces: [][]int{{0, 1}}}, "need at least 3", true},
		{"bad array count", MeshData{Vertices: []Vec3{{}}, Modifiers: []ModifierDef{{Kind: ModArray, Count: 0}}}, "array modifier count", true},
		{"empty mesh", MeshData{}, "has no vertices", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			id := NewNodeID(tt.name)
			g.AddNode(&Node{ID: id, Kind: NodeMesh, Name: "m", Data: tt.data})
			g.AddRoot(id)

			errs := Validate(g)
			found := hasWarning(errs, tt.want)
			if tt.isErr {
				found = hasError(errs, tt.want)
			}
			if !found {
				t.Errorf("expected finding containing %q", tt.want)
				logAll(t, errs)
			}
		})
	}
}

func TestValidate_Curves(t *testing.T) {
	g := New()
	id := NewNodeID("curve/bad")
	g.AddNode(&Node{
		ID: id, Kind: NodeCurve, Name: "bad",
		Data: CurveData{Resolution: -1, Splines: []SplineData{{Kind: SplineBezier}}},
	})
	g.AddRoot(id)

	errs := Validate(g)
	if !hasError(errs, "resolution") {
		t.Error("expected negative resolution error")
	}
	if !hasWarning(errs, "no control points") {
		t.Error("expected empty spline warning")
	}
}

func TestValidate_CSG(t *testing.T) {
	t.Run("boolean with one operand", func(t *testing.T) {
		g := New()
		box := NewNodeID("box")
		u := NewNodeID("union")
		s := NewNodeID("solid")
		g.AddNode(&Node{ID: box, Kind: NodeCSG, Data: CSGData{Op: CSGBox, Size: Vec3{1, 1, 1}}})
		g.AddNode(&Node{ID: u, Kind: NodeCSG, Children: []NodeID{box}, Data: CSGData{Op: CSGUnion}})
		g.AddNode(&Node{ID: s, Kind: NodeSolid, Name: "s", Children: []NodeID{u}, Data: SolidData{}})
		g.AddRoot(s)
		if errs := Validate(g); !hasError(errs, "at least 2 operands") {
			t.Error("expected operand count error")
			logAll(t, errs)
		}
	})
	t.Run("non-positive primitive", func(t *testing.T) {
		g := New()
		sp := NewNodeID("sphere")
		s := NewNodeID("solid")
		g.AddNode(&Node{ID: sp, Kind: NodeCSG, Data: CSGData{Op: CSGSphere}})
		g.AddNode(&Node{ID: s, Kind: NodeSolid, Name: "s", Children: []NodeID{sp}, Data: SolidData{}})
		g.AddRoot(s)
		if errs := Validate(g); !hasError(errs, "sphere radius") {
			t.Error("expected radius error")
			logAll(t, errs)
		}
	})
	t.Run("solid with mesh child", func(t *testing.T) {
		g := New()
		m := NewNodeID("mesh")
		s := NewNodeID("solid")
		g.AddNode(&Node{ID: m, Kind: NodeMesh, Name: "m", Data: MeshData{Vertices: []Vec3{{}}}})
		g.AddNode(&Node{ID: s, Kind: NodeSolid, Name: "s", Children: []NodeID{m}, Data: SolidData{}})
		g.AddRoot(s)
		if errs := Validate(g); !hasError(errs, "not csg") {
			t.Error("expected child kind error")
			logAll(t, errs)
		}
	})
}

func TestValidate_Camera(t *testing.T) {
	g := buildValidScene()
	g.Camera = &CameraDef{Eye: Vec3{1, 1, 1}, Target: Vec3{1, 1, 1}, Ortho: true}
	errs := Validate(g)
	if !hasError(errs, "coincide") || !hasError(errs, "positive scale") {
		t.Error("expected camera errors")
		logAll(t, errs)
	}
}

func TestPartition(t *testing.T) {
	errs, warnings := Partition([]ValidationError{
		{Message: "a", Severity: SeverityError},
		{Message: "b", Severity: SeverityWarning},
		{Message: "c", Severity: SeverityError},
	})
	if len(errs) != 2 || len(warnings) != 1 {
		t.Errorf("Partition = %d errors, %d warnings", len(errs), len(warnings))
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "oops", Severity: SeverityWarning}
	if e.Error() != "[warning] oops" {
		t.Errorf("Error() = %q", e.Error())
	}
	id := NewNodeID("x")
	e = ValidationError{NodeID: id, Message: "bad", Severity: SeverityError}
	if !strings.Contains(e.Error(), id.Short()) {
		t.Errorf("Error() = %q, want node id", e.Error())
	}
}
