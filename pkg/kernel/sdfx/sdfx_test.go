package sdfx

import (
	"math"
	"testing"
)

func checkBounds(t *testing.T, gotMin, gotMax, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if math.Abs(gotMin[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, gotMin[i], wantMin[i])
		}
		if math.Abs(gotMax[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, gotMax[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := NewWithCells(16)
	mesh, err := k.ToMesh(k.Box(4, 2, 1))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() || mesh.TriangleCount() == 0 {
		t.Fatal("box mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3", len(mesh.Indices))
	}
}

func TestBoxIsCentered(t *testing.T) {
	k := New()
	min, max := k.Box(100, 50, 25).BoundingBox()
	checkBounds(t, min, max, [3]float64{-50, -25, -12.5}, [3]float64{50, 25, 12.5}, 0.01)
}

func TestSphereAndCylinder(t *testing.T) {
	k := NewWithCells(16)

	min, max := k.Sphere(3).BoundingBox()
	checkBounds(t, min, max, [3]float64{-3, -3, -3}, [3]float64{3, 3, 3}, 0.01)

	cyl := k.Cylinder(10, 2)
	min, max = cyl.BoundingBox()
	checkBounds(t, min, max, [3]float64{-2, -2, -5}, [3]float64{2, 2, 5}, 0.01)

	mesh, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("cylinder mesh is empty")
	}
}

func TestBooleans(t *testing.T) {
	k := NewWithCells(24)
	box := k.Box(10, 10, 10)
	other := k.Translate(k.Box(10, 10, 10), 5, 0, 0)

	min, max := k.Union(box, other).BoundingBox()
	if math.Abs(min[0]+5) > 0.5 || math.Abs(max[0]-10) > 0.5 {
		t.Errorf("union x extent %f..%f, want -5..10", min[0], max[0])
	}

	inter, err := k.ToMesh(k.Intersection(box, other))
	if err != nil || inter.IsEmpty() {
		t.Fatalf("intersection mesh empty: %v", err)
	}

	diff := k.Difference(box, k.Cylinder(12, 2))
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Errorf("difference (%d triangles) should have more triangles than box (%d)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	min, max := k.Translate(k.Box(10, 10, 10), 100, 200, 300).BoundingBox()
	checkBounds(t, min, max, [3]float64{95, 195, 295}, [3]float64{105, 205, 305}, 0.5)
}

func TestRotate(t *testing.T) {
	k := New()
	// A long box along X rotated 90 degrees around Z extends along Y.
	min, max := k.Rotate(k.Box(100, 10, 10), 0, 0, 90).BoundingBox()

	if math.Abs((max[0]-min[0])-10) > 1.0 {
		t.Errorf("rotated X extent = %f, expected ~10", max[0]-min[0])
	}
	if math.Abs((max[1]-min[1])-100) > 1.0 {
		t.Errorf("rotated Y extent = %f, expected ~100", max[1]-min[1])
	}
}

func TestNewWithCells(t *testing.T) {
	if got := NewWithCells(0).Cells(); got != DefaultMeshCells {
		t.Errorf("Cells() = %d, want default %d", got, DefaultMeshCells)
	}
	if got := NewWithCells(8).Cells(); got != 8 {
		t.Errorf("Cells() = %d, want 8", got)
	}
	if _, err := New().ToMesh(nil); err == nil {
		t.Error("ToMesh(nil) should fail")
	}
}
