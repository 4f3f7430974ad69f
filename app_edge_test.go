package main

import (
	"strings"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/snap"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> empty workspace, 0 errors.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := testApp()
	_, result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Objects) != 0 {
		t.Errorf("expected 0 objects for empty source, got %d", len(result.Objects))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Objects == nil || result.Errors == nil || result.Warnings == nil {
		t.Error("result slices should be non-nil")
	}
}

func TestE2EWhitespaceAndComments(t *testing.T) {
	app := testApp()
	for _, src := range []string{"   \n\t\n", "; just a comment", ";; one\n;; two\n\n"} {
		ws, result := app.Evaluate(src)
		if len(result.Errors) != 0 || ws == nil {
			t.Errorf("source %q: errors %v", src, result.Errors)
		}
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax errors: unmatched parens -> eval error, no workspace.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := testApp()

	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(+ 1 2)\n(cube \"test\""
	ws, result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if ws != nil {
		t.Error("expected no workspace on syntax error")
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", result.Errors[0].Line, result.Errors[0].Col, result.Errors[0].Message)
}

func TestE2EUndefinedFunction(t *testing.T) {
	app := testApp()
	_, result := app.Evaluate(`(torus "donut")`)
	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for undefined function")
	}
}

// ---------------------------------------------------------------------------
// 3. Bad references: placing something that is not an object.
// ---------------------------------------------------------------------------

func TestE2EPlaceNonObject(t *testing.T) {
	app := testApp()
	_, result := app.Evaluate(`(place 42 :at (vec3 0 0 1))`)
	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for placing a number")
	}
}

func TestE2EDuplicateName(t *testing.T) {
	app := testApp()
	_, result := app.Evaluate("(cube \"a\")\n(plane \"a\")")
	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for duplicate name")
	}
	if !strings.Contains(result.Errors[0].Message, "duplicate") {
		t.Errorf("error = %q", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// 4. Degenerate geometry: must not panic, the resolver stays total.
// ---------------------------------------------------------------------------

func TestE2EDegenerateMeshes(t *testing.T) {
	app := testApp()
	sources := []string{
		`(mesh "empty")`,
		`(mesh "point" :verts [(vec3 0 0 0)])`,
		`(mesh "sliver" :verts [(vec3 0 0 0) (vec3 1 0 0) (vec3 2 0 0)] :faces [[0 1 2]])`,
		`(curve "nothing")`,
	}
	for _, src := range sources {
		ws, result := app.Evaluate(src)
		if ws == nil {
			t.Logf("%s: rejected (acceptable): %v", src, result.Errors)
			continue
		}
		c := app.Resolver(ws).Resolve(v2.Vec{X: 400, Y: 300})
		t.Logf("%s: resolved to %s", src, c.Kind)
	}
}

func TestE2EEmptyMeshWarns(t *testing.T) {
	app := testApp()
	ws, result := app.Evaluate(`(mesh "empty")`)
	if ws == nil {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for a mesh with no vertices")
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid evaluation: sequential calls recover between error and success.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := testApp()

	sources := []string{
		`(cube "ok")`,
		`(cube "broken"`,
		``,
		`(place "missing")`,
		`(plane "also-ok" :size 4)`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(solid "fine" (sphere :radius 1))`,
		`(undefined-func 1 2 3)`,
		`(curve "last" (poly (vec3 0 0 0) (vec3 1 0 0)))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_, _ = app.Evaluate(source)
		}()
	}

	ws, result := app.Evaluate(`(cube "after")`)
	if ws == nil || len(result.Objects) != 1 {
		t.Fatalf("engine did not recover: %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// 6. Arithmetic in programs: def and nested expressions feed sizes.
// ---------------------------------------------------------------------------

func TestE2ENestedArithmeticDef(t *testing.T) {
	app := testApp()
	source := `
(def half (/ 4.0 2))
(cube "c" :size (* half 2) :at (vec3 (+ 1 1) 0 0))
`
	ws, result := app.Evaluate(source)
	if ws == nil {
		t.Fatalf("errors: %v", result.Errors)
	}
	o, ok := ws.Scene.Lookup("c")
	if !ok {
		t.Fatal("cube c missing")
	}
	h := ws.Scene.EvaluatedMesh(o)
	defer h.Release()
	b := h.Mesh.Bounds()
	if b.Max.X != 4 || b.Min.X != 0 {
		t.Errorf("bounds x = [%g, %g], want [0, 4]", b.Min.X, b.Max.X)
	}
}

// ---------------------------------------------------------------------------
// 7. Priority through the whole pipeline: a vertex beats the curve passing
//    over it.
// ---------------------------------------------------------------------------

func TestE2EVertexBeatsCurve(t *testing.T) {
	app := testApp()
	source := `
(mesh "tri" :verts [(vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0)] :faces [[0 1 2]])
(curve "over" (poly (vec3 0 0 0) (vec3 0 0 1)))
(camera :eye (vec3 0.3 0.3 10) :target (vec3 0.3 0.3 0) :up (vec3 0 1 0))
`
	ws, result := app.Evaluate(source)
	if ws == nil {
		t.Fatalf("errors: %v", result.Errors)
	}
	p, ok := ws.Camera.WorldToScreen(v3.Vec{})
	if !ok {
		t.Fatal("origin does not project")
	}
	c := app.Resolver(ws).Resolve(p)
	if c.Kind != snap.KindVertex {
		t.Errorf("kind = %s, want vertex", c.Kind)
	}
}
