package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/config"
	"github.com/chazu/snapcursor/pkg/snap"
)

// testApp uses a coarse kernel so solid examples mesh quickly.
func testApp() *App {
	cfg := config.Default()
	cfg.Kernel.Cells = 24
	return NewApp(cfg)
}

func loadExample(t *testing.T, app *App, name string) *Workspace {
	t.Helper()
	ws, err := app.LoadFile(filepath.Join("examples", name))
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return ws
}

// TestE2ECubeExample exercises the full pipeline: source → engine → graph →
// scene → resolver, snapping to the cube corner nearest the camera.
func TestE2ECubeExample(t *testing.T) {
	app := testApp()
	ws := loadExample(t, app, "cube.scn")

	objs := ws.Scene.Objects()
	if len(objs) != 1 || objs[0].Name != "cube" {
		t.Fatalf("objects = %v", objs)
	}

	corner := v3.Vec{X: 1, Y: -1, Z: 1}
	p, ok := ws.Camera.WorldToScreen(corner)
	if !ok {
		t.Fatal("corner does not project")
	}
	p.X += 4

	c := app.Resolver(ws).Resolve(p)
	if c.Kind != snap.KindVertex {
		t.Fatalf("kind = %s, want vertex", c.Kind)
	}
	if c.Point.Sub(corner).Length() > 1e-9 {
		t.Errorf("point = %v, want %v", c.Point, corner)
	}
	if ws.Scene.LiveMeshes() != 0 {
		t.Errorf("%d evaluated meshes leaked", ws.Scene.LiveMeshes())
	}
}

func TestE2EWorkbenchExample(t *testing.T) {
	app := testApp()
	src, err := os.ReadFile("examples/workbench.scn")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	ws, result := app.Evaluate(string(src))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	want := []string{"floor", "top", "leg-l", "leg-r", "cable", "wall", "spare"}
	if len(result.Objects) != len(want) {
		t.Fatalf("got %d objects, want %d: %+v", len(result.Objects), len(want), result.Objects)
	}
	for i, name := range want {
		if result.Objects[i].Name != name {
			t.Errorf("object %d = %q, want %q", i, result.Objects[i].Name, name)
		}
	}

	byName := map[string]ObjectData{}
	for _, o := range result.Objects {
		byName[o.Name] = o
	}
	if byName["spare"].Visible {
		t.Error("spare should be hidden")
	}
	if byName["leg-l"].Vertices != 16 {
		t.Errorf("leg-l vertices = %d, want 16 after array", byName["leg-l"].Vertices)
	}
	if byName["cable"].Kind != "curve" || byName["wall"].Kind != "other" {
		t.Errorf("kinds: cable=%s wall=%s", byName["cable"].Kind, byName["wall"].Kind)
	}
	if byName["top"].Vertices == 0 {
		t.Error("solid top has no vertices")
	}
	if ws.Camera.FOV != 45 {
		t.Errorf("fov = %g, want 45 from the program camera", ws.Camera.FOV)
	}
}

func TestE2EEmptySource(t *testing.T) {
	app := testApp()
	ws, result := app.Evaluate("")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if ws == nil || len(ws.Scene.Objects()) != 0 {
		t.Fatal("expected an empty workspace")
	}

	// Everything falls through to free space.
	center := v2.Vec{X: float64(ws.Camera.Width) / 2, Y: float64(ws.Camera.Height) / 2}
	c := app.Resolver(ws).Resolve(center)
	if c.Kind != snap.KindFreeSpace {
		t.Errorf("kind = %s, want free-space", c.Kind)
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := testApp()
	ws, result := app.Evaluate(`(cube "test"`)
	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if ws != nil {
		t.Error("expected no workspace on error")
	}
}

func TestLoadFileJoinsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.scn")
	if err := os.WriteFile(path, []byte(`(cube "a" :size -1)`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := testApp().LoadFile(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad.scn") || !strings.Contains(err.Error(), "size") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := testApp().LoadFile("examples/nope.scn"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultCameraUsesConfiguredFOV(t *testing.T) {
	cfg := config.Default()
	cfg.View.FOV = 30
	cfg.View.Width, cfg.View.Height = 320, 240
	ws, result := NewApp(cfg).Evaluate(`(cube "c")`)
	if ws == nil {
		t.Fatalf("errors: %v", result.Errors)
	}
	if ws.Camera.FOV != 30 || ws.Camera.Width != 320 || ws.Camera.Height != 240 {
		t.Errorf("camera = fov %g size %dx%d", ws.Camera.FOV, ws.Camera.Width, ws.Camera.Height)
	}
}

func TestRunResolveCommand(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{
		"-config", filepath.Join(t.TempDir(), "none.toml"),
		"resolve", "-scene", "examples/cube.scn", "-x", "5", "-y", "5", "-explain",
	}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	var got struct {
		Kind     string `json:"kind"`
		Attempts []struct {
			Source string `json:"source"`
		} `json:"attempts"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if got.Kind != "free-space" {
		t.Errorf("kind = %q, want free-space in the corner", got.Kind)
	}
	if len(got.Attempts) == 0 || got.Attempts[0].Source != "vertex" {
		t.Errorf("attempts = %+v", got.Attempts)
	}
}

func TestRunRenderCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "out.png")
	var out, errb bytes.Buffer
	code := run([]string{
		"-config", filepath.Join(t.TempDir(), "none.toml"),
		"render", "-scene", "examples/cube.scn", "-o", png, "-x", "400", "-y", "300",
	}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	if info, err := os.Stat(png); err != nil || info.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"explode"}, 2},
		{"missing scene", []string{"resolve"}, 1},
		{"bad config", []string{"-config", "examples/workbench.scn", "resolve"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errb bytes.Buffer
			if got := run(tt.args, &out, &errb); got != tt.code {
				t.Errorf("exit = %d, want %d (stderr %q)", got, tt.code, errb.String())
			}
		})
	}
}
