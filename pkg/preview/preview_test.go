package preview

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gogpu/gg"

	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/snap"
)

// flat maps world XY straight to pixels.
type flat struct{}

func (flat) WorldToScreen(p v3.Vec) (v2.Vec, bool) { return v2.Vec{X: p.X, Y: p.Y}, true }

// square is a 60x60 quad from (20,20) to (80,80).
func square() *scene.Mesh {
	return &scene.Mesh{
		Vertices: []v3.Vec{{X: 20, Y: 20}, {X: 80, Y: 20}, {X: 80, Y: 80}, {X: 20, Y: 80}},
		Polygons: []scene.Polygon{{Vertices: []int{0, 1, 2, 3}}},
	}
}

func pixel(dc *gg.Context, x, y int) gg.RGBA {
	return gg.FromColor(dc.Image().At(x, y))
}

func closeTo(a, b gg.RGBA) bool {
	const tol = 0.08
	return math.Abs(a.R-b.R) < tol && math.Abs(a.G-b.G) < tol && math.Abs(a.B-b.B) < tol
}

func testRenderer() *Renderer {
	r := New(100, 100)
	r.Style.LineWidth = 4
	return r
}

func TestRenderDrawsMeshEdges(t *testing.T) {
	sc := scene.New()
	sc.Add(scene.NewObject("quad", scene.MeshData{Mesh: square()}))

	dc, err := testRenderer().Render(sc, flat{}, Frame{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()

	if closeTo(pixel(dc, 50, 20), gg.White) {
		t.Error("edge pixel was not drawn")
	}
	if !closeTo(pixel(dc, 50, 50), gg.White) {
		t.Error("polygon interior should stay background")
	}
	if sc.LiveMeshes() != 0 {
		t.Errorf("LiveMeshes = %d after render, want 0", sc.LiveMeshes())
	}
}

func TestRenderSkipsHidden(t *testing.T) {
	sc := scene.New()
	o := scene.NewObject("quad", scene.MeshData{Mesh: square()})
	o.Visible = false
	sc.Add(o)

	r := testRenderer()
	dc, err := r.Render(sc, flat{}, Frame{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !closeTo(pixel(dc, 50, 20), gg.White) {
		t.Error("hidden object was drawn")
	}
	dc.Close()

	r.Style.ShowHidden = true
	r.Style.Hidden = gg.Black
	r.Style.LineWidth = 6
	dc, err = r.Render(sc, flat{}, Frame{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()
	if closeTo(pixel(dc, 21, 21), gg.White) {
		t.Error("hidden object not drawn with ShowHidden")
	}
}

func TestRenderZeroOpacityHidesWires(t *testing.T) {
	sc := scene.New()
	sc.Add(scene.NewObject("quad", scene.MeshData{Mesh: square()}))

	r := testRenderer()
	r.Style.Opacity = 0
	dc, err := r.Render(sc, flat{}, Frame{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()
	if !closeTo(pixel(dc, 50, 20), gg.White) {
		t.Error("wire drawn at zero opacity")
	}
}

func TestRenderCandidateMarker(t *testing.T) {
	sc := scene.New()
	for _, k := range []snap.Kind{snap.KindVertex, snap.KindEdgeMidpoint, snap.KindCurvePoint, snap.KindFreeSpace} {
		t.Run(k.String(), func(t *testing.T) {
			cand := &snap.Candidate{Point: v3.Vec{X: 50, Y: 50}, Kind: k}
			dc, err := testRenderer().Render(sc, flat{}, Frame{Candidate: cand})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			defer dc.Close()
			if got, want := pixel(dc, 50, 50), KindColor(k); !closeTo(got, want) {
				t.Errorf("marker pixel = %+v, want %+v", got, want)
			}
		})
	}
}

func TestRenderCurve(t *testing.T) {
	sc := scene.New()
	c := &scene.Curve{
		Splines: []scene.Spline{{
			Kind:   scene.SplinePoly,
			Points: []v3.Vec{{X: 10, Y: 50}, {X: 90, Y: 50}},
		}},
		Resolution: 4,
	}
	sc.Add(scene.NewObject("line", scene.CurveData{Curve: c}))

	dc, err := testRenderer().Render(sc, flat{}, Frame{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()
	if closeTo(pixel(dc, 50, 50), gg.White) {
		t.Error("curve was not drawn")
	}
}

func TestRenderInvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 10},
		{"negative height", 10, -1},
		{"too wide", MaxDimension + 1, 10},
		{"too tall", 10, 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.width, tt.height)
			if _, err := r.Render(scene.New(), flat{}, Frame{}); err == nil {
				t.Fatalf("expected error for %dx%d", tt.width, tt.height)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	sc := scene.New()
	sc.Add(scene.NewObject("quad", scene.MeshData{Mesh: square()}))
	cursor := v3.Vec{X: 30, Y: 30}
	ptr := v2.Vec{X: 40, Y: 40}

	var buf bytes.Buffer
	err := testRenderer().WritePNG(&buf, sc, flat{}, Frame{
		Cursor:    &cursor,
		Pointer:   &ptr,
		Candidate: &snap.Candidate{Point: v3.Vec{X: 20, Y: 20}, Kind: snap.KindVertex},
	})
	if err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatal("output is not a PNG")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := testRenderer().SavePNG(path, scene.New(), flat{}, Frame{}); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty file")
	}
}
