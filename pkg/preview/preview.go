// Package preview rasterizes a wireframe view of a scene together with the
// 3D cursor and the last snap result. Images are drawn with gogpu/gg and
// written as PNG.
package preview

import (
	"fmt"
	"io"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/gogpu/gg"

	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/snap"
)

// Projector maps world points to viewport pixels.
type Projector interface {
	WorldToScreen(p v3.Vec) (v2.Vec, bool)
}

// Scene is the subset of the scene the renderer reads.
type Scene interface {
	Objects() []*scene.Object
	EvaluatedMesh(o *scene.Object) *scene.MeshHandle
}

// Style holds the colors and sizes used when drawing.
type Style struct {
	Background gg.RGBA
	Wire       gg.RGBA
	Hidden     gg.RGBA
	Curve      gg.RGBA
	Proxy      gg.RGBA
	Cursor     gg.RGBA
	Pointer    gg.RGBA

	LineWidth    float64
	MarkerRadius float64
	// ShowHidden draws hidden objects dashed instead of skipping them.
	ShowHidden bool
	// Opacity scales the alpha of every wire color. Zero hides wires.
	Opacity float64
}

// DefaultStyle returns a light theme.
func DefaultStyle() Style {
	return Style{
		Background:   gg.White,
		Wire:         gg.Hex("#303030"),
		Hidden:       gg.Hex("#b0b0b0"),
		Curve:        gg.Hex("#1f6fb2"),
		Proxy:        gg.Hex("#8a8a8a"),
		Cursor:       gg.Hex("#d62728"),
		Pointer:      gg.Hex("#444444"),
		LineWidth:    1,
		MarkerRadius: 5,
		Opacity:      1,
	}
}

// KindColor returns the marker color used for a snap result of kind k.
func KindColor(k snap.Kind) gg.RGBA {
	switch k {
	case snap.KindVertex:
		return gg.Hex("#ff7f0e")
	case snap.KindEdgeMidpoint:
		return gg.Hex("#2ca02c")
	case snap.KindFaceCenter, snap.KindFaceHit:
		return gg.Hex("#1f77b4")
	case snap.KindCurvePoint:
		return gg.Hex("#9467bd")
	case snap.KindSurface:
		return gg.Hex("#8c564b")
	default:
		return gg.Hex("#7f7f7f")
	}
}

// Frame is the per-image state layered over the scene.
type Frame struct {
	Cursor    *v3.Vec
	Candidate *snap.Candidate
	// Pointer is the query position in pixels.
	Pointer *v2.Vec
}

// Renderer draws scenes at a fixed size.
type Renderer struct {
	Width, Height int
	Style         Style
}

// New returns a renderer producing width x height images in the default
// style.
func New(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height, Style: DefaultStyle()}
}

// MaxDimension is the largest width or height Render accepts.
const MaxDimension = 4096

// Render draws sc as seen through p. The caller owns the returned context
// and must Close it.
func (r *Renderer) Render(sc Scene, p Projector, f Frame) (*gg.Context, error) {
	if r.Width <= 0 || r.Height <= 0 || r.Width > MaxDimension || r.Height > MaxDimension {
		return nil, fmt.Errorf("preview: invalid size %dx%d", r.Width, r.Height)
	}
	dc := gg.NewContext(r.Width, r.Height)
	dc.ClearWithColor(r.Style.Background)
	dc.SetLineWidth(r.Style.LineWidth)

	if r.Style.Opacity > 0 {
		for _, o := range sc.Objects() {
			if !o.Visible && !r.Style.ShowHidden {
				continue
			}
			if err := r.drawObject(dc, sc, p, o); err != nil {
				dc.Close()
				return nil, fmt.Errorf("preview: object %q: %w", o.Name, err)
			}
		}
	}
	if err := r.drawFrame(dc, p, f); err != nil {
		dc.Close()
		return nil, fmt.Errorf("preview: %w", err)
	}
	return dc, nil
}

// WritePNG renders and encodes the image to w.
func (r *Renderer) WritePNG(w io.Writer, sc Scene, p Projector, f Frame) error {
	dc, err := r.Render(sc, p, f)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG renders and writes the image to path.
func (r *Renderer) SavePNG(path string, sc Scene, p Projector, f Frame) error {
	dc, err := r.Render(sc, p, f)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(path)
}

func (r *Renderer) setColor(dc *gg.Context, c gg.RGBA) {
	dc.SetRGBA(c.R, c.G, c.B, c.A*r.Style.Opacity)
}

func (r *Renderer) drawObject(dc *gg.Context, sc Scene, p Projector, o *scene.Object) error {
	if !o.Visible {
		dc.SetDash(4, 3)
		defer dc.SetDash()
	}
	switch data := o.Data.(type) {
	case scene.MeshData:
		h := sc.EvaluatedMesh(o)
		if h == nil {
			return nil
		}
		defer h.Release()
		r.setColor(dc, r.pick(o, r.Style.Wire))
		return r.strokeMesh(dc, p, o, h.Mesh)
	case scene.CurveData:
		if data.Curve == nil {
			return nil
		}
		r.setColor(dc, r.pick(o, r.Style.Curve))
		res := data.Curve.Resolution
		if res <= 0 {
			res = scene.DefaultCurveResolution
		}
		for _, sp := range data.Curve.Splines {
			pts := sp.Evaluate(res)
			if sp.Cyclic && len(pts) > 2 {
				pts = append(pts, pts[0])
			}
			if err := r.strokePath(dc, p, o, pts); err != nil {
				return err
			}
		}
		for _, cp := range data.Curve.ControlPoints() {
			if s, ok := p.WorldToScreen(o.ToWorld(cp)); ok {
				dc.DrawPoint(s.X, s.Y, 2)
			}
		}
		return dc.Fill()
	case scene.OtherData:
		if data.Proxy == nil {
			return nil
		}
		r.setColor(dc, r.pick(o, r.Style.Proxy))
		return r.strokeMesh(dc, p, o, data.Proxy)
	}
	return nil
}

func (r *Renderer) pick(o *scene.Object, c gg.RGBA) gg.RGBA {
	if !o.Visible {
		return r.Style.Hidden
	}
	return c
}

// strokeMesh draws every polygon edge whose endpoints both project.
func (r *Renderer) strokeMesh(dc *gg.Context, p Projector, o *scene.Object, m *scene.Mesh) error {
	if m == nil || len(m.Polygons) == 0 {
		return nil
	}
	screen := make([]v2.Vec, len(m.Vertices))
	ok := make([]bool, len(m.Vertices))
	for i, v := range m.Vertices {
		screen[i], ok[i] = p.WorldToScreen(o.ToWorld(v))
	}
	for _, poly := range m.Polygons {
		for e := 0; e < poly.EdgeCount(); e++ {
			a, b := poly.Edge(e)
			if a < 0 || b < 0 || a >= len(screen) || b >= len(screen) || !ok[a] || !ok[b] {
				continue
			}
			dc.MoveTo(screen[a].X, screen[a].Y)
			dc.LineTo(screen[b].X, screen[b].Y)
		}
	}
	return dc.Stroke()
}

// strokePath draws a polyline through pts, breaking it where a point does
// not project.
func (r *Renderer) strokePath(dc *gg.Context, p Projector, o *scene.Object, pts []v3.Vec) error {
	if len(pts) < 2 {
		return nil
	}
	pen := false
	for _, pt := range pts {
		s, ok := p.WorldToScreen(o.ToWorld(pt))
		if !ok {
			pen = false
			continue
		}
		if pen {
			dc.LineTo(s.X, s.Y)
		} else {
			dc.MoveTo(s.X, s.Y)
			pen = true
		}
	}
	return dc.Stroke()
}

func (r *Renderer) drawFrame(dc *gg.Context, p Projector, f Frame) error {
	rad := r.Style.MarkerRadius
	var target *v2.Vec
	if f.Candidate != nil {
		if s, ok := p.WorldToScreen(f.Candidate.Point); ok {
			target = &s
		}
	}

	if f.Pointer != nil && target != nil {
		c := r.Style.Pointer
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetDash(2, 2)
		dc.DrawLine(f.Pointer.X, f.Pointer.Y, target.X, target.Y)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.SetDash()
	}
	if f.Pointer != nil {
		c := r.Style.Pointer
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.DrawLine(f.Pointer.X-rad, f.Pointer.Y, f.Pointer.X+rad, f.Pointer.Y)
		dc.DrawLine(f.Pointer.X, f.Pointer.Y-rad, f.Pointer.X, f.Pointer.Y+rad)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	if target != nil {
		c := KindColor(f.Candidate.Kind)
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.DrawCircle(target.X, target.Y, rad)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if f.Cursor != nil {
		s, ok := p.WorldToScreen(*f.Cursor)
		if !ok {
			return nil
		}
		c := r.Style.Cursor
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetLineWidth(2)
		dc.DrawCircle(s.X, s.Y, rad*2)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.DrawLine(s.X-rad*3, s.Y, s.X-rad, s.Y)
		dc.DrawLine(s.X+rad, s.Y, s.X+rad*3, s.Y)
		dc.DrawLine(s.X, s.Y-rad*3, s.X, s.Y-rad)
		dc.DrawLine(s.X, s.Y+rad, s.X, s.Y+rad*3)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.SetLineWidth(r.Style.LineWidth)
	}
	return nil
}
