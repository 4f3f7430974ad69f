package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/view"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	w, h := m.mapSize()

	header := titleStyle.Render(" " + m.title + " ─ 3D cursor snapping ")
	header = lipgloss.NewStyle().Width(w).Render(header)

	canvas := m.renderCanvas(w, h)
	body := lipgloss.NewStyle().Width(w).Height(h).Render(canvas)

	c := m.cursor.Location()
	state := m.ctrl.State().String()
	status := dimStyle.Render(fmt.Sprintf(" %s │ cursor %.2f %.2f %.2f │ %s ", state, c.X, c.Y, c.Z, m.status))
	footer := lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(w).Height(m.height).Render(ui)
}

// dot projects a world point into braille dot coordinates.
func dot(vp view.Viewpoint, p v3.Vec) (int, int, bool) {
	s, ok := vp.WorldToScreen(p)
	if !ok || math.IsNaN(s.X) || math.IsNaN(s.Y) {
		return 0, 0, false
	}
	return int(s.X * dotsX / cellPxW), int(s.Y * dotsY / cellPxH), true
}

// cell projects a world point into a terminal cell of the canvas.
func cell(vp view.Viewpoint, p v3.Vec) (int, int, bool) {
	s, ok := vp.WorldToScreen(p)
	if !ok {
		return 0, 0, false
	}
	return int(math.Floor(s.X / cellPxW)), int(math.Floor(s.Y / cellPxH)), true
}

func (m Model) renderCanvas(w, h int) string {
	vp := m.sess.viewpoint()
	sc := m.sess.scene
	wire := m.overlay.OverlayState()

	mesh := newBrailleBuf(w, h)
	curves := newBrailleBuf(w, h)
	for _, o := range sc.VisibleObjects() {
		switch d := o.Data.(type) {
		case scene.MeshData:
			hd := sc.EvaluatedMesh(o)
			if hd == nil {
				continue
			}
			drawMesh(mesh, vp, o, hd.Mesh, wire.ShowWireframes && wire.WireframeOpacity > 0)
			hd.Release()
		case scene.OtherData:
			if d.Proxy != nil {
				drawMesh(mesh, vp, o, d.Proxy, wire.ShowWireframes && wire.WireframeOpacity > 0)
			}
		case scene.CurveData:
			if d.Curve == nil {
				continue
			}
			res := d.Curve.Resolution
			if res <= 0 {
				res = scene.DefaultCurveResolution
			}
			for _, sp := range d.Curve.Splines {
				pts := sp.Evaluate(res)
				if sp.Cyclic && len(pts) > 2 {
					pts = append(pts, pts[0])
				}
				drawPolyline(curves, vp, o, pts)
			}
		}
	}

	base := mesh.lines()
	over := curves.lines()
	styled := make([][]string, h)
	for y := 0; y < h; y++ {
		styled[y] = make([]string, w)
		for x := 0; x < w; x++ {
			switch {
			case over[y][x] != ' ':
				styled[y][x] = curveStyle.Render(string(over[y][x]))
			default:
				styled[y][x] = string(base[y][x])
			}
		}
	}

	put := func(p v3.Vec, glyph string) {
		cx, cy, ok := cell(vp, p)
		if ok && cx >= 0 && cx < w && cy >= 0 && cy < h {
			styled[cy][cx] = glyph
		}
	}
	if m.last != nil {
		put(m.last.Point, kindStyle(m.last.Kind).Render("◯"))
	}
	put(m.cursor.Location(), cursorStyle.Render("⊕"))

	rows := make([]string, h)
	for y := range styled {
		rows[y] = strings.Join(styled[y], "")
	}
	return strings.Join(rows, "\n")
}

// drawMesh draws polygon edges, or only vertices when edges are off.
func drawMesh(b *brailleBuf, vp view.Viewpoint, o *scene.Object, m *scene.Mesh, edges bool) {
	type pt struct {
		x, y int
		ok   bool
	}
	pts := make([]pt, len(m.Vertices))
	for i, v := range m.Vertices {
		x, y, ok := dot(vp, o.ToWorld(v))
		pts[i] = pt{x, y, ok}
		if ok && !edges {
			b.set(x, y)
		}
	}
	if !edges {
		return
	}
	for _, poly := range m.Polygons {
		for e := 0; e < poly.EdgeCount(); e++ {
			i, j := poly.Edge(e)
			if i < 0 || j < 0 || i >= len(pts) || j >= len(pts) {
				continue
			}
			a, c := pts[i], pts[j]
			if a.ok && c.ok {
				b.line(a.x, a.y, c.x, c.y)
			}
		}
	}
}

func drawPolyline(b *brailleBuf, vp view.Viewpoint, o *scene.Object, pts []v3.Vec) {
	px, py, pen := 0, 0, false
	for _, p := range pts {
		x, y, ok := dot(vp, o.ToWorld(p))
		if !ok {
			pen = false
			continue
		}
		if pen {
			b.line(px, py, x, y)
		} else {
			b.set(x, y)
		}
		px, py, pen = x, y, true
	}
}
