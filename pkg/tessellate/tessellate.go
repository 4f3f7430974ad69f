// Package tessellate walks a scene graph and produces the runtime scene the
// snap resolver queries. Mesh, curve and proxy nodes are converted directly;
// solids are meshed through a geometry kernel and welded into polygons.
package tessellate

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/geom"
	"github.com/chazu/snapcursor/pkg/graph"
	"github.com/chazu/snapcursor/pkg/kernel"
	"github.com/chazu/snapcursor/pkg/scene"
)

// DefaultWeldTolerance merges kernel vertices closer than this.
const DefaultWeldTolerance = 1e-6

// Options controls scene construction.
type Options struct {
	// CurveResolution is used for curves that leave their resolution unset.
	CurveResolution int
	// WeldTolerance is the grid size for merging solid mesh vertices.
	WeldTolerance float64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		CurveResolution: scene.DefaultCurveResolution,
		WeldTolerance:   DefaultWeldTolerance,
	}
}

// transformStack accumulates world matrices during graph traversal.
type transformStack struct {
	matrices []sdf.M44
	hidden   []bool
}

func newTransformStack() *transformStack {
	return &transformStack{
		matrices: []sdf.M44{sdf.Identity3d()},
		hidden:   []bool{false},
	}
}

func (ts *transformStack) push(m sdf.M44, hidden bool) {
	ts.matrices = append(ts.matrices, ts.top().Mul(m))
	ts.hidden = append(ts.hidden, ts.isHidden() || hidden)
}

func (ts *transformStack) pop() {
	if len(ts.matrices) > 1 {
		ts.matrices = ts.matrices[:len(ts.matrices)-1]
		ts.hidden = ts.hidden[:len(ts.hidden)-1]
	}
}

// top returns the accumulated world matrix.
func (ts *transformStack) top() sdf.M44 {
	return ts.matrices[len(ts.matrices)-1]
}

// isHidden reports whether any enclosing node is hidden.
func (ts *transformStack) isHidden() bool {
	return ts.hidden[len(ts.hidden)-1]
}

// builder carries the traversal state of one Build call.
type builder struct {
	g    *graph.SceneGraph
	k    kernel.Kernel
	opts Options
	ts   *transformStack
	out  []*scene.Object
}

// Build walks the scene graph from its roots, in order, and produces a scene
// with one object per mesh, curve, solid and proxy node. The graph is never
// mutated. A nil kernel is allowed when the graph has no solids.
func Build(g *graph.SceneGraph, k kernel.Kernel, opts Options) (*scene.Scene, error) {
	sc := scene.New()
	if g == nil {
		return sc, nil
	}
	if opts.CurveResolution <= 0 {
		opts.CurveResolution = scene.DefaultCurveResolution
	}
	if opts.WeldTolerance <= 0 {
		opts.WeldTolerance = DefaultWeldTolerance
	}

	b := &builder{g: g, k: k, opts: opts, ts: newTransformStack()}
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		if err := b.walkNode(root); err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
	}

	sc.Add(b.out...)
	return sc, nil
}

// walkNode recursively traverses a node and its children, collecting objects.
func (b *builder) walkNode(n *graph.Node) error {
	switch n.Kind {
	case graph.NodeMesh:
		return b.handleMesh(n)

	case graph.NodeCurve:
		return b.handleCurve(n)

	case graph.NodeSolid:
		return b.handleSolid(n)

	case graph.NodeProxy:
		return b.handleProxy(n)

	case graph.NodeTransform:
		return b.handleTransform(n)

	case graph.NodeGroup:
		return b.handleGroup(n)

	case graph.NodeCSG:
		return fmt.Errorf("csg node %s outside a solid", n.ID.Short())

	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// emit records an object at the current transform.
func (b *builder) emit(n *graph.Node, data scene.Data) {
	name := n.Name
	if name == "" {
		name = n.ID.Short()
	}
	obj := scene.NewObject(name, data)
	obj.Matrix = b.ts.top()
	obj.Visible = !n.Hidden && !b.ts.isHidden()
	b.out = append(b.out, obj)
}

func (b *builder) handleMesh(n *graph.Node) error {
	md, ok := n.Data.(graph.MeshData)
	if !ok {
		return fmt.Errorf("mesh node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	mods := make([]scene.Modifier, 0, len(md.Modifiers))
	for _, m := range md.Modifiers {
		switch m.Kind {
		case graph.ModArray:
			mods = append(mods, scene.ArrayModifier{Count: m.Count, Offset: toVec(m.Offset)})
		case graph.ModDisplace:
			mods = append(mods, scene.DisplaceModifier{Offset: toVec(m.Offset)})
		default:
			return fmt.Errorf("mesh node %s: unsupported modifier %s", n.ID.Short(), m.Kind)
		}
	}
	b.emit(n, scene.MeshData{Mesh: polygonMesh(md.Vertices, md.Faces), Modifiers: mods})
	return nil
}

func (b *builder) handleCurve(n *graph.Node) error {
	cd, ok := n.Data.(graph.CurveData)
	if !ok {
		return fmt.Errorf("curve node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	c := &scene.Curve{Resolution: cd.Resolution}
	if c.Resolution <= 0 {
		c.Resolution = b.opts.CurveResolution
	}
	for _, sd := range cd.Splines {
		sp := scene.Spline{Cyclic: sd.Cyclic}
		switch sd.Kind {
		case graph.SplineBezier:
			sp.Kind = scene.SplineBezier
			for _, k := range sd.Knots {
				sp.BezierPoints = append(sp.BezierPoints, scene.BezierPoint{
					Co:          toVec(k.Co),
					HandleLeft:  toVec(k.Left),
					HandleRight: toVec(k.Right),
				})
			}
		case graph.SplinePoly:
			sp.Kind = scene.SplinePoly
			for _, p := range sd.Points {
				sp.Points = append(sp.Points, toVec(p))
			}
		}
		c.Splines = append(c.Splines, sp)
	}
	b.emit(n, scene.CurveData{Curve: c})
	return nil
}

func (b *builder) handleProxy(n *graph.Node) error {
	pd, ok := n.Data.(graph.ProxyData)
	if !ok {
		return fmt.Errorf("proxy node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	b.emit(n, scene.OtherData{Proxy: polygonMesh(pd.Vertices, pd.Faces)})
	return nil
}

// handleSolid builds the CSG tree through the kernel and welds the resulting
// triangles into a polygon mesh in the solid's local space.
func (b *builder) handleSolid(n *graph.Node) error {
	if b.k == nil {
		return fmt.Errorf("solid %q needs a geometry kernel", n.Name)
	}
	children := b.g.Children(n)
	if len(children) != 1 {
		return fmt.Errorf("solid %q needs exactly one CSG child, has %d", n.Name, len(children))
	}
	solid, err := b.buildCSG(children[0])
	if err != nil {
		return fmt.Errorf("solid %q: %w", n.Name, err)
	}
	km, err := b.k.ToMesh(solid)
	if err != nil {
		return fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	if n.Name != "" {
		km.Name = n.Name
	} else {
		km.Name = n.ID.Short()
	}
	b.emit(n, scene.MeshData{Mesh: Weld(km, b.opts.WeldTolerance)})
	return nil
}

// buildCSG converts a CSG subtree into a kernel solid. Each node's rotation
// is applied first, then its translation.
func (b *builder) buildCSG(n *graph.Node) (kernel.Solid, error) {
	d, ok := n.Data.(graph.CSGData)
	if !ok || n.Kind != graph.NodeCSG {
		return nil, fmt.Errorf("node %s is %s, not csg", n.ID.Short(), n.Kind)
	}

	var solid kernel.Solid
	switch d.Op {
	case graph.CSGBox:
		solid = b.k.Box(d.Size.X, d.Size.Y, d.Size.Z)
	case graph.CSGCylinder:
		solid = b.k.Cylinder(d.Height, d.Radius)
	case graph.CSGSphere:
		solid = b.k.Sphere(d.Radius)
	case graph.CSGUnion, graph.CSGDifference, graph.CSGIntersection:
		ops := b.g.Children(n)
		if len(ops) < 2 {
			return nil, fmt.Errorf("%s needs at least 2 operands, has %d", d.Op, len(ops))
		}
		acc, err := b.buildCSG(ops[0])
		if err != nil {
			return nil, err
		}
		for _, op := range ops[1:] {
			next, err := b.buildCSG(op)
			if err != nil {
				return nil, err
			}
			switch d.Op {
			case graph.CSGUnion:
				acc = b.k.Union(acc, next)
			case graph.CSGDifference:
				acc = b.k.Difference(acc, next)
			default:
				acc = b.k.Intersection(acc, next)
			}
		}
		solid = acc
	default:
		return nil, fmt.Errorf("unknown csg op %v", d.Op)
	}

	if r := d.Rotate; r.X != 0 || r.Y != 0 || r.Z != 0 {
		solid = b.k.Rotate(solid, r.X, r.Y, r.Z)
	}
	if t := d.At; t.X != 0 || t.Y != 0 || t.Z != 0 {
		solid = b.k.Translate(solid, t.X, t.Y, t.Z)
	}
	return solid, nil
}

// handleTransform pushes the transform, recurses into children, then pops.
func (b *builder) handleTransform(n *graph.Node) error {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	translation := v3.Vec{}
	rotation := v3.Vec{}
	scale := v3.Vec{X: 1, Y: 1, Z: 1}
	if td.Translation != nil {
		translation = toVec(*td.Translation)
	}
	if td.Rotation != nil {
		rotation = toVec(*td.Rotation)
	}
	if td.Scale != nil {
		scale = toVec(*td.Scale)
	}

	b.ts.push(geom.Transform(translation, rotation, scale), n.Hidden)
	defer b.ts.pop()
	return b.walkChildren(n)
}

// handleGroup recurses into children; a hidden group hides its subtree.
func (b *builder) handleGroup(n *graph.Node) error {
	b.ts.push(sdf.Identity3d(), n.Hidden)
	defer b.ts.pop()
	return b.walkChildren(n)
}

func (b *builder) walkChildren(n *graph.Node) error {
	for _, child := range b.g.Children(n) {
		if err := b.walkNode(child); err != nil {
			return err
		}
	}
	return nil
}

// polygonMesh converts authored vertices and faces into a scene mesh.
func polygonMesh(verts []graph.Vec3, faces [][]int) *scene.Mesh {
	m := &scene.Mesh{
		Vertices: make([]v3.Vec, len(verts)),
		Polygons: make([]scene.Polygon, len(faces)),
	}
	for i, v := range verts {
		m.Vertices[i] = toVec(v)
	}
	for i, f := range faces {
		m.Polygons[i] = scene.Polygon{Vertices: append([]int(nil), f...)}
	}
	return m
}

// Weld merges kernel vertices closer than tolerance and returns a mesh of
// triangle polygons over the shared vertices. Vertices are bucketed on a
// tolerance-sized grid and matched against the 27 surrounding cells, so
// near-coincident vertices on either side of a cell boundary still merge.
// Triangles that collapse after welding are dropped.
func Weld(km *kernel.Mesh, tolerance float64) *scene.Mesh {
	if tolerance <= 0 {
		tolerance = DefaultWeldTolerance
	}
	type cell struct{ x, y, z int64 }
	buckets := make(map[cell][]int, km.VertexCount())
	remap := make([]int, km.VertexCount())

	m := &scene.Mesh{}
	for i := 0; i < km.VertexCount(); i++ {
		p := km.Position(i)
		v := v3.Vec{X: p[0], Y: p[1], Z: p[2]}
		c := cell{
			int64(math.Floor(v.X / tolerance)),
			int64(math.Floor(v.Y / tolerance)),
			int64(math.Floor(v.Z / tolerance)),
		}

		idx := -1
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range buckets[cell{c.x + dx, c.y + dy, c.z + dz}] {
						if m.Vertices[j].Sub(v).Length() <= tolerance {
							idx = j
							break search
						}
					}
				}
			}
		}
		if idx < 0 {
			idx = len(m.Vertices)
			m.Vertices = append(m.Vertices, v)
			buckets[c] = append(buckets[c], idx)
		}
		remap[i] = idx
	}

	for t := 0; t < km.TriangleCount(); t++ {
		tri := km.Triangle(t)
		a, b, c := remap[tri[0]], remap[tri[1]], remap[tri[2]]
		if a == b || b == c || a == c {
			continue
		}
		m.Polygons = append(m.Polygons, scene.Polygon{Vertices: []int{a, b, c}})
	}
	return m
}

func toVec(v graph.Vec3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
