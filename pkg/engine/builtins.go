package engine

import (
	"fmt"

	"github.com/chazu/snapcursor/pkg/graph"
	"github.com/chazu/snapcursor/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// defaultArrayOffset is the step between array copies when none is given.
var defaultArrayOffset = graph.Vec3{X: 1}

// modifierKeywords are accepted by every mesh-producing form.
var modifierKeywords = []string{"array", "array-offset", "displace"}

// registerBuiltins installs the scene DSL builtins into a zygomys environment.
// The builtins populate b during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: graph.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh "name" :verts [(vec3 ..) ...] :faces [[0 1 2] ...] :array 3)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		objName, pa, err := namedForm("mesh", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.checkKeywords("mesh", append([]string{"verts", "faces"}, modifierKeywords...)...); err != nil {
			return zygo.SexpNull, err
		}
		md, err := polygonArgs("mesh", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addMesh(b, "mesh", objName, md, pa)
	})

	// -----------------------------------------------------------------------
	// (cube "name" :size 2 :at (vec3 0 0 1))
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return primitiveMesh(b, "cube", args, scene.Cube)
	})

	// -----------------------------------------------------------------------
	// (plane "name" :size 10)
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return primitiveMesh(b, "plane", args, scene.Plane)
	})

	// -----------------------------------------------------------------------
	// (knot (vec3 0 0 0) :left (vec3 -1 0 0) :right (vec3 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("knot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("knot requires a position")
		}
		if err := pa.checkKeywords("knot", "left", "right"); err != nil {
			return zygo.SexpNull, err
		}
		co, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("knot: %w", err)
		}
		k := graph.BezierKnot{Co: co, Left: co, Right: co}
		if v, ok := pa.kw["left"]; ok {
			if k.Left, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("knot: left: %w", err)
			}
		}
		if v, ok := pa.kw["right"]; ok {
			if k.Right, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("knot: right: %w", err)
			}
		}
		return &sexpKnot{knot: k}, nil
	})

	// -----------------------------------------------------------------------
	// (bezier (knot ...) (knot ...) :cyclic true)
	// -----------------------------------------------------------------------
	env.AddFunction("bezier", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.checkKeywords("bezier", "cyclic"); err != nil {
			return zygo.SexpNull, err
		}
		sp := graph.SplineData{Kind: graph.SplineBezier}
		for i, arg := range pa.positional {
			k, ok := arg.(*sexpKnot)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("bezier: point %d: expected knot, got %T (%s)", i, arg, arg.SexpString(nil))
			}
			sp.Knots = append(sp.Knots, k.knot)
		}
		var err error
		if sp.Cyclic, err = cyclicArg("bezier", pa); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSpline{spline: sp}, nil
	})

	// -----------------------------------------------------------------------
	// (poly (vec3 0 0 0) (vec3 1 0 0) :cyclic false)
	// -----------------------------------------------------------------------
	env.AddFunction("poly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.checkKeywords("poly", "cyclic"); err != nil {
			return zygo.SexpNull, err
		}
		sp := graph.SplineData{Kind: graph.SplinePoly}
		for i, arg := range pa.positional {
			v, err := toVec3(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("poly: point %d: %w", i, err)
			}
			sp.Points = append(sp.Points, v)
		}
		var err error
		if sp.Cyclic, err = cyclicArg("poly", pa); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSpline{spline: sp}, nil
	})

	// -----------------------------------------------------------------------
	// (curve "name" (bezier ...) (poly ...) :resolution 12)
	// -----------------------------------------------------------------------
	env.AddFunction("curve", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		objName, pa, err := namedForm("curve", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.checkKeywords("curve", "resolution"); err != nil {
			return zygo.SexpNull, err
		}
		cd := graph.CurveData{}
		for i, arg := range pa.positional[1:] {
			sp, ok := arg.(*sexpSpline)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("curve: spline %d: expected bezier or poly, got %T (%s)", i, arg, arg.SexpString(nil))
			}
			cd.Splines = append(cd.Splines, sp.spline)
		}
		if v, ok := pa.kw["resolution"]; ok {
			if cd.Resolution, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("curve: resolution: %w", err)
			}
		}
		return b.add("curve", &graph.Node{
			ID:   graph.NewNodeID(b.path("curve", objName)),
			Kind: graph.NodeCurve,
			Name: objName,
			Data: cd,
		})
	})

	// -----------------------------------------------------------------------
	// CSG operands: (box :size 2) (cylinder :radius 1 :height 2) (sphere :radius 1)
	// Every CSG form also takes :at and :rotate.
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.checkKeywords("box", "size", "at", "rotate"); err != nil {
			return zygo.SexpNull, err
		}
		d := graph.CSGData{Op: graph.CSGBox, Size: graph.Vec3{X: 1, Y: 1, Z: 1}}
		if v, ok := pa.kw["size"]; ok {
			var err error
			if d.Size, err = toExtent(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
		}
		return addCSG(b, d, nil, pa)
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.checkKeywords("cylinder", "radius", "height", "at", "rotate"); err != nil {
			return zygo.SexpNull, err
		}
		d := graph.CSGData{Op: graph.CSGCylinder, Radius: 0.5, Height: 1}
		var err error
		if v, ok := pa.kw["radius"]; ok {
			if d.Radius, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
			}
		}
		if v, ok := pa.kw["height"]; ok {
			if d.Height, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
			}
		}
		return addCSG(b, d, nil, pa)
	})

	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.checkKeywords("sphere", "radius", "at", "rotate"); err != nil {
			return zygo.SexpNull, err
		}
		d := graph.CSGData{Op: graph.CSGSphere, Radius: 0.5}
		if v, ok := pa.kw["radius"]; ok {
			var err error
			if d.Radius, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
		}
		return addCSG(b, d, nil, pa)
	})

	// -----------------------------------------------------------------------
	// (union a b ...) (difference a b ...) (intersection a b ...)
	// -----------------------------------------------------------------------
	for _, op := range []graph.CSGOp{graph.CSGUnion, graph.CSGDifference, graph.CSGIntersection} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if err := pa.checkKeywords(op.String(), "at", "rotate"); err != nil {
				return zygo.SexpNull, err
			}
			if len(pa.positional) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 operands, got %d", op, len(pa.positional))
			}
			operands := make([]graph.NodeID, 0, len(pa.positional))
			for i, arg := range pa.positional {
				ref, err := toNodeRef(arg, graph.NodeCSG)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i, err)
				}
				operands = append(operands, ref.id)
			}
			return addCSG(b, graph.CSGData{Op: op}, operands, pa)
		})
	}

	// -----------------------------------------------------------------------
	// (solid "name" (difference (box :size 2) (cylinder :radius 0.5 :height 3)))
	// -----------------------------------------------------------------------
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		objName, pa, err := namedForm("solid", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("solid %q requires exactly one CSG expression", objName)
		}
		if err := pa.checkKeywords("solid"); err != nil {
			return zygo.SexpNull, err
		}
		root, err := toNodeRef(pa.positional[1], graph.NodeCSG)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: %w", err)
		}
		return b.add("solid", &graph.Node{
			ID:       graph.NewNodeID(b.path("solid", objName)),
			Kind:     graph.NodeSolid,
			Name:     objName,
			Children: []graph.NodeID{root.id},
			Data:     graph.SolidData{},
		})
	})

	// -----------------------------------------------------------------------
	// (proxy "wall" :size 4 :at (vec3 0 0 2))
	// (proxy "wall" :verts [...] :faces [...])
	// -----------------------------------------------------------------------
	env.AddFunction("proxy", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		objName, pa, err := namedForm("proxy", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.checkKeywords("proxy", "verts", "faces", "size", "at"); err != nil {
			return zygo.SexpNull, err
		}

		var md graph.MeshData
		if _, ok := pa.kw["verts"]; ok {
			if md, err = polygonArgs("proxy", pa); err != nil {
				return zygo.SexpNull, err
			}
		} else {
			size, at, err := sizeAndAt("proxy", pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			md = fromSceneMesh(scene.Cube(size), at)
		}
		return b.add("proxy", &graph.Node{
			ID:   graph.NewNodeID(b.path("proxy", objName)),
			Kind: graph.NodeProxy,
			Name: objName,
			Data: graph.ProxyData{Vertices: md.Vertices, Faces: md.Faces},
		})
	})

	// -----------------------------------------------------------------------
	// (place ref :at (vec3 0 0 1) :rotate (vec3 0 0 45) :scale (vec3 1 1 2))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a node reference as first argument")
		}
		if err := pa.checkKeywords("place", "at", "rotate", "scale"); err != nil {
			return zygo.SexpNull, err
		}
		child, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		if child.kind == graph.NodeCSG {
			return zygo.SexpNull, fmt.Errorf("place: csg operands cannot be placed; wrap them in a solid")
		}

		td := graph.TransformData{}
		for kw, dst := range map[string]**graph.Vec3{"at": &td.Translation, "rotate": &td.Rotation, "scale": &td.Scale} {
			v, ok := pa.kw[kw]
			if !ok {
				continue
			}
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: %s: %w", kw, err)
			}
			*dst = &vec
		}

		if err := b.consume(child.id); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		idPath := b.path("place", "")
		if child.name != "" {
			idPath = "place/" + child.name
		}
		return b.add("place", &graph.Node{
			ID:       graph.NewNodeID(idPath),
			Kind:     graph.NodeTransform,
			Children: []graph.NodeID{child.id},
			Data:     td,
		})
	})

	// -----------------------------------------------------------------------
	// (group "name" ref ref ... :description "text")
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		groupName, pa, err := namedForm("group", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.checkKeywords("group", "description"); err != nil {
			return zygo.SexpNull, err
		}
		gd := graph.GroupData{}
		if v, ok := pa.kw["description"]; ok {
			if gd.Description, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("group: description: %w", err)
			}
		}

		var children []graph.NodeID
		for i, arg := range pa.positional[1:] {
			ref, err := toNodeRef(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i, err)
			}
			if ref.kind == graph.NodeCSG {
				return zygo.SexpNull, fmt.Errorf("group: child %d: csg operands cannot be grouped", i)
			}
			if err := b.consume(ref.id); err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i, err)
			}
			children = append(children, ref.id)
		}

		return b.add("group", &graph.Node{
			ID:       graph.NewNodeID(b.path("group", groupName)),
			Kind:     graph.NodeGroup,
			Name:     groupName,
			Children: children,
			Data:     gd,
		})
	})

	// -----------------------------------------------------------------------
	// (hide ref) marks a node and everything under it as not visible.
	// -----------------------------------------------------------------------
	env.AddFunction("hide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("hide requires exactly one node reference")
		}
		ref, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hide: %w", err)
		}
		n := b.g.Get(ref.id)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("hide: unknown node %s", ref.id.Short())
		}
		n.Hidden = true
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (camera :eye (vec3 0 -10 5) :target (vec3 0 0 0) :fov 50)
	// (camera :eye ... :target ... :ortho true :ortho-scale 8)
	// -----------------------------------------------------------------------
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.checkKeywords("camera", "eye", "target", "up", "fov", "ortho", "ortho-scale"); err != nil {
			return zygo.SexpNull, err
		}
		if b.g.Camera != nil {
			return zygo.SexpNull, fmt.Errorf("camera: already defined")
		}
		cam := &graph.CameraDef{
			Eye:    graph.Vec3{Y: -10, Z: 5},
			Up:     graph.Vec3{Z: 1},
			FOV:    50,
			Target: graph.Vec3{},
		}
		var err error
		for kw, dst := range map[string]*graph.Vec3{"eye": &cam.Eye, "target": &cam.Target, "up": &cam.Up} {
			if v, ok := pa.kw[kw]; ok {
				if *dst, err = toVec3(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("camera: %s: %w", kw, err)
				}
			}
		}
		if v, ok := pa.kw["fov"]; ok {
			if cam.FOV, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: fov: %w", err)
			}
		}
		if v, ok := pa.kw["ortho"]; ok {
			if cam.Ortho, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: ortho: %w", err)
			}
		}
		if v, ok := pa.kw["ortho-scale"]; ok {
			if cam.OrthoScale, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: ortho-scale: %w", err)
			}
		}
		b.g.Camera = cam
		return zygo.SexpNull, nil
	})
}

// ---------------------------------------------------------------------------
// Shared form helpers
// ---------------------------------------------------------------------------

// namedForm parses args whose first positional argument is the object name.
// The name stays at pa.positional[0].
func namedForm(form string, args []zygo.Sexp) (string, kwArgs, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return "", pa, fmt.Errorf("%s requires a name argument", form)
	}
	n, err := toString(pa.positional[0])
	if err != nil {
		return "", pa, fmt.Errorf("%s: name: %w", form, err)
	}
	if n == "" {
		return "", pa, fmt.Errorf("%s: name must not be empty", form)
	}
	return n, pa, nil
}

// primitiveMesh handles cube and plane: (form "name" :size s :at v ...modifiers).
func primitiveMesh(b *builder, form string, args []zygo.Sexp, build func(float64) *scene.Mesh) (zygo.Sexp, error) {
	objName, pa, err := namedForm(form, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	if err := pa.checkKeywords(form, append([]string{"size", "at"}, modifierKeywords...)...); err != nil {
		return zygo.SexpNull, err
	}
	size, at, err := sizeAndAt(form, pa)
	if err != nil {
		return zygo.SexpNull, err
	}
	return addMesh(b, form, objName, fromSceneMesh(build(size), at), pa)
}

// sizeAndAt reads :size (default 2) and :at (default origin).
func sizeAndAt(form string, pa kwArgs) (float64, graph.Vec3, error) {
	size := 2.0
	var at graph.Vec3
	var err error
	if v, ok := pa.kw["size"]; ok {
		if size, err = toFloat64(v); err != nil {
			return 0, at, fmt.Errorf("%s: size: %w", form, err)
		}
		if size <= 0 {
			return 0, at, fmt.Errorf("%s: size must be positive, got %g", form, size)
		}
	}
	if v, ok := pa.kw["at"]; ok {
		if at, err = toVec3(v); err != nil {
			return 0, at, fmt.Errorf("%s: at: %w", form, err)
		}
	}
	return size, at, nil
}

// polygonArgs reads :verts and :faces.
func polygonArgs(form string, pa kwArgs) (graph.MeshData, error) {
	var md graph.MeshData
	var err error
	if v, ok := pa.kw["verts"]; ok {
		if md.Vertices, err = toVec3List(v); err != nil {
			return md, fmt.Errorf("%s: verts: %w", form, err)
		}
	}
	if v, ok := pa.kw["faces"]; ok {
		if md.Faces, err = toFaceList(v); err != nil {
			return md, fmt.Errorf("%s: faces: %w", form, err)
		}
	}
	return md, nil
}

// addMesh attaches modifier keywords, in the order written, and adds the node.
func addMesh(b *builder, form, objName string, md graph.MeshData, pa kwArgs) (zygo.Sexp, error) {
	mods, err := modifierArgs(form, pa)
	if err != nil {
		return zygo.SexpNull, err
	}
	md.Modifiers = mods
	return b.add(form, &graph.Node{
		ID:   graph.NewNodeID(b.path("mesh", objName)),
		Kind: graph.NodeMesh,
		Name: objName,
		Data: md,
	})
}

// modifierArgs builds the modifier stack from :array, :array-offset and
// :displace.
func modifierArgs(form string, pa kwArgs) ([]graph.ModifierDef, error) {
	var mods []graph.ModifierDef
	for _, kw := range pa.order {
		switch kw {
		case "array":
			n, err := toInt(pa.kw[kw])
			if err != nil {
				return nil, fmt.Errorf("%s: array: %w", form, err)
			}
			off := defaultArrayOffset
			if v, ok := pa.kw["array-offset"]; ok {
				if off, err = toVec3(v); err != nil {
					return nil, fmt.Errorf("%s: array-offset: %w", form, err)
				}
			}
			mods = append(mods, graph.ModifierDef{Kind: graph.ModArray, Count: n, Offset: off})
		case "displace":
			off, err := toVec3(pa.kw[kw])
			if err != nil {
				return nil, fmt.Errorf("%s: displace: %w", form, err)
			}
			mods = append(mods, graph.ModifierDef{Kind: graph.ModDisplace, Offset: off})
		}
	}
	if _, ok := pa.kw["array-offset"]; ok {
		if _, ok := pa.kw["array"]; !ok {
			return nil, fmt.Errorf("%s: array-offset given without array", form)
		}
	}
	return mods, nil
}

// addCSG adds an anonymous CSG node after reading its :at and :rotate
// keywords. Operands may be shared between trees.
func addCSG(b *builder, d graph.CSGData, operands []graph.NodeID, pa kwArgs) (zygo.Sexp, error) {
	form := d.Op.String()
	var err error
	if v, ok := pa.kw["at"]; ok {
		if d.At, err = toVec3(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: at: %w", form, err)
		}
	}
	if v, ok := pa.kw["rotate"]; ok {
		if d.Rotate, err = toVec3(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: rotate: %w", form, err)
		}
	}
	return b.add(d.Op.String(), &graph.Node{
		ID:       graph.NewNodeID(b.path(d.Op.String(), "")),
		Kind:     graph.NodeCSG,
		Children: operands,
		Data:     d,
	})
}

// fromSceneMesh converts a built-in primitive into authored mesh data,
// offset by at.
func fromSceneMesh(m *scene.Mesh, at graph.Vec3) graph.MeshData {
	md := graph.MeshData{
		Vertices: make([]graph.Vec3, len(m.Vertices)),
		Faces:    make([][]int, len(m.Polygons)),
	}
	for i, v := range m.Vertices {
		md.Vertices[i] = graph.Vec3{X: v.X + at.X, Y: v.Y + at.Y, Z: v.Z + at.Z}
	}
	for i, p := range m.Polygons {
		md.Faces[i] = append([]int(nil), p.Vertices...)
	}
	return md
}

// cyclicArg reads the optional :cyclic flag.
func cyclicArg(form string, pa kwArgs) (bool, error) {
	v, ok := pa.kw["cyclic"]
	if !ok {
		return false, nil
	}
	c, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: cyclic: %w", form, err)
	}
	return c, nil
}
