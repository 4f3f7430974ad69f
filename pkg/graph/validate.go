package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks scene
// construction or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks scene construction
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs every structural and geometric check on the graph. An empty
// slice means the graph is valid. Validate never mutates the graph.
func Validate(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateMeshes(g)...)
	errs = append(errs, validateCurves(g)...)
	errs = append(errs, validateSolids(g)...)
	errs = append(errs, validateCamera(g)...)
	return errs
}

// Partition splits findings into blocking errors and warnings.
func Partition(findings []ValidationError) (errs, warnings []ValidationError) {
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			warnings = append(warnings, f)
		} else {
			errs = append(errs, f)
		}
	}
	return errs, warnings
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White = unvisited, gray = on the current DFS path, black = fully explored.
// Reaching a gray node means a cycle.
func validateDAG(g *SceneGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for id := range g.Nodes {
		if color[id] == white {
			if visit(id) {
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child ID points to an existing node.
func validateReferences(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that no two nodes share a name and that every name
// index entry points to an existing node.
func validateNames(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range g.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root exists and warns about nodes that are
// not reachable from any root.
func validateRoots(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(g.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range g.Nodes {
		if !reachable[id] {
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", name),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateMeshes checks that faces index existing vertices and have at least
// three corners, and that modifiers are usable.
func validateMeshes(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		var verts []Vec3
		var faces [][]int
		switch d := node.Data.(type) {
		case MeshData:
			verts, faces = d.Vertices, d.Faces
			for _, m := range d.Modifiers {
				if m.Kind == ModArray && m.Count < 1 {
					errs = append(errs, ValidationError{
						NodeID:   node.ID,
						Message:  fmt.Sprintf("array modifier count must be at least 1, got %d", m.Count),
						Severity: SeverityError,
					})
				}
			}
		case ProxyData:
			verts, faces = d.Vertices, d.Faces
		default:
			continue
		}

		if len(verts) == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s %q has no vertices", node.Kind, node.Name),
				Severity: SeverityWarning,
			})
		}
		for fi, f := range faces {
			if len(f) < 3 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("face %d has %d vertices, need at least 3", fi, len(f)),
					Severity: SeverityError,
				})
			}
			for _, vi := range f {
				if vi < 0 || vi >= len(verts) {
					errs = append(errs, ValidationError{
						NodeID:   node.ID,
						Message:  fmt.Sprintf("face %d references vertex %d, mesh has %d", fi, vi, len(verts)),
						Severity: SeverityError,
					})
					break
				}
			}
		}
	}
	return errs
}

// validateCurves warns about splines with no control points.
func validateCurves(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		cd, ok := node.Data.(CurveData)
		if !ok {
			continue
		}
		if cd.Resolution < 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("curve resolution must not be negative, got %d", cd.Resolution),
				Severity: SeverityError,
			})
		}
		for si, s := range cd.Splines {
			if s.PointCount() == 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("spline %d has no control points", si),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

// validateSolids checks CSG tree shape: a solid has exactly one CSG child,
// booleans have at least two CSG operands, primitives have positive extents.
func validateSolids(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case SolidData:
			if len(node.Children) != 1 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("solid %q needs exactly one CSG child, has %d", node.Name, len(node.Children)),
					Severity: SeverityError,
				})
				continue
			}
			if c := g.Nodes[node.Children[0]]; c != nil && c.Kind != NodeCSG {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("solid %q child is %s, not csg", node.Name, c.Kind),
					Severity: SeverityError,
				})
			}
		case CSGData:
			errs = append(errs, validateCSG(g, node, d)...)
		}
	}
	return errs
}

func validateCSG(g *SceneGraph, node *Node, d CSGData) []ValidationError {
	var errs []ValidationError
	bad := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	if d.Op.IsBoolean() {
		if len(node.Children) < 2 {
			bad("%s needs at least 2 operands, has %d", d.Op, len(node.Children))
		}
		for _, cid := range node.Children {
			if c := g.Nodes[cid]; c != nil && c.Kind != NodeCSG {
				bad("%s operand %s is %s, not csg", d.Op, cid.Short(), c.Kind)
			}
		}
		return errs
	}

	if len(node.Children) != 0 {
		bad("%s primitive cannot have children", d.Op)
	}
	switch d.Op {
	case CSGBox:
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			bad("box size must be positive, got %s", d.Size)
		}
	case CSGCylinder:
		if d.Radius <= 0 || d.Height <= 0 {
			bad("cylinder radius and height must be positive, got r=%g h=%g", d.Radius, d.Height)
		}
	case CSGSphere:
		if d.Radius <= 0 {
			bad("sphere radius must be positive, got %g", d.Radius)
		}
	}
	return errs
}

// validateCamera rejects a camera that looks at its own position.
func validateCamera(g *SceneGraph) []ValidationError {
	c := g.Camera
	if c == nil {
		return nil
	}
	var errs []ValidationError
	if c.Eye == c.Target {
		errs = append(errs, ValidationError{
			Message:  "camera eye and target coincide",
			Severity: SeverityError,
		})
	}
	if c.Ortho && c.OrthoScale <= 0 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("orthographic camera needs a positive scale, got %g", c.OrthoScale),
			Severity: SeverityError,
		})
	}
	if !c.Ortho && (c.FOV < 0 || c.FOV >= 180) {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("camera fov must be in (0, 180), got %g", c.FOV),
			Severity: SeverityError,
		})
	}
	return errs
}
