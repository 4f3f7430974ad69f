package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/snapcursor/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	kind graph.NodeKind
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpKnot is a Bezier control point returned by `knot` and consumed by
// `bezier`.
type sexpKnot struct {
	knot graph.BezierKnot
}

func (k *sexpKnot) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(knot %s)", k.knot.Co)
}
func (k *sexpKnot) Type() *zygo.RegisteredType { return nil }

// sexpSpline is returned by `bezier` and `poly` and consumed by `curve`.
type sexpSpline struct {
	spline graph.SplineData
}

func (s *sexpSpline) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %d points)", s.spline.Kind, s.spline.PointCount())
}
func (s *sexpSpline) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string // keyword names in the order they appeared
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if _, seen := result.kw[name]; !seen {
			result.order = append(result.order, name)
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			// Trailing keyword with no value is a flag.
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// checkKeywords rejects keywords a builtin does not understand.
func (a kwArgs) checkKeywords(form string, allowed ...string) error {
	for _, name := range a.order {
		ok := false
		for _, want := range allowed {
			if name == want {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%s: unknown keyword :%s", form, name)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool accepts true/false, or a bare trailing keyword as a set flag.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a node reference, optionally restricted to kinds.
func toNodeRef(s zygo.Sexp, kinds ...graph.NodeKind) (*sexpNodeRef, error) {
	ref, ok := s.(*sexpNodeRef)
	if !ok {
		return nil, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
	}
	if len(kinds) == 0 {
		return ref, nil
	}
	for _, k := range kinds {
		if ref.kind == k {
			return ref, nil
		}
	}
	return nil, fmt.Errorf("expected %s reference, got %s", kinds[0], ref.kind)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toExtent accepts either a vec3 or a single number applied to all axes.
func toExtent(s zygo.Sexp) (graph.Vec3, error) {
	if f, err := toFloat64(s); err == nil {
		return graph.Vec3{X: f, Y: f, Z: f}, nil
	}
	v, err := toVec3(s)
	if err != nil {
		return graph.Vec3{}, fmt.Errorf("expected number or vec3, got %T (%s)", s, s.SexpString(nil))
	}
	return v, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVec3List converts a list of vec3 values.
func toVec3List(s zygo.Sexp) ([]graph.Vec3, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]graph.Vec3, 0, len(items))
	for i, it := range items {
		v, err := toVec3(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// toFaceList converts a list of index lists, e.g. [[0 1 2] [0 2 3]].
func toFaceList(s zygo.Sexp) ([][]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	faces := make([][]int, 0, len(items))
	for fi, it := range items {
		idx, err := sexpListToSlice(it)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", fi, err)
		}
		face := make([]int, 0, len(idx))
		for _, x := range idx {
			n, err := toInt(x)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", fi, err)
			}
			face = append(face, n)
		}
		faces = append(faces, face)
	}
	return faces, nil
}
