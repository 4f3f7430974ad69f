package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeMesh      NodeKind = iota // polygon mesh object
	NodeCurve                     // spline curve object
	NodeSolid                     // CSG object meshed by the kernel
	NodeProxy                     // non-snappable occluder
	NodeCSG                       // CSG operand (box, union, ...)
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // logical grouping
)

func (k NodeKind) String() string {
	switch k {
	case NodeMesh:
		return "mesh"
	case NodeCurve:
		return "curve"
	case NodeSolid:
		return "solid"
	case NodeProxy:
		return "proxy"
	case NodeCSG:
		return "csg"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// IsObject reports whether nodes of this kind become scene objects.
func (k NodeKind) IsObject() bool {
	switch k {
	case NodeMesh, NodeCurve, NodeSolid, NodeProxy:
		return true
	default:
		return false
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID    `json:"id"`
	Kind     NodeKind  `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Source   SourceRef `json:"source"`
	Hidden   bool      `json:"hidden,omitempty"`
	Children []NodeID  `json:"children,omitempty"`
	Data     NodeData  `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
