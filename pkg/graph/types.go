package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// NodeID is a content-addressed identifier derived from a node's path in
// the source program.
type NodeID string

// NewNodeID hashes path into a NodeID. The same path always produces the
// same ID.
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:]))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ""
}

// Short returns the first 6 bytes of the ID in hex.
func (id NodeID) Short() string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:12])
}

// SourceRef points back at the form that created a node.
type SourceRef struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Form string `json:"form,omitempty"` // e.g. "mesh", "bezier"
}

// Vec3 is a 3D vector in scene units.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) String() string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	return fmt.Sprintf("(%s, %s, %s)", f(v.X), f(v.Y), f(v.Z))
}
