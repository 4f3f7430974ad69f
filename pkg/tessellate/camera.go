package tessellate

import (
	"github.com/chazu/snapcursor/pkg/graph"
	"github.com/chazu/snapcursor/pkg/view"
)

// DefaultCamera is used when a program declares no camera.
var DefaultCamera = graph.CameraDef{
	Eye:    graph.Vec3{X: 7, Y: -7, Z: 5},
	Target: graph.Vec3{},
	Up:     graph.Vec3{Z: 1},
	FOV:    view.DefaultFOV,
}

// Viewpoint converts the graph's camera into a viewpoint of the given pixel
// size, falling back to DefaultCamera.
func Viewpoint(g *graph.SceneGraph, width, height int) view.Viewpoint {
	c := DefaultCamera
	if g != nil && g.Camera != nil {
		c = *g.Camera
	}
	vp := view.LookAt(toVec(c.Eye), toVec(c.Target), toVec(c.Up), width, height)
	if c.FOV > 0 {
		vp.FOV = c.FOV
	}
	if c.Ortho {
		vp = vp.WithOrtho(c.OrthoScale)
	}
	return vp
}
