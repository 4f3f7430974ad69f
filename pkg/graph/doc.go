// Package graph defines the scene graph produced by evaluating a scene
// program: a DAG of mesh, curve, solid and proxy objects under transform and
// group nodes, plus an optional camera.
package graph
