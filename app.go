package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/chazu/snapcursor/pkg/config"
	"github.com/chazu/snapcursor/pkg/engine"
	"github.com/chazu/snapcursor/pkg/graph"
	"github.com/chazu/snapcursor/pkg/kernel"
	"github.com/chazu/snapcursor/pkg/kernel/sdfx"
	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/snap"
	"github.com/chazu/snapcursor/pkg/tessellate"
	"github.com/chazu/snapcursor/pkg/view"
)

// App runs scene programs through the engine and kernel and builds the
// resolvers the front ends query.
type App struct {
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
}

// Workspace is a loaded scene and the camera it declares.
type Workspace struct {
	Graph  *graph.SceneGraph
	Scene  *scene.Scene
	Camera view.Viewpoint
}

// ObjectData is the JSON-serializable summary of one scene object.
type ObjectData struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Visible  bool   `json:"visible"`
	Vertices int    `json:"vertices"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of loading a program.
type EvalResult struct {
	Objects  []ObjectData    `json:"objects"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App with an engine and the sdfx kernel sized from cfg.
func NewApp(cfg config.Config) *App {
	return &App{
		cfg:    cfg,
		engine: engine.NewEngine(),
		kernel: sdfx.NewWithCells(cfg.Kernel.Cells),
	}
}

// Evaluate takes program source and returns the workspace, or nil when the
// result carries errors.
func (a *App) Evaluate(source string) (*Workspace, EvalResult) {
	result := EvalResult{
		Objects:  []ObjectData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a scene graph.
	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}

	// Step 2: Convert eval errors.
	if !res.OK() {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, result
	}

	// Step 3: Build scene objects, tessellating solids through the kernel.
	opts := tessellate.DefaultOptions()
	opts.CurveResolution = a.cfg.Curve.Resolution
	sc, err := tessellate.Build(res.Graph, a.kernel, opts)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return nil, result
	}

	// Step 4: Summarize.
	for _, o := range sc.Objects() {
		od := ObjectData{Name: o.Name, Kind: o.Kind().String(), Visible: o.Visible}
		if h := sc.EvaluatedMesh(o); h != nil {
			od.Vertices = len(h.Mesh.Vertices)
			h.Release()
		} else if pts := sc.EvaluatedCurve(o); pts != nil {
			od.Vertices = len(pts)
		}
		result.Objects = append(result.Objects, od)
	}

	return &Workspace{Graph: res.Graph, Scene: sc, Camera: a.camera(res.Graph)}, result
}

// LoadFile evaluates the program at path. Eval errors are joined into the
// returned error with their line numbers; warnings are logged.
func (a *App) LoadFile(path string) (*Workspace, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	ws, res := a.Evaluate(string(src))
	for _, w := range res.Warnings {
		log.Printf("%s:%d: warning: %s", path, w.Line, w.Message)
	}
	if ws == nil {
		errs := make([]error, 0, len(res.Errors))
		for _, e := range res.Errors {
			errs = append(errs, fmt.Errorf("%s:%d:%d: %s", path, e.Line, e.Col, e.Message))
		}
		return nil, errors.Join(errs...)
	}
	return ws, nil
}

// camera sizes the program's camera to the configured viewport. Programs
// without a camera get the configured field of view.
func (a *App) camera(g *graph.SceneGraph) view.Viewpoint {
	vp := tessellate.Viewpoint(g, a.cfg.View.Width, a.cfg.View.Height)
	if g == nil || g.Camera == nil {
		vp.FOV = a.cfg.View.FOV
	}
	return vp
}

// Resolver returns a resolver for ws using the configured snap settings.
func (a *App) Resolver(ws *Workspace) *snap.Resolver {
	return snap.NewResolver(ws.Scene, ws.Camera, a.cfg.SnapSettings())
}
