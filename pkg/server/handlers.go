package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/snapcursor/pkg/preview"
	"github.com/chazu/snapcursor/pkg/snap"
)

const maxBody = 1 << 16

// PointerRequest is the body of /resolve and /place.
type PointerRequest struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Explain bool    `json:"explain,omitempty"`
}

// CandidateJSON is the wire form of a snap.Candidate.
type CandidateJSON struct {
	Point          [3]float64 `json:"point"`
	Kind           string     `json:"kind"`
	Object         string     `json:"object,omitempty"`
	ScreenDistance float64    `json:"screen_distance"`
}

// AttemptJSON is one source's outcome in an explained resolve.
type AttemptJSON struct {
	Source    string         `json:"source"`
	Candidate *CandidateJSON `json:"candidate,omitempty"`
}

// ResolveResponse is returned by /resolve and /place.
type ResolveResponse struct {
	Candidate CandidateJSON `json:"candidate"`
	Cursor    [3]float64    `json:"cursor"`
	Attempts  []AttemptJSON `json:"attempts,omitempty"`
}

// ObjectJSON summarizes one scene object.
type ObjectJSON struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Visible  bool       `json:"visible"`
	Vertices int        `json:"vertices"`
	Polygons int        `json:"polygons"`
	Origin   [3]float64 `json:"origin"`
}

// CameraJSON describes the served viewpoint.
type CameraJSON struct {
	Eye        [3]float64 `json:"eye"`
	Projection string     `json:"projection"`
	FOV        float64    `json:"fov"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
}

// SceneResponse is returned by /scene.
type SceneResponse struct {
	Objects []ObjectJSON `json:"objects"`
	Camera  CameraJSON   `json:"camera"`
	Cursor  [3]float64   `json:"cursor"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func vec3JSON(v v3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// EncodeCandidate converts c to its wire form.
func EncodeCandidate(c snap.Candidate) CandidateJSON {
	out := CandidateJSON{
		Point:          vec3JSON(c.Point),
		Kind:           c.Kind.String(),
		ScreenDistance: c.ScreenDistance,
	}
	if c.Object != nil {
		out.Object = c.Object.Name
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sc := s.opts.Scene
	resp := SceneResponse{Objects: []ObjectJSON{}, Cursor: vec3JSON(s.cursor.Location())}
	for _, o := range sc.Objects() {
		oj := ObjectJSON{
			ID:      o.ID.String(),
			Name:    o.Name,
			Kind:    o.Kind().String(),
			Visible: o.Visible,
			Origin:  vec3JSON(o.ToWorld(v3.Vec{})),
		}
		if h := sc.EvaluatedMesh(o); h != nil {
			oj.Vertices, oj.Polygons = len(h.Mesh.Vertices), len(h.Mesh.Polygons)
			h.Release()
		} else if pts := sc.EvaluatedCurve(o); pts != nil {
			oj.Vertices = len(pts)
		}
		resp.Objects = append(resp.Objects, oj)
	}
	vp := s.opts.Camera
	resp.Camera = CameraJSON{
		Eye:        vec3JSON(vp.EyePosition()),
		Projection: vp.Projection.String(),
		FOV:        vp.FOV,
		Width:      vp.Width,
		Height:     vp.Height,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][3]float64{"cursor": vec3JSON(s.cursor.Location())})
}

// readPointer validates and decodes a PointerRequest body.
func readPointer(w http.ResponseWriter, r *http.Request) (PointerRequest, bool) {
	var req PointerRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return req, false
	}
	if err := pointerValidator.validate(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

// query runs a full resolve, or free-space placement only for mode "free".
func query(res *snap.Resolver, mode string, q v2.Vec) snap.Candidate {
	if mode == "free" {
		return res.FreeSpace(q)
	}
	return res.Resolve(q)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	req, ok := readPointer(w, r)
	if !ok {
		return
	}
	res := s.resolver(req.Width, req.Height)
	q := v2.Vec{X: req.X, Y: req.Y}
	cand := query(res, req.Mode, q)
	resp := ResolveResponse{Candidate: EncodeCandidate(cand), Cursor: vec3JSON(s.cursor.Location())}
	if req.Explain {
		for _, a := range res.Explain(q) {
			aj := AttemptJSON{Source: a.Source}
			if a.OK {
				c := EncodeCandidate(a.Candidate)
				aj.Candidate = &c
			}
			resp.Attempts = append(resp.Attempts, aj)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePlace resolves like /resolve and moves the shared cursor there.
func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	req, ok := readPointer(w, r)
	if !ok {
		return
	}
	cand := query(s.resolver(req.Width, req.Height), req.Mode, v2.Vec{X: req.X, Y: req.Y})
	s.cursor.SetLocation(cand.Point)
	s.log.Debug("cursor placed", "kind", cand.Kind.String(), "x", cand.Point.X, "y", cand.Point.Y, "z", cand.Point.Z)
	writeJSON(w, http.StatusOK, ResolveResponse{Candidate: EncodeCandidate(cand), Cursor: vec3JSON(cand.Point)})
}

// handlePreview renders the scene with the cursor. Optional x and y query
// parameters add the snap result for that pointer position.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, height, err := viewportSize(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cursor := s.cursor.Location()
	frame := preview.Frame{Cursor: &cursor}
	if xs, ys := q.Get("x"), q.Get("y"); xs != "" && ys != "" {
		x, errX := strconv.ParseFloat(xs, 64)
		y, errY := strconv.ParseFloat(ys, 64)
		if errX != nil || errY != nil {
			writeError(w, http.StatusBadRequest, "x and y must be numbers")
			return
		}
		ptr := v2.Vec{X: x, Y: y}
		cand := s.resolver(width, height).Resolve(ptr)
		frame.Pointer, frame.Candidate = &ptr, &cand
	}

	rd := s.renderer(width, height)
	w.Header().Set("Content-Type", "image/png")
	if err := rd.WritePNG(w, s.opts.Scene, s.viewpoint(width, height), frame); err != nil {
		s.log.Warn("preview failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
