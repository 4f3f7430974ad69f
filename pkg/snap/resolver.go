package snap

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Resolver runs the snap sources in priority order.
type Resolver struct {
	settings Settings
	sources  []Source
	free     *FreeSpaceSource
}

// NewResolver wires the standard source chain against sc and proj.
func NewResolver(sc Scene, proj Projector, settings Settings) *Resolver {
	vis := NewVisibility(sc, proj, settings.VisibilityEpsilon)
	free := NewFreeSpaceSource(sc, proj, settings.FreeDepth)
	return &Resolver{
		settings: settings,
		sources: []Source{
			NewVertexSource(sc, proj, vis, settings.VertexRadius),
			NewEdgeFaceSource(sc, proj, settings.EdgeRadius, settings.FaceRadius),
			NewCurveSource(sc, proj, settings.CurveRadius),
			free,
		},
		free: free,
	}
}

// Settings returns the settings the resolver was built with.
func (r *Resolver) Settings() Settings { return r.settings }

// Sources returns the sources in the order they are tried.
func (r *Resolver) Sources() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Resolve returns the point from the highest-priority source that produces
// one. It always returns a point because free space never fails.
func (r *Resolver) Resolve(q v2.Vec) Candidate {
	for _, src := range r.sources {
		if c, ok := src.Query(q); ok {
			Logger().Debug("snap resolved",
				"x", q.X, "y", q.Y, "source", src.Name(), "kind", c.Kind.String(),
				"px", c.Point.X, "py", c.Point.Y, "pz", c.Point.Z)
			return c
		}
	}
	// Unreachable while the free-space source terminates the chain.
	return r.free.Place(q)
}

// FreeSpace bypasses snapping and places the point by raycast or fixed
// depth only.
func (r *Resolver) FreeSpace(q v2.Vec) Candidate {
	return r.free.Place(q)
}

// Attempt is one source's answer to a query.
type Attempt struct {
	Source    string
	Candidate Candidate
	OK        bool
}

// Explain queries every source and reports each answer without stopping at
// the first match. Resolve's result is the first Attempt with OK set.
func (r *Resolver) Explain(q v2.Vec) []Attempt {
	out := make([]Attempt, 0, len(r.sources))
	for _, src := range r.sources {
		c, ok := src.Query(q)
		out = append(out, Attempt{Source: src.Name(), Candidate: c, OK: ok})
	}
	return out
}
