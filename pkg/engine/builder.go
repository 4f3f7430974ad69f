package engine

import (
	"fmt"

	"github.com/chazu/snapcursor/pkg/graph"
)

// builder accumulates nodes while one program runs. Nodes that are never
// consumed by place or group become roots, in creation order.
type builder struct {
	g        *graph.SceneGraph
	order    []graph.NodeID
	consumed map[graph.NodeID]bool
	anon     map[string]int
}

func newBuilder() *builder {
	return &builder{
		g:        graph.New(),
		consumed: make(map[graph.NodeID]bool),
		anon:     make(map[string]int),
	}
}

// path returns the ID path for a node created by form. Unnamed nodes get a
// per-evaluation counter so IDs are stable across runs of the same program.
func (b *builder) path(form, name string) string {
	if name != "" {
		return form + "/" + name
	}
	b.anon[form]++
	return fmt.Sprintf("%s/_anon_%d", form, b.anon[form])
}

// add inserts n and returns a reference to it. Named nodes must be unique.
func (b *builder) add(form string, n *graph.Node) (*sexpNodeRef, error) {
	if n.Name != "" && b.g.Lookup(n.Name) != nil {
		return nil, fmt.Errorf("%s: duplicate name %q", form, n.Name)
	}
	if _, exists := b.g.Nodes[n.ID]; exists {
		return nil, fmt.Errorf("%s: node %s already defined", form, n.ID.Short())
	}
	n.Source.Form = form
	b.g.AddNode(n)
	if n.Kind != graph.NodeCSG {
		b.order = append(b.order, n.ID)
	}
	return &sexpNodeRef{id: n.ID, kind: n.Kind, name: n.Name}, nil
}

// consume marks id as owned by a parent so it is not a root.
func (b *builder) consume(id graph.NodeID) error {
	if b.consumed[id] {
		return fmt.Errorf("node %s already has a parent", id.Short())
	}
	b.consumed[id] = true
	return nil
}

// finish assigns roots and returns the completed graph.
func (b *builder) finish() *graph.SceneGraph {
	for _, id := range b.order {
		if !b.consumed[id] {
			b.g.AddRoot(id)
		}
	}
	return b.g
}
