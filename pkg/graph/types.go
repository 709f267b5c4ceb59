package graph

import (
	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/tree"
)

// =============================================================================
// Graph - Rendering Surface Wire Format
// =============================================================================

// Graph is the canonical serialization of a laid-out document tree. It is
// what the HTTP API returns, what "render --format json" writes, and what
// the browser viewer consumes. The format is human-readable and stable:
// the same document always serializes to the same bytes.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Meta  Meta   `json:"meta"`
}

// Meta carries summary figures for the whole graph.
type Meta struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
	Depth     int `json:"depth"`
}

// Position is a node center in user units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one positioned element on the rendering surface.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`            // object, array, string, number, boolean, null
	Path     string   `json:"path"`            // full path from the root
	Value    string   `json:"value,omitempty"` // display text, primitives only
	Depth    int      `json:"depth"`
}

// Edge connects a parent node to one of its children.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// =============================================================================
// Tree → Graph Conversion
// =============================================================================

// FromTree converts a laid-out tree to its wire format. Nodes keep their
// creation order, parent before child, so serialization is deterministic.
func FromTree(t *tree.Tree) Graph {
	out := Graph{
		Nodes: make([]Node, len(t.Nodes)),
		Edges: make([]Edge, len(t.Edges)),
		Meta: Meta{
			NodeCount: len(t.Nodes),
			EdgeCount: len(t.Edges),
			Depth:     t.Depth(),
		},
	}

	for i := range t.Nodes {
		n := &t.Nodes[i]
		out.Nodes[i] = Node{
			ID:       n.ID,
			Position: Position{X: n.X, Y: n.Y},
			Label:    n.Label,
			Kind:     n.Kind.String(),
			Path:     n.Path,
			Value:    n.Value,
			Depth:    n.Depth,
		}
	}
	for i, e := range t.Edges {
		out.Edges[i] = Edge{ID: e.ID, Source: e.Source, Target: e.Target}
	}

	return out
}

// ToTree rebuilds a laid-out tree from its wire format. It is the inverse
// of [FromTree] up to the subtree widths, which only matter during layout
// and are not serialized. The path table is reconstructed in node order, so
// search behaves identically on a restored tree.
func ToTree(g Graph) (*tree.Tree, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	t := &tree.Tree{Table: tree.NewPathTable()}
	if len(g.Nodes) == 0 {
		return t, nil
	}

	t.Nodes = make([]tree.Node, len(g.Nodes))
	t.Edges = make([]tree.Edge, len(g.Edges))

	for i, n := range g.Nodes {
		kind, ok := document.ParseKind(n.Kind)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %s has unknown kind %q", n.ID, n.Kind)
		}
		t.Nodes[i] = tree.Node{
			ID:    n.ID,
			Label: n.Label,
			Path:  n.Path,
			Kind:  kind,
			Value: n.Value,
			Depth: n.Depth,
			X:     n.Position.X,
			Y:     n.Position.Y,
		}
		t.Table.Add(n.Path, n.ID)
	}
	for i, e := range g.Edges {
		t.Edges[i] = tree.Edge{ID: e.ID, Source: e.Source, Target: e.Target}
	}

	return t, nil
}

// Validate checks the structural invariants of a deserialized graph: every
// edge must reference existing nodes, and a non-empty tree has exactly one
// edge less than it has nodes.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		if len(g.Edges) != 0 {
			return errors.New(errors.ErrCodeInvalidInput, "graph has %d edges but no nodes", len(g.Edges))
		}
		return nil
	}

	if len(g.Edges) != len(g.Nodes)-1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"graph has %d nodes and %d edges, want exactly one edge per non-root node",
			len(g.Nodes), len(g.Edges))
	}

	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "graph node with empty id")
		}
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.Source] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s references unknown source %s", e.ID, e.Source)
		}
		if !ids[e.Target] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s references unknown target %s", e.ID, e.Target)
		}
	}
	return nil
}
