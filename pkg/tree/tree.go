package tree

import (
	"fmt"

	"github.com/minio/highwayhash"

	"github.com/arborview/arbor/pkg/document"
)

// RootPath is the path of the document root.
const RootPath = "$"

// Node is one positioned element of the diagram.
type Node struct {
	ID    string        // stable identifier derived from Path
	Label string        // key name, or "key: value" for primitives
	Path  string        // full path from the root, e.g. $.user.name
	Kind  document.Kind // JSON kind of the underlying value
	Value string        // display text for primitives, "" for containers
	Depth int           // tree level, root is 0
	Width int           // leaf columns occupied by the subtree
	X, Y  float64       // center position in user units
}

// Edge connects a container node to one of its children.
type Edge struct {
	ID     string
	Source string // parent node ID
	Target string // child node ID
}

// Tree is the complete layout of one document: positioned nodes, edges
// between them, and the path table used by search. Trees are immutable
// after Build and safe for concurrent reads.
type Tree struct {
	Nodes []Node
	Edges []Edge
	Table *PathTable
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	if len(t.Nodes) == 0 {
		return nil
	}
	return &t.Nodes[0]
}

// NodeByID returns the node with the given ID. The scan is linear: trees
// are modest and built once per document.
func (t *Tree) NodeByID(id string) (*Node, bool) {
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i], true
		}
	}
	return nil, false
}

// NodeByPath returns the node at an exact path via the path table.
func (t *Tree) NodeByPath(path string) (*Node, bool) {
	id, ok := t.Table.Lookup(path)
	if !ok {
		return nil, false
	}
	return t.NodeByID(id)
}

// Depth returns the number of levels in the tree.
func (t *Tree) Depth() int {
	max := -1
	for i := range t.Nodes {
		if t.Nodes[i].Depth > max {
			max = t.Nodes[i].Depth
		}
	}
	return max + 1
}

// Bounds returns the extremes of all node center positions. An empty tree
// reports zeros.
func (t *Tree) Bounds() (minX, minY, maxX, maxY float64) {
	if len(t.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = t.Nodes[0].X, t.Nodes[0].Y
	maxX, maxY = minX, minY
	for i := range t.Nodes[1:] {
		n := &t.Nodes[i+1]
		if n.X < minX {
			minX = n.X
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}
	return minX, minY, maxX, maxY
}

// idKey is the fixed HighwayHash key for node identifiers. It never changes:
// IDs must be identical across runs and processes.
var idKey = []byte("0123456789abcdef0123456789abcdef")

// NodeID derives the stable identifier for a node path: "n" plus the
// 16-hex-digit HighwayHash-64 of the path text.
func NodeID(path string) string {
	h, _ := highwayhash.New64(idKey)
	h.Write([]byte(path))
	return fmt.Sprintf("n%016x", h.Sum64())
}

// EdgeID derives the identifier for the edge between two nodes.
func EdgeID(source, target string) string {
	return "e:" + source + ":" + target
}
