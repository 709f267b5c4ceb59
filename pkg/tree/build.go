package tree

import (
	"strconv"

	"github.com/arborview/arbor/pkg/document"
)

// Layout spacing in user units. One leaf column is SpacingX wide; one tree
// level is SpacingY tall.
const (
	DefaultSpacingX = 260.0
	DefaultSpacingY = 140.0
)

// Option configures a Build call.
type Option func(*builder)

// WithSpacing overrides the default horizontal and vertical spacing.
// Non-positive values leave the corresponding default in place.
func WithSpacing(x, y float64) Option {
	return func(b *builder) {
		if x > 0 {
			b.spacingX = x
		}
		if y > 0 {
			b.spacingY = y
		}
	}
}

type builder struct {
	spacingX float64
	spacingY float64
	widths   map[*document.Value]int
	nodes    []Node
	edges    []Edge
	table    *PathTable
}

// Build lays out a parsed document as a positioned node-link tree. It is
// total and deterministic: any parsed document produces a tree, and the
// same document always produces the same tree. A nil root yields an empty
// tree.
func Build(root *document.Value, opts ...Option) *Tree {
	b := &builder{
		spacingX: DefaultSpacingX,
		spacingY: DefaultSpacingY,
		table:    NewPathTable(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if root == nil {
		return &Tree{Table: b.table}
	}

	b.widths = make(map[*document.Value]int)
	b.measure(root)
	b.place(root, RootPath, RootPath, 0, 0, "")

	return &Tree{Nodes: b.nodes, Edges: b.edges, Table: b.table}
}

// measure assigns each subtree its column width: the number of leaf
// descendants, at least one so empty containers still occupy space.
func (b *builder) measure(v *document.Value) int {
	w := 0
	switch v.Kind {
	case document.KindObject:
		for _, m := range v.Members {
			w += b.measure(m.Value)
		}
	case document.KindArray:
		for _, e := range v.Elems {
			w += b.measure(e)
		}
	}
	if w == 0 {
		w = 1
	}
	b.widths[v] = w
	return w
}

// place emits the node for v and recurses into its children in document
// order. col is the leftmost leaf column of v's span; the node is centered
// over the span, one level below its parent.
func (b *builder) place(v *document.Value, path, key string, depth, col int, parentID string) {
	w := b.widths[v]
	id := NodeID(path)

	b.nodes = append(b.nodes, Node{
		ID:    id,
		Label: nodeLabel(key, v),
		Path:  path,
		Kind:  v.Kind,
		Value: v.Text(),
		Depth: depth,
		Width: w,
		X:     (float64(col) + float64(w)/2) * b.spacingX,
		Y:     float64(depth) * b.spacingY,
	})
	b.table.Add(path, id)
	if parentID != "" {
		b.edges = append(b.edges, Edge{ID: EdgeID(parentID, id), Source: parentID, Target: id})
	}

	childCol := col
	switch v.Kind {
	case document.KindObject:
		for _, m := range v.Members {
			b.place(m.Value, path+"."+m.Key, m.Key, depth+1, childCol, id)
			childCol += b.widths[m.Value]
		}
	case document.KindArray:
		for i, e := range v.Elems {
			idx := "[" + strconv.Itoa(i) + "]"
			b.place(e, path+idx, idx, depth+1, childCol, id)
			childCol += b.widths[e]
		}
	}
}

// nodeLabel builds the display label: containers show their key, primitives
// show "key: value". The root's display key is "$".
func nodeLabel(key string, v *document.Value) string {
	if v.IsContainer() {
		return key
	}
	return key + ": " + v.Text()
}
