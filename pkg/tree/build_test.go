package tree

import (
	"reflect"
	"testing"

	"github.com/arborview/arbor/pkg/document"
)

const userDoc = `{"user":{"id":1,"name":"John Doe","address":{"city":"New York","country":"USA"}}}`

func mustParse(t *testing.T, input string) *document.Value {
	t.Helper()
	v, err := document.ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q) error = %v", input, err)
	}
	return v
}

func TestBuild_NodeAndEdgeCounts(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
	}{
		{"nested object", userDoc, 7},
		{"array of objects", `{"items":[{"name":"item1"},{"name":"item2"}]}`, 6},
		{"primitive root", `42`, 1},
		{"empty object", `{}`, 1},
		{"empty containers nested", `{"a":{},"b":[]}`, 3},
		{"flat array", `[1,2,3]`, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Build(mustParse(t, tt.input))

			if len(tr.Nodes) != tt.wantNodes {
				t.Errorf("len(Nodes) = %d, want %d", len(tr.Nodes), tt.wantNodes)
			}
			if len(tr.Edges) != len(tr.Nodes)-1 {
				t.Errorf("len(Edges) = %d, want %d", len(tr.Edges), len(tr.Nodes)-1)
			}
			if tr.Table.Len() != len(tr.Nodes) {
				t.Errorf("Table.Len() = %d, want %d", tr.Table.Len(), len(tr.Nodes))
			}
		})
	}
}

func TestBuild_Paths(t *testing.T) {
	tr := Build(mustParse(t, userDoc))

	wantPaths := []string{
		"$",
		"$.user",
		"$.user.id",
		"$.user.name",
		"$.user.address",
		"$.user.address.city",
		"$.user.address.country",
	}

	if len(tr.Nodes) != len(wantPaths) {
		t.Fatalf("len(Nodes) = %d, want %d", len(tr.Nodes), len(wantPaths))
	}
	for i, want := range wantPaths {
		if tr.Nodes[i].Path != want {
			t.Errorf("Nodes[%d].Path = %q, want %q", i, tr.Nodes[i].Path, want)
		}
	}

	for _, want := range wantPaths {
		if _, ok := tr.Table.Lookup(want); !ok {
			t.Errorf("Table.Lookup(%q) not found", want)
		}
	}
}

func TestBuild_ArrayPaths(t *testing.T) {
	tr := Build(mustParse(t, `{"items":[{"name":"item1"},{"name":"item2"}]}`))

	for _, path := range []string{"$.items[0]", "$.items[0].name", "$.items[1].name"} {
		if _, ok := tr.Table.Lookup(path); !ok {
			t.Errorf("Table.Lookup(%q) not found", path)
		}
	}

	n, ok := tr.NodeByPath("$.items[0].name")
	if !ok {
		t.Fatal("NodeByPath($.items[0].name) not found")
	}
	if n.Value != "item1" {
		t.Errorf("Value = %q, want %q", n.Value, "item1")
	}
}

func TestBuild_Positions(t *testing.T) {
	tr := Build(mustParse(t, userDoc))

	// Four leaves (id, name, city, country): the root spans four columns.
	wantX := map[string]float64{
		"$":                      2.0 * DefaultSpacingX,
		"$.user":                 2.0 * DefaultSpacingX,
		"$.user.id":              0.5 * DefaultSpacingX,
		"$.user.name":            1.5 * DefaultSpacingX,
		"$.user.address":         3.0 * DefaultSpacingX,
		"$.user.address.city":    2.5 * DefaultSpacingX,
		"$.user.address.country": 3.5 * DefaultSpacingX,
	}
	wantDepth := map[string]int{
		"$":                      0,
		"$.user":                 1,
		"$.user.id":              2,
		"$.user.name":            2,
		"$.user.address":         2,
		"$.user.address.city":    3,
		"$.user.address.country": 3,
	}

	for i := range tr.Nodes {
		n := &tr.Nodes[i]
		if n.X != wantX[n.Path] {
			t.Errorf("%s: X = %v, want %v", n.Path, n.X, wantX[n.Path])
		}
		if n.Depth != wantDepth[n.Path] {
			t.Errorf("%s: Depth = %d, want %d", n.Path, n.Depth, wantDepth[n.Path])
		}
		if want := float64(wantDepth[n.Path]) * DefaultSpacingY; n.Y != want {
			t.Errorf("%s: Y = %v, want %v", n.Path, n.Y, want)
		}
	}
}

func TestBuild_SiblingOrderMatchesDocument(t *testing.T) {
	// Keys deliberately not alphabetical: layout must follow document order.
	tr := Build(mustParse(t, `{"zebra":1,"apple":2,"mango":3}`))

	var prev float64 = -1
	for _, n := range tr.Nodes[1:] {
		if n.X <= prev {
			t.Errorf("sibling %s at X=%v not right of previous sibling at X=%v", n.Path, n.X, prev)
		}
		prev = n.X
	}

	if tr.Nodes[1].Path != "$.zebra" || tr.Nodes[3].Path != "$.mango" {
		t.Errorf("sibling order = %q, %q, %q, want document order",
			tr.Nodes[1].Path, tr.Nodes[2].Path, tr.Nodes[3].Path)
	}
}

func TestBuild_Widths(t *testing.T) {
	tr := Build(mustParse(t, userDoc))

	wantWidth := map[string]int{
		"$":                   4,
		"$.user":              4,
		"$.user.id":           1,
		"$.user.address":      2,
		"$.user.address.city": 1,
	}
	for path, want := range wantWidth {
		n, ok := tr.NodeByPath(path)
		if !ok {
			t.Fatalf("NodeByPath(%q) not found", path)
		}
		if n.Width != want {
			t.Errorf("%s: Width = %d, want %d", path, n.Width, want)
		}
	}
}

func TestBuild_Labels(t *testing.T) {
	tr := Build(mustParse(t, `{"name":"John","tags":["a"],"meta":{}}`))

	wantLabels := map[string]string{
		"$":         "$",
		"$.name":    "name: John",
		"$.tags":    "tags",
		"$.tags[0]": "[0]: a",
		"$.meta":    "meta",
	}
	for path, want := range wantLabels {
		n, ok := tr.NodeByPath(path)
		if !ok {
			t.Fatalf("NodeByPath(%q) not found", path)
		}
		if n.Label != want {
			t.Errorf("%s: Label = %q, want %q", path, n.Label, want)
		}
	}
}

func TestBuild_PrimitiveRoot(t *testing.T) {
	tr := Build(mustParse(t, `42`))

	if len(tr.Nodes) != 1 || len(tr.Edges) != 0 {
		t.Fatalf("nodes = %d, edges = %d, want 1 and 0", len(tr.Nodes), len(tr.Edges))
	}
	root := tr.Root()
	if root.Label != "$: 42" {
		t.Errorf("root Label = %q, want %q", root.Label, "$: 42")
	}
	if root.Path != "$" {
		t.Errorf("root Path = %q, want %q", root.Path, "$")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	input := `{"a":{"b":[1,2,{"c":null}],"d":"x"},"e":[[],{}],"f":true}`

	first := Build(mustParse(t, input))
	second := Build(mustParse(t, input))

	if !reflect.DeepEqual(first.Nodes, second.Nodes) {
		t.Error("Nodes differ between identical builds")
	}
	if !reflect.DeepEqual(first.Edges, second.Edges) {
		t.Error("Edges differ between identical builds")
	}
	if !reflect.DeepEqual(first.Table.Entries(), second.Table.Entries()) {
		t.Error("Table entries differ between identical builds")
	}
}

func TestBuild_WithSpacing(t *testing.T) {
	tr := Build(mustParse(t, `{"a":1}`), WithSpacing(100, 50))

	leaf, ok := tr.NodeByPath("$.a")
	if !ok {
		t.Fatal("NodeByPath($.a) not found")
	}
	if leaf.X != 50 {
		t.Errorf("X = %v, want 50", leaf.X)
	}
	if leaf.Y != 50 {
		t.Errorf("Y = %v, want 50", leaf.Y)
	}
}

func TestBuild_EdgesConnectParentToChild(t *testing.T) {
	tr := Build(mustParse(t, userDoc))

	byID := map[string]Node{}
	for _, n := range tr.Nodes {
		byID[n.ID] = n
	}

	for _, e := range tr.Edges {
		src, ok := byID[e.Source]
		if !ok {
			t.Fatalf("edge %s source %s not a node", e.ID, e.Source)
		}
		dst, ok := byID[e.Target]
		if !ok {
			t.Fatalf("edge %s target %s not a node", e.ID, e.Target)
		}
		if dst.Depth != src.Depth+1 {
			t.Errorf("edge %s connects depth %d to %d, want parent to direct child",
				e.ID, src.Depth, dst.Depth)
		}
	}
}

func TestBuild_NilRoot(t *testing.T) {
	tr := Build(nil)

	if len(tr.Nodes) != 0 || len(tr.Edges) != 0 || tr.Table.Len() != 0 {
		t.Errorf("Build(nil) = %d nodes, %d edges, %d paths, want all zero",
			len(tr.Nodes), len(tr.Edges), tr.Table.Len())
	}
	if tr.Root() != nil {
		t.Error("Root() != nil for empty tree")
	}
}

func TestNodeID_Stability(t *testing.T) {
	a := NodeID("$.user.name")
	b := NodeID("$.user.name")
	c := NodeID("$.user.email")

	if a != b {
		t.Errorf("NodeID not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("distinct paths share NodeID %q", a)
	}
	if a[0] != 'n' {
		t.Errorf("NodeID %q does not start with n", a)
	}
}

func TestTree_DepthAndBounds(t *testing.T) {
	tr := Build(mustParse(t, userDoc))

	if got := tr.Depth(); got != 4 {
		t.Errorf("Depth() = %d, want 4", got)
	}

	minX, minY, maxX, maxY := tr.Bounds()
	if minX != 0.5*DefaultSpacingX || maxX != 3.5*DefaultSpacingX {
		t.Errorf("X bounds = [%v, %v], want [%v, %v]",
			minX, maxX, 0.5*DefaultSpacingX, 3.5*DefaultSpacingX)
	}
	if minY != 0 || maxY != 3*DefaultSpacingY {
		t.Errorf("Y bounds = [%v, %v], want [0, %v]", minY, maxY, 3*DefaultSpacingY)
	}
}
