package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/tree"
)

func buildTree(t *testing.T, input string) *tree.Tree {
	t.Helper()
	doc, err := document.ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q) error = %v", input, err)
	}
	return tree.Build(doc)
}

func TestFromTree(t *testing.T) {
	tr := buildTree(t, `{"user":{"name":"Ada","tags":["x","y"]}}`)
	g := FromTree(tr)

	if len(g.Nodes) != len(tr.Nodes) {
		t.Errorf("len(Nodes) = %d, want %d", len(g.Nodes), len(tr.Nodes))
	}
	if len(g.Edges) != len(tr.Edges) {
		t.Errorf("len(Edges) = %d, want %d", len(g.Edges), len(tr.Edges))
	}
	if g.Meta.NodeCount != len(tr.Nodes) || g.Meta.EdgeCount != len(tr.Edges) {
		t.Errorf("Meta = %+v, want counts %d/%d", g.Meta, len(tr.Nodes), len(tr.Edges))
	}
	if g.Meta.Depth != tr.Depth() {
		t.Errorf("Meta.Depth = %d, want %d", g.Meta.Depth, tr.Depth())
	}

	root := g.Nodes[0]
	if root.Path != "$" || root.Kind != "object" || root.Depth != 0 {
		t.Errorf("root node = %+v, want path $, kind object, depth 0", root)
	}

	for i, n := range g.Nodes {
		if n.Position.X != tr.Nodes[i].X || n.Position.Y != tr.Nodes[i].Y {
			t.Errorf("node %s position = %+v, want (%v, %v)",
				n.Path, n.Position, tr.Nodes[i].X, tr.Nodes[i].Y)
		}
	}
}

func TestFromTree_ValueOnlyOnPrimitives(t *testing.T) {
	g := FromTree(buildTree(t, `{"name":"Ada","meta":{}}`))

	for _, n := range g.Nodes {
		switch n.Kind {
		case "object", "array":
			if n.Value != "" {
				t.Errorf("container %s has value %q, want empty", n.Path, n.Value)
			}
		default:
			if n.Path == "$.name" && n.Value != "Ada" {
				t.Errorf("primitive %s value = %q, want Ada", n.Path, n.Value)
			}
		}
	}
}

func TestToTree(t *testing.T) {
	tr := buildTree(t, `{"user":{"name":"Ada","age":36},"tags":["x"]}`)

	back, err := ToTree(FromTree(tr))
	if err != nil {
		t.Fatalf("ToTree() error = %v", err)
	}

	if len(back.Nodes) != len(tr.Nodes) || len(back.Edges) != len(tr.Edges) {
		t.Fatalf("restored tree has %d nodes / %d edges, want %d / %d",
			len(back.Nodes), len(back.Edges), len(tr.Nodes), len(tr.Edges))
	}
	for i := range tr.Nodes {
		orig, got := tr.Nodes[i], back.Nodes[i]
		if got.ID != orig.ID || got.Path != orig.Path || got.Kind != orig.Kind {
			t.Errorf("node %d = %+v, want id/path/kind of %+v", i, got, orig)
		}
		if got.X != orig.X || got.Y != orig.Y {
			t.Errorf("node %s position = (%v, %v), want (%v, %v)", got.Path, got.X, got.Y, orig.X, orig.Y)
		}
		if got.Label != orig.Label || got.Value != orig.Value || got.Depth != orig.Depth {
			t.Errorf("node %s = %+v, want label/value/depth of %+v", got.Path, got, orig)
		}
	}

	// The rebuilt path table must resolve the same paths.
	n, ok := back.NodeByPath("$.user.name")
	if !ok {
		t.Fatal("restored tree cannot resolve $.user.name")
	}
	if want, _ := tr.NodeByPath("$.user.name"); n.ID != want.ID {
		t.Errorf("restored lookup = %s, want %s", n.ID, want.ID)
	}
}

func TestToTree_GraphRoundTripBytes(t *testing.T) {
	tr := buildTree(t, `{"items":[{"a":1},{"b":null}]}`)
	g := FromTree(tr)

	back, err := ToTree(g)
	if err != nil {
		t.Fatalf("ToTree() error = %v", err)
	}

	first, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := Marshal(FromTree(back))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("tree -> graph -> tree -> graph changed serialized bytes")
	}
}

func TestToTree_RejectsInvalid(t *testing.T) {
	_, err := ToTree(Graph{
		Nodes: []Node{{ID: "n1"}, {ID: "n2"}},
	})
	if err == nil {
		t.Error("ToTree() accepted a graph violating the edge count invariant")
	}

	_, err = ToTree(Graph{
		Nodes: []Node{{ID: "n1", Kind: "widget"}},
	})
	if err == nil {
		t.Error("ToTree() accepted a node with an unknown kind")
	}
}

func TestToTree_Empty(t *testing.T) {
	back, err := ToTree(Graph{})
	if err != nil {
		t.Fatalf("ToTree() error = %v", err)
	}
	if len(back.Nodes) != 0 || back.Table == nil {
		t.Errorf("empty graph restored to %d nodes, table %v", len(back.Nodes), back.Table)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	g := FromTree(buildTree(t, `{"items":[{"name":"item1"},{"name":"item2"}]}`))

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	again, err := Marshal(back)
	if err != nil {
		t.Fatalf("Marshal() round two error = %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("round trip changed serialized bytes")
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	tr := buildTree(t, `{"b":{"x":1},"a":[true,null]}`)

	first, err := Marshal(FromTree(tr))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := Marshal(FromTree(tr))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical trees serialized differently")
	}
}

func TestMarshal_WireFieldNames(t *testing.T) {
	data, err := Marshal(FromTree(buildTree(t, `{"a":1}`)))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"nodes", "edges", "meta"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("serialized graph missing %q", key)
		}
	}

	nodes, ok := raw["nodes"].([]any)
	if !ok || len(nodes) == 0 {
		t.Fatalf("nodes = %v, want non-empty array", raw["nodes"])
	}
	node := nodes[0].(map[string]any)
	for _, key := range []string{"id", "position", "label", "kind", "path"} {
		if _, ok := node[key]; !ok {
			t.Errorf("serialized node missing %q", key)
		}
	}
	pos := node["position"].(map[string]any)
	if _, ok := pos["x"]; !ok {
		t.Error("position missing x")
	}
}

func TestWriteFileReadFile(t *testing.T) {
	g := FromTree(buildTree(t, `{"a":{"b":2}}`))
	path := filepath.Join(t.TempDir(), "diagram.json")

	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() == 0 {
		t.Error("written file is empty")
	}

	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(back.Nodes) != len(g.Nodes) {
		t.Errorf("len(Nodes) after read = %d, want %d", len(back.Nodes), len(g.Nodes))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   Graph
		wantErr string
	}{
		{
			name:  "empty graph",
			graph: Graph{},
		},
		{
			name: "valid single node",
			graph: Graph{
				Nodes: []Node{{ID: "n1"}},
			},
		},
		{
			name: "edge count mismatch",
			graph: Graph{
				Nodes: []Node{{ID: "n1"}, {ID: "n2"}},
			},
			wantErr: "edge",
		},
		{
			name: "unknown edge target",
			graph: Graph{
				Nodes: []Node{{ID: "n1"}, {ID: "n2"}},
				Edges: []Edge{{ID: "e1", Source: "n1", Target: "nope"}},
			},
			wantErr: "unknown target",
		},
		{
			name: "empty node id",
			graph: Graph{
				Nodes: []Node{{ID: ""}},
			},
			wantErr: "empty id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRead_RejectsInvalid(t *testing.T) {
	_, err := Read(strings.NewReader(`{"nodes":[{"id":"a"},{"id":"b"}],"edges":[]}`))
	if err == nil {
		t.Error("Read() accepted a graph violating the edge count invariant")
	}

	_, err = Read(strings.NewReader(`not json`))
	if err == nil {
		t.Error("Read() accepted malformed JSON")
	}
}
