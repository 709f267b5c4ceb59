package tree_test

import (
	"fmt"

	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/tree"
)

func ExampleBuild() {
	// Lay out a small document: one object with a nested address.
	doc, _ := document.ParseString(`{"user":{"name":"Ada","address":{"city":"London"}}}`)
	t := tree.Build(doc)

	fmt.Println("Nodes:", len(t.Nodes))
	fmt.Println("Edges:", len(t.Edges))
	fmt.Println("Depth:", t.Depth())
	// Output:
	// Nodes: 5
	// Edges: 4
	// Depth: 4
}

func ExampleBuild_paths() {
	// Every node records the path from the root to its location.
	doc, _ := document.ParseString(`{"items":[{"name":"item1"},{"name":"item2"}]}`)
	t := tree.Build(doc)

	for _, n := range t.Nodes {
		fmt.Println(n.Path)
	}
	// Output:
	// $
	// $.items
	// $.items[0]
	// $.items[0].name
	// $.items[1]
	// $.items[1].name
}

func ExampleTree_NodeByPath() {
	doc, _ := document.ParseString(`{"user":{"name":"Ada"}}`)
	t := tree.Build(doc)

	n, _ := t.NodeByPath("$.user.name")
	fmt.Println(n.Label)
	fmt.Println(n.Value)
	// Output:
	// name: Ada
	// Ada
}
