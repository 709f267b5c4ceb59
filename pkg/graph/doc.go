// Package graph provides the serialization format for laid-out trees.
//
// This package defines the canonical wire format for Arbor's diagram data,
// used for API responses, exported JSON artifacts, caching, and the browser
// viewer.
//
// # Architecture
//
// The package sits at the serialization boundary between the internal
// layout representation and external consumers:
//
//   - [Graph], [Node], [Edge]: Serialization types (this package)
//   - pkg/tree.Tree: Internal layout representation
//
// Use [FromTree] to convert; deserialized graphs are validated on read.
//
// # Wire Format
//
// Graphs use a node-link JSON format with positions baked in:
//
//	{
//	  "nodes": [
//	    {"id": "n1a...", "position": {"x": 520, "y": 0}, "label": "$",
//	     "kind": "object", "path": "$", "depth": 0}
//	  ],
//	  "edges": [
//	    {"id": "e:n1a...:n9f...", "source": "n1a...", "target": "n9f..."}
//	  ],
//	  "meta": {"node_count": 1, "edge_count": 0, "depth": 1}
//	}
//
// Common operations:
//
//	g := graph.FromTree(t)                      // Tree → Graph
//	data, _ := graph.Marshal(g)                 // Graph → []byte
//	graph.WriteFile(g, "diagram.json")          // Graph → file
//	parsed, _ := graph.ReadFile("diagram.json") // file → Graph
//
// # Determinism
//
// Serialization carries no timestamps or environment data: the same
// document always produces byte-identical graph JSON. Rendering surfaces
// and the artifact cache both rely on this.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
