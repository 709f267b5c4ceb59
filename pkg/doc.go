// Package pkg provides the core libraries for arbor JSON visualization.
//
// # Overview
//
// Arbor turns JSON text into an explorable node-link tree: every object,
// array, and primitive becomes a positioned node, and parent-child edges
// connect containers to their members. The pkg directory is organized into
// four main areas:
//
//  1. [document] - Order-preserving JSON parsing
//  2. [tree] - Deterministic tree building and layout
//  3. [search] - Query resolution (paths, JSONPath, values)
//  4. [render] - Output formats (SVG, DOT, HTML, PNG, PDF)
//
// # Architecture
//
// The typical data flow through arbor:
//
//	JSON text
//	     ↓
//	[document] package (parse, member order preserved)
//	     ↓
//	[tree] package (measure + place nodes, build the path table)
//	     ↓
//	[render] packages (SVG/DOT/HTML output)
//	     ↓
//	files, the served viewer, or the terminal explorer
//
// The [search] package resolves user queries against the built tree and is
// shared by every surface: the CLI, the HTTP viewer, and the TUI all call
// the same resolver.
//
// # Quick Start
//
// Parse a document, build the tree, and resolve a query:
//
//	import (
//	    "github.com/arborview/arbor/pkg/document"
//	    "github.com/arborview/arbor/pkg/search"
//	    "github.com/arborview/arbor/pkg/tree"
//	)
//
//	// 1. Parse (object member order is preserved)
//	doc, _ := document.ParseString(`{"user": {"name": "Ada"}}`)
//
//	// 2. Build the laid-out tree
//	t := tree.Build(doc)
//
//	// 3. Resolve a query to a node
//	m, ok := search.Resolve("user.name", t)
//	if ok {
//	    fmt.Println(m.Path) // $.user.name
//	}
//
// Render the tree to a standalone SVG:
//
//	out := svg.Render(t, svg.WithTheme(render.Dark))
//	os.WriteFile("doc.svg", out, 0644)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [document] - Strict single-document JSON parsing on a token stream. Object
// member order survives the parse, numbers keep their source text, and parse
// errors carry byte offsets.
//
// [tree] - The layout engine. A bottom-up measurement pass assigns every
// subtree a column width (its leaf count), then a top-down placement pass
// positions nodes and records each node's path in an insertion-ordered path
// table. Output is deterministic: the same bytes always produce the same
// tree.
//
// [search] - Staged query resolution: exact path lookup, JSONPath
// evaluation, value matching, alternate root forms, suffix, and containment,
// in that order. Resolution never errors; a miss is a normal outcome.
//
// ## Visualization
//
// [render] - Top-level utilities shared by the renderers: color themes and
// format conversion (SVG to PDF/PNG via rsvg-convert).
//
//   - [render/svg]: native SVG drawn from the computed positions
//   - [render/nodelink]: Graphviz DOT diagrams and graphviz-rendered SVG/PNG
//   - [render/html]: self-contained interactive viewer pages
//
// ## Serialization
//
// [graph] - The wire format consumed by rendering surfaces: nodes with
// positions, edges, and document metadata as JSON.
//
// ## Infrastructure
//
// [pipeline] - Complete visualization pipeline (parse → build → render) used
// by the CLI and the server. Ensures consistent behavior across all entry
// points and caches the build and render stages.
//
// [cache] - Cache backends for trees and rendered artifacts: FileCache
// (filesystem, TTL entries), RedisCache, and NullCache. Keyers derive stable
// cache keys from document and tree hashes.
//
// [config] - Optional TOML configuration (~/.config/arbor/config.toml) for
// layout spacing, theme, cache backend, and server address.
//
// [errors] - Coded errors shared across the module, with wrapping and
// user-facing message helpers.
//
// [observability] - Pipeline, cache, and server hooks with noop defaults.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/tree/...     # Specific package
//	go test -run Example       # Examples only
//
// [document]: https://pkg.go.dev/github.com/arborview/arbor/pkg/document
// [tree]: https://pkg.go.dev/github.com/arborview/arbor/pkg/tree
// [search]: https://pkg.go.dev/github.com/arborview/arbor/pkg/search
// [render]: https://pkg.go.dev/github.com/arborview/arbor/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/arborview/arbor/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/arborview/arbor/pkg/render/nodelink
// [render/html]: https://pkg.go.dev/github.com/arborview/arbor/pkg/render/html
// [graph]: https://pkg.go.dev/github.com/arborview/arbor/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/arborview/arbor/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/arborview/arbor/pkg/cache
// [config]: https://pkg.go.dev/github.com/arborview/arbor/pkg/config
// [errors]: https://pkg.go.dev/github.com/arborview/arbor/pkg/errors
// [observability]: https://pkg.go.dev/github.com/arborview/arbor/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/arborview/arbor/pkg/buildinfo
package pkg
