// Package render turns laid-out trees into visual outputs.
//
// # Overview
//
// This package contains the rendering pipeline that transforms trees into
// artifacts. It provides:
//
//   - Shared color themes for all renderers
//   - Generic format conversion (SVG to PDF/PNG)
//   - Native SVG output (in [svg] subpackage)
//   - Graphviz DOT diagrams (in [nodelink] subpackage)
//   - Self-contained interactive viewer pages (in [html] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They are shared by the svg
// and nodelink renderers.
//
//	out := svg.Render(t, svg.WithTheme(render.Dark))
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)  // 2x scale
//
// # Renderers
//
// The [svg] subpackage draws the tree directly from its computed positions,
// so its output matches what the interactive viewer shows. The [nodelink]
// subpackage emits Graphviz DOT instead and lets the dot engine place
// nodes, which reads better for very wide documents. The [html] subpackage
// wraps the tree in a standalone web page with pan, zoom, and search.
//
// [svg]: github.com/arborview/arbor/pkg/render/svg
// [nodelink]: github.com/arborview/arbor/pkg/render/nodelink
// [html]: github.com/arborview/arbor/pkg/render/html
package render
