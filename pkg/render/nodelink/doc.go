// Package nodelink renders trees as Graphviz node-link diagrams.
//
// # Architecture
//
// Unlike the svg renderer, which draws nodes at the exact positions
// computed by the tree builder, nodelink hands placement to Graphviz:
//
//	svg:      document → tree.Build() → Tree → svg.Render() → SVG
//	nodelink: document → tree.Build() → Tree → ToDOT() → DOT → RenderSVG() → SVG
//
// The DOT string is the intermediate representation. It can be written out
// directly with the dot output format and re-rendered later without
// re-parsing the source document.
//
// # Usage
//
//	doc, _ := document.ParseString(src)
//	t := tree.Build(doc)
//	dot := nodelink.ToDOT(t, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
package nodelink
