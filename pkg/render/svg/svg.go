// Package svg renders trees as standalone SVG images.
//
// Nodes are drawn at the exact positions computed by the tree builder, so
// the output matches what the interactive viewer shows. The image needs no
// external tools and no scripts; hover highlighting is plain CSS.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/render"
	"github.com/arborview/arbor/pkg/tree"
)

const hoverCSS = `
    .node rect { transition: stroke-width 0.15s ease; }
    .node:hover rect { stroke-width: 3; }
    .node title { pointer-events: none; }`

const (
	defaultNodeWidth  = 220.0
	defaultNodeHeight = 48.0
	framePadding      = 40.0
	cornerRadius      = 8.0
	fontSize          = 14.0

	titleBand     = 44.0
	titleFontSize = 18.0

	legendBand     = 40.0
	legendSwatch   = 14.0
	legendFontSize = 12.0
	// Narrow trees are widened so the legend row never overflows the frame.
	legendMinWidth = 520.0
)

// legendKinds is the palette order shown in the legend row.
var legendKinds = []document.Kind{
	document.KindObject,
	document.KindArray,
	document.KindString,
	document.KindNumber,
	document.KindBool,
	document.KindNull,
}

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	theme      render.Theme
	nodeWidth  float64
	nodeHeight float64
	title      string
	scale      float64
	legend     bool
}

// WithTheme selects the color palette. The default is render.Light.
func WithTheme(t render.Theme) Option { return func(r *renderer) { r.theme = t } }

// WithTitle draws a heading above the tree. Empty titles draw nothing.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithLegend adds a row naming the kind palette below the tree.
func WithLegend() Option { return func(r *renderer) { r.legend = true } }

// WithScale multiplies the rendered pixel size. The drawing coordinates are
// unchanged; only the width and height attributes grow, so viewers rasterize
// at a higher resolution. Non-positive values are ignored.
func WithScale(scale float64) Option {
	return func(r *renderer) {
		if scale > 0 {
			r.scale = scale
		}
	}
}

// WithNodeSize overrides the node box dimensions. Non-positive values are ignored.
func WithNodeSize(w, h float64) Option {
	return func(r *renderer) {
		if w > 0 {
			r.nodeWidth = w
		}
		if h > 0 {
			r.nodeHeight = h
		}
	}
}

// Render draws the tree as a self-contained SVG image.
func Render(t *tree.Tree, opts ...Option) []byte {
	r := newRenderer(opts...)

	minX, minY, maxX, maxY := t.Bounds()

	// Node X is a column center, so the frame extends half a box past the
	// outermost centers.
	left := minX - r.nodeWidth/2 - framePadding
	top := minY - framePadding
	width := (maxX - minX) + r.nodeWidth + 2*framePadding
	height := (maxY - minY) + r.nodeHeight + 2*framePadding

	if r.title != "" {
		top -= titleBand
		height += titleBand
	}
	legend := r.legend && len(t.Nodes) > 0
	if legend {
		height += legendBand
		if width < legendMinWidth {
			width = legendMinWidth
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width*r.scale, height*r.scale)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", hoverCSS)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" dominant-baseline="central" font-family="monospace" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			framePadding/2, titleBand/2, titleFontSize, r.theme.Text, EscapeXML(r.title))
	}

	r.renderEdges(&buf, t, left, top)
	r.renderNodes(&buf, t, left, top)
	if legend {
		r.renderLegend(&buf, height)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newRenderer(opts ...Option) renderer {
	r := renderer{
		theme:      render.Light,
		nodeWidth:  defaultNodeWidth,
		nodeHeight: defaultNodeHeight,
		scale:      1,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// renderEdges draws one cubic bezier per edge, from the bottom center of
// the parent box to the top center of the child box. Edges go first so
// node boxes paint over the line ends.
func (r *renderer) renderEdges(buf *bytes.Buffer, t *tree.Tree, left, top float64) {
	if len(t.Edges) == 0 {
		return
	}

	pos := make(map[string]*tree.Node, len(t.Nodes))
	for i := range t.Nodes {
		pos[t.Nodes[i].ID] = &t.Nodes[i]
	}

	buf.WriteString("  <g class=\"edges\">\n")
	for _, e := range t.Edges {
		parent, child := pos[e.Source], pos[e.Target]
		if parent == nil || child == nil {
			continue
		}
		x1 := parent.X - left
		y1 := parent.Y - top + r.nodeHeight
		x2 := child.X - left
		y2 := child.Y - top
		mid := (y1 + y2) / 2
		fmt.Fprintf(buf, `    <path class="edge" d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			x1, y1, x1, mid, x2, mid, x2, y2, r.theme.EdgeStroke)
	}
	buf.WriteString("  </g>\n")
}

func (r *renderer) renderNodes(buf *bytes.Buffer, t *tree.Tree, left, top float64) {
	if len(t.Nodes) == 0 {
		return
	}

	buf.WriteString("  <g class=\"nodes\">\n")
	for i := range t.Nodes {
		n := &t.Nodes[i]
		x := n.X - left - r.nodeWidth/2
		y := n.Y - top

		fmt.Fprintf(buf, "    <g class=\"node\" id=\"node-%s\">\n", n.ID)
		fmt.Fprintf(buf, "      <title>%s</title>\n", EscapeXML(n.Path))
		fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s"/>`+"\n",
			x, y, r.nodeWidth, r.nodeHeight, cornerRadius, r.theme.Fill(n.Kind), r.theme.NodeStroke)
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`+"\n",
			n.X-left, y+r.nodeHeight/2, fontSize, r.theme.Text, EscapeXML(r.truncate(n.Label)))
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")
}

// renderLegend draws one swatch and label per kind along the bottom edge.
func (r *renderer) renderLegend(buf *bytes.Buffer, height float64) {
	x := framePadding / 2
	y := height - legendBand/2

	buf.WriteString("  <g class=\"legend\">\n")
	for _, k := range legendKinds {
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.0f" height="%.0f" rx="3" fill="%s" stroke="%s"/>`+"\n",
			x, y-legendSwatch/2, legendSwatch, legendSwatch, r.theme.Fill(k), r.theme.NodeStroke)
		x += legendSwatch + 6

		label := k.String()
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" dominant-baseline="central" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x, y, legendFontSize, r.theme.Text, label)
		x += float64(len(label))*legendFontSize*0.62 + 18
	}
	buf.WriteString("  </g>\n")
}

// truncate shortens labels that would overflow the node box.
func (r *renderer) truncate(label string) string {
	charWidth := fontSize * 0.62
	maxChars := int((r.nodeWidth - 16) / charWidth)
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

// EscapeXML escapes a string for embedding in SVG text content.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
