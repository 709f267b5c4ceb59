package pipeline

import (
	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/graph"
	"github.com/arborview/arbor/pkg/render"
	"github.com/arborview/arbor/pkg/render/html"
	"github.com/arborview/arbor/pkg/render/nodelink"
	"github.com/arborview/arbor/pkg/render/svg"
	"github.com/arborview/arbor/pkg/tree"
)

// renderArtifact renders one output format for a tree.
//
// PNG and PDF rasterize the native SVG, so all image formats show the same
// layout. DOT is Graphviz source text, HTML is the standalone viewer page,
// and JSON is the wire-format graph.
func renderArtifact(t *tree.Tree, format string, opts Options) ([]byte, error) {
	theme, err := render.ThemeByName(opts.Theme)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSVG:
		return renderSVG(t, theme, opts), nil
	case FormatPNG:
		return render.ToPNG(renderSVG(t, theme, opts), opts.Scale)
	case FormatPDF:
		return render.ToPDF(renderSVG(t, theme, opts))
	case FormatDOT:
		return []byte(nodelink.ToDOT(t, nodelink.Options{Theme: theme, Detailed: opts.Detailed})), nil
	case FormatHTML:
		return html.Render(t, html.Options{Title: opts.Title, Theme: theme})
	case FormatJSON:
		return graph.Marshal(graph.FromTree(t))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
}

func renderSVG(t *tree.Tree, theme render.Theme, opts Options) []byte {
	svgOpts := []svg.Option{svg.WithTheme(theme)}
	if opts.Title != "" {
		svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
	}
	return svg.Render(t, svgOpts...)
}
