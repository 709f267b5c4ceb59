package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arborview/arbor/pkg/pipeline"
)

// renderCommand creates the render command for turning JSON into artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file.json]",
		Short: "Render a JSON document to one or more output formats",
		Long: `Render a JSON document to one or more output formats.

The render command parses the document, builds the node-link tree, and renders
it to SVG, PNG, PDF, DOT, HTML, or the graph JSON wire format. Pass "-" to
read the document from stdin.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = c.parseFormats(formatsStr)
			c.applyConfig(&opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateTheme(opts.Theme); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, html, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme: light (default), dark")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include path and depth rows in DOT output")
	cmd.Flags().StringVar(&opts.Title, "title", "", "page title for SVG and HTML output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG rasterization scale (default 2)")
	cmd.Flags().Float64Var(&opts.SpacingX, "spacing-x", 0, "horizontal gap between sibling nodes")
	cmd.Flags().Float64Var(&opts.SpacingY, "spacing-y", 0, "vertical gap between depth levels")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached results exist")

	return cmd
}

// runRender reads the document, runs the full pipeline, and writes artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	source, sourcePath, err := readSource(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}
	opts.Source = source
	opts.SourcePath = sourcePath
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", sourcePath))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		stats:     result.Stats,
		cacheInfo: result.CacheInfo,
	})
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams bundles everything writeArtifacts needs to place
// rendered outputs on disk and report the result.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	stats     pipeline.Stats
	cacheInfo pipeline.CacheInfo
}

// writeArtifacts writes each rendered format to its own file and prints a
// summary. A single format with an explicit --output goes to that exact
// path; otherwise paths derive from the base name plus the format extension.
func writeArtifacts(p artifactWriteParams) error {
	single := len(p.formats) == 1 && p.output != ""
	base := basePath(p.output, p.input)

	written := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if single {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(p.stats.NodeCount, p.stats.EdgeCount, p.cacheInfo.TreeHit && p.cacheInfo.AllRenderHits())
	printNewline()
	printNextStep("Serve", "arbor serve "+p.input)

	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input; stdin input falls
// back to a generic name. If output carries a known format extension, that
// extension is stripped so multiple formats do not stack suffixes.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return pipeline.DefaultSource
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
