// Package pipeline provides the core visualization pipeline for Arbor.
//
// This package implements the complete parse → build → render pipeline that
// can be used by CLI, server, and TUI components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode the JSON document into its ordered representation
//  2. Build: Lay the document out as a positioned node-link tree
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, HTML, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Parsing is local and cheap, so it is never cached; built trees and rendered
// artifacts are.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:     data,
//	    SourcePath: "orders.json",
//	    Formats:    []string{"svg", "html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	doc, err := runner.Parse(ctx, opts)
//
//	// Build with a parsed document
//	tr, err := runner.Build(ctx, doc, opts)
//
//	// Render with an existing tree
//	artifacts, err := runner.Render(ctx, tr, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arborview/arbor/pkg/cache"
	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/graph"
	"github.com/arborview/arbor/pkg/render"
	"github.com/arborview/arbor/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and TUI
// =============================================================================

const (
	// DefaultTheme is the default color palette.
	DefaultTheme = "light"

	// DefaultScale is the default PNG rasterization scale.
	DefaultScale = 2.0

	// DefaultSource is the display name used when the caller does not say
	// where the document came from.
	DefaultSource = "document"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatHTML = "html"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatHTML: true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests; the document
// itself travels out of band.
type Options struct {
	// Parse options
	Source     []byte `json:"-"`                     // raw JSON document
	SourcePath string `json:"source_path,omitempty"` // display name: file path, "stdin", or document ID

	// Layout options
	SpacingX float64 `json:"spacing_x,omitempty"`
	SpacingY float64 `json:"spacing_y,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Theme    string   `json:"theme,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // DOT output carries path and depth rows
	Title    string   `json:"title,omitempty"`    // HTML page title
	Scale    float64  `json:"scale,omitempty"`    // PNG rasterization scale
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cached trees and artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed JSON document.
	Document *document.Value

	// Tree is the laid-out node-link tree.
	Tree *tree.Tree

	// Graph is the tree in wire format, as served to viewers.
	Graph graph.Graph

	// TreeHash is the content hash of the serialized tree.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Depth      int
	ParseTime  time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TreeHit    bool            // Whether the built tree came from cache
	RenderHits map[string]bool // Per-format: whether the artifact came from cache
}

// AllRenderHits reports whether every requested artifact came from cache.
func (c CacheInfo) AllRenderHits() bool {
	if len(c.RenderHits) == 0 {
		return false
	}
	for _, hit := range c.RenderHits {
		if !hit {
			return false
		}
	}
	return true
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, dot, html, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme name is known.
func ValidateTheme(theme string) error {
	_, err := render.ThemeByName(theme)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if len(o.Source) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source document is required")
	}
	if err := errors.ValidateDocumentSize(len(o.Source)); err != nil {
		return err
	}

	// Parse defaults
	if o.SourcePath == "" {
		o.SourcePath = DefaultSource
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for tree building.
func (o *Options) SetLayoutDefaults() {
	if o.SpacingX == 0 {
		o.SpacingX = tree.DefaultSpacingX
	}
	if o.SpacingY == 0 {
		o.SpacingY = tree.DefaultSpacingY
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// TreeKeyOpts returns cache key options for tree building.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		SpacingX: o.SpacingX,
		SpacingY: o.SpacingY,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Theme:    o.Theme,
		Detailed: o.Detailed,
		Title:    o.Title,
		Scale:    o.Scale,
	}
}
