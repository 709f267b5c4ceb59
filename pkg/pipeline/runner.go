package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arborview/arbor/pkg/cache"
	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/graph"
	"github.com/arborview/arbor/pkg/observability"
	"github.com/arborview/arbor/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// CLI, server, and TUI all use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Document = doc
	result.Stats.ParseTime = time.Since(parseStart)

	r.Logger.Info("parsed document",
		"source", opts.SourcePath,
		"bytes", len(opts.Source),
		"duration", result.Stats.ParseTime)

	// Stage 2: Build
	buildStart := time.Now()
	tr, treeHit, err := r.BuildWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Tree = tr
	result.Graph = graph.FromTree(tr)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(tr.Nodes)
	result.Stats.EdgeCount = len(tr.Edges)
	result.Stats.Depth = tr.Depth()
	result.CacheInfo.TreeHit = treeHit

	// Compute tree hash for cache keys and API responses
	if data, err := graph.Marshal(result.Graph); err == nil {
		result.TreeHash = cache.Hash(data)
	}

	r.Logger.Info("built tree",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"depth", result.Stats.Depth,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHits, err := r.RenderWithCacheInfo(ctx, tr, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHits = renderHits
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse decodes the source document into its ordered representation.
// Parsing is local and cheap, so it is never cached.
func (r *Runner) Parse(ctx context.Context, opts Options) (*document.Value, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnParseStart(ctx, opts.SourcePath)
	start := time.Now()
	doc, err := document.ParseBytes(opts.Source)
	observability.Pipeline().OnParseComplete(ctx, opts.SourcePath, len(opts.Source), time.Since(start), err)

	return doc, err
}

// BuildWithCacheInfo lays out a parsed document with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, doc *document.Value, opts Options) (*tree.Tree, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	// Key on the canonical document serialization, so raw inputs that differ
	// only in formatting share one tree entry.
	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	cacheKey := r.Keyer.TreeKey(cache.Hash(docData), opts.TreeKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "tree")
			if g, err := graph.Unmarshal(data); err == nil {
				if tr, err := graph.ToTree(g); err == nil {
					return tr, true, nil // Cache hit
				}
			}
			// Undecodable entry - fall through and rebuild
		} else {
			observability.Cache().OnCacheMiss(ctx, "tree")
		}
	}

	// Build
	observability.Pipeline().OnBuildStart(ctx, opts.SourcePath)
	start := time.Now()
	tr := tree.Build(doc, tree.WithSpacing(opts.SpacingX, opts.SpacingY))
	observability.Pipeline().OnBuildComplete(ctx, opts.SourcePath, len(tr.Nodes), time.Since(start), nil)

	// Cache the result
	if data, err := graph.Marshal(graph.FromTree(tr)); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLTree)
		observability.Cache().OnCacheSet(ctx, "tree", len(data))
	}

	return tr, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, doc *document.Value, opts Options) (*tree.Tree, error) {
	tr, _, err := r.BuildWithCacheInfo(ctx, doc, opts)
	return tr, err
}

// RenderWithCacheInfo renders artifacts with caching and returns per-format cache hit info.
// Formats are cached independently: a run that adds "png" to a previously
// rendered "svg" re-renders only the PNG.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tr *tree.Tree, opts Options) (map[string][]byte, map[string]bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, nil, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the serialized tree
	treeData, err := graph.Marshal(graph.FromTree(tr))
	if err != nil {
		return nil, nil, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	treeHash := cache.Hash(treeData)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	hits := make(map[string]bool, len(opts.Formats))

	var renderErr error
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				hits[format] = true
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}

		data, err := renderArtifact(tr, format, opts)
		if err != nil {
			renderErr = fmt.Errorf("render %s: %w", format, err)
			break
		}
		artifacts[format] = data
		hits[format] = false

		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, nil, renderErr
	}

	return artifacts, hits, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, tr *tree.Tree, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, tr, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
