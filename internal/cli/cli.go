// Package cli implements the arbor command-line interface.
//
// This package provides commands for rendering JSON documents as node-link
// trees, resolving search queries, serving the interactive viewer, and
// managing the artifact cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG, PDF, DOT, HTML, or graph JSON output
//   - search: Resolve a path or value query against a document
//   - serve: Host the interactive viewer over HTTP
//   - explore: Browse a document as a foldable tree in the terminal
//   - cache: Manage the tree and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI owns
// one logger and hands it to the pipeline through Options.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().Execute(); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arborview/arbor/pkg/buildinfo"
	"github.com/arborview/arbor/pkg/cache"
	"github.com/arborview/arbor/pkg/config"
	"github.com/arborview/arbor/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "arbor"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "arbor",
		Short:        "Arbor visualizes JSON documents as node-link trees",
		Long:         `Arbor is a CLI tool for turning JSON documents into interactive node-link trees, making it easier to understand the shape of deeply nested data.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to a TOML config file (default: XDG config dir)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration. An explicit --config path
// must exist; the default location is best-effort.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.LoadFile(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
		return nil
	}
	c.Config = config.Load()
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache selects the cache backend from configuration. Backend selection
// errors fall back to the null cache rather than failing the command.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == config.CacheBackendNone {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == config.CacheBackendRedis {
		return cache.NewRedisCache(c.Config.Cache.RedisAddr, c.Config.Cache.RedisPassword, c.Config.Cache.RedisDB)
	}
	dir, err := c.resolveCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/arbor/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// resolveCacheDir returns the file cache root, honoring the config override.
func (c *CLI) resolveCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Input Helpers
// =============================================================================

// readSource reads the JSON document for a command. The conventional "-"
// reads from stdin. The returned display path feeds logs and cache keys.
func readSource(path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, "stdin", err
	}
	data, err := os.ReadFile(path)
	return data, path, err
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills pipeline options that the user left unset from the
// loaded configuration. Flags always win over config values.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	if opts.Theme == "" {
		opts.Theme = c.Config.Render.Theme
	}
	if opts.SpacingX == 0 {
		opts.SpacingX = c.Config.Layout.SpacingX
	}
	if opts.SpacingY == 0 {
		opts.SpacingY = c.Config.Layout.SpacingY
	}
}

// parseFormats parses a comma-separated format string into a slice.
func (c *CLI) parseFormats(s string) []string {
	if s == "" {
		if c.Config.Render.Format != "" {
			return []string{c.Config.Render.Format}
		}
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
