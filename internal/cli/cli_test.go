package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arborview/arbor/pkg/cache"
	"github.com/arborview/arbor/pkg/config"
	"github.com/arborview/arbor/pkg/pipeline"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := testCLI()
	root := c.RootCommand()

	want := []string{"render", "search", "serve", "explore", "sample", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewCacheNoCache(t *testing.T) {
	c := testCLI()

	store, err := c.newCache(true)
	if err != nil {
		t.Fatalf("newCache(true) error: %v", err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("newCache(true) = %T, want *cache.NullCache", store)
	}
}

func TestNewCacheBackendNone(t *testing.T) {
	c := testCLI()
	c.Config.Cache.Backend = config.CacheBackendNone

	store, err := c.newCache(false)
	if err != nil {
		t.Fatalf("newCache(false) error: %v", err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("newCache(false) with backend none = %T, want *cache.NullCache", store)
	}
}

func TestNewCacheFileBackendUsesConfigDir(t *testing.T) {
	c := testCLI()
	c.Config.Cache.Dir = filepath.Join(t.TempDir(), "arbor-cache")

	store, err := c.newCache(false)
	if err != nil {
		t.Fatalf("newCache(false) error: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(c.Config.Cache.Dir); err != nil {
		t.Errorf("file cache did not create configured dir: %v", err)
	}
}

func TestApplyConfig(t *testing.T) {
	c := testCLI()
	c.Config.Render.Theme = "dark"
	c.Config.Layout.SpacingX = 50
	c.Config.Layout.SpacingY = 90

	opts := pipeline.Options{}
	c.applyConfig(&opts)

	if opts.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", opts.Theme)
	}
	if opts.SpacingX != 50 || opts.SpacingY != 90 {
		t.Errorf("spacing = (%v, %v), want (50, 90)", opts.SpacingX, opts.SpacingY)
	}
}

func TestApplyConfigFlagsWin(t *testing.T) {
	c := testCLI()
	c.Config.Render.Theme = "dark"

	opts := pipeline.Options{Theme: "light", SpacingX: 10}
	c.applyConfig(&opts)

	if opts.Theme != "light" {
		t.Errorf("Theme = %q, explicit flag should win", opts.Theme)
	}
	if opts.SpacingX != 10 {
		t.Errorf("SpacingX = %v, explicit flag should win", opts.SpacingX)
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[render]\ntheme = \"dark\"\n\n[layout]\nspacing_x = 44.0\nspacing_y = 91.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c := testCLI()
	c.configPath = path
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if c.Config.Render.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", c.Config.Render.Theme)
	}
	if c.Config.Layout.SpacingX != 44 {
		t.Errorf("SpacingX = %v, want 44", c.Config.Layout.SpacingX)
	}
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	c := testCLI()
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")
	if err := c.loadConfig(); err == nil {
		t.Error("loadConfig() with missing explicit path should error")
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"a": 1}`), 0644); err != nil {
		t.Fatal(err)
	}

	data, display, err := readSource(path)
	if err != nil {
		t.Fatalf("readSource() error: %v", err)
	}
	if string(data) != `{"a": 1}` {
		t.Errorf("readSource() data = %q", data)
	}
	if display != path {
		t.Errorf("readSource() display = %q, want %q", display, path)
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, _, err := readSource(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("readSource() with missing file should error")
	}
}
