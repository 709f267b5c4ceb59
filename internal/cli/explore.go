package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/pipeline"
	"github.com/arborview/arbor/pkg/search"
)

// exploreCommand creates the explore command for the terminal tree browser.
func (c *CLI) exploreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore [file.json]",
		Short: "Browse a JSON document as a foldable tree in the terminal",
		Long: `Browse a JSON document as a foldable tree in the terminal.

Containers fold and unfold in place, and "/" opens a search prompt that
resolves paths and values live while you type. "y" copies the selected
node's path to the clipboard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runExplore parses the document, builds the tree, and hands it to bubbletea.
func (c *CLI) runExplore(ctx context.Context, input string) error {
	if input == "-" {
		return errors.New(errors.ErrCodeInvalidInput, "explore needs a file: stdin is reserved for the interactive session")
	}

	source, sourcePath, err := readSource(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}

	opts := pipeline.Options{Source: source, SourcePath: sourcePath, Logger: c.Logger}
	c.applyConfig(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	tr, err := runner.Build(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	m := NewExplorerModel(sourcePath, tr, search.Resolver{Tree: tr, Doc: doc})
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}
