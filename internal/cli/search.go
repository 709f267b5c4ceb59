package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/pipeline"
	"github.com/arborview/arbor/pkg/search"
)

// searchCommand creates the search command for resolving queries against a document.
func (c *CLI) searchCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [file.json] [query]",
		Short: "Resolve a path or value query against a JSON document",
		Long: `Resolve a path or value query against a JSON document.

The query runs through the same cascade the viewer uses: exact path lookup,
JSONPath evaluation, value matching, then relaxed path forms. The first hit
wins and the command prints the matched node's path.

A miss is not an error; the command reports it and exits zero.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), args[0], args[1], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// runSearch parses the document, builds the tree, and resolves the query.
func (c *CLI) runSearch(ctx context.Context, input, rawQuery string, asJSON bool) error {
	if err := errors.ValidateQuery(rawQuery); err != nil {
		return err
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
		return fmt.Errorf("search: %w", err)
	}
	tr, err := runner.Build(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	resolver := search.Resolver{Tree: tr, Doc: doc}
	m, found := resolver.Resolve(rawQuery)

	if asJSON {
		out := struct {
			Found bool `json:"found"`
			search.Match
		}{Found: found, Match: m}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if !found {
		display := m.Query
		if display == "" {
			display = rawQuery
		}
		printInfo("no match for %s", display)
		return nil
	}

	printSuccess("Match found")
	printKeyValue("path", m.Path)
	printKeyValue("stage", string(m.Stage))
	if node, ok := tr.NodeByID(m.ID); ok {
		if node.Value != "" {
			printKeyValue("value", node.Value)
		} else {
			printKeyValue("kind", node.Kind.String())
		}
	}

	return nil
}
