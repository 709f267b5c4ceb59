package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/ohler55/ojg/pretty"
	"github.com/spf13/cobra"

	"github.com/arborview/arbor/internal/sample"
)

// sampleCommand creates the sample command emitting the bundled demo document.
func (c *CLI) sampleCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Emit the bundled sample JSON document",
		Long: `Emit the bundled sample JSON document.

The sample covers every JSON kind the tree distinguishes and is small enough
to read in full. Use it to try the render, search, and explore commands
without hunting for a document first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// runSample pretty-prints the embedded document to the chosen output.
func runSample(output string) error {
	val, err := oj.Parse(sample.Document())
	if err != nil {
		return fmt.Errorf("sample document: %w", err)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.WriteString(out, pretty.JSON(val, 80.3)+"\n"); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Sample written")
		printFile(output)
		printNewline()
		printNextStep("Render", "arbor render "+output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
