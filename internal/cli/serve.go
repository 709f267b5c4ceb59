package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/arborview/arbor/internal/server"
)

// serveCommand creates the serve command for the HTTP viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file.json]",
		Short: "Serve the interactive viewer over HTTP",
		Long: `Serve the interactive viewer over HTTP.

The server keeps uploaded documents in memory and renders each one as an
interactive node-link tree. Pass a file to preload it; without one the
viewer opens on a bundled sample until a document is uploaded.

Documents expire after the configured TTL and the store evicts the oldest
entry when full. Nothing is written to disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address host:port (default from config: 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable pipeline caching")

	return cmd
}

// runServe builds the server from configuration, optionally preloads one
// document, and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr string, noCache bool) error {
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", c.Config.Server.Host, c.Config.Server.Port)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Options{
		Addr:         addr,
		MaxDocuments: c.Config.Server.MaxDocuments,
		DocumentTTL:  time.Duration(c.Config.Server.DocumentTTLMinutes) * time.Minute,
		Runner:       runner,
		Logger:       c.Logger,
	})

	if input != "" {
		source, sourcePath, err := readSource(input)
		if err != nil {
			return fmt.Errorf("read document %s: %w", input, err)
		}
		entry, err := srv.Load(ctx, source)
		if err != nil {
			return fmt.Errorf("preload %s: %w", sourcePath, err)
		}
		printInfo("Preloaded %s (%d nodes)", sourcePath, entry.Stats.NodeCount)
	}

	printSuccess("Serving on %s", StyleLink.Render(serveURL(addr)))
	printDetail("press ctrl+c to stop")
	printNewline()

	return srv.Start(ctx)
}

// serveURL turns a listen address into something clickable. Wildcard hosts
// display as localhost.
func serveURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
