// Package server hosts the interactive viewer and the documents API.
//
// # Architecture
//
// The server keeps uploaded documents in a bounded in-memory store. Each
// entry holds the raw text plus everything derived from it (parsed document,
// laid-out tree, graph wire JSON), so reads never re-run the pipeline. POST
// and PUT run parse and build once; search and export work against the
// stored tree. Replacing a document swaps the whole entry under a lock, so
// a superseded version never leaks into a response.
//
// # Usage
//
//	srv := server.New(server.Options{Addr: "127.0.0.1:8080"})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is canceled, then shuts down gracefully.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/graph"
	"github.com/arborview/arbor/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// Options configures a Server.
type Options struct {
	// Addr is the listen address, host:port. Empty means DefaultAddr.
	Addr string

	// MaxDocuments bounds the in-memory store; the oldest document is
	// evicted when a new one would exceed it. Zero means
	// DefaultMaxDocuments.
	MaxDocuments int

	// DocumentTTL drops documents untouched for this long. Zero means
	// DefaultDocumentTTL; negative disables expiry.
	DocumentTTL time.Duration

	// Runner executes the pipeline for uploads and exports. Nil means a
	// cacheless runner.
	Runner *pipeline.Runner

	// Logger receives request and lifecycle logs. Nil means log.Default().
	Logger *log.Logger
}

// Server serves the viewer page and the documents API.
type Server struct {
	addr   string
	logger *log.Logger
	store  *DocumentStore
	runner *pipeline.Runner
}

// New constructs a Server. Zero options get working defaults, so
// server.New(server.Options{}) is a usable local viewer.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	ttl := opts.DocumentTTL
	switch {
	case ttl == 0:
		ttl = DefaultDocumentTTL
	case ttl < 0:
		ttl = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	return &Server{
		addr:   opts.Addr,
		logger: logger,
		store:  NewDocumentStore(opts.MaxDocuments, ttl),
		runner: runner,
	}
}

// Load parses and builds text and stores the result as a new document.
// The serve command uses it to preload a file before the server starts.
func (s *Server) Load(ctx context.Context, text []byte) (*Entry, error) {
	entry, err := s.buildEntry(ctx, text)
	if err != nil {
		return nil, err
	}
	s.store.Create(entry)
	return entry, nil
}

// buildEntry runs the parse and build stages for text and packs the results
// into a store entry. The entry is not stored yet and has no ID.
func (s *Server) buildEntry(ctx context.Context, text []byte) (*Entry, error) {
	opts := pipeline.Options{
		Source:     text,
		SourcePath: "upload",
		Logger:     s.logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	parseStart := time.Now()
	doc, err := s.runner.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	parseTime := time.Since(parseStart)

	buildStart := time.Now()
	tr, err := s.runner.Build(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	buildTime := time.Since(buildStart)

	graphJSON, err := graph.Marshal(graph.FromTree(tr))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}

	return &Entry{
		Text:      text,
		Doc:       doc,
		Tree:      tr,
		GraphJSON: graphJSON,
		Stats: pipeline.Stats{
			NodeCount: len(tr.Nodes),
			EdgeCount: len(tr.Edges),
			Depth:     tr.Depth(),
			ParseTime: parseTime,
			BuildTime: buildTime,
		},
	}, nil
}

// Handler returns the route tree. The search route takes both GET with a
// ?q= parameter and POST with a JSON body, because the embedded viewer
// posts its queries.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/sample", s.handleSample)

	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleReplace)
			r.Delete("/", s.handleDelete)
			r.Get("/search", s.handleSearch)
			r.Post("/search", s.handleSearch)
			r.Get("/export", s.handleExport)
		})
	})

	return r
}

// Start listens on the configured address and serves until ctx is canceled,
// then shuts down gracefully, giving in-flight requests a grace period.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeServer, err, "listen on %s", s.addr)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.store.StartJanitor(ctx, time.Minute)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(errors.ErrCodeServer, err, "serve")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeServer, err, "shutdown")
	}

	s.logger.Info("server stopped")
	return nil
}
