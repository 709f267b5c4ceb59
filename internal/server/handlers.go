package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arborview/arbor/internal/sample"
	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/pipeline"
	"github.com/arborview/arbor/pkg/render/html"
	"github.com/arborview/arbor/pkg/search"
)

// createRequest is the body of POST and PUT document calls.
type createRequest struct {
	Text string `json:"text"`
}

// searchRequest is the body the embedded viewer posts to the search route.
type searchRequest struct {
	Query string `json:"query"`
}

// documentResponse is the reply to document creation and replacement.
type documentResponse struct {
	ID    string          `json:"id"`
	Graph json.RawMessage `json:"graph"`
	Stats statsPayload    `json:"stats"`
}

// statsPayload is the subset of pipeline stats exposed over the API.
type statsPayload struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
	Depth     int `json:"depth"`
}

// searchResponse is the reply to a search call. The embedded Match fields
// flatten into the object, so a hit reads
// {"found":true,"id":"…","path":"…","stage":"exact","query":"…"}.
type searchResponse struct {
	Found bool `json:"found"`
	search.Match
}

// errorResponse is the envelope every error reply uses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// contentTypes maps export formats onto their Content-Type header.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatHTML: "text/html; charset=utf-8",
	pipeline.FormatJSON: "application/json",
}

// handleIndex serves the viewer page for the most recent document. An empty
// store shows the bundled sample instead, built on the fly and not stored,
// so a GET never mutates anything.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.store.Newest()
	var searchURL string
	if ok {
		searchURL = "/api/documents/" + entry.ID + "/search"
	} else {
		var err error
		entry, err = s.buildEntry(r.Context(), sample.Document())
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	page, err := html.Render(entry.Tree, html.Options{
		SearchURL: searchURL,
		EditURL:   "/api/documents",
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSample returns the bundled sample document text.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(sample.Document())
}

// handleCreate stores a new document and replies with its graph.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	text, err := readDocumentText(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entry, err := s.Load(r.Context(), text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, documentResponse{
		ID:    entry.ID,
		Graph: entry.GraphJSON,
		Stats: newStatsPayload(entry.Stats),
	})
}

// handleGet returns the stored graph for a document.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, errDocumentNotFound(id))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(entry.GraphJSON)
}

// handleReplace rebuilds a document from new text and swaps it in under the
// same ID.
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Get(id); !ok {
		s.writeError(w, errDocumentNotFound(id))
		return
	}

	text, err := readDocumentText(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entry, err := s.buildEntry(r.Context(), text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !s.store.Replace(id, entry) {
		s.writeError(w, errDocumentNotFound(id))
		return
	}

	s.writeJSON(w, http.StatusOK, documentResponse{
		ID:    id,
		Graph: entry.GraphJSON,
		Stats: newStatsPayload(entry.Stats),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		s.writeError(w, errDocumentNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearch resolves a query against a stored document. A miss is a
// normal reply with found false, not an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, errDocumentNotFound(id))
		return
	}

	q := r.URL.Query().Get("q")
	if r.Method == http.MethodPost {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
			return
		}
		q = req.Query
	}
	if err := errors.ValidateQuery(q); err != nil {
		s.writeError(w, err)
		return
	}

	resolver := &search.Resolver{Tree: entry.Tree, Doc: entry.Doc}
	m, found := resolver.Resolve(q)
	s.writeJSON(w, http.StatusOK, searchResponse{Found: found, Match: m})
}

// handleExport renders one artifact for a stored document and returns the
// raw bytes with the format's content type.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, errDocumentNotFound(id))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Source:     entry.Text,
		SourcePath: id,
		Formats:    []string{format},
		Logger:     s.logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), entry.Tree, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(artifacts[format])
}

// readDocumentText decodes the {"text": …} request body. The read is capped
// well above the document limit, since JSON escaping inside the envelope
// inflates the text.
func readDocumentText(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4*errors.MaxDocumentBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	var req createRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing document text")
	}
	return []byte(req.Text), nil
}

func newStatsPayload(st pipeline.Stats) statsPayload {
	return statsPayload{
		NodeCount: st.NodeCount,
		EdgeCount: st.EdgeCount,
		Depth:     st.Depth,
	}
}

// errDocumentNotFound is the 404 error for an unknown document ID.
func errDocumentNotFound(id string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "no document with id %s", id)
}

// writeJSON sends v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError sends the error envelope with a status derived from the code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	s.writeJSON(w, statusFor(code), errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

// statusFor maps error codes onto HTTP statuses. Unknown codes are server
// faults.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidJSON,
		errors.ErrCodeInvalidQuery, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTheme:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDocumentNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
