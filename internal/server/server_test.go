package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/arborview/arbor/internal/sample"
	"github.com/arborview/arbor/pkg/cache"
	"github.com/arborview/arbor/pkg/errors"
	"github.com/arborview/arbor/pkg/graph"
	"github.com/arborview/arbor/pkg/pipeline"
	"github.com/arborview/arbor/pkg/search"
)

const orderText = `{"order": {"id": 7, "items": [{"sku": "A-1"}, {"sku": "B-9"}], "paid": true}}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Options{
		Runner: pipeline.NewRunner(cache.NewNullCache(), nil, logger),
		Logger: logger,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createDocument(t *testing.T, baseURL, text string) documentResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/documents", map[string]string{"text": text})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created documentResponse
	decodeJSON(t, resp, &created)
	require.NotEmpty(t, created.ID)
	return created
}

func TestServerDocumentLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	created := createDocument(t, ts.URL, orderText)
	require.Equal(t, 9, created.Stats.NodeCount)
	require.Equal(t, 8, created.Stats.EdgeCount)
	require.Equal(t, 4, created.Stats.Depth)

	var g graph.Graph
	require.NoError(t, json.Unmarshal(created.Graph, &g))
	require.Len(t, g.Nodes, 9)

	resp, err := http.Get(ts.URL + "/api/documents/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var stored graph.Graph
	decodeJSON(t, resp, &stored)
	require.Len(t, stored.Nodes, 9)
	require.Len(t, stored.Edges, 8)

	resp, err = http.Get(ts.URL + "/api/documents/" + created.ID + "/search?q=" + url.QueryEscape("$.order.id"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hit searchResponse
	decodeJSON(t, resp, &hit)
	require.True(t, hit.Found)
	require.Equal(t, "$.order.id", hit.Path)
	require.Equal(t, search.StageExact, hit.Stage)

	resp, err = http.Get(ts.URL + "/api/documents/" + created.ID + "/export?format=dot")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(body, []byte("digraph")))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/documents/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/documents/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var envelope errorResponse
	decodeJSON(t, resp, &envelope)
	require.Equal(t, string(errors.ErrCodeDocumentNotFound), envelope.Error.Code)
}

func TestServerCreateInvalidJSON(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/documents", map[string]string{"text": `{"a": nope}`})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope errorResponse
	decodeJSON(t, resp, &envelope)
	require.Equal(t, string(errors.ErrCodeInvalidJSON), envelope.Error.Code)
	require.Contains(t, envelope.Error.Message, "offset")
}

func TestServerCreateBadBody(t *testing.T) {
	_, ts := newTestServer(t)

	// Missing text field.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/documents", map[string]string{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var envelope errorResponse
	decodeJSON(t, resp, &envelope)
	require.Equal(t, string(errors.ErrCodeInvalidInput), envelope.Error.Code)

	// Body that is not a JSON envelope at all.
	resp, err := http.Post(ts.URL+"/api/documents", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestServerSearchMiss(t *testing.T) {
	_, ts := newTestServer(t)
	created := createDocument(t, ts.URL, orderText)

	resp, err := http.Get(ts.URL + "/api/documents/" + created.ID + "/search?q=" + url.QueryEscape("$.nope"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out searchResponse
	decodeJSON(t, resp, &out)
	require.False(t, out.Found)
	require.Empty(t, out.ID)
	require.Equal(t, "$.nope", out.Query)
}

func TestServerSearchPost(t *testing.T) {
	_, ts := newTestServer(t)
	created := createDocument(t, ts.URL, orderText)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/documents/"+created.ID+"/search", map[string]string{"query": "$.order.paid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out searchResponse
	decodeJSON(t, resp, &out)
	require.True(t, out.Found)
	require.Equal(t, "$.order.paid", out.Path)
}

func TestServerSearchInvalidQuery(t *testing.T) {
	_, ts := newTestServer(t)
	created := createDocument(t, ts.URL, orderText)

	resp, err := http.Get(ts.URL + "/api/documents/" + created.ID + "/search?q=" + url.QueryEscape("a\x01b"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope errorResponse
	decodeJSON(t, resp, &envelope)
	require.Equal(t, string(errors.ErrCodeInvalidQuery), envelope.Error.Code)
}

func TestServerReplaceDocument(t *testing.T) {
	_, ts := newTestServer(t)
	created := createDocument(t, ts.URL, orderText)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/documents/"+created.ID, map[string]string{"text": `{"a": 1}`})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var replaced documentResponse
	decodeJSON(t, resp, &replaced)
	require.Equal(t, created.ID, replaced.ID)
	require.Equal(t, 2, replaced.Stats.NodeCount)

	resp, err := http.Get(ts.URL + "/api/documents/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stored graph.Graph
	decodeJSON(t, resp, &stored)
	require.Len(t, stored.Nodes, 2)
}

func TestServerReplaceUnknown(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/documents/nope", map[string]string{"text": `{"a": 1}`})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope errorResponse
	decodeJSON(t, resp, &envelope)
	require.Equal(t, string(errors.ErrCodeDocumentNotFound), envelope.Error.Code)
}

func TestServerExportInvalidFormat(t *testing.T) {
	_, ts := newTestServer(t)
	created := createDocument(t, ts.URL, orderText)

	resp, err := http.Get(ts.URL + "/api/documents/" + created.ID + "/export?format=tiff")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope errorResponse
	decodeJSON(t, resp, &envelope)
	require.Equal(t, string(errors.ErrCodeInvalidFormat), envelope.Error.Code)
}

func TestServerExportJSONMatchesStoredGraph(t *testing.T) {
	_, ts := newTestServer(t)
	created := createDocument(t, ts.URL, orderText)

	exported, err := http.Get(ts.URL + "/api/documents/" + created.ID + "/export?format=json")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, exported.StatusCode)
	require.Equal(t, "application/json", exported.Header.Get("Content-Type"))
	exportedBody, err := io.ReadAll(exported.Body)
	exported.Body.Close()
	require.NoError(t, err)

	stored, err := http.Get(ts.URL + "/api/documents/" + created.ID)
	require.NoError(t, err)
	storedBody, err := io.ReadAll(stored.Body)
	stored.Body.Close()
	require.NoError(t, err)

	require.Equal(t, string(storedBody), string(exportedBody))
}

func TestServerSample(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sample")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, sample.Document(), body)
	require.True(t, json.Valid(body))
}

func TestServerHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	decodeJSON(t, resp, &out)
	require.Equal(t, "ok", out["status"])
}

func TestServerIndex(t *testing.T) {
	s, ts := newTestServer(t)

	// An empty store serves the sample viewer without storing anything.
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), "<!DOCTYPE html>")
	require.Contains(t, string(body), `id="editor-panel"`)
	require.Equal(t, 0, s.store.Len())

	// After an upload the page shows the newest document with remote
	// search wired to its endpoint. Editing stays enabled.
	created := createDocument(t, ts.URL, orderText)
	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), "/api/documents/"+created.ID+"/search")
	require.Contains(t, string(body), `var EDIT_URL = "/api/documents"`)
}

func TestServerLoadPreloads(t *testing.T) {
	s, ts := newTestServer(t)

	entry, err := s.Load(context.Background(), []byte(orderText))
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	resp, err := http.Get(ts.URL + "/api/documents/" + entry.ID)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerGracefulShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Options{Logger: logger})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	healthURL := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
