package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytolab/fcsio/pkg/blob"
	"github.com/cytolab/fcsio/pkg/fcs"
	"github.com/cytolab/fcsio/pkg/frame"
)

// setupTestServer creates a server over a temp data dir seeded with one
// sample FCS file.
func setupTestServer(t *testing.T) *Server {
	t.Helper()
	dataDir := t.TempDir()

	store, err := blob.NewStore(nil)
	require.NoError(t, err)

	f := frame.New(&fcs.Table{
		Channels: []fcs.Channel{
			{Short: "FSC-A", Long: "Forward Scatter"},
			{Short: "SSC-A", Long: "Side Scatter"},
		},
		Rows: [][]float64{
			{100, 20},
			{200, 40},
			{300, 60},
		},
	})
	require.NoError(t, f.Write(store, dataDir+"/sample.fcs", nil))

	config := ServerConfig{
		APIKey:  "test-key",
		DataDir: dataDir,
	}
	// Empty metrics avoid Prometheus registration conflicts across tests
	return NewServer(store, config, &Metrics{})
}

// do routes a request through a name-parameterized chi context.
func do(t *testing.T, handler http.HandlerFunc, method, target string, name string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if name != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", name)
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealth(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s.handleHealth, "GET", "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestHandleListFiles(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s.handleListFiles, "GET", "/api/v1/files", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	files := resp.Data.([]interface{})
	require.Len(t, files, 1)
	entry := files[0].(map[string]interface{})
	assert.Equal(t, "sample.fcs", entry["name"])
	assert.Greater(t, entry["size_bytes"].(float64), 0.0)
}

func TestHandleGetFile(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s.handleGetFile, "GET", "/api/v1/files/sample.fcs", "sample.fcs", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	detail := resp.Data.(map[string]interface{})
	assert.Equal(t, "FCS3.1", detail["version"])
	assert.Equal(t, float64(3), detail["events"])
	assert.Equal(t, "float", detail["datatype"])
	channels := detail["channels"].([]interface{})
	require.Len(t, channels, 2)
	first := channels[0].(map[string]interface{})
	assert.Equal(t, "FSC-A", first["short"])
	assert.Equal(t, "Forward Scatter", first["long"])
}

func TestHandleGetFile_NotFound(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s.handleGetFile, "GET", "/api/v1/files/missing.fcs", "missing.fcs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetFile_TraversalRejected(t *testing.T) {
	s := setupTestServer(t)
	for _, name := range []string{"..", "a/b.fcs", `a\b.fcs`} {
		w := do(t, s.handleGetFile, "GET", "/api/v1/files/x", name, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "name %q", name)
	}
}

func TestHandleGetChannels(t *testing.T) {
	s := setupTestServer(t)

	w := do(t, s.handleGetChannels, "GET", "/api/v1/files/sample.fcs/channels", "sample.fcs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []interface{}{"FSC-A", "SSC-A"}, resp.Data)

	w = do(t, s.handleGetChannels, "GET", "/api/v1/files/sample.fcs/channels?scope=long", "sample.fcs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, []interface{}{"Forward Scatter", "Side Scatter"}, resp.Data)

	w = do(t, s.handleGetChannels, "GET", "/api/v1/files/sample.fcs/channels?scope=bogus", "sample.fcs", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetEvents(t *testing.T) {
	s := setupTestServer(t)

	w := do(t, s.handleGetEvents, "GET", "/api/v1/files/sample.fcs/events", "sample.fcs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["events"])
	rows := data["rows"].([]interface{})
	require.Len(t, rows, 3)

	// limit truncates rows but reports the full event count
	w = do(t, s.handleGetEvents, "GET", "/api/v1/files/sample.fcs/events?limit=1", "sample.fcs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["events"])
	assert.Len(t, data["rows"].([]interface{}), 1)

	w = do(t, s.handleGetEvents, "GET", "/api/v1/files/sample.fcs/events?limit=-1", "sample.fcs", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRename(t *testing.T) {
	s := setupTestServer(t)

	body, _ := json.Marshal(RenameRequest{Renames: map[string]string{"FSC-A": "FSC-H"}})
	w := do(t, s.handleRename, "POST", "/api/v1/files/sample.fcs/rename", "sample.fcs", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s.handleGetChannels, "GET", "/api/v1/files/sample.fcs/channels", "sample.fcs", nil)
	resp := decodeResponse(t, w)
	assert.Equal(t, []interface{}{"FSC-H", "SSC-A"}, resp.Data)
}

func TestHandleRename_Errors(t *testing.T) {
	s := setupTestServer(t)

	// unknown channel
	body, _ := json.Marshal(RenameRequest{Renames: map[string]string{"CD4": "CD8"}})
	w := do(t, s.handleRename, "POST", "/api/v1/files/sample.fcs/rename", "sample.fcs", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// duplicate short name
	body, _ = json.Marshal(RenameRequest{Renames: map[string]string{"FSC-A": "SSC-A"}})
	w = do(t, s.handleRename, "POST", "/api/v1/files/sample.fcs/rename", "sample.fcs", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// empty mapping
	body, _ = json.Marshal(RenameRequest{})
	w = do(t, s.handleRename, "POST", "/api/v1/files/sample.fcs/rename", "sample.fcs", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// malformed JSON
	w = do(t, s.handleRename, "POST", "/api/v1/files/sample.fcs/rename", "sample.fcs", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// file untouched after failures
	w = do(t, s.handleGetChannels, "GET", "/api/v1/files/sample.fcs/channels", "sample.fcs", nil)
	resp := decodeResponse(t, w)
	assert.Equal(t, []interface{}{"FSC-A", "SSC-A"}, resp.Data)
}

func TestRouterAuth(t *testing.T) {
	s := setupTestServer(t)
	r := NewRouter(s)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-API-Key", "test-key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
