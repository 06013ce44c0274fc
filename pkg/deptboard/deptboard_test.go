package deptboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/pkg/backend"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestAppEndToEnd(t *testing.T) {
	client := backend.NewMockClient(backend.MockData{})
	client.AddAnalysis("Electronics", "abc123", backend.FileAnalysis{"summary": "ok"})
	storage := deptstate.NewMemoryStorage()

	app, err := New(Options{Client: client, Logger: quietLogger(), Storage: storage})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	state := app.Start(context.Background())
	assert.Equal(t, backend.StatusConnected, state.Status)

	server := httptest.NewServer(app.HTTPHandler())
	t.Cleanup(server.Close)

	buf, _ := json.Marshal(map[string]string{"department": "Electronics", "fileId": "abc123"})
	resp, err := http.Post(server.URL+"/api/uploads", "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	items := app.Sidebar().Items()
	require.Len(t, items, 1)
	assert.Equal(t, "cpu", items[0].Icon)

	analytics := app.Pages().Analytics(context.Background(), "sales", "Electronics")
	assert.Equal(t, "/analysis/Electronics/abc123", analytics.Location)

	raw, ok, err := storage.Load(context.Background(), deptstate.ActiveDepartmentsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["Electronics"]`, string(raw))
}

func TestAppAppliesIconManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\nicons:\n  - department: Toys\n    icon: puzzle\n"), 0o644))

	app, err := New(Options{Client: backend.NewMockClient(backend.MockData{}), Logger: quietLogger(), IconManifest: path})
	require.NoError(t, err)
	assert.Equal(t, "puzzle", app.Sidebar().Icons().Lookup("toys"))
}

func TestAppRejectsMissingManifest(t *testing.T) {
	_, err := New(Options{Client: backend.NewMockClient(backend.MockData{}), IconManifest: "/does/not/exist.yaml"})
	require.Error(t, err)
}

func TestAppHTTPHandlerServesPages(t *testing.T) {
	client := backend.NewMockClient(backend.MockData{
		Departments: map[string]backend.DepartmentMetrics{"Electronics": {SalesTotal: 10}},
	})
	client.AddAnalysis("Electronics", "abc123", backend.FileAnalysis{"summary": "ok"})
	app, err := New(Options{Client: client, Logger: quietLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	server := httptest.NewServer(app.HTTPHandler())
	t.Cleanup(server.Close)
	noFollow := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	get := func(path string) (*http.Response, map[string]any) {
		resp, err := noFollow.Get(server.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body := map[string]any{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return resp, body
	}

	resp, body := get("/analysis/Electronics/abc123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Electronics", body["department"])

	resp, body = get("/analytics/sales?department=Electronics")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/analysis/Electronics/abc123", resp.Header.Get("Location"))
	assert.Equal(t, "/analysis/Electronics/abc123", body["redirect"])

	resp, _ = get("/?resume=true")
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp, body = get("/api/sidebar")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)

	resp, body = get("/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(backend.StatusConnected), body["status"])

	resp, _ = get("/department/electronics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get("/analysis/Electronics")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	_, body = get("/upload")
	assert.Equal(t, "Electronics", body["department"])
}
