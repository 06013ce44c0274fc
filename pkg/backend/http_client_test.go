package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/api/", APIKey: "secret"})
	require.NoError(t, err)
	return client
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	require.Error(t, err)
}

func TestHTTPClientDepartments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/departments", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "departments": []string{"Books", "Electronics"}})
	})
	names, err := client.Departments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Electronics"}, names)
}

func TestHTTPClientDepartmentEscapesName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/department/Home%20&%20Garden", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": map[string]any{"total_sales": 1250.5, "inventoryCount": 42, "average_rating": 4.2, "reviewCount": 7},
		})
	})
	metrics, err := client.Department(context.Background(), "Home & Garden")
	require.NoError(t, err)
	assert.Equal(t, "Home & Garden", metrics.Name)
	assert.InDelta(t, 1250.5, metrics.SalesTotal, 0.001)
	assert.Equal(t, 42, metrics.InventoryCount)
	assert.InDelta(t, 4.2, metrics.ReviewAverage, 0.001)
	assert.Equal(t, 7, metrics.ReviewCount)
}

func TestHTTPClientFileAnalysis(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/file-analysis/Electronics/abc123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "summary": "ok", "rows": 12})
	})
	analysis, err := client.FileAnalysis(context.Background(), "Electronics", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "ok", analysis["summary"])
	assert.NotContains(t, analysis, "success")
}

func TestHTTPClientSuccessFalseBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "File not found"})
	})
	_, err := client.FileAnalysis(context.Background(), "Electronics", "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "File not found", apiErr.Message)
	assert.Equal(t, "File not found", Message(err, "fallback"))
}

func TestHTTPClientNon2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestHTTPClientNon2xxWithErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Department not found"})
	})
	_, err := client.Department(context.Background(), "Nope")
	assert.Equal(t, "Department not found", Message(err, "fallback"))
}

func TestHTTPClientClearAll(t *testing.T) {
	var method string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		assert.Equal(t, "/api/data", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	require.NoError(t, client.ClearAll(context.Background()))
	assert.Equal(t, http.MethodDelete, method)
}

func TestMetricsFromResultsMissingFields(t *testing.T) {
	metrics := MetricsFromResults("Books", map[string]any{"other": "x"})
	assert.Equal(t, "Books", metrics.Name)
	assert.Zero(t, metrics.SalesTotal)
	assert.Zero(t, metrics.InventoryCount)
}

func TestHTTPClientHealthAcceptsAnySuccessBody(t *testing.T) {
	for name, body := range map[string]string{
		"empty": "",
		"text":  "OK",
		"json":  `{"success":true}`,
		"other": `{"status":"up"}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/health", r.URL.Path)
				_, _ = w.Write([]byte(body))
			})
			require.NoError(t, client.Health(context.Background()))
		})
	}
}

func TestHTTPClientHealthReportsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"db offline"}`))
	})
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, "db offline", Message(err, "fallback"))

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	require.Error(t, down.Health(context.Background()))
}

func TestMonitorConnectsOnPlainTextHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	state := NewMonitor(client, MonitorOptions{}).Check(context.Background())
	assert.Equal(t, StatusConnected, state.Status)
}

func TestHTTPClientClearAllNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, client.ClearAll(context.Background()))
}
