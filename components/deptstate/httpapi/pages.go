package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-deptboard/components/deptstate/gorouter"
)

// MountPages serves the dashboard routes answered by pages on mux. The write
// endpoints stay on the Handlers mounted by NewServeMux.
func MountPages(mux *http.ServeMux, pages *gorouter.Pages) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Root(r.Context(), truthy(r.URL.Query().Get("resume"))))
	})
	mux.HandleFunc("GET /department/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Department(r.Context(), r.PathValue("id")))
	})
	mux.HandleFunc("GET /analytics/{view}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Analytics(r.Context(), r.PathValue("view"), r.URL.Query().Get("department")))
	})
	mux.HandleFunc("GET /analysis/{department}/{fileId}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Analysis(r.Context(), r.PathValue("department"), r.PathValue("fileId")))
	})
	mux.HandleFunc("GET /analysis/{department}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Analysis(r.Context(), r.PathValue("department"), ""))
	})
	mux.HandleFunc("GET /upload", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Upload(r.Context()))
	})
	mux.HandleFunc("GET /api/shell", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Shell(gorouter.ShellAction{}))
	})
	mux.HandleFunc("POST /api/shell", func(w http.ResponseWriter, r *http.Request) {
		var action gorouter.ShellAction
		if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
			return
		}
		writeResponse(w, pages.Shell(action))
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Health(r.Context(), truthy(r.URL.Query().Get("retry"))))
	})
	mux.HandleFunc("GET /api/departments", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, pages.Departments(r.Context()))
	})
	if pages.Sidebar != nil {
		mux.HandleFunc("GET /api/sidebar", func(w http.ResponseWriter, r *http.Request) {
			writeResponse(w, pages.SidebarItems(r.Context()))
		})
	}
}

func writeResponse(w http.ResponseWriter, resp gorouter.Response) {
	if resp.Location != "" {
		w.Header().Set("Location", resp.Location)
	}
	writeJSON(w, resp.Status, resp.Body)
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
