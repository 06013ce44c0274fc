package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-deptboard/components/deptstate"
	"github.com/goliatone/go-deptboard/components/deptstate/commands"
	"github.com/goliatone/go-deptboard/components/deptstate/queries"
	"github.com/goliatone/go-deptboard/pkg/assistant"
	"github.com/goliatone/go-deptboard/pkg/backend"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	RecordUpload gocommand.Commander[commands.RecordUploadInput]
	ClearData    gocommand.Commander[commands.ClearDataInput]
	Chat         gocommand.Querier[queries.ChatInput, queries.ChatReply]
}

// HandleRecordUpload registers a completed upload and answers with the analysis route.
func (h *Handlers) HandleRecordUpload(w http.ResponseWriter, r *http.Request) {
	var payload commands.RecordUploadInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.RecordUpload.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"redirect": deptstate.AnalysisPath(payload.Department, payload.FileID),
	})
}

// HandleClearData bulk-deletes backend data and wipes local state.
func (h *Handlers) HandleClearData(w http.ResponseWriter, r *http.Request) {
	input := commands.ClearDataInput{ActorID: r.Header.Get("X-Actor-ID")}
	if err := h.ClearData.Execute(r.Context(), input); err != nil {
		writeJSON(w, statusFor(err), map[string]any{
			"success": false,
			"error":   backend.Message(err, "Failed to clear data."),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChat forwards a message to the assistant.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload queries.ChatInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reply, err := h.Chat.Query(r.Context(), payload)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func statusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, deptstate.ErrMissingDepartment),
		errors.Is(err, deptstate.ErrMissingFileID),
		errors.Is(err, assistant.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, deptstate.ErrStaleResult):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
