package httpapi

import "net/http"

// Streams serves live state events.
type Streams interface {
	ServeSSE(w http.ResponseWriter, r *http.Request)
	ServeWebSocket(w http.ResponseWriter, r *http.Request)
}

// NewServeMux mounts the handlers on a standard library mux. streams may be nil.
func NewServeMux(h *Handlers, streams Streams) *http.ServeMux {
	mux := http.NewServeMux()
	if h.RecordUpload != nil {
		mux.HandleFunc("POST /api/uploads", h.HandleRecordUpload)
	}
	if h.ClearData != nil {
		mux.HandleFunc("DELETE /api/data", h.HandleClearData)
	}
	if h.Chat != nil {
		mux.HandleFunc("POST /api/chat", h.HandleChat)
	}
	if streams != nil {
		mux.HandleFunc("GET /api/events", streams.ServeSSE)
		mux.HandleFunc("GET /ws", streams.ServeWebSocket)
	}
	return mux
}
