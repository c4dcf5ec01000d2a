package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/signite/internal/gesture"
	"github.com/ayusman/signite/internal/store"
)

// DefaultCompletionLimit caps GET /api/completions when no limit is given.
const DefaultCompletionLimit = 50

// CompletionsHandler serves the completion log.
type CompletionsHandler struct {
	store *store.Store
}

// NewCompletionsHandler creates a CompletionsHandler with the given store.
func NewCompletionsHandler(s *store.Store) *CompletionsHandler {
	return &CompletionsHandler{store: s}
}

type completionResponse struct {
	ID          string `json:"id"`
	Session     string `json:"session,omitempty"`
	Gesture     string `json:"gesture"`
	Label       string `json:"label"`
	Source      string `json:"source"`
	CompletedAt string `json:"completed_at"`
}

type listCompletionsResponse struct {
	Completions []completionResponse `json:"completions"`
}

// ServeHTTP handles GET /api/completions?limit=N, newest first.
func (h *CompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := DefaultCompletionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	completions, err := h.store.Completions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list completions")
		return
	}

	response := listCompletionsResponse{Completions: make([]completionResponse, 0, len(completions))}
	for _, c := range completions {
		response.Completions = append(response.Completions, completionResponse{
			ID:          c.ID,
			Session:     c.SessionID,
			Gesture:     c.GestureID,
			Label:       gesture.ID(c.GestureID).Label(),
			Source:      c.Source,
			CompletedAt: c.CompletedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
