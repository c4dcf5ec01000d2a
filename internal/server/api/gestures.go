package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/signite/internal/gesture"
	"github.com/ayusman/signite/internal/store"
)

// GestureHandler serves the fixed gesture vocabulary.
type GestureHandler struct {
	store *store.Store
}

// NewGestureHandler creates a GestureHandler. s may be nil, in which case
// completion counts are omitted.
func NewGestureHandler(s *store.Store) *GestureHandler {
	return &GestureHandler{store: s}
}

type gestureResponse struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Steps       []string `json:"steps,omitempty"`
	Completions *int     `json:"completions,omitempty"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

// ServeHTTP handles GET /api/gestures and GET /api/gestures/{id}.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := h.counts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load completion counts")
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/gestures"), "/")
	if id != "" {
		g, ok := gesture.Lookup(gesture.ID(id))
		if !ok {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeJSON(w, http.StatusOK, toResponse(g, counts))
		return
	}

	vocab := gesture.Vocabulary()
	response := listGesturesResponse{Gestures: make([]gestureResponse, 0, len(vocab))}
	for _, g := range vocab {
		response.Gestures = append(response.Gestures, toResponse(g, counts))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *GestureHandler) counts() (map[string]int, error) {
	if h.store == nil {
		return nil, nil
	}
	return h.store.Completions().CountByGesture()
}

func toResponse(g gesture.Gesture, counts map[string]int) gestureResponse {
	resp := gestureResponse{
		ID:    string(g.ID),
		Label: g.Label,
		Type:  string(g.Type),
		Steps: g.Steps,
	}
	if counts != nil {
		n := counts[string(g.ID)]
		resp.Completions = &n
	}
	return resp
}
