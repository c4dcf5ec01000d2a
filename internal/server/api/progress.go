package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/signite/internal/gesture"
	"github.com/ayusman/signite/internal/lesson"
)

// Lesson is the progress surface the handler drives.
type Lesson interface {
	Progress() []lesson.Entry
	Target() (gesture.ID, bool)
	Skip() (gesture.ID, bool)
	SelectTarget(id gesture.ID) error
}

// ProgressHandler serves and changes lesson progress.
type ProgressHandler struct {
	lesson Lesson
}

// NewProgressHandler creates a ProgressHandler over l.
func NewProgressHandler(l Lesson) *ProgressHandler {
	return &ProgressHandler{lesson: l}
}

type progressEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	State string `json:"state"`
}

type progressResponse struct {
	Target   string          `json:"target,omitempty"`
	Finished bool            `json:"finished"`
	Entries  []progressEntry `json:"entries"`
}

type selectRequest struct {
	ID string `json:"id"`
}

// ServeHTTP routes GET /api/progress, POST /api/progress/skip and
// POST /api/progress/select.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/progress"), "/")

	switch action {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.snapshot())
	case "skip":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.skip(w)
	case "select":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.selectTarget(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ProgressHandler) snapshot() progressResponse {
	entries := h.lesson.Progress()
	target, ok := h.lesson.Target()

	resp := progressResponse{
		Target:   string(target),
		Finished: !ok,
		Entries:  make([]progressEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, progressEntry{
			ID:    string(e.Gesture),
			Label: e.Gesture.Label(),
			State: string(e.State),
		})
	}
	return resp
}

func (h *ProgressHandler) skip(w http.ResponseWriter) {
	if _, ok := h.lesson.Skip(); !ok {
		writeError(w, http.StatusConflict, "Lesson already finished")
		return
	}
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *ProgressHandler) selectTarget(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	err := h.lesson.SelectTarget(gesture.ID(req.ID))
	switch {
	case errors.Is(err, lesson.ErrUnknownGesture):
		writeError(w, http.StatusNotFound, "Gesture not found")
		return
	case errors.Is(err, lesson.ErrNotDone):
		writeError(w, http.StatusConflict, "Gesture has not been completed yet")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to select gesture")
		return
	}

	writeJSON(w, http.StatusOK, h.snapshot())
}
