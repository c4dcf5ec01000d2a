package server

import (
	"fmt"
	"net/http"
	"time"
)

// streamInterval is how often the stream checks for a new preview frame.
const streamInterval = 66 * time.Millisecond // ~15 FPS

// FrameSource supplies the latest encoded preview frame.
type FrameSource interface {
	Latest() ([]byte, uint64)
}

// StreamHandler serves the camera preview as MJPEG.
type StreamHandler struct {
	source FrameSource
}

// NewStreamHandler creates a new StreamHandler over source.
func NewStreamHandler(source FrameSource) *StreamHandler {
	return &StreamHandler{source: source}
}

// ServeHTTP streams MJPEG frames until the client disconnects. Each preview
// frame is sent once.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq := h.source.Latest()
		if seq == sent || len(data) == 0 {
			continue
		}
		sent = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
