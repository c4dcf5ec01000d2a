// Package plugin runs external hook executables when a lesson gesture is
// completed.
package plugin

import "encoding/json"

// EventCompleted is sent after the engine confirms the active target.
const EventCompleted = "completed"

// EventSkipped is sent when the learner skips the active target.
const EventSkipped = "skipped"

// Manifest describes a plugin's metadata and the events it subscribes to.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Handles reports whether the manifest subscribes to event.
func (m Manifest) Handles(event string) bool {
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Request is written to the plugin's stdin as a single JSON document.
type Request struct {
	Event   string          `json:"event"`
	Gesture string          `json:"gesture"`
	Label   string          `json:"label"`
	Session string          `json:"session,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
