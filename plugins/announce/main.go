// Package main provides a completion hook plugin for macOS that shows a
// notification, and optionally speaks the label, when a gesture is learned.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event   string          `json:"event"`
	Gesture string          `json:"gesture"`
	Label   string          `json:"label"`
	Session string          `json:"session"`
	Config  json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// settings is the manifest config block.
type settings struct {
	Speak bool   `json:"speak"`
	Voice string `json:"voice"`
	Sound string `json:"sound"`
}

type eventHandler func(req Request, s settings) error

var eventHandlers = map[string]eventHandler{
	"completed": announceCompleted,
	"skipped":   announceSkipped,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	handler, ok := eventHandlers[req.Event]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}

	var s settings
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &s); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	if err := handler(req, s); err != nil {
		writeErrorResponse(fmt.Sprintf("event %s failed: %v", req.Event, err))
		return
	}

	writeSuccessResponse()
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func announceCompleted(req Request, s settings) error {
	if err := notify("ถูกต้อง!", req.Label, s.Sound); err != nil {
		return err
	}
	if s.Speak {
		return say(req.Label, s.Voice)
	}
	return nil
}

func announceSkipped(req Request, s settings) error {
	return notify("ข้ามท่านี้", req.Label, "")
}

// notify shows a Notification Center banner.
func notify(title, message, sound string) error {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(message), strconv.Quote(title))
	if sound != "" {
		script += " sound name " + strconv.Quote(sound)
	}
	return runAppleScript(script)
}

func say(text, voice string) error {
	args := []string{text}
	if voice != "" {
		args = []string{"-v", voice, text}
	}
	output, err := exec.Command("say", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
