package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout is returned when a plugin does not finish within the executor's timeout.
var ErrTimeout = errors.New("plugin execution timeout")

// Executor handles the execution of plugins with timeout support.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
func NewExecutor(timeoutMs int) *Executor {
	return &Executor{
		timeout: time.Duration(timeoutMs) * time.Millisecond,
	}
}

// Timeout returns the per-invocation time limit.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Execute runs plugin with req on stdin and parses its stdout as a Response.
// The plugin's manifest config is attached to the request when the caller
// did not set one.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if req.Config == nil {
		req.Config = plugin.Manifest.Config
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return nil, fmt.Errorf("plugin execution failed: %w, stderr: %s", err, s)
		}
		return nil, fmt.Errorf("plugin execution failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("parse plugin response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
