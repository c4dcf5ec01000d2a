package plugin

import (
	"context"
	"log"
)

// Hooks dispatches lesson events to every subscribed plugin.
type Hooks struct {
	manager  *Manager
	executor *Executor
}

// NewHooks creates a dispatcher over manager's plugins.
func NewHooks(manager *Manager, executor *Executor) *Hooks {
	return &Hooks{manager: manager, executor: executor}
}

// Notify runs each plugin subscribed to req.Event in name order and returns
// how many reported success. Failures are logged and do not stop the
// remaining plugins.
func (h *Hooks) Notify(ctx context.Context, req Request) int {
	ok := 0
	for _, p := range h.manager.ForEvent(req.Event) {
		r := req
		resp, err := h.executor.Execute(ctx, p, &r)
		if err != nil {
			log.Printf("plugin %s: %v", p.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("plugin %s: %s", p.Manifest.Name, resp.Error)
			continue
		}
		ok++
	}
	return ok
}
