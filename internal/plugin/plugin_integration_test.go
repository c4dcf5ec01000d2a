package plugin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPlugin_Announce_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if runtime.GOOS != "darwin" {
		t.Skip("announce plugin only works on macOS")
	}

	dir := findPluginDir("announce")
	if dir == "" {
		t.Skip("announce plugin not built")
	}

	m := NewManager(filepath.Dir(dir))
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	p, err := m.Get("announce")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := os.Stat(p.Executable); err != nil {
		t.Skip("announce plugin not built")
	}

	// An unknown event is rejected without showing a notification.
	resp, err := NewExecutor(5000).Execute(context.Background(), p, &Request{Event: "unknown", Gesture: "five"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Success {
		t.Error("expected failure for an unknown event")
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, "plugin.json")); err == nil {
			return dir
		}
	}
	return ""
}
