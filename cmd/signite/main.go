package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/signite/internal/app"
	"github.com/ayusman/signite/internal/capture"
	"github.com/ayusman/signite/internal/config"
	"github.com/ayusman/signite/internal/server"
	"github.com/ayusman/signite/internal/store"
	"github.com/ayusman/signite/internal/tray"
)

func main() {
	fmt.Println("Signite - Thai Sign Language Practice")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	thresholds, err := cfg.Thresholds()
	if err != nil {
		log.Fatalf("Failed to load thresholds: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application := app.New(app.Config{
		Store:           st,
		PluginDir:       cfg.PluginDir,
		PluginTimeoutMs: cfg.PluginTimeoutMs,
		Camera:          capture.DefaultCameraConfig(cfg.CameraID),
		MotionThresh:    cfg.MotionThreshold,
		Thresholds:      thresholds,
	})
	defer application.Close()

	if err := application.LoadProgress(); err != nil {
		log.Printf("Failed to load lesson progress: %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Failed to discover plugins: %v", err)
	}

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		App:       application,
		Store:     st,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if cfg.Headless {
		application.SetEnabled(true)
		if err := application.Start(); err != nil {
			log.Printf("Camera practice unavailable: %v", err)
		}
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return
	}

	runTray(application, browserURL(cfg.Addr))
}

// runTray wires the tray menu to the app and blocks until Quit.
func runTray(a *app.App, url string) {
	t := tray.New()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if !enabled {
			a.Stop()
			return
		}
		if err := a.Start(); err != nil {
			log.Printf("Failed to start practice: %v", err)
			a.SetEnabled(false)
			t.SetEnabled(false)
		}
	})
	t.OnSkip(func() { a.Skip() })
	t.OnSettings(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(func() { a.Stop() })

	a.OnEvent(func(ev app.Event) {
		t.SetTarget(ev.Target.Label())
		if ev.Kind == app.EventCompleted {
			t.SetLastGesture(ev.Gesture.Label())
		}
	})
	if target, ok := a.Target(); ok {
		t.SetTarget(target.Label())
	}

	t.Run()
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
