// Package app wires the recognition engine to lesson progress, storage and
// completion hooks, and runs the camera frame loop.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ayusman/signite/internal/capture"
	"github.com/ayusman/signite/internal/detector"
	"github.com/ayusman/signite/internal/gesture"
	"github.com/ayusman/signite/internal/lesson"
	"github.com/ayusman/signite/internal/plugin"
	"github.com/ayusman/signite/internal/store"
)

// DefaultPluginTimeoutMs bounds a single completion hook run.
const DefaultPluginTimeoutMs = 5000

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	PluginDir       string
	PluginTimeoutMs int
	Camera          capture.CameraConfig
	MotionThresh    float64
	// Thresholds tunes recognition. The zero value selects the defaults.
	Thresholds gesture.Thresholds
}

// EventKind names a lesson progress change.
type EventKind string

const (
	EventCompleted EventKind = "completed"
	EventSkipped   EventKind = "skipped"
	EventSelected  EventKind = "selected"
)

// Event is delivered to progress listeners after the lesson changes.
type Event struct {
	Kind    EventKind  `json:"kind"`
	Gesture gesture.ID `json:"gesture"`
	Session string     `json:"session,omitempty"`
	// Target is the active gesture after the change, empty when the lesson
	// is finished.
	Target gesture.ID `json:"target,omitempty"`
}

// App owns the shared lesson and the camera pipeline. Recognition state is
// per Session; the lesson tracker, store and hooks are shared by all of them.
type App struct {
	config     Config
	thresholds gesture.Thresholds
	tracker    *lesson.Tracker
	// epoch counts manual target changes. Sessions reset their engine when
	// they observe a new epoch.
	epoch atomic.Uint64
	last  atomic.Value

	camera     capture.Camera
	motion     *capture.MotionDetector
	preview    *capture.Preview
	detector   detector.Detector
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	hooks      *plugin.Hooks
	hookWG     sync.WaitGroup
	session    *Session

	listenersMu sync.RWMutex
	listeners   []func(Event)

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0
	}
	thresholds := config.Thresholds
	if thresholds == (gesture.Thresholds{}) {
		thresholds = gesture.DefaultThresholds()
	}
	timeout := config.PluginTimeoutMs
	if timeout <= 0 {
		timeout = DefaultPluginTimeoutMs
	}

	a := &App{
		config:     config,
		thresholds: thresholds,
		tracker:    lesson.NewTracker(),
		camera:     capture.NewCamera(config.Camera),
		motion:     capture.NewMotionDetector(motionThreshold),
		preview:    capture.NewPreview(),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(timeout),
	}
	a.hooks = plugin.NewHooks(a.pluginMgr, a.pluginExec)
	a.last.Store(gesture.None)

	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	a.session = a.NewSession()

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the capture device. It has no effect on a running
// pipeline until the next Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// LoadProgress restores lesson progress from the store. Without a store, or
// with nothing saved yet, the lesson starts at the first gesture.
func (a *App) LoadProgress() error {
	if a.config.Store == nil {
		return nil
	}

	rows, err := a.config.Store.Progress().Load()
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	entries := make([]lesson.Entry, len(rows))
	for i, r := range rows {
		entries[i] = lesson.Entry{Gesture: gesture.ID(r.GestureID), State: lesson.State(r.State)}
	}
	a.tracker.Restore(entries)

	target, _ := a.tracker.Active()
	log.Printf("Restored lesson progress, target: %s", target)
	return nil
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	if err := a.pluginMgr.Discover(); err != nil {
		return err
	}
	log.Printf("Discovered %d plugins", len(a.pluginMgr.List()))
	return nil
}

// OnEvent registers fn to be called after every lesson change. fn runs on
// the goroutine that caused the change and must not block.
func (a *App) OnEvent(fn func(Event)) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.listeners = append(a.listeners, fn)
}

func (a *App) emit(ev Event) {
	a.listenersMu.RLock()
	defer a.listenersMu.RUnlock()
	for _, fn := range a.listeners {
		fn(ev)
	}
}

// Target returns the gesture the learner is currently practising.
func (a *App) Target() (gesture.ID, bool) {
	return a.tracker.Active()
}

// LastGesture returns the most recently confirmed gesture of any session.
func (a *App) LastGesture() gesture.ID {
	return a.last.Load().(gesture.ID)
}

// Progress returns lesson progress in lesson order.
func (a *App) Progress() []lesson.Entry {
	return a.tracker.Snapshot()
}

// ProcessFrame runs one frame through the pipeline's own session.
func (a *App) ProcessFrame(hands []detector.HandLandmarks, ts int64) FrameResult {
	return a.session.ProcessFrame(hands, ts)
}

// SelectTarget makes a completed gesture the target again for review.
func (a *App) SelectTarget(id gesture.ID) error {
	if err := a.tracker.Select(id); err != nil {
		return err
	}
	a.epoch.Add(1)
	a.saveProgress()

	log.Printf("Target selected: %s", id)
	a.emit(Event{Kind: EventSelected, Gesture: id, Target: id})
	return nil
}

// Skip completes the active gesture without recognizing it.
func (a *App) Skip() (gesture.ID, bool) {
	id, ok := a.tracker.Skip()
	if !ok {
		return gesture.None, false
	}
	a.epoch.Add(1)
	a.recordCompletion("", id, store.SourceSkipped, 0)
	a.saveProgress()
	a.runHooks(plugin.EventSkipped, id, "")

	target, _ := a.tracker.Active()
	log.Printf("Skipped %s, next target: %s", id, target)
	a.emit(Event{Kind: EventSkipped, Gesture: id, Target: target})
	return id, true
}

// complete is the engine completion subscriber for every session.
func (a *App) complete(sessionID string, c gesture.Completion) {
	if !a.tracker.Complete(c.Gesture) {
		// Another session advanced the lesson first.
		return
	}
	a.recordCompletion(sessionID, c.Gesture, store.SourceRecognized, c.Timestamp)
	a.saveProgress()
	a.runHooks(plugin.EventCompleted, c.Gesture, sessionID)

	target, _ := a.tracker.Active()
	log.Printf("Completed %s (%s), next target: %s", c.Gesture, c.Gesture.Label(), target)
	a.emit(Event{Kind: EventCompleted, Gesture: c.Gesture, Session: sessionID, Target: target})
}

func (a *App) recordCompletion(sessionID string, id gesture.ID, source string, frameTS int64) {
	if a.config.Store == nil {
		return
	}
	err := a.config.Store.Completions().Record(&store.Completion{
		SessionID: sessionID,
		GestureID: string(id),
		Source:    source,
		FrameTS:   frameTS,
	})
	if err != nil {
		log.Printf("Error recording completion of %s: %v", id, err)
	}
}

func (a *App) saveProgress() {
	if a.config.Store == nil {
		return
	}
	snap := a.tracker.Snapshot()
	rows := make([]store.ProgressRow, len(snap))
	for i, e := range snap {
		rows[i] = store.ProgressRow{GestureID: string(e.Gesture), Position: i, State: string(e.State)}
	}
	if err := a.config.Store.Progress().Save(rows); err != nil {
		log.Printf("Error saving progress: %v", err)
	}
}

// runHooks notifies plugins in the background so a slow hook never stalls
// the frame loop.
func (a *App) runHooks(event string, id gesture.ID, sessionID string) {
	a.hookWG.Add(1)
	go func() {
		defer a.hookWG.Done()
		a.hooks.Notify(context.Background(), plugin.Request{
			Event:   event,
			Gesture: string(id),
			Label:   id.Label(),
			Session: sessionID,
		})
	}()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline, releases capture resources and resets
// the pipeline session's recognition state.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	a.mu.RLock()
	defer a.mu.RUnlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Reset()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	a.session.Reset()

	log.Println("Detection pipeline stopped")
}

// Close stops the pipeline and waits for running hooks to finish.
func (a *App) Close() {
	a.Stop()
	a.hookWG.Wait()
	a.motion.Close()
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Thresholds returns the recognition settings shared by all sessions.
func (a *App) Thresholds() gesture.Thresholds {
	return a.thresholds
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Preview returns the latest-frame buffer fed by the pipeline.
func (a *App) Preview() *capture.Preview {
	return a.preview
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Store returns the configured store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
