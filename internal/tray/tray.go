// Package tray provides the system tray menu for Signite practice sessions.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onSkip     func()
	onSettings func()
	onQuit     func()
	enabled    bool
	target     string
	last       string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuTarget      *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuSkip        *systray.MenuItem
}

// New creates a new Tray with practice disabled.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback called when practice is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSkip sets the callback called when the skip item is clicked.
func (t *Tray) OnSkip(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSkip = fn
}

// OnSettings sets the callback called when the settings item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback called when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetTitle("Signite")
	systray.SetTooltip("Signite Thai sign-language practice")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle camera practice")
	systray.AddSeparator()

	t.menuTarget = systray.AddMenuItem(targetTitle(t.target), "Gesture to practise")
	t.menuTarget.Disable()
	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.last), "Last confirmed gesture")
	t.menuLastGesture.Disable()
	t.menuSkip = systray.AddMenuItem("Skip", "Mark the current gesture done")
	if t.target == "" {
		t.menuSkip.Disable()
	}
	systray.AddSeparator()
	t.mu.Unlock()

	menuSettings := systray.AddMenuItem("Open Lessons...", "Open lessons in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Signite")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuSkip.ClickedCh:
				t.call(func() func() { return t.onSkip })
			case <-menuSettings.ClickedCh:
				t.call(func() func() { return t.onSettings })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// call runs the callback returned by get outside the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetEnabled updates the practice toggle without calling OnToggle.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetTarget updates the current target display. An empty label means the
// lesson is finished.
func (t *Tray) SetTarget(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.target = label
	if t.menuTarget == nil {
		return
	}
	t.menuTarget.SetTitle(targetTitle(label))
	if label == "" {
		t.menuSkip.Disable()
	} else {
		t.menuSkip.Enable()
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = label
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(label))
	}
}

// IsEnabled returns the current practice state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Target returns the displayed target label.
func (t *Tray) Target() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.target
}

// LastGesture returns the displayed last gesture label.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Practising"
	}
	return "○ Paused"
}

func targetTitle(label string) string {
	if label == "" {
		return "Target: lesson complete"
	}
	return "Target: " + label
}

func lastTitle(label string) string {
	if label == "" {
		return "Last: none"
	}
	return "Last: " + label
}
