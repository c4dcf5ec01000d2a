package capture

import "time"

// Frame-rate modes.
const (
	IdleFPS   = 5
	ActiveFPS = 15
	IdleAfter = 2 * time.Second
)

// RateController switches between an idle and an active frame rate based on
// motion. Motion raises the rate immediately; the rate drops back after
// IdleAfter without motion. It is not safe for concurrent use.
type RateController struct {
	idleFPS    int
	activeFPS  int
	idleAfter  time.Duration
	active     bool
	lastMotion time.Time
}

// NewRateController creates a controller in idle mode.
func NewRateController(idleFPS, activeFPS int, idleAfter time.Duration) *RateController {
	return &RateController{idleFPS: idleFPS, activeFPS: activeFPS, idleAfter: idleAfter}
}

// Observe records one motion sample taken at now. It returns the rate to use
// and whether it changed.
func (r *RateController) Observe(motion bool, now time.Time) (fps int, changed bool) {
	switch {
	case motion:
		r.lastMotion = now
		if !r.active {
			r.active = true
			changed = true
		}
	case r.active && now.Sub(r.lastMotion) > r.idleAfter:
		r.active = false
		changed = true
	}
	return r.FPS(), changed
}

// Active reports whether the controller is in active mode.
func (r *RateController) Active() bool {
	return r.active
}

// FPS returns the rate for the current mode.
func (r *RateController) FPS() int {
	if r.active {
		return r.activeFPS
	}
	return r.idleFPS
}

// Interval returns the ticker period for the current mode.
func (r *RateController) Interval() time.Duration {
	return time.Second / time.Duration(r.FPS())
}
