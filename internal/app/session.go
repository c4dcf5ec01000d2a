package app

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/signite/internal/detector"
	"github.com/ayusman/signite/internal/gesture"
	"github.com/ayusman/signite/internal/lesson"
)

// FrameResult is the engine result for one frame plus the lesson target
// that applies after it.
type FrameResult struct {
	Session string `json:"session"`
	gesture.Result
	Target   gesture.ID `json:"target,omitempty"`
	Finished bool       `json:"finished,omitempty"`
	// ActiveSteps and DoneSteps index the step labels of a dynamic gesture
	// in progress.
	ActiveSteps []int `json:"active_steps,omitempty"`
	DoneSteps   []int `json:"done_steps,omitempty"`
}

// Session is one independent recognition stream: the camera pipeline or a
// single remote client. Each session owns its engine; all sessions share the
// App's lesson.
type Session struct {
	id     string
	app    *App
	engine *gesture.Engine
	epoch  uint64
	mu     sync.Mutex
}

// NewSession creates a session with a fresh engine.
func (a *App) NewSession() *Session {
	s := &Session{
		id:     uuid.NewString(),
		app:    a,
		engine: gesture.New(a.thresholds),
		epoch:  a.epoch.Load(),
	}
	s.engine.OnCompleted(func(c gesture.Completion) {
		a.complete(s.id, c)
	})
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// ProcessFrame classifies hands captured at ts (milliseconds) against the
// current lesson target.
func (s *Session) ProcessFrame(hands []detector.HandLandmarks, ts int64) FrameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.app.epoch.Load(); e != s.epoch {
		s.engine.Reset()
		s.epoch = e
	}

	target, _ := s.app.tracker.Active()
	res := s.engine.Process(hands, ts, target)
	if res.Confirmed != gesture.None {
		s.app.last.Store(res.Confirmed)
	}

	next, ok := s.app.tracker.Active()
	out := FrameResult{Session: s.id, Result: res, Target: next, Finished: !ok}
	out.ActiveSteps, out.DoneSteps = lesson.StepHighlight(res.Step)
	return out
}

// Status reports the lesson target without processing a frame.
func (s *Session) Status() FrameResult {
	target, ok := s.app.tracker.Active()
	return FrameResult{Session: s.id, Target: target, Finished: !ok}
}

// Reset clears the session's recognition state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
}

// Acknowledge ends the completion cooldown once the client has shown the
// completion.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Acknowledge()
}

// Busy reports whether a dynamic gesture is in progress.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Busy()
}
