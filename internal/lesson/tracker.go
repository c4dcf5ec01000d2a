// Package lesson tracks the learner's progress through the gesture
// vocabulary and owns the active target handed to the recognition engine.
package lesson

import (
	"errors"
	"sync"

	"github.com/ayusman/signite/internal/gesture"
)

// State is the progress of one gesture.
type State string

const (
	StateLocked State = "locked"
	StateActive State = "active"
	StateDone   State = "done"
)

var (
	// ErrUnknownGesture is returned for ids outside the vocabulary.
	ErrUnknownGesture = errors.New("unknown gesture")
	// ErrNotDone is returned when selecting a gesture that was never completed.
	ErrNotDone = errors.New("gesture not completed yet")
)

// Entry pairs a gesture with its progress state.
type Entry struct {
	Gesture gesture.ID `json:"gesture"`
	State   State      `json:"state"`
}

// Tracker holds lesson progress. At most one gesture is active at a time;
// when none is, the lesson is finished. Tracker is safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	order  []gesture.ID
	states []State
}

// NewTracker creates a tracker over the full vocabulary with the first
// gesture active.
func NewTracker() *Tracker {
	vocab := gesture.Vocabulary()
	t := &Tracker{
		order:  make([]gesture.ID, len(vocab)),
		states: make([]State, len(vocab)),
	}
	for i, g := range vocab {
		t.order[i] = g.ID
		t.states[i] = StateLocked
	}
	t.states[0] = StateActive
	return t
}

func (t *Tracker) activeIndex() int {
	for i, s := range t.states {
		if s == StateActive {
			return i
		}
	}
	return -1
}

func (t *Tracker) indexOf(id gesture.ID) int {
	for i, g := range t.order {
		if g == id {
			return i
		}
	}
	return -1
}

// Active returns the current target gesture.
func (t *Tracker) Active() (gesture.ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.activeIndex(); i >= 0 {
		return t.order[i], true
	}
	return gesture.None, false
}

// Finished reports whether no gesture is left to practise.
func (t *Tracker) Finished() bool {
	_, ok := t.Active()
	return !ok
}

// Complete marks id done if it is the active gesture and activates the next
// one in lesson order. It reports whether progress changed.
func (t *Tracker) Complete(id gesture.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.activeIndex()
	if i < 0 || t.order[i] != id {
		return false
	}
	t.advance(i)
	return true
}

// Skip completes the active gesture without recognizing it.
func (t *Tracker) Skip() (gesture.ID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.activeIndex()
	if i < 0 {
		return gesture.None, false
	}
	t.advance(i)
	return t.order[i], true
}

// advance marks i done and activates the gesture after it, even one that
// was already done, so a review walks forward through the lesson.
func (t *Tracker) advance(i int) {
	t.states[i] = StateDone
	if next := i + 1; next < len(t.states) {
		t.states[next] = StateActive
	}
}

// Select makes a previously completed gesture active again, for review.
// The gesture that was active goes back to locked.
func (t *Tracker) Select(id gesture.ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return ErrUnknownGesture
	}
	if t.states[i] != StateDone {
		return ErrNotDone
	}
	if prev := t.activeIndex(); prev >= 0 {
		t.states[prev] = StateLocked
	}
	t.states[i] = StateActive
	return nil
}

// Snapshot returns progress for every gesture in lesson order.
func (t *Tracker) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, len(t.order))
	for i, id := range t.order {
		out[i] = Entry{Gesture: id, State: t.states[i]}
	}
	return out
}

// Restore overwrites progress from entries. Unknown gestures are ignored and
// gestures without an entry keep their state. If the result has more than
// one active gesture only the first is kept active.
func (t *Tracker) Restore(entries []Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range entries {
		i := t.indexOf(e.Gesture)
		if i < 0 {
			continue
		}
		switch e.State {
		case StateLocked, StateActive, StateDone:
			t.states[i] = e.State
		}
	}

	seen := false
	for i, s := range t.states {
		if s != StateActive {
			continue
		}
		if seen {
			t.states[i] = StateLocked
		}
		seen = true
	}
}

// StepHighlight maps a dynamic step marker onto the gesture's sub-step rows:
// the row being attempted and the rows already passed, as 0-based indices.
func StepHighlight(step *gesture.Step) (active, done []int) {
	if step == nil || step.Index < 1 {
		return nil, nil
	}
	g, ok := gesture.Lookup(step.Gesture)
	if !ok || step.Index > len(g.Steps) {
		return nil, nil
	}
	for i := 0; i < step.Index-1; i++ {
		done = append(done, i)
	}
	return []int{step.Index - 1}, done
}
