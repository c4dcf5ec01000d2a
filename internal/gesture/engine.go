package gesture

import (
	"fmt"

	"github.com/ayusman/signite/internal/detector"
)

// Step marks progress through a dynamic gesture for display.
// Index is 1-based, matching the gesture's Steps labels.
type Step struct {
	Gesture ID  `json:"gesture"`
	Index   int `json:"index"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s:%d", s.Gesture, s.Index)
}

// Result is the engine's verdict for a single frame.
//
// Raw is the frame's winning candidate. Confirmed is set once a static
// candidate has dwelt long enough, or when a dynamic gesture completed on
// this frame. Completed reports that the confirmation also passed the
// completion gate and subscribers were notified.
type Result struct {
	Raw       ID    `json:"raw,omitempty"`
	Confirmed ID    `json:"confirmed,omitempty"`
	Step      *Step `json:"step,omitempty"`
	Completed bool  `json:"completed,omitempty"`
}

// Completion is delivered to subscribers when a gated confirmation fires.
type Completion struct {
	Gesture   ID    `json:"gesture"`
	Timestamp int64 `json:"timestamp"`
}

// frame carries one Process call through the candidate sources.
type frame struct {
	hands    []detector.HandLandmarks
	now      int64
	progress []Progress
}

// candidateSource yields the frame's result if it applies. Sources are
// evaluated in order and the first one that applies wins.
type candidateSource struct {
	name string
	eval func(e *Engine, f *frame) (Result, bool)
}

// sources is the arbitration order between competing hypotheses.
var sources = []candidateSource{
	{"dynamic-complete", (*Engine).dynamicComplete},
	{"dynamic-step", (*Engine).dynamicStep},
	{"two-hand", (*Engine).twoHand},
	{"one-hand", (*Engine).oneHand},
	{"none", (*Engine).noCandidate},
}

// SourceNames returns the arbitration order, highest priority first.
func SourceNames() []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.name
	}
	return names
}

// Engine turns a stream of hand frames into recognition results.
//
// An Engine is not safe for concurrent use; it expects exactly one caller
// delivering frames with non-decreasing timestamps. Independent sessions
// should each own their own Engine.
type Engine struct {
	thresholds  Thresholds
	machines    []Machine
	confirm     confirmer
	gate        gate
	subscribers []func(Completion)
}

// New creates an Engine using the given thresholds.
func New(t Thresholds) *Engine {
	return &Engine{
		thresholds: t,
		machines: []Machine{
			NewKhobkhunMachine(t),
			NewMairepenMachine(t),
			NewSabaideeMachine(t),
		},
		confirm: confirmer{dwell: t.ConfirmDwellMs},
		gate:    gate{cooldown: t.CooldownMs},
	}
}

// Thresholds returns the settings the engine was built with.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// OnCompleted registers fn to be called, synchronously from Process, each
// time a confirmed gesture passes the completion gate.
func (e *Engine) OnCompleted(fn func(Completion)) {
	if fn == nil {
		return
	}
	e.subscribers = append(e.subscribers, fn)
}

// Process classifies one frame. hands holds zero, one or two hands; any
// further hands are ignored. active is the gesture the learner is currently
// attempting, or None.
func (e *Engine) Process(hands []detector.HandLandmarks, now int64, active ID) Result {
	f := &frame{
		hands:    detector.Trim(hands),
		now:      now,
		progress: make([]Progress, len(e.machines)),
	}

	e.gate.tick(now)

	// Every machine advances every frame, so timeouts and resets are never
	// skipped because another source won.
	for i, m := range e.machines {
		f.progress[i] = m.Advance(f.hands, now)
	}

	var res Result
	for _, src := range sources {
		if r, ok := src.eval(e, f); ok {
			res = r
			break
		}
	}

	if e.gate.offer(res.Confirmed, active, now) {
		res.Completed = true
		c := Completion{Gesture: res.Confirmed, Timestamp: now}
		for _, fn := range e.subscribers {
			fn(c)
		}
	}

	return res
}

// Reset returns the engine to its initial state: all machines idle, no
// pending confirmation and no completion cooldown. Subscribers are kept.
func (e *Engine) Reset() {
	for _, m := range e.machines {
		m.Reset()
	}
	e.confirm.clear()
	e.gate.reset()
}

// Acknowledge ends the completion cooldown early, once the caller has
// finished reacting to the last completion.
func (e *Engine) Acknowledge() {
	e.gate.cooling = false
}

// Busy reports whether any dynamic machine is primed.
func (e *Engine) Busy() bool {
	for _, m := range e.machines {
		if m.Busy() {
			return true
		}
	}
	return false
}

// CoolingDown reports whether completions are currently suppressed.
func (e *Engine) CoolingDown() bool {
	return e.gate.cooling
}

func (e *Engine) dynamicComplete(f *frame) (Result, bool) {
	for i, p := range f.progress {
		if p == ProgressDone {
			e.confirm.clear()
			id := e.machines[i].Gesture()
			return Result{Raw: id, Confirmed: id}, true
		}
	}
	return Result{}, false
}

func (e *Engine) dynamicStep(f *frame) (Result, bool) {
	for i, p := range f.progress {
		if p == ProgressStep {
			e.confirm.clear()
			return Result{Step: &Step{Gesture: e.machines[i].Gesture(), Index: 1}}, true
		}
	}
	return Result{}, false
}

func (e *Engine) twoHand(f *frame) (Result, bool) {
	if !IsRak(f.hands, e.thresholds) {
		return Result{}, false
	}
	return Result{Raw: Rak, Confirmed: e.confirm.observe(Rak, f.now)}, true
}

func (e *Engine) oneHand(f *frame) (Result, bool) {
	if e.Busy() || len(f.hands) == 0 {
		return Result{}, false
	}
	id, ok := ClassifyOneHand(&f.hands[0], e.thresholds)
	if !ok {
		return Result{}, false
	}
	return Result{Raw: id, Confirmed: e.confirm.observe(id, f.now)}, true
}

func (e *Engine) noCandidate(*frame) (Result, bool) {
	e.confirm.clear()
	return Result{}, true
}

// confirmer debounces static candidates: one identifier must win every
// frame for dwell milliseconds before it is confirmed.
type confirmer struct {
	dwell   int64
	pending ID
	since   int64
}

func (c *confirmer) observe(id ID, now int64) ID {
	if c.pending != id {
		c.pending = id
		c.since = now
	}
	if now-c.since >= c.dwell {
		return id
	}
	return None
}

func (c *confirmer) clear() {
	c.pending = None
	c.since = 0
}

// gate admits a confirmation only when it matches the active target and no
// earlier completion is still cooling down. A gesture that stays confirmed
// across consecutive frames fires once; it must drop out of confirmation
// before it can fire again.
type gate struct {
	cooldown int64
	cooling  bool
	firedAt  int64
	latched  ID
}

// tick expires the cooldown once enough frame time has passed.
func (g *gate) tick(now int64) {
	if g.cooling && now-g.firedAt >= g.cooldown {
		g.cooling = false
	}
}

func (g *gate) offer(id, active ID, now int64) bool {
	if id != g.latched {
		g.latched = None
	}
	if id == None || g.cooling || id == g.latched || id != active {
		return false
	}
	g.cooling = true
	g.firedAt = now
	g.latched = id
	return true
}

func (g *gate) reset() {
	*g = gate{cooldown: g.cooldown}
}
