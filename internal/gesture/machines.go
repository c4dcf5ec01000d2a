package gesture

import (
	"math"

	"github.com/ayusman/signite/internal/detector"
)

// Progress is what a dynamic machine reports for one frame.
type Progress int

const (
	// ProgressNone means the machine reports nothing this frame: it is idle,
	// or it primed on this frame. Busy tells the two apart.
	ProgressNone Progress = iota
	// ProgressStep means the machine primed on an earlier frame and is
	// waiting for the second pose.
	ProgressStep
	// ProgressDone means the gesture completed on this frame.
	ProgressDone
)

// Machine tracks one dynamic gesture across frames. Advance must be called
// for every frame, hands or not, in timestamp order: timeouts are only
// evaluated when a frame arrives.
type Machine interface {
	Gesture() ID
	Advance(hands []detector.HandLandmarks, now int64) Progress
	Busy() bool
	Reset()
}

type phase int

const (
	idle phase = iota
	primed
)

// machineState is the part every machine shares: the phase and when it was entered.
type machineState struct {
	phase     phase
	enteredAt int64
}

func (s *machineState) prime(now int64) {
	s.phase = primed
	s.enteredAt = now
}

func (s *machineState) expired(now, timeout int64) bool {
	return now-s.enteredAt > timeout
}

func wrists(hands []detector.HandLandmarks) (detector.Point3D, detector.Point3D) {
	return hands[0].Points[detector.Wrist], hands[1].Points[detector.Wrist]
}

// khobkhunMachine detects "thank you": flat hands held level at a
// conversational gap, then drawn apart.
type khobkhunMachine struct {
	t     Thresholds
	state machineState
}

// NewKhobkhunMachine returns the state machine for Khobkhun.
func NewKhobkhunMachine(t Thresholds) Machine {
	return &khobkhunMachine{t: t}
}

func (m *khobkhunMachine) Gesture() ID { return Khobkhun }
func (m *khobkhunMachine) Busy() bool  { return m.state.phase != idle }
func (m *khobkhunMachine) Reset()      { m.state = machineState{} }

func (m *khobkhunMachine) Advance(hands []detector.HandLandmarks, now int64) Progress {
	if len(hands) < 2 {
		m.Reset()
		return ProgressNone
	}

	w1, w2 := wrists(hands)
	flat := Fingers(&hands[0]).FourUp() && Fingers(&hands[1]).FourUp()

	if m.state.phase == idle {
		gap := detector.Distance2D(w1, w2)
		level := math.Abs(w1.Y-w2.Y) < m.t.KhobkhunMaxYDiff
		if flat && level && gap > m.t.KhobkhunMinWrist && gap < m.t.KhobkhunMaxWrist {
			m.state.prime(now)
			return ProgressNone
		}
		return ProgressNone
	}

	if m.state.expired(now, m.t.MachineTimeoutMs) {
		m.Reset()
		return ProgressNone
	}
	if flat && math.Abs(w1.X-w2.X) > m.t.KhobkhunSpreadX {
		m.Reset()
		return ProgressDone
	}
	return ProgressStep
}

// mairepenMachine detects "never mind": open palms facing each other,
// then waved in and out. Each swing larger than MairepenDelta that reverses
// the previous swing direction counts as one oscillation.
type mairepenMachine struct {
	t     Thresholds
	state machineState

	lastDist float64
	dir      int
	count    int
}

// NewMairepenMachine returns the state machine for Mairepen.
func NewMairepenMachine(t Thresholds) Machine {
	return &mairepenMachine{t: t}
}

func (m *mairepenMachine) Gesture() ID { return Mairepen }
func (m *mairepenMachine) Busy() bool  { return m.state.phase != idle }

func (m *mairepenMachine) Reset() {
	m.state = machineState{}
	m.lastDist = 0
	m.dir = 0
	m.count = 0
}

func (m *mairepenMachine) Advance(hands []detector.HandLandmarks, now int64) Progress {
	if len(hands) < 2 {
		m.Reset()
		return ProgressNone
	}

	a, b := &hands[0], &hands[1]
	indexGap := detector.Distance2D(a.Points[detector.IndexTip], b.Points[detector.IndexTip])

	if m.state.phase == idle {
		w1, w2 := wrists(hands)
		open := Fingers(a).AllUp() && Fingers(b).AllUp()
		if open && indexGap > m.t.MairepenMinIndex && indexGap < m.t.MairepenMaxIndex &&
			detector.Distance2D(w1, w2) > m.t.MairepenMinWrist {
			m.Reset()
			m.state.prime(now)
			m.lastDist = indexGap
			return ProgressNone
		}
		return ProgressNone
	}

	if m.state.expired(now, m.t.MachineTimeoutMs) {
		m.Reset()
		return ProgressNone
	}

	delta := indexGap - m.lastDist
	if math.Abs(delta) > m.t.MairepenDelta {
		dir := 1
		if delta < 0 {
			dir = -1
		}
		if dir != m.dir {
			m.dir = dir
			m.count++
		}
		m.lastDist = indexGap
	}

	if m.count >= m.t.MairepenOscillations {
		m.Reset()
		return ProgressDone
	}
	return ProgressStep
}

// sabaideeMachine detects "how are you": flat hands with folded thumbs,
// then both hands switching to thumbs-up.
type sabaideeMachine struct {
	t     Thresholds
	state machineState
}

// NewSabaideeMachine returns the state machine for Sabaidee.
func NewSabaideeMachine(t Thresholds) Machine {
	return &sabaideeMachine{t: t}
}

func (m *sabaideeMachine) Gesture() ID { return Sabaidee }
func (m *sabaideeMachine) Busy() bool  { return m.state.phase != idle }
func (m *sabaideeMachine) Reset()      { m.state = machineState{} }

func (m *sabaideeMachine) Advance(hands []detector.HandLandmarks, now int64) Progress {
	if len(hands) < 2 {
		m.Reset()
		return ProgressNone
	}

	a, b := &hands[0], &hands[1]

	if m.state.phase == idle {
		f1, f2 := Fingers(a), Fingers(b)
		if f1.FourUp() && !f1.Thumb && f2.FourUp() && !f2.Thumb {
			m.state.prime(now)
			return ProgressNone
		}
		return ProgressNone
	}

	if m.state.expired(now, m.t.MachineTimeoutMs) {
		m.Reset()
		return ProgressNone
	}
	if isThumbsUp(a, m.t.ThumbsUpFold) && isThumbsUp(b, m.t.ThumbsUpFold) {
		m.Reset()
		return ProgressDone
	}
	return ProgressStep
}
