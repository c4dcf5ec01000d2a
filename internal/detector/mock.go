package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Pose describes a synthetic hand for tests and demos. Each flag selects an
// extended (true) or folded (false) finger. ThumbsUp points the thumb
// straight up and overrides Thumb.
type Pose struct {
	Wrist    Point3D
	Thumb    bool
	Index    bool
	Middle   bool
	Ring     bool
	Pinky    bool
	ThumbsUp bool
}

// Synthetic hand geometry, in frame units relative to the wrist. The palm is
// 0.06 wide and fingers are 0.10 long, so a folded fingertip sits within 0.03
// of its MCP joint.
var fingerBaseX = [4]float64{-0.03, -0.01, 0.01, 0.03}

const (
	mcpRise   = 0.10
	fingerLen = 0.10
)

// PoseLandmarks builds the 21 landmarks for p.
func PoseLandmarks(p Pose) HandLandmarks {
	w := p.Wrist
	at := func(dx, dy float64) Point3D {
		return Point3D{X: w.X + dx, Y: w.Y + dy}
	}

	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = w

	h.Points[ThumbCMC] = at(-0.04, -0.02)
	h.Points[ThumbMCP] = at(-0.06, -0.04)
	switch {
	case p.ThumbsUp:
		h.Points[ThumbIP] = at(-0.06, -0.09)
		h.Points[ThumbTip] = at(-0.06, -0.14)
	case p.Thumb:
		h.Points[ThumbIP] = at(-0.09, -0.06)
		h.Points[ThumbTip] = at(-0.12, -0.08)
	default:
		// Tucked across the palm, tip below the IP joint.
		h.Points[ThumbIP] = at(-0.04, -0.06)
		h.Points[ThumbTip] = at(-0.03, -0.05)
	}

	extended := [4]bool{p.Index, p.Middle, p.Ring, p.Pinky}
	for f := 0; f < 4; f++ {
		mcp := IndexMCP + 4*f
		x := fingerBaseX[f]
		h.Points[mcp] = at(x, -mcpRise)
		if extended[f] {
			h.Points[mcp+1] = at(x, -mcpRise-0.4*fingerLen)
			h.Points[mcp+2] = at(x, -mcpRise-0.7*fingerLen)
			h.Points[mcp+3] = at(x, -mcpRise-fingerLen)
		} else {
			h.Points[mcp+1] = at(x, -mcpRise-0.03)
			h.Points[mcp+2] = at(x, -mcpRise-0.01)
			h.Points[mcp+3] = at(x, -mcpRise+0.02)
		}
	}

	return h
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks(wrist Point3D) HandLandmarks {
	return PoseLandmarks(Pose{Wrist: wrist, Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true})
}

// FlatHandLandmarks returns a hand with the four fingers extended and the
// thumb folded.
func FlatHandLandmarks(wrist Point3D) HandLandmarks {
	return PoseLandmarks(Pose{Wrist: wrist, Index: true, Middle: true, Ring: true, Pinky: true})
}

// ThumbsUpLandmarks returns a fist with the thumb pointing up.
func ThumbsUpLandmarks(wrist Point3D) HandLandmarks {
	return PoseLandmarks(Pose{Wrist: wrist, ThumbsUp: true})
}

// SidewaysIndexLandmarks returns an index-only hand whose index finger
// points across the body rather than up.
func SidewaysIndexLandmarks(wrist Point3D) HandLandmarks {
	h := PoseLandmarks(Pose{Wrist: wrist, Index: true})
	mcp := h.Points[IndexMCP]
	h.Points[IndexPIP] = Point3D{X: mcp.X + 0.04, Y: mcp.Y - 0.01}
	h.Points[IndexDIP] = Point3D{X: mcp.X + 0.07, Y: mcp.Y - 0.015}
	h.Points[IndexTip] = Point3D{X: mcp.X + 0.09, Y: mcp.Y - 0.02}
	return h
}
