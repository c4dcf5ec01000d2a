package gesture

import "github.com/ayusman/signite/internal/detector"

// FingerState records which fingers of one hand are extended.
// It is recomputed from landmarks every frame and never stored.
type FingerState struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
}

// Fingers extracts the finger state of a hand.
//
// The thumb is extended when its tip is farther from the index base than its
// own MCP joint is, a ratio test that does not depend on hand size. The other
// fingers are extended when the tip sits above (smaller Y than) the PIP joint.
func Fingers(h *detector.HandLandmarks) FingerState {
	p := &h.Points
	return FingerState{
		Thumb:  h.Dist(detector.ThumbTip, detector.IndexMCP) > h.Dist(detector.ThumbMCP, detector.IndexMCP),
		Index:  p[detector.IndexTip].Y < p[detector.IndexPIP].Y,
		Middle: p[detector.MiddleTip].Y < p[detector.MiddlePIP].Y,
		Ring:   p[detector.RingTip].Y < p[detector.RingPIP].Y,
		Pinky:  p[detector.PinkyTip].Y < p[detector.PinkyPIP].Y,
	}
}

// FourUp reports whether index, middle, ring and pinky are all extended.
func (f FingerState) FourUp() bool {
	return f.Index && f.Middle && f.Ring && f.Pinky
}

// AllUp reports whether all five fingers are extended.
func (f FingerState) AllUp() bool {
	return f.Thumb && f.FourUp()
}

// isThumbsUp reports a fist with the thumb pointing up: the thumb tip above
// both its IP and MCP joints and every other fingertip curled within fold of
// its MCP joint.
func isThumbsUp(h *detector.HandLandmarks, fold float64) bool {
	p := &h.Points
	if p[detector.ThumbTip].Y >= p[detector.ThumbIP].Y || p[detector.ThumbTip].Y >= p[detector.ThumbMCP].Y {
		return false
	}
	for _, f := range [][2]int{
		{detector.IndexTip, detector.IndexMCP},
		{detector.MiddleTip, detector.MiddleMCP},
		{detector.RingTip, detector.RingMCP},
		{detector.PinkyTip, detector.PinkyMCP},
	} {
		if h.Dist(f[0], f[1]) >= fold {
			return false
		}
	}
	return true
}
