package gesture

import (
	"math"

	"github.com/ayusman/signite/internal/detector"
)

// Rule is one row of the one-hand pose table. A rule applies when the hand's
// FingerState equals Pattern exactly; Resolve then applies any extra
// geometric test and returns the gesture, or None if the test fails.
type Rule struct {
	Pattern FingerState
	Resolve func(h *detector.HandLandmarks, t Thresholds) ID
}

func fixed(id ID) func(*detector.HandLandmarks, Thresholds) ID {
	return func(*detector.HandLandmarks, Thresholds) ID { return id }
}

// pinch requires the thumb tip to touch the given fingertip.
func pinch(id ID, tip int) func(*detector.HandLandmarks, Thresholds) ID {
	return func(h *detector.HandLandmarks, t Thresholds) ID {
		if h.Dist(detector.ThumbTip, tip) < t.PinchDistance {
			return id
		}
		return None
	}
}

// indexOnly separates "chan", a pointing gesture held across the body, from
// the numeral "one" held upright.
func indexOnly(h *detector.HandLandmarks, t Thresholds) ID {
	tip, base := h.Points[detector.IndexTip], h.Points[detector.IndexMCP]
	dx := math.Abs(tip.X - base.X)
	dy := base.Y - tip.Y
	if dx > t.ChanMinSpread && dx > dy*t.ChanSpreadRatio {
		return Chan
	}
	return One
}

// Rules is the one-hand pose table in evaluation order.
var Rules = []Rule{
	{FingerState{}, fixed(Zero)},
	{FingerState{Index: true}, indexOnly},
	{FingerState{Index: true, Middle: true}, fixed(Two)},
	{FingerState{Thumb: true, Index: true, Middle: true}, fixed(Three)},
	{FingerState{Index: true, Middle: true, Ring: true, Pinky: true}, fixed(Four)},
	{FingerState{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true}, fixed(Five)},
	{FingerState{Index: true, Middle: true, Ring: true}, pinch(Six, detector.PinkyTip)},
	{FingerState{Index: true, Middle: true, Pinky: true}, pinch(Seven, detector.RingTip)},
	{FingerState{Index: true, Ring: true, Pinky: true}, pinch(Eight, detector.MiddleTip)},
	{FingerState{Middle: true, Ring: true, Pinky: true}, pinch(Nine, detector.IndexTip)},
}

// ClassifyOneHand returns the first rule of Rules satisfied by h.
func ClassifyOneHand(h *detector.HandLandmarks, t Thresholds) (ID, bool) {
	f := Fingers(h)
	for _, r := range Rules {
		if r.Pattern != f {
			continue
		}
		if id := r.Resolve(h, t); id != None {
			return id, true
		}
	}
	return None, false
}

// IsRak reports the two-handed "rak" pose: both hands with the four fingers
// extended (thumb free) and the wrists held close together.
func IsRak(hands []detector.HandLandmarks, t Thresholds) bool {
	if len(hands) < 2 {
		return false
	}
	a, b := &hands[0], &hands[1]
	if !Fingers(a).FourUp() || !Fingers(b).FourUp() {
		return false
	}
	return detector.Distance2D(a.Points[detector.Wrist], b.Points[detector.Wrist]) < t.RakWristDistance
}
