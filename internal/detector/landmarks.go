// Package detector provides hand landmark types and the detector interface
// that feeds the gesture recognition engine.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// MaxHands is the largest number of hands a single frame carries.
const MaxHands = 2

// Point3D represents a normalized landmark position. X and Y are in
// frame-relative units (0..1, Y grows downwards); Z is carried through but
// never used for recognition.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness,omitempty"` // "Left" or "Right"
	Score      float64               `json:"score,omitempty"`
}

// Distance2D returns the Euclidean distance between a and b in the image
// plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Dist returns the 2D distance between two landmarks of the same hand.
func (h *HandLandmarks) Dist(i, j int) float64 {
	return Distance2D(h.Points[i], h.Points[j])
}

// Trim returns at most MaxHands hands in input order. The engine
// addresses hands by position only, so extra detections are dropped.
func Trim(hands []HandLandmarks) []HandLandmarks {
	if len(hands) > MaxHands {
		return hands[:MaxHands]
	}
	return hands
}
