package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the location of the MediaPipe service script.
	ScriptPath string
}

// DefaultConfig returns the settings the browser trainer used for the
// MediaPipe hands model.
func DefaultConfig() Config {
	return Config{
		MaxHands:        MaxHands,
		MinConfidence:   0.72,
		MinTrackingConf: 0.65,
	}
}
