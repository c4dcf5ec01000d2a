package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection constants.
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21).
	GaussianBlurSize = 21
	// DiffThreshold is the per-pixel intensity change that counts as motion.
	DiffThreshold = 25
)

// MotionDetector detects motion between consecutive video frames using
// frame differencing over a blurred grayscale image. It only gates the
// capture frame rate; recognition runs on every frame regardless.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a new MotionDetector with the given threshold:
// the percentage of pixels that must change, so 1.0 means 1%.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and reports whether motion
// was detected together with the percentage of changed pixels. The first
// frame after construction or Reset only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changePercent := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changePercent > m.threshold, changePercent
}

// Reset drops the baseline so the next frame starts a new comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases resources used by the motion detector. It is safe to call
// more than once.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold sets the motion detection threshold percentage.
// Values less than or equal to 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}

// Threshold returns the current threshold percentage.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}
