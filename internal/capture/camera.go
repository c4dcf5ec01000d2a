// Package capture provides camera capture and frame-rate control using GoCV
// (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings.
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEmptyFrame is returned when the device delivers no image data.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// CameraConfig selects the capture device and format.
type CameraConfig struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
	// Mirror flips frames horizontally so the preview behaves like a mirror
	// for the learner. Landmark X coordinates follow the flipped image.
	Mirror bool
}

// DefaultCameraConfig returns a 640x480 mirrored capture on deviceID.
func DefaultCameraConfig(deviceID int) CameraConfig {
	return CameraConfig{
		DeviceID: deviceID,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Mirror:   true,
	}
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	config  CameraConfig
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a camera for config. Zero-valued fields fall back to the
// defaults.
func NewCamera(config CameraConfig) Camera {
	if config.Width <= 0 || config.Height <= 0 {
		config.Width, config.Height = DefaultWidth, DefaultHeight
	}
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	return &cameraImpl{config: config}
}

// Open opens the camera for capturing frames.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.config.FPS))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrEmptyFrame
	}

	if c.config.Mirror {
		flipped := gocv.NewMat()
		gocv.Flip(mat, &flipped, 1)
		mat.Close()
		return &flipped, nil
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.FPS = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.config.FPS
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
