package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		config  CameraConfig
		wantFPS int
	}{
		{"defaults", DefaultCameraConfig(0), DefaultFPS},
		{"zero config", CameraConfig{DeviceID: 1}, DefaultFPS},
		{"custom fps", CameraConfig{DeviceID: 2, FPS: 30}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be open initially")
			}
		})
	}
}

func TestDefaultCameraConfig(t *testing.T) {
	c := DefaultCameraConfig(3)
	if c.DeviceID != 3 || c.Width != DefaultWidth || c.Height != DefaultHeight || !c.Mirror {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig(0))

	tests := []struct {
		fps     int
		wantFPS int
	}{
		{10, 10},
		{1, 1},
		{0, 1},
		{-5, 1},
	}

	for _, tt := range tests {
		cam.SetFPS(tt.fps)
		if got := cam.FPS(); got != tt.wantFPS {
			t.Errorf("after SetFPS(%d) FPS() = %d, want %d", tt.fps, got, tt.wantFPS)
		}
	}
}

func TestCamera_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig(0))

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v, want nil", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultCameraConfig(0))
	if err := cam.Open(); err != nil {
		t.Skipf("camera not available: %v", err)
	}
	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() error = %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned an empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}
