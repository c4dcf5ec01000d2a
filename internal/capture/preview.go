package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Preview holds the most recent camera frame as JPEG so viewers can watch
// the camera without reading the device themselves.
type Preview struct {
	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// NewPreview creates an empty preview.
func NewPreview() *Preview {
	return &Preview{}
}

// Publish encodes frame and makes it the latest image.
func (p *Preview) Publish(frame *gocv.Mat) error {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	p.PublishJPEG(data)
	return nil
}

// PublishJPEG stores already encoded image data.
func (p *Preview) PublishJPEG(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jpeg = data
	p.seq++
}

// Latest returns the newest image and its sequence number. The sequence is
// zero until the first publish and grows by one with each image.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.seq
}
