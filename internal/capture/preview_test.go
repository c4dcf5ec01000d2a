package capture

import (
	"bytes"
	"testing"
)

func TestPreview_PublishJPEG(t *testing.T) {
	p := NewPreview()

	if data, seq := p.Latest(); data != nil || seq != 0 {
		t.Fatalf("empty preview returned (%v, %d)", data, seq)
	}

	p.PublishJPEG([]byte{1})
	p.PublishJPEG([]byte{2, 3})

	data, seq := p.Latest()
	if !bytes.Equal(data, []byte{2, 3}) || seq != 2 {
		t.Errorf("Latest() = (%v, %d), want ([2 3], 2)", data, seq)
	}
}

func TestPreview_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := solidFrame(128)
	defer frame.Close()

	p := NewPreview()
	if err := p.Publish(&frame); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	data, seq := p.Latest()
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	// JPEG start-of-image marker.
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("published data is not a JPEG")
	}
}
