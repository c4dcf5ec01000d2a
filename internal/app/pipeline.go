package app

import (
	"log"
	"time"

	"github.com/ayusman/signite/internal/capture"
	"github.com/ayusman/signite/internal/detector"
)

// runPipeline is the camera loop. Every tick reads a frame, publishes it for
// preview and feeds the pipeline session.
//
// Motion only selects the frame rate and whether hand detection runs. The
// engine still sees every tick, with no hands when detection was skipped,
// so dynamic gesture timeouts keep advancing.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	rate := capture.NewRateController(capture.IdleFPS, capture.ActiveFPS, capture.IdleAfter)
	ticker := time.NewTicker(rate.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			a.tick(rate, ticker)
		}
	}
}

func (a *App) tick(rate *capture.RateController, ticker *time.Ticker) {
	cam := a.Camera()
	frame, err := cam.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return
	}
	defer frame.Close()

	if err := a.preview.Publish(frame); err != nil {
		log.Printf("Error publishing preview: %v", err)
	}

	now := time.Now()
	motion, _ := a.motion.Detect(frame)
	if fps, changed := rate.Observe(motion, now); changed {
		cam.SetFPS(fps)
		ticker.Reset(rate.Interval())
		if rate.Active() {
			log.Println("Switched to active mode")
		} else {
			log.Println("Switched to idle mode")
		}
	}

	var hands []detector.HandLandmarks
	if d := a.Detector(); rate.Active() && d != nil {
		hands, err = d.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			hands = nil
		}
	}

	a.ProcessFrame(hands, now.UnixMilli())
}
