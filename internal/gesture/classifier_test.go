package gesture

import (
	"testing"

	"github.com/ayusman/signite/internal/detector"
)

func TestClassifyOneHand_Table(t *testing.T) {
	th := DefaultThresholds()
	wrist := at(0.5, 0.7)

	tests := []struct {
		name string
		hand detector.HandLandmarks
		want ID
	}{
		{"zero", detector.PoseLandmarks(detector.Pose{Wrist: wrist}), Zero},
		{"one", detector.PoseLandmarks(detector.Pose{Wrist: wrist, Index: true}), One},
		{"chan", detector.SidewaysIndexLandmarks(wrist), Chan},
		{"two", detector.PoseLandmarks(detector.Pose{Wrist: wrist, Index: true, Middle: true}), Two},
		{"three", detector.PoseLandmarks(detector.Pose{Wrist: wrist, Thumb: true, Index: true, Middle: true}), Three},
		{"four", detector.FlatHandLandmarks(wrist), Four},
		{"five", detector.OpenPalmLandmarks(wrist), Five},
		{"six", detector.PoseLandmarks(detector.Pose{Wrist: wrist, Index: true, Middle: true, Ring: true}), Six},
		{"seven", detector.PoseLandmarks(detector.Pose{Wrist: wrist, Index: true, Middle: true, Pinky: true}), Seven},
		{"eight", detector.PoseLandmarks(detector.Pose{Wrist: wrist, Index: true, Ring: true, Pinky: true}), Eight},
		{"nine", detector.PoseLandmarks(detector.Pose{Wrist: wrist, Middle: true, Ring: true, Pinky: true}), Nine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyOneHand(&tt.hand, th)
			if !ok {
				t.Fatalf("ClassifyOneHand() returned no match, want %q", tt.want)
			}
			if got != tt.want {
				t.Errorf("ClassifyOneHand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyOneHand_PinchRequiresContact(t *testing.T) {
	th := DefaultThresholds()
	hand := detector.PoseLandmarks(detector.Pose{Wrist: at(0.5, 0.7), Index: true, Middle: true, Ring: true})

	// Keep the thumb folded for the finger-state test but move its tip away
	// from the pinky.
	hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.46, Y: 0.63}
	hand.Points[detector.PinkyTip] = detector.Point3D{X: 0.60, Y: 0.64}

	if f := Fingers(&hand); f.Thumb || f.Pinky {
		t.Fatalf("fixture broken: %+v", f)
	}
	if id, ok := ClassifyOneHand(&hand, th); ok {
		t.Errorf("expected no match without thumb-pinky contact, got %q", id)
	}
}

func TestClassifyOneHand_UnlistedPattern(t *testing.T) {
	hand := detector.PoseLandmarks(detector.Pose{Wrist: at(0.5, 0.7), Thumb: true, Pinky: true})
	if id, ok := ClassifyOneHand(&hand, DefaultThresholds()); ok {
		t.Errorf("expected no match for thumb+pinky, got %q", id)
	}
}

func TestClassifyOneHand_ChanThresholdsAreTunable(t *testing.T) {
	hand := detector.SidewaysIndexLandmarks(at(0.5, 0.7))

	th := DefaultThresholds()
	th.ChanMinSpread = 0.2
	if id, _ := ClassifyOneHand(&hand, th); id != One {
		t.Errorf("expected a wider spread requirement to read %q, got %q", One, id)
	}
}

func TestRules_AreDisjoint(t *testing.T) {
	// Enumerate every finger-state combination and check no two rule
	// patterns claim the same one.
	for mask := 0; mask < 32; mask++ {
		f := FingerState{
			Thumb:  mask&1 != 0,
			Index:  mask&2 != 0,
			Middle: mask&4 != 0,
			Ring:   mask&8 != 0,
			Pinky:  mask&16 != 0,
		}
		matches := 0
		for _, r := range Rules {
			if r.Pattern == f {
				matches++
			}
		}
		if matches > 1 {
			t.Errorf("finger state %+v matches %d rules", f, matches)
		}
	}
}

func TestIsRak(t *testing.T) {
	th := DefaultThresholds()

	t.Run("close open palms", func(t *testing.T) {
		hands := pair(detector.OpenPalmLandmarks(at(0.47, 0.7)), detector.OpenPalmLandmarks(at(0.53, 0.7)))
		if !IsRak(hands, th) {
			t.Error("expected rak")
		}
	})

	t.Run("thumb not required", func(t *testing.T) {
		hands := pair(detector.FlatHandLandmarks(at(0.47, 0.7)), detector.OpenPalmLandmarks(at(0.53, 0.7)))
		if !IsRak(hands, th) {
			t.Error("expected rak with one thumb folded")
		}
	})

	t.Run("wrists too far apart", func(t *testing.T) {
		hands := pair(detector.OpenPalmLandmarks(at(0.4, 0.7)), detector.OpenPalmLandmarks(at(0.6, 0.7)))
		if IsRak(hands, th) {
			t.Error("expected no rak at 0.20 apart")
		}
	})

	t.Run("single hand", func(t *testing.T) {
		if IsRak([]detector.HandLandmarks{detector.OpenPalmLandmarks(at(0.5, 0.7))}, th) {
			t.Error("expected no rak with one hand")
		}
	})
}
