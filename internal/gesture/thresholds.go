package gesture

import (
	"errors"
	"fmt"
)

// Thresholds holds every tunable constant of the recognizer. Distances are
// in frame-normalized units, durations in milliseconds.
type Thresholds struct {
	// ChanMinSpread is the minimum horizontal travel of the index tip from its
	// base for an index-only hand to read as "chan" instead of "one".
	ChanMinSpread float64 `yaml:"chan_min_spread"`
	// ChanSpreadRatio scales the vertical extension the spread must exceed.
	ChanSpreadRatio float64 `yaml:"chan_spread_ratio"`
	// PinchDistance is the thumb-to-fingertip distance for six..nine.
	PinchDistance float64 `yaml:"pinch_distance"`
	// RakWristDistance is the wrist proximity required for "rak".
	RakWristDistance float64 `yaml:"rak_wrist_distance"`

	KhobkhunMinWrist float64 `yaml:"khobkhun_min_wrist"`
	KhobkhunMaxWrist float64 `yaml:"khobkhun_max_wrist"`
	KhobkhunMaxYDiff float64 `yaml:"khobkhun_max_y_diff"`
	KhobkhunSpreadX  float64 `yaml:"khobkhun_spread_x"`

	MairepenMinIndex     float64 `yaml:"mairepen_min_index"`
	MairepenMaxIndex     float64 `yaml:"mairepen_max_index"`
	MairepenMinWrist     float64 `yaml:"mairepen_min_wrist"`
	MairepenDelta        float64 `yaml:"mairepen_delta"`
	MairepenOscillations int     `yaml:"mairepen_oscillations"`

	// ThumbsUpFold is the fingertip-to-MCP distance under which a finger
	// counts as curled into the fist.
	ThumbsUpFold float64 `yaml:"thumbs_up_fold"`

	MachineTimeoutMs int64 `yaml:"machine_timeout_ms"`
	ConfirmDwellMs   int64 `yaml:"confirm_dwell_ms"`
	CooldownMs       int64 `yaml:"cooldown_ms"`
}

// DefaultThresholds returns the empirically tuned values the trainer ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ChanMinSpread:    0.06,
		ChanSpreadRatio:  0.8,
		PinchDistance:    0.12,
		RakWristDistance: 0.18,

		KhobkhunMinWrist: 0.07,
		KhobkhunMaxWrist: 0.38,
		KhobkhunMaxYDiff: 0.14,
		KhobkhunSpreadX:  0.42,

		MairepenMinIndex:     0.05,
		MairepenMaxIndex:     0.45,
		MairepenMinWrist:     0.10,
		MairepenDelta:        0.03,
		MairepenOscillations: 4,

		ThumbsUpFold: 0.10,

		MachineTimeoutMs: 4000,
		ConfirmDwellMs:   400,
		CooldownMs:       1000,
	}
}

// ErrInvalidThresholds is returned by Validate for unusable settings.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Validate reports the first setting that would make a rule unsatisfiable
// or degenerate.
func (t Thresholds) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"chan_min_spread", t.ChanMinSpread},
		{"chan_spread_ratio", t.ChanSpreadRatio},
		{"pinch_distance", t.PinchDistance},
		{"rak_wrist_distance", t.RakWristDistance},
		{"khobkhun_max_wrist", t.KhobkhunMaxWrist},
		{"khobkhun_max_y_diff", t.KhobkhunMaxYDiff},
		{"khobkhun_spread_x", t.KhobkhunSpreadX},
		{"mairepen_max_index", t.MairepenMaxIndex},
		{"mairepen_delta", t.MairepenDelta},
		{"thumbs_up_fold", t.ThumbsUpFold},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidThresholds, p.name, p.value)
		}
	}

	if t.KhobkhunMinWrist < 0 || t.KhobkhunMinWrist >= t.KhobkhunMaxWrist {
		return fmt.Errorf("%w: khobkhun wrist range [%g, %g] is empty", ErrInvalidThresholds, t.KhobkhunMinWrist, t.KhobkhunMaxWrist)
	}
	if t.MairepenMinIndex < 0 || t.MairepenMinIndex >= t.MairepenMaxIndex {
		return fmt.Errorf("%w: mairepen index range (%g, %g) is empty", ErrInvalidThresholds, t.MairepenMinIndex, t.MairepenMaxIndex)
	}
	if t.MairepenMinWrist < 0 {
		return fmt.Errorf("%w: mairepen_min_wrist must not be negative", ErrInvalidThresholds)
	}
	if t.MairepenOscillations < 1 {
		return fmt.Errorf("%w: mairepen_oscillations must be at least 1", ErrInvalidThresholds)
	}
	if t.MachineTimeoutMs <= 0 || t.ConfirmDwellMs < 0 || t.CooldownMs < 0 {
		return fmt.Errorf("%w: durations must not be negative and the machine timeout must be positive", ErrInvalidThresholds)
	}

	return nil
}
