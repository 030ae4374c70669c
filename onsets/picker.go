package onsets

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/dsp/window"
	"github.com/cwbudde/algo-onset/events"
)

// PickerConfig holds peak picking parameters. All window lengths are
// given in seconds and converted to frames with the activation's
// frame rate.
type PickerConfig struct {
	// Threshold is the required height above the moving-average
	// baseline.
	Threshold float64
	// PreAvg and PostAvg bound the moving-average baseline window.
	// With both zero the baseline is zero (absolute thresholding).
	PreAvg  float64
	PostAvg float64
	// PreMax and PostMax bound the local-maximum search window.
	PreMax  float64
	PostMax float64
	// Combine discards candidates closer than this to an accepted
	// peak (greedy, keep-first).
	Combine float64
	// Delay shifts reported timestamps.
	Delay float64
	// Smooth, when positive, filters the activation with a symmetric
	// Hann moving average of this length and replaces the
	// moving-average baseline (PreAvg/PostAvg are ignored).
	Smooth float64
}

// DefaultPickerConfig returns the parameters commonly paired with the
// spectral-flux scorers at 100 fps.
func DefaultPickerConfig() PickerConfig {
	return PickerConfig{
		Threshold: 1.25,
		PreAvg:    0.10,
		PostAvg:   0.07,
		PreMax:    0.03,
		PostMax:   0.03,
		Combine:   0.03,
	}
}

// Validate checks the configuration for construction-time errors.
func (c PickerConfig) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"pre_avg", c.PreAvg}, {"post_avg", c.PostAvg},
		{"pre_max", c.PreMax}, {"post_max", c.PostMax},
		{"combine", c.Combine}, {"smooth", c.Smooth},
	} {
		if v.value < 0 {
			return fmt.Errorf("%w: %s %f must be >= 0", ErrInvalidConfig, v.name, v.value)
		}
	}

	return nil
}

// Pick scans the activation for adaptively thresholded local maxima
// and returns their times as an event list.
//
// An empty result is a valid outcome, not an error. The event
// salience is the activation value at the picked frame.
func Pick(act *activation.Activation, cfg PickerConfig) (events.List, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := act.Validate(); err != nil {
		return nil, err
	}

	values := act.Column(0)
	if len(values) == 0 {
		return events.List{}, nil
	}

	fps := act.FPS
	preAvg := secToFrames(cfg.PreAvg, fps)
	postAvg := secToFrames(cfg.PostAvg, fps)
	preMax := secToFrames(cfg.PreMax, fps)
	postMax := secToFrames(cfg.PostMax, fps)

	if cfg.Smooth > 0 {
		values = smooth(values, secToFrames(cfg.Smooth, fps))
		preAvg, postAvg = 0, 0
	}

	out := events.List{}
	lastAccepted := math.Inf(-1)

	for t := range values {
		if values[t] != windowMax(values, t-preMax, t+postMax) {
			continue
		}

		baseline := 0.0
		if preAvg > 0 || postAvg > 0 {
			baseline = windowMean(values, t-preAvg, t+postAvg)
		}

		if values[t] < baseline+cfg.Threshold {
			continue
		}

		timeSec := float64(t) / fps
		if timeSec-lastAccepted < cfg.Combine {
			continue
		}

		lastAccepted = timeSec
		out = append(out, events.Event{Time: timeSec + cfg.Delay, Salience: values[t]})
	}

	return out, nil
}

func secToFrames(sec, fps float64) int {
	return int(math.Round(sec * fps))
}

// windowMax returns the maximum over [lo, hi] truncated to the valid
// index range.
func windowMax(values []float64, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}

	if hi > len(values)-1 {
		hi = len(values) - 1
	}

	best := values[lo]
	for i := lo + 1; i <= hi; i++ {
		if values[i] > best {
			best = values[i]
		}
	}

	return best
}

// windowMean returns the mean over [lo, hi] truncated to the valid
// index range.
func windowMean(values []float64, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}

	if hi > len(values)-1 {
		hi = len(values) - 1
	}

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += values[i]
	}

	return sum / float64(hi-lo+1)
}

// smooth filters values with a normalized Hann window of the given
// length, truncating the window at the sequence bounds.
func smooth(values []float64, length int) []float64 {
	if length < 2 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	coeffs := window.Generate(window.TypeHann, length)
	half := length / 2

	out := make([]float64, len(values))
	for t := range values {
		sum := 0.0
		norm := 0.0
		for k, c := range coeffs {
			idx := t + k - half
			if idx < 0 || idx >= len(values) {
				continue
			}

			sum += c * values[idx]
			norm += c
		}

		if norm > 0 {
			out[t] = sum / norm
		}
	}

	return out
}
