// Package tempo estimates the dominant periodicity of an onset or
// beat activation function with a bank of resonating comb filters.
package tempo

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/dsp/window"
)

// Estimate is one (tempo, strength) candidate. Strength is a relative
// confidence, not a probability.
type Estimate struct {
	BPM      float64
	Strength float64
}

// Config holds tempo estimation parameters.
type Config struct {
	// MinBPM and MaxBPM bound the tempo search range.
	MinBPM float64
	MaxBPM float64
	// ActSmooth is the activation smoothing width in seconds.
	ActSmooth float64
	// HistSmooth is the tempo histogram smoothing width in bins.
	HistSmooth int
	// Alpha is the comb filter feedback gain in (0, 1).
	Alpha float64
}

// DefaultConfig returns the parameters commonly used for musical
// signals.
func DefaultConfig() Config {
	return Config{
		MinBPM:     40,
		MaxBPM:     250,
		ActSmooth:  0.14,
		HistSmooth: 9,
		Alpha:      0.79,
	}
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.MinBPM <= 0 || c.MaxBPM <= c.MinBPM {
		return fmt.Errorf("%w: bpm range [%f, %f]", ErrInvalidConfig, c.MinBPM, c.MaxBPM)
	}

	if c.ActSmooth < 0 {
		return fmt.Errorf("%w: activation smoothing %f", ErrInvalidConfig, c.ActSmooth)
	}

	if c.HistSmooth < 0 {
		return fmt.Errorf("%w: histogram smoothing %d", ErrInvalidConfig, c.HistSmooth)
	}

	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("%w: alpha %f outside (0, 1)", ErrInvalidConfig, c.Alpha)
	}

	return nil
}

// Estimates runs the comb filter bank over the activation and returns
// ranked tempo candidates, strongest first.
//
// Activations shorter than a candidate interval contribute nothing to
// that interval; an activation too short for the whole search range
// yields an empty result, not an error.
func Estimates(act *activation.Activation, cfg Config) ([]Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := act.Validate(); err != nil {
		return nil, err
	}

	values := act.Column(0)
	fps := act.FPS

	if cfg.ActSmooth > 0 {
		values = smooth(values, int(math.Round(cfg.ActSmooth*fps)))
	}

	// Candidate inter-beat intervals in frames, shortest first.
	tauMin := int(math.Max(1, math.Round(60*fps/cfg.MaxBPM)))
	tauMax := int(math.Round(60 * fps / cfg.MinBPM))

	hist := make([]float64, tauMax+1)
	for tau := tauMin; tau <= tauMax; tau++ {
		if tau >= len(values) {
			// Activation shorter than this interval: zero weight.
			continue
		}

		hist[tau] = combResonance(values, tau, cfg.Alpha)
	}

	if cfg.HistSmooth > 1 {
		smoothed := smooth(hist[tauMin:], cfg.HistSmooth)
		copy(hist[tauMin:], smoothed)
	}

	return rankedPeaks(hist, tauMin, tauMax, fps), nil
}

// combResonance scores one interval with a feedback comb filter
// y[n] = x[n] + alpha*y[n-tau], correlating the resonating output
// with the input.
func combResonance(values []float64, tau int, alpha float64) float64 {
	y := make([]float64, len(values))
	copy(y, values)

	for n := tau; n < len(y); n++ {
		y[n] += alpha * y[n-tau]
	}

	return vecmath.DotProduct(y, values) / float64(len(values))
}

// rankedPeaks collects local maxima of the histogram as estimates,
// strongest first. Interior bins use both neighbors; the range edges
// compare against their single in-bounds neighbor.
func rankedPeaks(hist []float64, tauMin, tauMax int, fps float64) []Estimate {
	var out []Estimate

	for tau := tauMin; tau <= tauMax; tau++ {
		v := hist[tau]
		if v <= 0 {
			continue
		}

		if tau > tauMin && hist[tau-1] >= v {
			continue
		}

		if tau < tauMax && hist[tau+1] > v {
			continue
		}

		out = append(out, Estimate{BPM: 60 * fps / float64(tau), Strength: v})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Strength > out[j].Strength
	})

	return out
}

// smooth filters values with a normalized Hann window, truncated at
// the sequence bounds.
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
