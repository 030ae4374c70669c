// Package beats places beat times on a beat activation function by
// greedy look-ahead tracking around a tempo estimate.
package beats

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/events"
	"github.com/cwbudde/algo-onset/tempo"
)

// Config holds beat tracking parameters.
type Config struct {
	// LookAhead caps, in seconds, how far past the expected position
	// the tracker searches for the next beat.
	LookAhead float64
	// MaxTempoChange clamps the per-beat interval adaptation, as a
	// fraction of the current interval.
	MaxTempoChange float64
	// MinActivation ends tracking when the best candidate in the
	// search window falls below it.
	MinActivation float64

	// Tempo configures the initial interval estimate.
	Tempo tempo.Config
}

// DefaultConfig returns the parameters commonly used for musical
// signals.
func DefaultConfig() Config {
	return Config{
		LookAhead:      10,
		MaxTempoChange: 0.1,
		MinActivation:  0.1,
		Tempo:          tempo.DefaultConfig(),
	}
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.LookAhead <= 0 {
		return fmt.Errorf("%w: look-ahead %f must be > 0", ErrInvalidConfig, c.LookAhead)
	}

	if c.MaxTempoChange < 0 || c.MaxTempoChange >= 1 {
		return fmt.Errorf("%w: tempo change %f outside [0, 1)", ErrInvalidConfig, c.MaxTempoChange)
	}

	if c.MinActivation < 0 {
		return fmt.Errorf("%w: min activation %f must be >= 0", ErrInvalidConfig, c.MinActivation)
	}

	return c.Tempo.Validate()
}

// Track places beats on the activation. The first beat is the
// strongest frame within one estimated interval from the start; each
// following beat is the strongest frame around the expected position,
// after which the interval is nudged toward the observed spacing.
// When no candidate near the expected position reaches MinActivation
// the search advances interval by interval, up to LookAhead seconds,
// before tracking ends. Emitted beats are never revised.
//
// An activation without a usable tempo yields an empty list, not an
// error.
func Track(act *activation.Activation, cfg Config) (events.List, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := act.Validate(); err != nil {
		return nil, err
	}

	estimates, err := tempo.Estimates(act, cfg.Tempo)
	if err != nil {
		return nil, err
	}

	if len(estimates) == 0 {
		return events.List{}, nil
	}

	values := act.Column(0)
	fps := act.FPS
	interval := 60 * fps / estimates[0].BPM
	lookAhead := cfg.LookAhead * fps

	// First beat: strongest frame within one interval of the start.
	pos, v := argmax(values, 0, int(math.Round(interval)))
	if v < cfg.MinActivation {
		return events.List{}, nil
	}

	out := events.List{{Time: float64(pos) / fps, Salience: v}}

	for {
		// Search half-interval windows around successive expected
		// positions, up to the look-ahead horizon, so one weak or
		// missing beat does not end tracking.
		next := -1
		strength := 0.0
		for center := interval; ; center += interval {
			lo := float64(pos) + center - 0.5*interval
			if lo > float64(pos)+lookAhead {
				break
			}

			hi := float64(pos) + center + 0.5*interval
			if limit := float64(pos) + lookAhead; hi > limit {
				hi = limit
			}

			cand, v := argmax(values, int(math.Round(lo)), int(math.Round(hi)))
			if cand < 0 {
				break
			}

			if v >= cfg.MinActivation {
				next, strength = cand, v
				break
			}
		}

		if next < 0 {
			break
		}

		// A beat found several intervals out spans skipped beats;
		// adapt the interval to the per-beat spacing, not the whole
		// gap.
		observed := float64(next - pos)
		spans := math.Max(1, math.Round(observed/interval))
		interval = clampInterval(interval, observed/spans, cfg.MaxTempoChange)

		pos = next
		out = append(out, events.Event{Time: float64(pos) / fps, Salience: strength})
	}

	return out, nil
}

// clampInterval moves interval toward observed, limited to a relative
// change of maxChange per beat.
func clampInterval(interval, observed, maxChange float64) float64 {
	lo := interval * (1 - maxChange)
	hi := interval * (1 + maxChange)

	switch {
	case observed < lo:
		return lo
	case observed > hi:
		return hi
	default:
		return observed
	}
}

// argmax returns the index and value of the largest element in
// [lo, hi] truncated to the valid range, or (-1, 0) when the window is
// empty.
func argmax(values []float64, lo, hi int) (int, float64) {
	if lo < 0 {
		lo = 0
	}

	if hi > len(values)-1 {
		hi = len(values) - 1
	}

	if lo > hi {
		return -1, 0
	}

	best := lo
	for i := lo + 1; i <= hi; i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	return best, values[best]
}
