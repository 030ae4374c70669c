// Package resample provides rational sample-rate conversion using a
// Kaiser-windowed polyphase FIR with anti-aliasing defaults. The
// detection front end analyzes at a fixed rate; inputs recorded at
// other rates are converted here before framing.
package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality controls the default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation.
	QualityBest
)

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
	maxDen       int
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

func defaultConfig() config {
	return config{quality: QualityBalanced, maxDen: 4096}
}

func (c config) finalized() config {
	switch c.quality {
	case QualityFast:
		c = c.withDefaults(16, 0.88, 5.0)
	case QualityBest:
		c = c.withDefaults(64, 0.96, 9.0)
	default:
		c = c.withDefaults(32, 0.92, 7.5)
	}

	return c
}

func (c config) withDefaults(taps int, cutoff, beta float64) config {
	if c.tapsPerPhase <= 0 {
		c.tapsPerPhase = taps
	}
	if c.cutoffScale <= 0 || c.cutoffScale > 1 {
		c.cutoffScale = cutoff
	}
	if c.kaiserBeta <= 0 {
		c.kaiserBeta = beta
	}

	return c
}

// Resampler performs rational sample-rate conversion.
type Resampler struct {
	up   int
	down int

	phases     [][]float64
	maxPhaseLn int

	phase      int
	inputIndex int
	totalIn    int
	history    []float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg = cfg.finalized()

	phases, maxPhaseLn, err := designPolyphaseFIR(up, down, cfg)
	if err != nil {
		return nil, err
	}

	keep := maxPhaseLn - 1
	if keep < 0 {
		keep = 0
	}

	return &Resampler{
		up:         up,
		down:       down,
		phases:     phases,
		maxPhaseLn: maxPhaseLn,
		history:    make([]float64, 0, keep),
	}, nil
}

// NewForRates creates a resampler by approximating outRate/inRate as a
// rational ratio.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 || math.IsNaN(inRate) || math.IsNaN(outRate) {
		return nil, ErrInvalidRate
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	up, down := approximateRatio(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// ToRate converts input from inRate to outRate as a one-shot helper.
// Equal rates return the input unchanged.
func ToRate(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if inRate == outRate {
		return input, nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return r.Process(input), nil
}

// Ratio returns the reduced up/down conversion factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Reset clears internal filter state.
func (r *Resampler) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0
	r.history = r.history[:0]
}

// Process converts an input block and preserves internal state for
// streaming use.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float64, 0, outputLen(len(input), r.up, r.down)+1)

	work := make([]float64, len(r.history)+len(input))
	copy(work, r.history)
	copy(work[len(r.history):], input)

	baseIndex := r.totalIn - len(r.history)
	lastAvail := r.totalIn + len(input) - 1

	for r.inputIndex <= lastAvail {
		taps := r.phases[r.phase]

		var y float64
		for k, c := range taps {
			idx := r.inputIndex - k
			if idx < baseIndex || idx > lastAvail {
				continue
			}

			y += c * work[idx-baseIndex]
		}

		out = append(out, y)

		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}

	r.totalIn += len(input)

	keep := r.maxPhaseLn - 1
	if keep < 0 {
		keep = 0
	}
	if keep > len(work) {
		keep = len(work)
	}
	r.history = append(r.history[:0], work[len(work)-keep:]...)

	return out
}

func outputLen(inputLen, up, down int) int {
	return (inputLen*up + down - 1) / down
}
