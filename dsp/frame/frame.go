// Package frame slices a mono sample buffer into fixed-size,
// overlapping analysis frames at a target frame rate.
//
// Frames are centered on their reference positions and zero-padded
// where they extend past either end of the buffer, so the number of
// frames depends only on the buffer length and the hop size. All
// analysis resolutions that share one frame rate therefore agree on
// the sequence length, which the multi-resolution stacker relies on.
package frame

import (
	"fmt"
	"math"
)

// Cutter slices a sample buffer into overlapping frames.
type Cutter struct {
	samples []float64
	size    int
	hop     float64
}

// Config holds framing parameters.
type Config struct {
	// Size is the frame length in samples.
	Size int
	// SampleRate is the input sample rate in Hz.
	SampleRate float64
	// FPS is the target frame rate in frames per second.
	FPS float64
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: frame size %d", ErrInvalidConfig, c.Size)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %f", ErrInvalidConfig, c.SampleRate)
	}

	if c.FPS <= 0 {
		return fmt.Errorf("%w: frame rate %f", ErrInvalidConfig, c.FPS)
	}

	return nil
}

// NewCutter creates a Cutter over samples. The samples slice is
// borrowed read-only and must not be mutated while the Cutter is in
// use.
func NewCutter(samples []float64, cfg Config) (*Cutter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Cutter{
		samples: samples,
		size:    cfg.Size,
		hop:     cfg.SampleRate / cfg.FPS,
	}, nil
}

// Size returns the frame length in samples.
func (c *Cutter) Size() int { return c.size }

// Hop returns the (possibly fractional) hop size in samples.
func (c *Cutter) Hop() float64 { return c.hop }

// NumFrames returns the number of frames the buffer yields.
func (c *Cutter) NumFrames() int {
	if len(c.samples) == 0 {
		return 0
	}

	return int(math.Ceil(float64(len(c.samples)) / c.hop))
}

// Frame writes frame k into dst and returns it. dst must have length
// Size; a nil dst allocates. Out-of-range regions are zero.
func (c *Cutter) Frame(k int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, c.size)
	}

	center := int(math.Round(float64(k) * c.hop))
	start := center - c.size/2

	for i := range dst {
		pos := start + i
		if pos < 0 || pos >= len(c.samples) {
			dst[i] = 0
			continue
		}

		dst[i] = c.samples[pos]
	}

	return dst
}
