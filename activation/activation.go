// Package activation defines the activation function handed from the
// feature and prediction stages to the event-extraction stages, and
// its binary persistence format.
//
// An activation holds one scalar (or fixed-width vector) per analysis
// frame at a fixed frame rate. It is immutable once produced and may
// be written to and reloaded from disk, short-circuiting the feature
// stages entirely.
package activation

import (
	"fmt"
)

// Activation is a frame-indexed sequence of detector outputs.
type Activation struct {
	// Data is frame-major: frame t column c lives at Data[t*Width+c].
	Data []float64
	// Width is the number of values per frame; 1 for scalar detectors.
	Width int
	// FPS is the frame rate the data was sampled at.
	FPS float64
}

// New wraps data as a scalar activation at the given frame rate.
func New(data []float64, fps float64) *Activation {
	return &Activation{Data: data, Width: 1, FPS: fps}
}

// Len returns the number of frames.
func (a *Activation) Len() int {
	if a.Width <= 0 {
		return 0
	}

	return len(a.Data) / a.Width
}

// At returns the value of column c at frame t.
func (a *Activation) At(t, c int) float64 {
	return a.Data[t*a.Width+c]
}

// Column returns a copy of one column across all frames.
func (a *Activation) Column(c int) []float64 {
	out := make([]float64, a.Len())
	for t := range out {
		out[t] = a.Data[t*a.Width+c]
	}

	return out
}

// Validate checks structural consistency.
func (a *Activation) Validate() error {
	if a.Width <= 0 {
		return fmt.Errorf("%w: width %d", ErrInvalid, a.Width)
	}

	if a.FPS <= 0 {
		return fmt.Errorf("%w: frame rate %f", ErrInvalid, a.FPS)
	}

	if len(a.Data)%a.Width != 0 {
		return fmt.Errorf("%w: %d values not divisible by width %d",
			ErrInvalid, len(a.Data), a.Width)
	}

	return nil
}
