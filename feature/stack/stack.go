// Package stack runs several spectrogram resolutions over one signal
// in parallel and concatenates their per-frame vectors into a single
// wide feature sequence at a common frame rate.
package stack

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-onset/dsp/spectrogram"
)

// Features is a stacked multi-resolution feature sequence.
type Features struct {
	// Vectors holds one wide feature vector per frame.
	Vectors [][]float64
	// FPS is the common frame rate of all resolutions.
	FPS float64
}

// NumFrames returns the sequence length.
func (f *Features) NumFrames() int { return len(f.Vectors) }

// Width returns the per-frame vector length.
func (f *Features) Width() int {
	if len(f.Vectors) == 0 {
		return 0
	}

	return len(f.Vectors[0])
}

// Resolution pairs a spectrogram configuration with its difference
// stage. Each resolution contributes its processed frames followed by
// their rectified differences, the layout the recurrent predictors
// were trained on.
type Resolution struct {
	Spec spectrogram.Config
	Diff spectrogram.DiffConfig
}

// DefaultResolutions returns the three-resolution configuration used
// by the recurrent onset and beat predictors: frame sizes 1024, 2048
// and 4096 at 100 fps, filtered and log-compressed.
func DefaultResolutions(sampleRate float64) []Resolution {
	sizes := []int{1024, 2048, 4096}

	out := make([]Resolution, len(sizes))
	for i, size := range sizes {
		cfg := spectrogram.DefaultConfig(sampleRate)
		cfg.FrameSize = size
		out[i] = Resolution{Spec: cfg, Diff: spectrogram.DefaultDiffConfig()}
	}

	return out
}

// Compute runs every resolution over samples and stacks the results.
//
// All configurations must share one frame rate and must yield the same
// sequence length; a mismatch is a configuration error, never a silent
// truncation. Resolutions are evaluated concurrently; the output
// concatenation follows configuration order.
func Compute(samples []float64, resolutions []Resolution) (*Features, error) {
	if len(resolutions) == 0 {
		return nil, fmt.Errorf("%w: no resolutions", ErrInvalidConfig)
	}

	fps := resolutions[0].Spec.FPS
	for i, res := range resolutions {
		if res.Spec.FPS != fps {
			return nil, fmt.Errorf("%w: resolution %d has fps %f, want %f",
				ErrInvalidConfig, i, res.Spec.FPS, fps)
		}

		if err := res.Spec.Validate(); err != nil {
			return nil, err
		}

		if err := res.Diff.Validate(); err != nil {
			return nil, err
		}
	}

	type result struct {
		mag  [][]float64
		diff [][]float64
	}

	results := make([]result, len(resolutions))

	var g errgroup.Group
	for i, res := range resolutions {
		g.Go(func() error {
			spec, err := spectrogram.Compute(samples, res.Spec)
			if err != nil {
				return err
			}

			diff, err := spectrogram.Diff(spec, res.Diff)
			if err != nil {
				return err
			}

			results[i] = result{mag: spec.Mag, diff: diff}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	numFrames := len(results[0].mag)
	width := 0
	for i, res := range results {
		if len(res.mag) != numFrames {
			return nil, fmt.Errorf("%w: resolution %d yields %d frames, resolution 0 yields %d",
				ErrLengthMismatch, i, len(res.mag), numFrames)
		}

		if numFrames > 0 {
			width += 2 * len(res.mag[0])
		}
	}

	vectors := make([][]float64, numFrames)
	for t := range vectors {
		vec := make([]float64, 0, width)
		for _, res := range results {
			vec = append(vec, res.mag[t]...)
			vec = append(vec, res.diff[t]...)
		}

		vectors[t] = vec
	}

	return &Features{Vectors: vectors, FPS: fps}, nil
}
