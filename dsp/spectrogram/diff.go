package spectrogram

import "fmt"

// DiffConfig holds parameters of the rectified frame difference.
type DiffConfig struct {
	// PositiveDiffs keeps only positive differences (half-wave
	// rectification); otherwise the signed difference is returned.
	PositiveDiffs bool
	// Ratio in (0, 1] downweights the reference frame.
	Ratio float64
	// Lag is the frame distance of the reference; normally 1.
	Lag int
	// MaxBins widens the reference to the maximum over this many
	// neighboring bands, suppressing vibrato-induced differences
	// (SuperFlux). 0 or 1 uses the plain per-band reference; larger
	// values must be odd.
	MaxBins int
}

// DefaultDiffConfig returns the plain rectified first difference.
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{PositiveDiffs: true, Ratio: 1, Lag: 1}
}

// Validate checks the configuration for construction-time errors.
func (c DiffConfig) Validate() error {
	if c.Ratio <= 0 || c.Ratio > 1 {
		return fmt.Errorf("%w: diff ratio %f outside (0, 1]", ErrInvalidConfig, c.Ratio)
	}

	if c.Lag < 1 {
		return fmt.Errorf("%w: diff lag %d", ErrInvalidConfig, c.Lag)
	}

	if c.MaxBins > 1 && c.MaxBins%2 == 0 {
		return fmt.Errorf("%w: diff max bins %d must be odd", ErrInvalidConfig, c.MaxBins)
	}

	return nil
}

// Diff computes the per-band frame difference of s.
//
// Frames without a predecessor at the configured lag have an all-zero
// difference. The result has the same shape as s.Mag.
func Diff(s *Spectrogram, cfg DiffConfig) ([][]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := make([][]float64, s.NumFrames())
	bands := s.NumBands()

	for t := range out {
		row := make([]float64, bands)
		out[t] = row

		if t < cfg.Lag {
			continue
		}

		prev := s.Mag[t-cfg.Lag]
		cur := s.Mag[t]

		for b := range row {
			ref := prev[b]
			if cfg.MaxBins > 1 {
				ref = neighborhoodMax(prev, b, (cfg.MaxBins-1)/2)
			}

			d := cur[b] - cfg.Ratio*ref
			if cfg.PositiveDiffs && d < 0 {
				d = 0
			}

			row[b] = d
		}
	}

	return out, nil
}

// neighborhoodMax returns the maximum of row over [b-radius, b+radius],
// truncated at the band edges.
func neighborhoodMax(row []float64, b, radius int) float64 {
	lo := b - radius
	if lo < 0 {
		lo = 0
	}

	hi := b + radius
	if hi > len(row)-1 {
		hi = len(row) - 1
	}

	best := row[lo]
	for i := lo + 1; i <= hi; i++ {
		if row[i] > best {
			best = row[i]
		}
	}

	return best
}
