// Package filterbank projects magnitude spectra onto overlapping
// triangular bands spaced logarithmically in frequency.
//
// The projection reduces the linear FFT bin axis to a perceptually
// spaced band axis before log compression and differencing. Band
// corner frequencies follow f = FRef * 2^(k/BandsPerOctave); corners
// that quantize onto the same FFT bin are merged and bands above
// Nyquist are dropped.
package filterbank

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultBandsPerOctave = 12
	defaultFMin           = 30.0
	defaultFMax           = 17000.0
	defaultFRef           = 440.0
)

// Config holds filterbank parameters.
type Config struct {
	// BandsPerOctave is the number of triangular bands per octave.
	BandsPerOctave int
	// FMin and FMax bound the covered frequency range in Hz.
	FMin float64
	FMax float64
	// FRef is the reference frequency the band grid is anchored to.
	FRef float64
	// Norm scales each band so its coefficients sum to one.
	Norm bool
}

// DefaultConfig returns the parameters commonly used for onset
// detection spectrograms.
func DefaultConfig() Config {
	return Config{
		BandsPerOctave: defaultBandsPerOctave,
		FMin:           defaultFMin,
		FMax:           defaultFMax,
		FRef:           defaultFRef,
		Norm:           true,
	}
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.BandsPerOctave <= 0 {
		return fmt.Errorf("%w: bands per octave %d", ErrInvalidConfig, c.BandsPerOctave)
	}

	if c.FMin <= 0 || c.FMax <= c.FMin {
		return fmt.Errorf("%w: frequency range [%f, %f]", ErrInvalidConfig, c.FMin, c.FMax)
	}

	if c.FRef <= 0 {
		return fmt.Errorf("%w: reference frequency %f", ErrInvalidConfig, c.FRef)
	}

	return nil
}

// Filterbank is a dense bands-by-bins projection matrix.
type Filterbank struct {
	filters [][]float64 // filters[band][bin]
	numBins int
}

// New builds a filterbank for spectra with numBins bins produced by an
// FFT of fftSize samples at the given sample rate.
func New(cfg Config, numBins, fftSize int, sampleRate float64) (*Filterbank, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if numBins <= 0 || fftSize <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: bins=%d fftSize=%d rate=%f",
			ErrInvalidConfig, numBins, fftSize, sampleRate)
	}

	centers := cornerBins(cfg, fftSize, sampleRate, numBins)
	if len(centers) < 3 {
		return nil, fmt.Errorf("%w: frequency range yields %d usable corner bins",
			ErrInvalidConfig, len(centers))
	}

	// Consecutive corner triples form one triangular band each.
	filters := make([][]float64, len(centers)-2)
	for b := range filters {
		lo, mid, hi := centers[b], centers[b+1], centers[b+2]
		filt := make([]float64, numBins)

		for k := lo; k < mid; k++ {
			filt[k] = float64(k-lo) / float64(mid-lo)
		}

		for k := mid; k <= hi && k < numBins; k++ {
			filt[k] = float64(hi-k) / float64(hi-mid)
		}

		if cfg.Norm {
			if sum := vecmath.Sum(filt); sum > 0 {
				vecmath.ScaleBlockInPlace(filt, 1/sum)
			}
		}

		filters[b] = filt
	}

	return &Filterbank{filters: filters, numBins: numBins}, nil
}

// NumBands returns the number of triangular bands.
func (fb *Filterbank) NumBands() int { return len(fb.filters) }

// NumBins returns the expected input spectrum length.
func (fb *Filterbank) NumBins() int { return fb.numBins }

// Band returns the coefficient row for one band.
func (fb *Filterbank) Band(b int) []float64 { return fb.filters[b] }

// Project writes the band energies of mag into dst and returns it.
// dst must have length NumBands; a nil dst allocates.
func (fb *Filterbank) Project(dst, mag []float64) ([]float64, error) {
	if len(mag) != fb.numBins {
		return nil, fmt.Errorf("%w: spectrum has %d bins, filterbank expects %d",
			ErrBinMismatch, len(mag), fb.numBins)
	}

	if dst == nil {
		dst = make([]float64, len(fb.filters))
	}

	for b, filt := range fb.filters {
		dst[b] = vecmath.DotProduct(filt, mag)
	}

	return dst, nil
}

// cornerBins returns the strictly increasing FFT bin indices of the
// band corner frequencies inside [FMin, FMax] and below Nyquist.
func cornerBins(cfg Config, fftSize int, sampleRate float64, numBins int) []int {
	binHz := sampleRate / float64(fftSize)
	n := float64(cfg.BandsPerOctave)

	kMin := int(math.Ceil(n * math.Log2(cfg.FMin/cfg.FRef)))
	kMax := int(math.Floor(n * math.Log2(cfg.FMax/cfg.FRef)))

	bins := make([]int, 0, kMax-kMin+1)
	for k := kMin; k <= kMax; k++ {
		f := cfg.FRef * math.Pow(2, float64(k)/n)
		bin := int(math.Round(f / binHz))
		if bin >= numBins {
			break
		}

		// Merge corners quantized onto the same bin.
		if len(bins) > 0 && bin <= bins[len(bins)-1] {
			continue
		}

		bins = append(bins, bin)
	}

	return bins
}
