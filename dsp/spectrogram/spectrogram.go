// Package spectrogram computes the magnitude spectrogram front end of
// the onset and beat detection pipelines: short-time Fourier
// magnitudes, optional triangular filterbank projection, optional
// logarithmic compression, and the rectified frame-to-frame
// difference the detection stages consume.
package spectrogram

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-onset/dsp/filterbank"
	"github.com/cwbudde/algo-onset/dsp/frame"
	"github.com/cwbudde/algo-onset/dsp/spectrum"
	"github.com/cwbudde/algo-onset/dsp/window"
)

// LogConfig holds logarithmic compression parameters: each magnitude x
// becomes log(Mul*x + Add).
type LogConfig struct {
	Mul float64
	Add float64
}

// DefaultLogConfig returns the compression commonly used for
// filterbank spectrograms.
func DefaultLogConfig() LogConfig {
	return LogConfig{Mul: 1, Add: 1}
}

// Config holds spectrogram parameters for one analysis resolution.
type Config struct {
	// SampleRate is the input sample rate in Hz.
	SampleRate float64
	// FrameSize is the analysis frame length in samples.
	FrameSize int
	// FFTSize is the transform size; 0 uses FrameSize. Frames shorter
	// than the transform are zero-padded.
	FFTSize int
	// FPS is the target frame rate in frames per second.
	FPS float64
	// Window selects the analysis window.
	Window window.Type
	// Filterbank, when non-nil, projects magnitudes onto triangular
	// log-frequency bands.
	Filterbank *filterbank.Config
	// Log, when non-nil, compresses magnitudes logarithmically.
	Log *LogConfig
	// Circular rotates each windowed frame by half its size,
	// re-referencing per-bin phases to the frame center, and keeps the
	// phase rows. Phase-based onset methods require this; it cannot be
	// combined with a filterbank.
	Circular bool
}

// DefaultConfig returns the single-resolution parameters used by the
// spectral-flux family of onset detectors.
func DefaultConfig(sampleRate float64) Config {
	fb := filterbank.DefaultConfig()
	lg := DefaultLogConfig()

	return Config{
		SampleRate: sampleRate,
		FrameSize:  2048,
		FPS:        100,
		Window:     window.TypeHann,
		Filterbank: &fb,
		Log:        &lg,
	}
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %f", ErrInvalidConfig, c.SampleRate)
	}

	if c.FrameSize <= 0 {
		return fmt.Errorf("%w: frame size %d", ErrInvalidConfig, c.FrameSize)
	}

	if c.FFTSize != 0 && c.FFTSize < c.FrameSize {
		return fmt.Errorf("%w: fft size %d smaller than frame size %d",
			ErrInvalidConfig, c.FFTSize, c.FrameSize)
	}

	if c.FPS <= 0 {
		return fmt.Errorf("%w: frame rate %f", ErrInvalidConfig, c.FPS)
	}

	if !c.Window.Valid() {
		return fmt.Errorf("%w: window type %d", ErrInvalidConfig, int(c.Window))
	}

	if c.Circular && c.Filterbank != nil {
		return fmt.Errorf("%w: circular framing excludes the filterbank", ErrInvalidConfig)
	}

	if c.Log != nil && c.Log.Add < 1 {
		return fmt.Errorf("%w: log offset %f must be >= 1", ErrInvalidConfig, c.Log.Add)
	}

	if c.Filterbank != nil {
		if err := c.Filterbank.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (c Config) fftSize() int {
	if c.FFTSize > 0 {
		return c.FFTSize
	}

	return c.FrameSize
}

// Spectrogram holds processed spectral frames at a fixed frame rate.
//
// Mag rows are filterbank bands when a filterbank is configured,
// otherwise raw FFT bins. Phase rows are present only for circular
// (phase-preserving) configurations. A Spectrogram is immutable once
// computed.
type Spectrogram struct {
	Mag   [][]float64
	Phase [][]float64
	FPS   float64
}

// NumFrames returns the number of spectral frames.
func (s *Spectrogram) NumFrames() int { return len(s.Mag) }

// NumBands returns the per-frame vector length.
func (s *Spectrogram) NumBands() int {
	if len(s.Mag) == 0 {
		return 0
	}

	return len(s.Mag[0])
}

// Compute runs the full analysis chain over a mono sample buffer.
// The samples slice is borrowed read-only.
func Compute(samples []float64, cfg Config) (*Spectrogram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cutter, err := frame.NewCutter(samples, frame.Config{
		Size:       cfg.FrameSize,
		SampleRate: cfg.SampleRate,
		FPS:        cfg.FPS,
	})
	if err != nil {
		return nil, err
	}

	fftSize := cfg.fftSize()
	numBins := fftSize/2 + 1

	var fb *filterbank.Filterbank
	if cfg.Filterbank != nil {
		fb, err = filterbank.New(*cfg.Filterbank, numBins, fftSize, cfg.SampleRate)
		if err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrogram: fft plan: %w", err)
	}

	coeffs := window.Generate(cfg.Window, cfg.FrameSize, window.WithPeriodic())

	numFrames := cutter.NumFrames()
	out := &Spectrogram{
		Mag: make([][]float64, numFrames),
		FPS: cfg.FPS,
	}
	if cfg.Circular {
		out.Phase = make([][]float64, numFrames)
	}

	buf := make([]float64, cfg.FrameSize)
	timeData := make([]complex128, fftSize)
	freqData := make([]complex128, fftSize)
	mag := make([]float64, numBins)

	for k := 0; k < numFrames; k++ {
		cutter.Frame(k, buf)

		if err := window.ApplyCoefficientsInPlace(buf, coeffs); err != nil {
			return nil, err
		}

		// Rotating the windowed frame re-references phases to the
		// frame center without changing magnitudes.
		if cfg.Circular {
			rotateHalf(buf)
		}

		for i := range timeData {
			if i < len(buf) {
				timeData[i] = complex(buf[i], 0)
			} else {
				timeData[i] = 0
			}
		}

		if err := plan.Forward(freqData, timeData); err != nil {
			return nil, fmt.Errorf("spectrogram: forward fft: %w", err)
		}

		spectrum.Magnitude(mag, freqData)

		row := make([]float64, numBins)
		copy(row, mag)

		if fb != nil {
			projected, err := fb.Project(nil, row)
			if err != nil {
				return nil, err
			}

			row = projected
		}

		if cfg.Log != nil {
			spectrum.LogCompress(row, cfg.Log.Mul, cfg.Log.Add)
		}

		out.Mag[k] = row

		if cfg.Circular {
			phase := make([]float64, numBins)
			spectrum.Phase(phase, freqData)
			out.Phase[k] = phase
		}
	}

	return out, nil
}

// rotateHalf swaps the two halves of buf in place, placing the frame
// center at index 0.
func rotateHalf(buf []float64) {
	half := len(buf) / 2
	tmp := make([]float64, half)
	copy(tmp, buf[:half])
	copy(buf, buf[half:])
	copy(buf[len(buf)-half:], tmp)
}
