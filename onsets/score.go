package onsets

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/dsp/spectrogram"
)

// Score derives a scalar onset strength per frame from a spectrogram
// using the given method.
//
// Magnitude methods operate on whatever processing the spectrogram was
// configured with (filterbank, log compression). Phase methods require
// a spectrogram computed with circular framing.
func Score(spec *spectrogram.Spectrogram, method Method) (*activation.Activation, error) {
	switch method {
	case MethodSpectralFlux:
		return diffSum(spec, spectrogram.DefaultDiffConfig(), false)
	case MethodSuperFlux:
		cfg := spectrogram.DefaultDiffConfig()
		cfg.MaxBins = 3
		return diffSum(spec, cfg, false)
	case MethodSpectralDiff:
		return diffSum(spec, spectrogram.DefaultDiffConfig(), true)
	case MethodHighFrequencyContent:
		return highFrequencyContent(spec), nil
	case MethodComplexDomain:
		if spec.Phase == nil {
			return nil, ErrNeedsPhase
		}
		return complexDomain(spec), nil
	case MethodPhaseDeviation:
		if spec.Phase == nil {
			return nil, ErrNeedsPhase
		}
		return phaseDeviation(spec), nil
	case MethodRNNOnsets, MethodRNNBeats:
		return nil, ErrUseRNNPipeline
	default:
		return nil, ErrUnknownMethod
	}
}

// diffSum sums the rectified frame difference per frame, optionally
// squaring each term (spectral diff).
func diffSum(spec *spectrogram.Spectrogram, cfg spectrogram.DiffConfig, squared bool) (*activation.Activation, error) {
	diff, err := spectrogram.Diff(spec, cfg)
	if err != nil {
		return nil, err
	}

	data := make([]float64, len(diff))
	for t, row := range diff {
		if squared {
			sum := 0.0
			for _, v := range row {
				sum += v * v
			}
			data[t] = sum
			continue
		}

		data[t] = vecmath.Sum(row)
	}

	return activation.New(data, spec.FPS), nil
}

// highFrequencyContent weights each band by its index before summing.
func highFrequencyContent(spec *spectrogram.Spectrogram) *activation.Activation {
	data := make([]float64, spec.NumFrames())
	for t, row := range spec.Mag {
		sum := 0.0
		for b, v := range row {
			sum += v * float64(b)
		}

		data[t] = sum
	}

	return activation.New(data, spec.FPS)
}

// complexDomain scores the deviation of each bin from its
// phase-predicted target |X[t] - mag[t-1]*e^(j(2p[t-1]-p[t-2]))|.
// The first two frames have no prediction and score zero.
func complexDomain(spec *spectrogram.Spectrogram) *activation.Activation {
	data := make([]float64, spec.NumFrames())

	for t := 2; t < spec.NumFrames(); t++ {
		sum := 0.0
		for b := range spec.Mag[t] {
			target := 2*spec.Phase[t-1][b] - spec.Phase[t-2][b]
			cur := complex(spec.Mag[t][b]*math.Cos(spec.Phase[t][b]),
				spec.Mag[t][b]*math.Sin(spec.Phase[t][b]))
			pred := complex(spec.Mag[t-1][b]*math.Cos(target),
				spec.Mag[t-1][b]*math.Sin(target))

			re := real(cur) - real(pred)
			im := imag(cur) - imag(pred)
			sum += math.Hypot(re, im)
		}

		data[t] = sum
	}

	return activation.New(data, spec.FPS)
}

// phaseDeviation scores the mean absolute second phase difference per
// frame. The first two frames score zero.
func phaseDeviation(spec *spectrogram.Spectrogram) *activation.Activation {
	data := make([]float64, spec.NumFrames())

	for t := 2; t < spec.NumFrames(); t++ {
		sum := 0.0
		bins := len(spec.Phase[t])
		for b := 0; b < bins; b++ {
			dev := spec.Phase[t][b] - 2*spec.Phase[t-1][b] + spec.Phase[t-2][b]
			sum += math.Abs(wrapPhase(dev))
		}

		if bins > 0 {
			data[t] = sum / float64(bins)
		}
	}

	return activation.New(data, spec.FPS)
}

// wrapPhase maps an angle to (-pi, pi].
func wrapPhase(v float64) float64 {
	for v > math.Pi {
		v -= 2 * math.Pi
	}

	for v <= -math.Pi {
		v += 2 * math.Pi
	}

	return v
}
