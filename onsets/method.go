// Package onsets turns spectral frames into onset activations and
// discrete onset times: a closed family of spectral scoring rules and
// an adaptively thresholded peak picker.
package onsets

import "fmt"

// Method identifies an onset scoring rule. The set is closed and
// dispatched through a fixed switch, not a dynamic registry.
type Method int

const (
	MethodSpectralFlux Method = iota
	MethodSuperFlux
	MethodHighFrequencyContent
	MethodSpectralDiff
	MethodComplexDomain
	MethodPhaseDeviation
	// MethodRNNOnsets and MethodRNNBeats are advertised method names
	// that are not scalar scoring rules; requesting them here directs
	// callers to the multi-resolution recurrent pipeline.
	MethodRNNOnsets
	MethodRNNBeats
)

var methodNames = map[Method]string{
	MethodSpectralFlux:         "spectral_flux",
	MethodSuperFlux:            "superflux",
	MethodHighFrequencyContent: "high_frequency_content",
	MethodSpectralDiff:         "spectral_diff",
	MethodComplexDomain:        "complex_domain",
	MethodPhaseDeviation:       "phase_deviation",
	MethodRNNOnsets:            "rnn_onsets",
	MethodRNNBeats:             "rnn_beats",
}

// String returns the canonical method name.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}

	return fmt.Sprintf("method(%d)", int(m))
}

// NeedsPhase reports whether the method operates on complex spectra
// and therefore requires circular framing without a filterbank.
func (m Method) NeedsPhase() bool {
	return m == MethodComplexDomain || m == MethodPhaseDeviation
}

// ParseMethod resolves a method name. Unknown names are a
// configuration error.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}
