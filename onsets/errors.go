package onsets

import "errors"

var (
	// ErrUnknownMethod reports a method name outside the closed set.
	ErrUnknownMethod = errors.New("onsets: unknown method")
	// ErrUseRNNPipeline reports a method that is served by the
	// multi-resolution recurrent pipeline, not the spectral scorer.
	ErrUseRNNPipeline = errors.New("onsets: method requires the rnn pipeline")
	// ErrNeedsPhase reports a phase-based method applied to a
	// spectrogram computed without phase information.
	ErrNeedsPhase = errors.New("onsets: method requires circular framing with phases")
	// ErrInvalidConfig reports invalid peak picker parameters.
	ErrInvalidConfig = errors.New("onsets: invalid configuration")
)
