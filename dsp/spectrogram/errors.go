package spectrogram

import "errors"

// ErrInvalidConfig reports an invalid spectrogram configuration.
var ErrInvalidConfig = errors.New("spectrogram: invalid configuration")
