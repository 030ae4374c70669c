package tempo

import "errors"

// ErrInvalidConfig reports invalid tempo estimation parameters.
var ErrInvalidConfig = errors.New("tempo: invalid configuration")
