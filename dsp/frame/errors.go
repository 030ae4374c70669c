package frame

import "errors"

// ErrInvalidConfig reports an invalid framing configuration.
var ErrInvalidConfig = errors.New("frame: invalid configuration")
