package beats

import "errors"

// ErrInvalidConfig reports invalid beat tracking parameters.
var ErrInvalidConfig = errors.New("beats: invalid configuration")
