package stack

import "errors"

var (
	// ErrInvalidConfig reports an invalid stacking configuration.
	ErrInvalidConfig = errors.New("stack: invalid configuration")
	// ErrLengthMismatch reports resolutions disagreeing on the
	// sequence length, which signals misconfiguration.
	ErrLengthMismatch = errors.New("stack: resolution length mismatch")
)
