package activation

import "errors"

var (
	// ErrInvalid reports a structurally inconsistent activation.
	ErrInvalid = errors.New("activation: invalid activation")
	// ErrFormat reports a persisted file that is not a valid
	// activation file.
	ErrFormat = errors.New("activation: unrecognized file format")
)
