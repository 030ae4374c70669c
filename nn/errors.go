package nn

import "errors"

var (
	// ErrDimensionMismatch reports input or ensemble dimensions that
	// do not agree with the model configuration.
	ErrDimensionMismatch = errors.New("nn: dimension mismatch")
	// ErrEmptyModel reports a model without layers.
	ErrEmptyModel = errors.New("nn: model has no layers")
	// ErrModelFormat reports a model file that cannot be decoded.
	ErrModelFormat = errors.New("nn: unrecognized model file")
)
