package filterbank

import "errors"

var (
	// ErrInvalidConfig reports an invalid filterbank configuration.
	ErrInvalidConfig = errors.New("filterbank: invalid configuration")
	// ErrBinMismatch reports a spectrum whose length does not match the bank.
	ErrBinMismatch = errors.New("filterbank: bin count mismatch")
)
