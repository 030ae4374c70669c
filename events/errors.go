package events

import "errors"

var (
	// ErrNotAscending reports timestamps that are not strictly increasing.
	ErrNotAscending = errors.New("events: timestamps not strictly ascending")
	// ErrFormat reports malformed text input.
	ErrFormat = errors.New("events: malformed event list")
)
