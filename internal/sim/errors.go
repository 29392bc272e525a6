package sim

import "errors"

var (
	// ErrInvalidConfiguration is returned by New when dimensions, robot
	// count or the termination request are out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRendering wraps renderer failures when they are configured to be
	// fatal.
	ErrRendering = errors.New("rendering failed")
)
