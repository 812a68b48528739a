package physics

import "errors"

var (
	// ErrUnknownParam indicates SetParam was called with an unsupported name.
	ErrUnknownParam = errors.New("physics: unknown parameter")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("physics: parameter out of valid bounds")
)
