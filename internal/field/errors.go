package field

import "errors"

var (
	// ErrInvalidSize indicates a grid with a non-positive dimension.
	ErrInvalidSize = errors.New("field: grid dimensions must be positive")

	// ErrDimensionMismatch indicates two fields that must share a shape do not.
	ErrDimensionMismatch = errors.New("field: dimension mismatch between fields")
)
