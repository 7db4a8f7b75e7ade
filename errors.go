package nearrank

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuantiles is returned when an accumulator is created without fractions.
	ErrNoQuantiles = errors.New("no quantile fractions")

	// ErrNoComparator is returned by NewFunc when the comparator is nil.
	ErrNoComparator = errors.New("no comparator")

	// ErrFinalized is returned by Append once the buffer was sorted for a result.
	ErrFinalized = errors.New("accumulator finalized")

	// ErrReleased is returned by Append after Release.
	ErrReleased = errors.New("accumulator released")

	// ErrMalformedFractions reports a fraction list that cannot be used.
	ErrMalformedFractions = errors.New("malformed quantile fractions")
)

// DimensionError is returned for fraction arrays with more than one dimension.
type DimensionError struct {
	Dims []int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("quantile fractions must be a single-dimensional array (dims = %d)", len(e.Dims))
}

func (e *DimensionError) Unwrap() error { return ErrMalformedFractions }

// GrowError is returned when the element buffer could not be extended.
//
// The scope error that refused the reservation can be accessed via errors.Unwrap.
type GrowError struct {
	Len, Cap, Grow int

	cause error
}

func (e *GrowError) Error() string {
	return fmt.Sprintf("grow buffer %d/%d by %d: %v", e.Len, e.Cap, e.Grow, e.cause)
}

func (e *GrowError) Unwrap() error { return e.cause }
