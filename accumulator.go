// Package nearrank computes exact quantiles over values that arrive one by one.
//
// Values are buffered as they come. At the end of the stream the buffer is
// sorted once and every requested fraction q is mapped to the element at rank
// ceil(n*q) (nearest-rank method, no interpolation).
//
//	a, err := nearrank.New[int64]([]float64{0.5, 0.99})
//	...
//	for _, v := range values {
//		if err := a.Append(v); err != nil {
//			return err
//		}
//	}
//
//	res, ok := a.ComputeAll()
//
// Finalization is terminal: once a result was computed Append fails with ErrFinalized.
package nearrank

import (
	"cmp"
	"slices"
	"unsafe"

	"go.uber.org/zap"

	"github.com/nikandfor/nearrank/scope"
)

type (
	// Compare returns a negative number when a < b, a positive number when a > b and zero otherwise.
	// It must define a total order.
	Compare[T any] func(a, b T) int

	// Accumulator buffers values of one aggregation and computes quantiles over them.
	// It is not safe for concurrent use.
	Accumulator[T any] struct {
		v []T // len(v) is the capacity
		n int // logical length

		qs  []float64
		cmp Compare[T]

		sorted   bool
		released bool

		slice    int
		elemSize int64
		reserved int64

		scope *scope.Scope
		log   *zap.Logger
	}
)

// New creates an accumulator for ordered types using cmp.Compare.
// For floating point types NaN sorts before any other value.
func New[T cmp.Ordered](qs []float64, opts ...Option) (*Accumulator[T], error) {
	return NewFunc[T](qs, cmp.Compare[T], opts...)
}

// NewFunc creates an accumulator ordering elements with compare.
//
// qs is copied and stays fixed for the accumulator lifetime.
// Fractions are not range checked: q <= 0 selects the minimum and q >= 1 the maximum.
func NewFunc[T any](qs []float64, compare Compare[T], opts ...Option) (*Accumulator[T], error) {
	if len(qs) == 0 {
		return nil, ErrNoQuantiles
	}
	if compare == nil {
		return nil, ErrNoComparator
	}

	o := newOptions(opts)

	var zero T

	a := &Accumulator[T]{
		qs:       slices.Clone(qs),
		cmp:      compare,
		slice:    o.slice,
		elemSize: int64(unsafe.Sizeof(zero)),
		scope:    o.scope,
		log:      o.log,
	}

	err := a.grow()
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Append adds a present value.
func (a *Accumulator[T]) Append(v T) error {
	if a.released {
		return ErrReleased
	}
	if a.sorted {
		return ErrFinalized
	}

	if a.n == len(a.v) {
		err := a.grow()
		if err != nil {
			return err
		}
	}

	a.v[a.n] = v
	a.n++

	return nil
}

// AppendNullable adds v if valid is true.
// Absent values are neither stored nor counted.
func (a *Accumulator[T]) AppendNullable(v T, valid bool) error {
	if !valid {
		return nil
	}

	return a.Append(v)
}

// Len returns the number of present values appended.
func (a *Accumulator[T]) Len() int { return a.n }

// Cap returns the buffer capacity.
func (a *Accumulator[T]) Cap() int { return len(a.v) }

// Quantiles returns a copy of the fractions the accumulator was created with.
func (a *Accumulator[T]) Quantiles() []float64 { return slices.Clone(a.qs) }

// Finalized reports whether a result was already computed.
func (a *Accumulator[T]) Finalized() bool { return a.sorted }

// Release drops the buffer and returns its memory to the scope.
func (a *Accumulator[T]) Release() {
	if a.released {
		return
	}

	a.scope.Release(a.reserved)

	a.v = nil
	a.n = 0
	a.reserved = 0
	a.released = true
}

// grow extends capacity by a fixed step, not by a factor.
func (a *Accumulator[T]) grow() error {
	bytes := int64(a.slice) * a.elemSize

	err := a.scope.Acquire(bytes)
	if err != nil {
		return &GrowError{Len: a.n, Cap: len(a.v), Grow: a.slice, cause: err}
	}

	v := make([]T, len(a.v)+a.slice)
	copy(v, a.v[:a.n])

	a.v = v
	a.reserved += bytes

	if len(a.v) > a.slice {
		a.log.Debug("grow buffer", zap.Int("len", a.n), zap.Int("cap", len(a.v)), zap.Int64("reserved", a.reserved))
	}

	return nil
}
