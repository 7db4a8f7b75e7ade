package nearrank

import (
	"math"
	"slices"

	"go.uber.org/zap"
)

// Rank maps fraction q to a 0-based index into n sorted elements.
//
//	0 < q < 1: ceil(n*q) - 1
//	q <= 0:    0
//	q >= 1:    n - 1
//
// NaN selects the first element. n must be positive.
func Rank(n int, q float64) int {
	switch {
	case q > 0 && q < 1:
	case q >= 1:
		return n - 1
	default:
		return 0
	}

	i := int(math.Ceil(float64(n)*q)) - 1

	switch {
	case i < 0:
		i = 0
	case i >= n:
		i = n - 1
	}

	return i
}

// Query returns the element at fraction q.
// ok is false if no present value was appended.
//
// The first call sorts the buffer in place and finalizes the accumulator.
func (a *Accumulator[T]) Query(q float64) (r T, ok bool) {
	a.sort()

	if a.n == 0 {
		return r, false
	}

	return a.v[Rank(a.n, q)], true
}

// Compute returns the element at the first requested fraction.
func (a *Accumulator[T]) Compute() (T, bool) {
	return a.Query(a.qs[0])
}

// ComputeAll returns one element per requested fraction, in request order.
func (a *Accumulator[T]) ComputeAll() ([]T, bool) {
	res := make([]T, len(a.qs))

	if !a.QueryMulti(a.qs, res) {
		return nil, false
	}

	return res, true
}

// QueryMulti fills res[i] with the element at fraction qs[i].
// res must be at least as long as qs.
func (a *Accumulator[T]) QueryMulti(qs []float64, res []T) bool {
	a.sort()

	if a.n == 0 {
		return false
	}

	for i, q := range qs {
		res[i] = a.v[Rank(a.n, q)]
	}

	return true
}

func (a *Accumulator[T]) sort() {
	if a.sorted {
		return
	}

	slices.SortStableFunc(a.v[:a.n], a.cmp)
	a.sorted = true

	a.log.Debug("finalize", zap.Int("n", a.n), zap.Int("quantiles", len(a.qs)), zap.Int64("reserved", a.reserved))
}
