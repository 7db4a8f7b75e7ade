package nearrank

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type (
	// Array is the host representation of a possibly multi-dimensional array.
	// Elems are stored row-major; a nil element is an absent value.
	Array struct {
		Dims  []int
		Elems []any
	}
)

var errNullElement = errors.New("null element")

// Flat returns a one-dimensional Array of elems.
func Flat(elems ...any) Array {
	return Array{
		Dims:  []int{len(elems)},
		Elems: elems,
	}
}

// NDim returns the number of dimensions.
func (a Array) NDim() int { return len(a.Dims) }

// ParseFractions converts a one-dimensional array into quantile fractions.
//
// An empty array yields an empty list. Arrays with more than one dimension
// are rejected with *DimensionError. Every element must convert to a finite
// float64; all conversion failures are reported together.
func ParseFractions(a Array) ([]float64, error) {
	if len(a.Dims) > 1 {
		return nil, &DimensionError{Dims: slices.Clone(a.Dims)}
	}

	n := 0
	if len(a.Dims) == 1 {
		n = a.Dims[0]
	}

	if n != len(a.Elems) {
		return nil, fmt.Errorf("%w: %d elements in array of length %d", ErrMalformedFractions, len(a.Elems), n)
	}

	if n == 0 {
		return nil, nil
	}

	qs := make([]float64, n)

	var errs error

	for i, e := range a.Elems {
		q, err := toFloat(e)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("element %d: %w", i, err))
			continue
		}

		qs[i] = q
	}

	if errs != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFractions, errs)
	}

	return qs, nil
}

func toFloat(e any) (f float64, err error) {
	switch v := e.(type) {
	case nil:
		return 0, errNullElement
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case decimal.Decimal:
		f, _ = v.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	case fmt.Stringer:
		f, err = strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	default:
		return 0, fmt.Errorf("unsupported element type %T", e)
	}

	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}

	return f, nil
}
