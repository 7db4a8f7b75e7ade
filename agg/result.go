package agg

import (
	"fmt"
	"strings"
)

// Result is the outcome of an aggregation.
//
// Null means there is no result: no present value was added or no fractions were given.
// Otherwise Values holds one element per fraction, a single one for scalar fractions.
type Result struct {
	Kind   Kind
	Array  bool
	Null   bool
	Values []any
}

// Scalar returns the single result value.
func (r Result) Scalar() (any, bool) {
	if r.Null || len(r.Values) == 0 {
		return nil, false
	}

	return r.Values[0], true
}

// String renders the result the way the host prints it: a value, {v1,v2} for arrays or NULL.
func (r Result) String() string {
	if r.Null {
		return "NULL"
	}

	if !r.Array {
		v, _ := r.Scalar()
		return fmt.Sprint(v)
	}

	var b strings.Builder

	b.WriteByte('{')

	for i, v := range r.Values {
		if i != 0 {
			b.WriteByte(',')
		}

		fmt.Fprint(&b, v)
	}

	b.WriteByte('}')

	return b.String()
}
