package nearrank

import "github.com/shopspring/decimal"

// NewDecimal creates an accumulator of arbitrary-precision decimals.
//
// Only the decimal headers are accounted in the scope, not their digit storage.
func NewDecimal(qs []float64, opts ...Option) (*Accumulator[decimal.Decimal], error) {
	return NewFunc[decimal.Decimal](qs, decimal.Decimal.Cmp, opts...)
}
