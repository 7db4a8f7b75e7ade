package agg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is an element tagged present or absent.
//
// V holds float64 for Float8, int32 for Int4, int64 for Int8
// and decimal.Decimal for Numeric.
type Value struct {
	V     any
	Valid bool
}

// Null returns an absent value.
func Null() Value { return Value{} }

// Of returns a present value.
func Of(v any) Value { return Value{V: v, Valid: true} }

// ParseValue converts the text form of a k value.
// Empty text, NULL and \N are absent values.
func ParseValue(k Kind, s string) (v Value, err error) {
	t := strings.TrimSpace(s)

	if t == "" || t == `\N` || strings.EqualFold(t, "NULL") {
		return Null(), nil
	}

	switch k {
	case Float8:
		var f float64
		f, err = strconv.ParseFloat(t, 64)
		v = Of(f)
	case Int4:
		var i int64
		i, err = strconv.ParseInt(t, 10, 32)
		v = Of(int32(i))
	case Int8:
		var i int64
		i, err = strconv.ParseInt(t, 10, 64)
		v = Of(i)
	case Numeric:
		var d decimal.Decimal
		d, err = decimal.NewFromString(t)
		v = Of(d)
	default:
		return Value{}, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}

	if err != nil {
		return Value{}, fmt.Errorf("parse %v value %q: %w", k, t, err)
	}

	return v, nil
}
