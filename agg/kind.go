// Package agg runs quantile aggregations for the element types a host supports.
//
// An Aggregation is created per group of rows. It creates its accumulator on
// the first Add call, capturing the fractions at that moment, and produces a
// Result once in Final. Values travel as Value, tagged present or absent.
package agg

import (
	"fmt"
	"strings"
)

// Kind is an element type of an aggregation.
type Kind int

const (
	_ Kind = iota
	Float8
	Int4
	Int8
	Numeric
)

var kindNames = map[Kind]string{
	Float8:  "float8",
	Int4:    "int4",
	Int8:    "int8",
	Numeric: "numeric",
}

// Kinds lists all supported kinds.
func Kinds() []Kind {
	return []Kind{Float8, Int4, Int8, Numeric}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a type name: float8, int4, int8, numeric or their common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float8", "double", "double precision", "float64":
		return Float8, nil
	case "int4", "integer", "int", "int32":
		return Int4, nil
	case "int8", "bigint", "int64":
		return Int8, nil
	case "numeric", "decimal":
		return Numeric, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) (err error) {
	*k, err = ParseKind(string(b))
	return err
}
