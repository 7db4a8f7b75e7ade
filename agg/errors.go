package agg

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAggregate is returned when an aggregation is used outside its lifetime:
	// on a nil Aggregation or after Close.
	ErrNotAggregate = errors.New("called in non-aggregate context")

	// ErrUnknownKind is returned for unsupported element types.
	ErrUnknownKind = errors.New("unknown element kind")
)

// TypeError reports a value whose Go type does not match the aggregation kind.
type TypeError struct {
	Kind Kind
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%v aggregate got %T value", e.Kind, e.Got)
}
