package nearrank

import (
	"go.uber.org/zap"

	"github.com/nikandfor/nearrank/scope"
)

// SliceSize is the default initial capacity and growth step of the element buffer.
const SliceSize = 1024

type options struct {
	slice int
	scope *scope.Scope
	log   *zap.Logger
}

// Option configures an Accumulator.
type Option func(*options)

// WithSliceSize sets the initial capacity and the fixed growth step.
// Values below 1 fall back to SliceSize.
func WithSliceSize(n int) Option {
	return func(o *options) {
		o.slice = n
	}
}

// WithScope makes the accumulator reserve its buffer memory from s.
func WithScope(s *scope.Scope) Option {
	return func(o *options) {
		o.scope = s
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func newOptions(opts []Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	if o.slice < 1 {
		o.slice = SliceSize
	}

	if o.log == nil {
		o.log = zap.NewNop()
	}

	return o
}
