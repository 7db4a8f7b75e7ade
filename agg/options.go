package agg

import (
	"go.uber.org/zap"

	"github.com/nikandfor/nearrank/scope"
)

type options struct {
	scope    *scope.Scope
	memLimit int64
	slice    int
	log      *zap.Logger
	metrics  *Metrics
}

// Option configures an Aggregation.
type Option func(*options)

// WithScope makes the aggregation reserve memory from a shared scope.
// The scope is not closed by Aggregation.Close.
func WithScope(s *scope.Scope) Option {
	return func(o *options) {
		o.scope = s
	}
}

// WithMemoryLimit limits the private scope of the aggregation.
// It has no effect together with WithScope.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memLimit = bytes
	}
}

// WithSliceSize sets the accumulator growth step.
func WithSliceSize(n int) Option {
	return func(o *options) {
		o.slice = n
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
