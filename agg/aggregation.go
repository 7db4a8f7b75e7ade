package agg

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nikandfor/nearrank"
	"github.com/nikandfor/nearrank/scope"
)

type (
	// Fractions is the quantile argument of an aggregation:
	// a single fraction or a list in host array form.
	Fractions struct {
		scalar float64
		array  nearrank.Array
		list   bool
	}

	// Aggregation is one quantile aggregation pass.
	// It is not safe for concurrent use.
	Aggregation struct {
		kind Kind
		q    Fractions
		opts options

		scope    *scope.Scope
		ownScope bool

		st     state // nil until the first Add or if there are no fractions
		inited bool
		closed bool

		log *zap.Logger
	}

	// state is an accumulator of one element type behind a uniform interface.
	state interface {
		add(v any) error
		compute() (any, bool)
		computeAll() ([]any, bool)
		release()
	}

	typed[T any] struct {
		kind Kind
		acc  *nearrank.Accumulator[T]
	}
)

// Scalar returns a single fraction argument. The result is a scalar.
func Scalar(q float64) Fractions {
	return Fractions{scalar: q}
}

// List returns an array fraction argument. The result is an array of the same length.
func List(a nearrank.Array) Fractions {
	return Fractions{array: a, list: true}
}

// IsList reports whether the fractions were given as an array.
func (f Fractions) IsList() bool { return f.list }

// Parse returns the fraction list.
func (f Fractions) Parse() ([]float64, error) {
	if !f.list {
		return []float64{f.scalar}, nil
	}

	return nearrank.ParseFractions(f.array)
}

// New creates an aggregation of kind k.
// Fractions are parsed on the first Add call.
func New(k Kind, q Fractions, opts ...Option) (*Aggregation, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}

	g := &Aggregation{
		kind: k,
		q:    q,
	}

	for _, o := range opts {
		o(&g.opts)
	}

	g.log = g.opts.log
	if g.log == nil {
		g.log = zap.NewNop()
	}

	g.log = g.log.With(zap.Stringer("kind", k))

	g.scope = g.opts.scope
	if g.scope == nil {
		g.scope = scope.New(scope.Config{MemoryLimitBytes: g.opts.memLimit})
		g.ownScope = true
	}

	return g, nil
}

// Kind returns the element kind.
func (g *Aggregation) Kind() Kind { return g.kind }

// Add feeds one value. The first call creates the accumulator and fixes the fractions.
// Absent values are skipped.
func (g *Aggregation) Add(v Value) error {
	if g == nil || g.closed {
		return ErrNotAggregate
	}

	if !g.inited {
		err := g.init()
		if err != nil {
			return err
		}
	}

	g.opts.metrics.value(g.kind, v.Valid)

	if !v.Valid || g.st == nil {
		return nil
	}

	return g.st.add(v.V)
}

// Final computes the result. It may be called more than once, but no values can be added after it.
func (g *Aggregation) Final() (Result, error) {
	if g == nil || g.closed {
		return Result{}, ErrNotAggregate
	}

	res := Result{Kind: g.kind, Array: g.q.list, Null: true}

	if g.st == nil {
		g.opts.metrics.finalized(g.kind, "null")
		g.log.Debug("no result", zap.Bool("inited", g.inited))

		return res, nil
	}

	var ok bool

	if g.q.list {
		res.Values, ok = g.st.computeAll()
	} else {
		var v any
		v, ok = g.st.compute()
		res.Values = []any{v}
	}

	if !ok {
		res.Values = nil
		g.opts.metrics.finalized(g.kind, "null")

		return res, nil
	}

	res.Null = false

	mode := "single"
	if g.q.list {
		mode = "multi"
	}

	g.opts.metrics.finalized(g.kind, mode)
	g.log.Debug("aggregation finalized", zap.String("mode", mode), zap.Int64("scope_peak", g.scope.Peak()))

	return res, nil
}

// Close releases the aggregation memory. Later calls fail with ErrNotAggregate.
func (g *Aggregation) Close() {
	if g == nil || g.closed {
		return
	}

	g.closed = true

	if g.st != nil {
		g.st.release()
		g.st = nil
	}

	if g.ownScope {
		g.scope.Close()
	}
}

func (g *Aggregation) init() (err error) {
	qs, err := g.q.Parse()
	if err != nil {
		g.log.Error("bad quantile fractions", zap.Error(err))
		return err
	}

	if len(qs) == 0 {
		g.inited = true
		g.log.Debug("empty fraction list")

		return nil
	}

	opts := []nearrank.Option{
		nearrank.WithScope(g.scope),
		nearrank.WithSliceSize(g.opts.slice),
		nearrank.WithLogger(g.log),
	}

	switch g.kind {
	case Float8:
		g.st, err = newTyped(g.kind, nearrank.New[float64], qs, opts)
	case Int4:
		g.st, err = newTyped(g.kind, nearrank.New[int32], qs, opts)
	case Int8:
		g.st, err = newTyped(g.kind, nearrank.New[int64], qs, opts)
	case Numeric:
		g.st, err = newTyped(g.kind, nearrank.NewDecimal, qs, opts)
	}

	if err != nil {
		return fmt.Errorf("create accumulator: %w", err)
	}

	g.inited = true

	g.log.Debug("aggregation started", zap.Float64s("quantiles", qs))

	return nil
}

func newTyped[T any](k Kind, mk func([]float64, ...nearrank.Option) (*nearrank.Accumulator[T], error), qs []float64, opts []nearrank.Option) (state, error) {
	acc, err := mk(qs, opts...)
	if err != nil {
		return nil, err
	}

	return &typed[T]{kind: k, acc: acc}, nil
}

func (s *typed[T]) add(v any) error {
	x, ok := v.(T)
	if !ok {
		return &TypeError{Kind: s.kind, Got: v}
	}

	return s.acc.Append(x)
}

func (s *typed[T]) compute() (any, bool) {
	r, ok := s.acc.Compute()
	if !ok {
		return nil, false
	}

	return r, true
}

func (s *typed[T]) computeAll() ([]any, bool) {
	rs, ok := s.acc.ComputeAll()
	if !ok {
		return nil, false
	}

	res := make([]any, len(rs))
	for i, r := range rs {
		res[i] = r
	}

	return res, true
}

func (s *typed[T]) release() {
	s.acc.Release()
}
