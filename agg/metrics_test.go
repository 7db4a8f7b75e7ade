package agg

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikandfor/nearrank"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	g, err := New(Int8, List(nearrank.Flat(0.5, 0.9)), WithMetrics(m))
	require.NoError(t, err)
	defer g.Close()

	for _, v := range []Value{Of(int64(1)), Null(), Of(int64(2)), Of(int64(3)), Null()} {
		require.NoError(t, g.Add(v))
	}

	_, err = g.Final()
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.appended.WithLabelValues("int8")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.absent.WithLabelValues("int8")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregations.WithLabelValues("int8", "multi")))

	e, err := New(Float8, Scalar(0.5), WithMetrics(m))
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Final()
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregations.WithLabelValues("float8", "null")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics

	m.value(Int4, true)
	m.finalized(Int4, "single")

	assert.NotNil(t, NewMetrics(nil))
}
