package nearrank

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikandfor/nearrank/scope"
)

func TestAccumulatorGrow(tb *testing.T) {
	a, err := New[int64]([]float64{0.5}, WithSliceSize(4))
	require.NoError(tb, err)

	assert.Equal(tb, 4, a.Cap())
	assert.Equal(tb, 0, a.Len())

	for i := range 10 {
		require.NoError(tb, a.Append(int64(100-i)))
	}

	assert.Equal(tb, 10, a.Len())
	assert.Equal(tb, 12, a.Cap())

	for i := range 10 {
		assert.Equal(tb, int64(100-i), a.v[i], "element %d", i)
	}
}

func TestAccumulatorDefaultSliceSize(tb *testing.T) {
	a, err := New[float64]([]float64{0.5})
	require.NoError(tb, err)

	assert.Equal(tb, SliceSize, a.Cap())

	for i := range SliceSize + 1 {
		require.NoError(tb, a.Append(float64(i)))
	}

	assert.Equal(tb, 2*SliceSize, a.Cap())
	assert.Equal(tb, SliceSize+1, a.Len())
}

func TestAccumulatorNullable(tb *testing.T) {
	a, err := New[int32]([]float64{0.5}, WithSliceSize(2))
	require.NoError(tb, err)

	require.NoError(tb, a.AppendNullable(0, false))
	require.NoError(tb, a.AppendNullable(7, true))
	require.NoError(tb, a.AppendNullable(9, false))
	require.NoError(tb, a.AppendNullable(3, true))
	require.NoError(tb, a.AppendNullable(1, false))

	assert.Equal(tb, 2, a.Len())
	assert.Equal(tb, 2, a.Cap())
	assert.Equal(tb, []int32{7, 3}, a.v[:a.n])
}

func TestAccumulatorErrors(tb *testing.T) {
	_, err := New[float64](nil)
	assert.ErrorIs(tb, err, ErrNoQuantiles)

	_, err = New[float64]([]float64{})
	assert.ErrorIs(tb, err, ErrNoQuantiles)

	_, err = NewFunc[int]([]float64{0.5}, nil)
	assert.ErrorIs(tb, err, ErrNoComparator)
}

func TestAccumulatorQuantilesCopied(tb *testing.T) {
	qs := []float64{0.1, 0.9}

	a, err := New[int](qs)
	require.NoError(tb, err)

	qs[0] = 0.5

	got := a.Quantiles()
	assert.Equal(tb, []float64{0.1, 0.9}, got)

	got[1] = 0
	assert.Equal(tb, []float64{0.1, 0.9}, a.Quantiles())
}

func TestAccumulatorAppendAfterFinalize(tb *testing.T) {
	a, err := New[int]([]float64{0.5})
	require.NoError(tb, err)

	require.NoError(tb, a.Append(1))
	assert.False(tb, a.Finalized())

	_, ok := a.Compute()
	require.True(tb, ok)
	assert.True(tb, a.Finalized())

	assert.ErrorIs(tb, a.Append(2), ErrFinalized)
	assert.ErrorIs(tb, a.AppendNullable(2, true), ErrFinalized)
	assert.NoError(tb, a.AppendNullable(2, false))

	assert.Equal(tb, 1, a.Len())
}

func TestAccumulatorScope(tb *testing.T) {
	// 4 int64 elements per step, 32 bytes
	s := scope.New(scope.Config{MemoryLimitBytes: 64})

	a, err := New[int64]([]float64{0.5}, WithSliceSize(4), WithScope(s))
	require.NoError(tb, err)
	assert.Equal(tb, int64(32), s.Used())

	for i := range 8 {
		require.NoError(tb, a.Append(int64(i)))
	}

	assert.Equal(tb, int64(64), s.Used())

	err = a.Append(8)
	require.Error(tb, err)
	assert.ErrorIs(tb, err, scope.ErrMemoryLimitExceeded)

	var ge *GrowError
	require.ErrorAs(tb, err, &ge)
	assert.Equal(tb, 8, ge.Len)
	assert.Equal(tb, 8, ge.Cap)
	assert.Equal(tb, 4, ge.Grow)

	tb.Logf("grow error: %v", err)

	assert.Equal(tb, 8, a.Len())

	r, ok := a.Compute()
	require.True(tb, ok)
	assert.Equal(tb, int64(3), r)

	a.Release()
	assert.Equal(tb, int64(0), s.Used())
	assert.ErrorIs(tb, a.Append(1), ErrReleased)

	_, ok = a.Compute()
	assert.False(tb, ok)

	a.Release()
	assert.Equal(tb, int64(0), s.Used())
}

func TestAccumulatorScopeRefusesFirstSlice(tb *testing.T) {
	s := scope.New(scope.Config{MemoryLimitBytes: 16})

	_, err := New[float64]([]float64{0.5}, WithSliceSize(4), WithScope(s))
	assert.ErrorIs(tb, err, scope.ErrMemoryLimitExceeded)
	assert.Equal(tb, int64(0), s.Used())
}

func TestAccumulatorClosedScope(tb *testing.T) {
	s := scope.New(scope.Config{})

	a, err := New[int32]([]float64{0.5}, WithSliceSize(1), WithScope(s))
	require.NoError(tb, err)
	require.NoError(tb, a.Append(1))

	s.Close()

	assert.ErrorIs(tb, a.Append(2), scope.ErrClosed)
}

func BenchmarkAppend(tb *testing.B) {
	tb.ReportAllocs()

	src := rand.NewChaCha8([32]byte{})
	r := rand.New(src)

	a, err := New[float64]([]float64{0.5})
	require.NoError(tb, err)

	for tb.Loop() {
		_ = a.Append(r.Float64())
	}
}
