package agg

import (
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
	}{
		{"float8", Float8},
		{"Double Precision", Float8},
		{"float64", Float8},
		{"int4", Int4},
		{"integer", Int4},
		{" INT32 ", Int4},
		{"int8", Int8},
		{"bigint", Int8},
		{"numeric", Numeric},
		{"decimal", Numeric},
	}

	for _, tt := range tests {
		k, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, k, tt.in)
	}

	_, err := ParseKind("text")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindText(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		b, err := k.MarshalText()
		require.NoError(t, err)

		var got Kind
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, k, got)
	}

	_, err := Kind(0).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		in   string
		want Value
	}{
		{Float8, "1.5", Of(1.5)},
		{Float8, " -2e3 ", Of(-2000.0)},
		{Int4, "-7", Of(int32(-7))},
		{Int8, "9000000000", Of(int64(9000000000))},
		{Numeric, "3.14", Of(decimal.RequireFromString("3.14"))},
		{Float8, "", Null()},
		{Int4, "null", Null()},
		{Int8, `\N`, Null()},
		{Numeric, " NULL ", Null()},
	}

	for _, tt := range tests {
		v, err := ParseValue(tt.kind, tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, v, tt.in)
	}
}

func TestParseValueErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseValue(Int4, "3000000000")
	assert.ErrorIs(t, err, strconv.ErrRange)

	_, err = ParseValue(Int8, "1.5")
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = ParseValue(Float8, "abc")
	assert.Error(t, err)

	_, err = ParseValue(Numeric, "1..2")
	assert.Error(t, err)

	_, err = ParseValue(Kind(9), "1")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
