package formatter

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSOL(t *testing.T) {
	assert.True(t, decimal.RequireFromString("1.0495").Equal(SOL(1.0495)))
	assert.True(t, decimal.RequireFromString("0.010495").Equal(SOL(0.010495)))
	assert.True(t, decimal.RequireFromString("0.000000001").Equal(SOL(0.0000000012)))
	assert.True(t, SOL(math.NaN()).IsZero())
	assert.True(t, SOL(math.Inf(1)).IsZero())
}

func TestLamports(t *testing.T) {
	assert.Equal(t, int64(1_049_500_000), ToLamports(decimal.RequireFromString("1.0495")))
	assert.Equal(t, int64(10_000_000), ToLamports(decimal.RequireFromString("0.01")))
	assert.Equal(t, int64(1), ToLamports(decimal.RequireFromString("0.0000000005")))

	assert.True(t, decimal.RequireFromString("0.02").Equal(FromLamports(20_000_000)))
	assert.True(t, decimal.NewFromInt(1).Equal(FromLamports(LamportsPerSOL)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.049500000", FormatSOL(decimal.RequireFromString("1.0495")))
	assert.Equal(t, "33.33", Percent(1.0/3.0))
	assert.Equal(t, "50.00", Percent(0.5))
	assert.Equal(t, "0.00", Percent(math.NaN()))
}
