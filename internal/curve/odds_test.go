package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func TestEngine_ComputeOdds(t *testing.T) {
	e := newTestEngine(t)

	t.Run("empty supplies is an error", func(t *testing.T) {
		_, err := e.ComputeOdds(nil, 0.05)
		assert.ErrorIs(t, err, ErrNoOutcomes)
	})

	t.Run("no trading yet gives a uniform distribution", func(t *testing.T) {
		got, err := e.ComputeOdds([]float64{0, 0}, 0.05)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0.5}, got.Probabilities)
		assert.InDelta(t, 1.9, got.Odds[0], 1e-12)
		assert.InDelta(t, 1.9, got.Odds[1], 1e-12)
	})

	t.Run("proportional to supply with margin", func(t *testing.T) {
		got, err := e.ComputeOdds([]float64{300, 700}, 0.05)
		require.NoError(t, err)
		assert.InDelta(t, 0.3, got.Probabilities[0], 1e-12)
		assert.InDelta(t, 0.7, got.Probabilities[1], 1e-12)
		assert.InDelta(t, 3.1667, got.Odds[0], 1e-4)
		assert.InDelta(t, 1.3571, got.Odds[1], 1e-4)
	})

	t.Run("single outcome", func(t *testing.T) {
		got, err := e.ComputeOdds([]float64{42}, 0.05)
		require.NoError(t, err)
		assert.Equal(t, []float64{1}, got.Probabilities)
		assert.Equal(t, []float64{1.01}, got.Odds)
	})

	t.Run("zero entry is substituted and the distribution renormalized", func(t *testing.T) {
		got, err := e.ComputeOdds([]float64{0, 100}, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3, got.Probabilities[0], 1e-12)
		assert.InDelta(t, 2.0/3, got.Probabilities[1], 1e-12)
		assert.InDelta(t, 1, sum(got.Probabilities), 1e-12)
	})

	t.Run("negative and NaN supplies count as zero", func(t *testing.T) {
		got, err := e.ComputeOdds([]float64{-50, math.NaN(), 0}, 0.05)
		require.NoError(t, err)
		for _, p := range got.Probabilities {
			assert.InDelta(t, 1.0/3, p, 1e-12)
		}
	})

	t.Run("probabilities always sum to one", func(t *testing.T) {
		inputs := [][]float64{
			{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			{0, 0, 1000},
			{1, 0, 0, 0},
			{math.Inf(1), 5},
			{999, 1},
		}
		for _, in := range inputs {
			got, err := e.ComputeOdds(in, 0.05)
			require.NoError(t, err)
			require.Len(t, got.Probabilities, len(in))
			require.Len(t, got.Odds, len(in))
			assert.InDelta(t, 1, sum(got.Probabilities), 1e-9, "input %v", in)
		}
	})

	t.Run("odds are clamped", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.MaxOdds = 50
		narrow := MustNew(cfg)

		got, err := narrow.ComputeOdds([]float64{1, 99}, 0)
		require.NoError(t, err)
		assert.Equal(t, 50.0, got.Odds[0])
		assert.InDelta(t, 1/0.99, got.Odds[1], 1e-12)

		got, err = e.ComputeOdds([]float64{1, 9999}, 0.05)
		require.NoError(t, err)
		assert.Equal(t, 1.01, got.Odds[1])
		assert.LessOrEqual(t, got.Odds[0], 1000.0)
	})

	t.Run("odds decrease as probability increases", func(t *testing.T) {
		got, err := e.ComputeOdds([]float64{100, 200, 300}, 0.05)
		require.NoError(t, err)
		assert.Greater(t, got.Odds[0], got.Odds[1])
		assert.Greater(t, got.Odds[1], got.Odds[2])
	})
}

func TestPayoutFraction(t *testing.T) {
	tests := []struct {
		name   string
		margin float64
		want   float64
	}{
		{"typical house edge", 0.05, 0.95},
		{"no margin", 0, 1},
		{"negative margin caps at one", -0.3, 1},
		{"excessive margin floors at half", 0.8, 0.5},
		{"NaN margin means none", math.NaN(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, payoutFraction(tt.margin), 1e-15)
		})
	}
}
