package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasures(t *testing.T) {
	inputs := []WeightedScore{
		{Score: 0.5, Weight: 1},
		{Score: 0.8, Weight: 0.5},
	}

	cases := []struct {
		name    string
		measure Measure
		want    float64
	}{
		{"weighted_sum", WeightedSum{}, 0.9},
		{"weighted_product", WeightedProduct{}, 0.2},
		{"chebyshev", ChebyshevDistance{}, 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, c.measure.Calculate(inputs), 1e-9)
		})
	}

	t.Run("empty_product_is_zero", func(t *testing.T) {
		assert.Equal(t, 0.0, WeightedProduct{}.Calculate(nil))
	})
}

func TestMeasuredScorer(t *testing.T) {
	t.Run("clamps_result", func(t *testing.T) {
		s, err := NewMeasuredScorer(WeightedSum{},
			Weighted{Scorer: scoreOf(0.9), Weight: 1},
			Weighted{Scorer: scoreOf(0.9), Weight: 1},
		)
		require.NoError(t, err)
		assert.Equal(t, 1.0, s.Build(1).Score())
	})

	t.Run("nil_measure", func(t *testing.T) {
		_, err := NewMeasuredScorer(nil)
		require.ErrorIs(t, err, ErrNilMeasure)
	})
}
