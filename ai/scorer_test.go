package ai

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreOf(v float64) ScorerBuilder {
	return ScorerBuilderFunc(func(Actor) Scorer {
		return ScorerFunc(func() float64 { return v })
	})
}

func scoreAt(v *float64) ScorerBuilder {
	return ScorerBuilderFunc(func(Actor) Scorer {
		return ScorerFunc(func() float64 { return *v })
	})
}

func TestNewFixedScore(t *testing.T) {
	cases := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"mid", 0.42, false},
		{"negative", -0.1, true},
		{"above_one", 1.1, true},
		{"nan", math.NaN(), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := NewFixedScore(c.value)
			if c.wantErr {
				require.ErrorIs(t, err, ErrScoreOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.value, b.Build(1).Score())
		})
	}
}

func TestAllOrNothing(t *testing.T) {
	cases := []struct {
		name      string
		threshold float64
		children  []float64
		want      float64
	}{
		{"one_below_threshold", 0.5, []float64{0.6, 0.4}, 0},
		{"all_above_clamps_sum", 0.5, []float64{0.6, 0.6}, 1},
		{"exact_threshold_counts", 0.5, []float64{0.5, 0.5}, 1},
		{"sum_below_one", 0.2, []float64{0.3, 0.3}, 0.6},
		{"no_children", 0.5, nil, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			children := make([]ScorerBuilder, 0, len(c.children))
			for _, v := range c.children {
				children = append(children, scoreOf(v))
			}
			s := NewAllOrNothing(c.threshold, children...).Build(1)
			assert.InDelta(t, c.want, s.Score(), 1e-9)
		})
	}
}

func TestSumOfScorers(t *testing.T) {
	t.Run("weights_apply_before_clamp", func(t *testing.T) {
		s := NewSumOfScorers(
			Weighted{Scorer: scoreOf(0.6), Weight: 0.5},
			Weighted{Scorer: scoreOf(0.6), Weight: 0.5},
		).Build(1)
		assert.InDelta(t, 0.6, s.Score(), 1e-9)
	})

	t.Run("sum_clamps_to_one", func(t *testing.T) {
		s := NewSumOfScorers(
			Weighted{Scorer: scoreOf(0.9), Weight: 1},
			Weighted{Scorer: scoreOf(0.9), Weight: 1},
		).Build(1)
		assert.Equal(t, 1.0, s.Score())
	})

	t.Run("empty_is_zero", func(t *testing.T) {
		assert.Equal(t, 0.0, NewSumOfScorers().Build(1).Score())
	})
}

func TestWinningScorer(t *testing.T) {
	cases := []struct {
		name     string
		children []float64
		want     float64
	}{
		{"unique_max_wins", []float64{0.7, 0.3}, 0.7},
		{"exact_tie_no_winner", []float64{0.7, 0.7}, 0},
		{"tie_below_max_is_fine", []float64{0.7, 0.3, 0.3}, 0.7},
		{"all_zero", []float64{0, 0}, 0},
		{"no_children", nil, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			children := make([]ScorerBuilder, 0, len(c.children))
			for _, v := range c.children {
				children = append(children, scoreOf(v))
			}
			s := NewWinningScorer(children...).Build(1)
			assert.InDelta(t, c.want, s.Score(), 1e-9)
		})
	}
}

func TestEvaluatingScorer(t *testing.T) {
	t.Run("applies_curve", func(t *testing.T) {
		s, err := NewEvaluatingScorer(NewInverseLinearEvaluator(), scoreOf(0.25))
		require.NoError(t, err)
		assert.InDelta(t, 0.75, s.Build(1).Score(), 1e-9)
	})

	t.Run("nil_config", func(t *testing.T) {
		_, err := NewEvaluatingScorer(nil, scoreOf(0.5))
		require.ErrorIs(t, err, ErrNilEvaluator)
		_, err = NewEvaluatingScorer(NewLinearEvaluator(), nil)
		require.ErrorIs(t, err, ErrNilScorer)
	})
}

// Composite scorers must stay inside [0, 1] no matter what their children
// report, including contract-violating children.
func TestCompositeScoresStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		raw := func() float64 {
			// Deliberately out of contract some of the time.
			return rng.Float64()*4 - 2
		}
		children := []ScorerBuilder{scoreOf(raw()), scoreOf(raw()), scoreOf(raw())}
		weighted := []Weighted{
			{Scorer: children[0], Weight: rng.Float64() * 2},
			{Scorer: children[1], Weight: rng.Float64() * 2},
			{Scorer: children[2], Weight: rng.Float64() * 2},
		}

		composites := []Scorer{
			NewAllOrNothing(rng.Float64(), children...).Build(1),
			NewSumOfScorers(weighted...).Build(1),
			NewWinningScorer(children...).Build(1),
		}
		for _, s := range composites {
			v := s.Score()
			if v < 0 || v > 1 {
				t.Fatalf("score %v escaped [0, 1]", v)
			}
		}
	}
}

// Scoring twice without the world changing must return the same value.
func TestScorerIdempotence(t *testing.T) {
	v := 0.4
	s := NewSumOfScorers(
		Weighted{Scorer: scoreAt(&v), Weight: 1},
		Weighted{Scorer: scoreOf(0.2), Weight: 0.5},
	).Build(1)

	first := s.Score()
	assert.Equal(t, first, s.Score())

	v = 0.9
	assert.NotEqual(t, first, s.Score())
	assert.Equal(t, s.Score(), s.Score())
}
