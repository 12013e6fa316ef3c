package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoredChoices(scores ...float64) []*Choice {
	choices := make([]*Choice, 0, len(scores))
	for _, v := range scores {
		choices = append(choices, &Choice{score: v})
	}
	return choices
}

func TestFirstToScore(t *testing.T) {
	cases := []struct {
		name      string
		threshold float64
		scores    []float64
		want      int // index into choices, -1 for nil
	}{
		{"first_match_wins", 0.5, []float64{0.2, 0.6, 0.9}, 1},
		{"declaration_order_beats_score", 0.5, []float64{0.6, 0.9}, 0},
		{"exact_threshold_qualifies", 0.5, []float64{0.5}, 0},
		{"none_qualify", 0.5, []float64{0.1, 0.4}, -1},
		{"empty", 0.5, nil, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			choices := scoredChoices(c.scores...)
			got := FirstToScore{Threshold: c.threshold}.Pick(choices)
			if c.want == -1 {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, choices[c.want], got)
		})
	}
}

func TestHighest(t *testing.T) {
	cases := []struct {
		name      string
		threshold float64
		scores    []float64
		want      int
	}{
		{"argmax", 0.0, []float64{0.2, 0.9, 0.6}, 1},
		{"tie_first_declared_wins", 0.0, []float64{0.2, 0.7, 0.7}, 1},
		{"below_threshold_ignored", 0.5, []float64{0.9, 0.4}, 0},
		{"max_below_threshold", 0.5, []float64{0.1, 0.4}, -1},
		{"empty", 0.0, nil, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			choices := scoredChoices(c.scores...)
			got := Highest{Threshold: c.threshold}.Pick(choices)
			if c.want == -1 {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, choices[c.want], got)
		})
	}
}
