package ai

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrScoreOutOfRange = errors.New("ai: fixed score must be within [0, 1]")
	ErrNilScorer       = errors.New("ai: scorer must not be nil")
	ErrNilEvaluator    = errors.New("ai: evaluator must not be nil")
)

// Scorer boils some aspect of the world down to a score in [0, 1].
// Scorers are re-evaluated every tick and must hold no state beyond their
// configuration: evaluating twice against the same world yields the same
// score.
type Scorer interface {
	Score() float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func() float64

func (f ScorerFunc) Score() float64 { return f() }

// ScorerBuilder produces a fresh Scorer bound to an actor. Builders are
// immutable configuration; the instances they produce are owned by one
// Thinker choice.
type ScorerBuilder interface {
	Build(actor Actor) Scorer
}

// ScorerBuilderFunc adapts a plain function to the ScorerBuilder interface.
type ScorerBuilderFunc func(actor Actor) Scorer

func (f ScorerBuilderFunc) Build(actor Actor) Scorer { return f(actor) }

// Clamp01 pins v to [0, 1]. NaN collapses to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NewFixedScore returns a scorer that always reports v. Values outside
// [0, 1] are a configuration error, not something to clamp silently.
func NewFixedScore(v float64) (ScorerBuilder, error) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return nil, fmt.Errorf("%w: %v", ErrScoreOutOfRange, v)
	}
	return ScorerBuilderFunc(func(Actor) Scorer {
		return ScorerFunc(func() float64 { return v })
	}), nil
}

type allOrNothing struct {
	threshold float64
	children  []Scorer
}

func (s *allOrNothing) Score() float64 {
	sum := 0.0
	for _, c := range s.children {
		v := Clamp01(c.Score())
		if v < s.threshold {
			return 0
		}
		sum += v
	}
	return Clamp01(sum)
}

// NewAllOrNothing sums its children's scores, but only if every single child
// scores at or above threshold. One child under the bar zeroes the whole
// thing. The sum is clamped to 1.
func NewAllOrNothing(threshold float64, children ...ScorerBuilder) ScorerBuilder {
	builders := append([]ScorerBuilder(nil), children...)
	return ScorerBuilderFunc(func(actor Actor) Scorer {
		built := make([]Scorer, 0, len(builders))
		for _, b := range builders {
			built = append(built, b.Build(actor))
		}
		return &allOrNothing{threshold: threshold, children: built}
	})
}

// Weighted pairs a child scorer with the weight applied to its score.
type Weighted struct {
	Scorer ScorerBuilder
	Weight float64
}

type sumOfScorers struct {
	children []Scorer
	weights  []float64
}

func (s *sumOfScorers) Score() float64 {
	sum := 0.0
	for i, c := range s.children {
		sum += Clamp01(c.Score()) * s.weights[i]
	}
	return Clamp01(sum)
}

// NewSumOfScorers reports the weighted sum of its children, clamped to
// [0, 1]. Weights apply to each child before the sum is clamped.
func NewSumOfScorers(children ...Weighted) ScorerBuilder {
	specs := append([]Weighted(nil), children...)
	return ScorerBuilderFunc(func(actor Actor) Scorer {
		built := make([]Scorer, 0, len(specs))
		weights := make([]float64, 0, len(specs))
		for _, ws := range specs {
			built = append(built, ws.Scorer.Build(actor))
			weights = append(weights, ws.Weight)
		}
		return &sumOfScorers{children: built, weights: weights}
	})
}

type evaluatingScorer struct {
	evaluator Evaluator
	child     Scorer
}

func (s *evaluatingScorer) Score() float64 {
	return Clamp01(s.evaluator.Evaluate(Clamp01(s.child.Score())))
}

// NewEvaluatingScorer applies a response curve to a child scorer's score.
func NewEvaluatingScorer(evaluator Evaluator, child ScorerBuilder) (ScorerBuilder, error) {
	if evaluator == nil {
		return nil, ErrNilEvaluator
	}
	if child == nil {
		return nil, ErrNilScorer
	}
	return ScorerBuilderFunc(func(actor Actor) Scorer {
		return &evaluatingScorer{evaluator: evaluator, child: child.Build(actor)}
	}), nil
}

type winningScorer struct {
	children []Scorer
}

func (s *winningScorer) Score() float64 {
	best := 0.0
	tied := false
	for _, c := range s.children {
		v := Clamp01(c.Score())
		if v > best {
			best = v
			tied = false
		} else if v == best && best > 0 {
			tied = true
		}
	}
	if tied {
		return 0
	}
	return best
}

// NewWinningScorer propagates the single highest child score. An exact tie
// for the maximum means there is no winner and the score is 0, as is an
// all-zero field.
func NewWinningScorer(children ...ScorerBuilder) ScorerBuilder {
	builders := append([]ScorerBuilder(nil), children...)
	return ScorerBuilderFunc(func(actor Actor) Scorer {
		built := make([]Scorer, 0, len(builders))
		for _, b := range builders {
			built = append(built, b.Build(actor))
		}
		return &winningScorer{children: built}
	})
}
