package ai

import "errors"

var ErrNilMeasure = errors.New("ai: measure must not be nil")

// WeightedScore is one child's clamped score together with its weight.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// Measure combines a set of weighted child scores into one value.
type Measure interface {
	Calculate(inputs []WeightedScore) float64
}

// WeightedSum adds every weighted score together.
type WeightedSum struct{}

func (WeightedSum) Calculate(inputs []WeightedScore) float64 {
	sum := 0.0
	for _, in := range inputs {
		sum += in.Score * in.Weight
	}
	return sum
}

// WeightedProduct multiplies every weighted score together.
type WeightedProduct struct{}

func (WeightedProduct) Calculate(inputs []WeightedScore) float64 {
	product := 1.0
	if len(inputs) == 0 {
		return 0
	}
	for _, in := range inputs {
		product *= in.Score * in.Weight
	}
	return product
}

// ChebyshevDistance takes the largest weighted score.
type ChebyshevDistance struct{}

func (ChebyshevDistance) Calculate(inputs []WeightedScore) float64 {
	best := 0.0
	for _, in := range inputs {
		if v := in.Score * in.Weight; v > best {
			best = v
		}
	}
	return best
}

type measuredScorer struct {
	measure  Measure
	children []Scorer
	weights  []float64
	inputs   []WeightedScore
}

func (s *measuredScorer) Score() float64 {
	s.inputs = s.inputs[:0]
	for i, c := range s.children {
		s.inputs = append(s.inputs, WeightedScore{Score: Clamp01(c.Score()), Weight: s.weights[i]})
	}
	return Clamp01(s.measure.Calculate(s.inputs))
}

// NewMeasuredScorer combines weighted children through an arbitrary Measure,
// clamping the result to [0, 1].
func NewMeasuredScorer(measure Measure, children ...Weighted) (ScorerBuilder, error) {
	if measure == nil {
		return nil, ErrNilMeasure
	}
	specs := append([]Weighted(nil), children...)
	return ScorerBuilderFunc(func(actor Actor) Scorer {
		built := make([]Scorer, 0, len(specs))
		weights := make([]float64, 0, len(specs))
		for _, ws := range specs {
			built = append(built, ws.Scorer.Build(actor))
			weights = append(weights, ws.Weight)
		}
		return &measuredScorer{
			measure:  measure,
			children: built,
			weights:  weights,
			inputs:   make([]WeightedScore, 0, len(specs)),
		}
	}), nil
}
