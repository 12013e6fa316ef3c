package ai

import "math"

// Evaluator is a pure response curve mapping a domain value into [0, 1].
// Evaluators are stateless and may be shared between scorers.
type Evaluator interface {
	Evaluate(value float64) float64
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		return lo
	}
	return v
}

// LinearEvaluator maps an input range onto [0, 1] with a straight line.
type LinearEvaluator struct {
	xa       float64
	ya       float64
	yb       float64
	dyOverDx float64
}

// NewLinearEvaluator maps 0..1 onto 0..1 unchanged.
func NewLinearEvaluator() LinearEvaluator {
	return newLinearFull(0, 0, 1, 1)
}

// NewInverseLinearEvaluator maps 0..1 onto 1..0.
func NewInverseLinearEvaluator() LinearEvaluator {
	return NewRangedLinearEvaluator(1, 0)
}

// NewRangedLinearEvaluator maps min..max onto 0..1. A min greater than max
// produces a descending curve.
func NewRangedLinearEvaluator(min, max float64) LinearEvaluator {
	return newLinearFull(min, 0, max, 1)
}

func newLinearFull(xa, ya, xb, yb float64) LinearEvaluator {
	return LinearEvaluator{
		xa:       xa,
		ya:       ya,
		yb:       yb,
		dyOverDx: (yb - ya) / (xb - xa),
	}
}

func (e LinearEvaluator) Evaluate(value float64) float64 {
	return clamp(e.ya+e.dyOverDx*(value-e.xa), e.ya, e.yb)
}

// PowerEvaluator maps an input range onto [0, 1] with an exponent curve.
type PowerEvaluator struct {
	xa    float64
	ya    float64
	xb    float64
	power float64
	dy    float64
}

// NewPowerEvaluator curves 0..1 onto 0..1 with the given exponent.
func NewPowerEvaluator(power float64) PowerEvaluator {
	return newPowerFull(power, 0, 0, 1, 1)
}

// NewRangedPowerEvaluator curves min..max onto 0..1 with the given exponent.
func NewRangedPowerEvaluator(power, min, max float64) PowerEvaluator {
	return newPowerFull(power, min, 0, max, 1)
}

func newPowerFull(power, xa, ya, xb, yb float64) PowerEvaluator {
	return PowerEvaluator{
		power: clamp(power, 0, 10000),
		dy:    yb - ya,
		xa:    xa,
		ya:    ya,
		xb:    xb,
	}
}

func (e PowerEvaluator) Evaluate(value float64) float64 {
	cx := clamp(value, e.xa, e.xb)
	return e.dy*math.Pow((cx-e.xa)/(e.xb-e.xa), e.power) + e.ya
}

// SigmoidEvaluator maps an input range onto [0, 1] with an S-shaped curve.
// The k parameter in (-1, 1) controls the steepness around the midpoint.
type SigmoidEvaluator struct {
	xa        float64
	xb        float64
	ya        float64
	yb        float64
	k         float64
	twoOverDx float64
	xMean     float64
	yMean     float64
	dyOverTwo float64
	oneMinusK float64
}

// NewSigmoidEvaluator curves 0..1 onto 0..1.
func NewSigmoidEvaluator(k float64) SigmoidEvaluator {
	return newSigmoidFull(k, 0, 0, 1, 1)
}

// NewRangedSigmoidEvaluator curves min..max onto 0..1.
func NewRangedSigmoidEvaluator(k, min, max float64) SigmoidEvaluator {
	return newSigmoidFull(k, min, 0, max, 1)
}

func newSigmoidFull(k, xa, ya, xb, yb float64) SigmoidEvaluator {
	k = clamp(k, -0.99999, 0.99999)
	return SigmoidEvaluator{
		xa:        xa,
		xb:        xb,
		ya:        ya,
		yb:        yb,
		twoOverDx: math.Abs(2 / (xb - xa)),
		xMean:     (xa + xb) / 2,
		yMean:     (ya + yb) / 2,
		dyOverTwo: (yb - ya) / 2,
		oneMinusK: 1 - k,
		k:         k,
	}
}

func (e SigmoidEvaluator) Evaluate(value float64) float64 {
	normalized := e.twoOverDx * (clamp(value, e.xa, e.xb) - e.xMean)
	numerator := normalized * e.oneMinusK
	denominator := e.k*(1-2*math.Abs(normalized)) + 1
	return clamp(e.dyOverTwo*(numerator/denominator)+e.yMean, e.ya, e.yb)
}
