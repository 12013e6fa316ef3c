package sim

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/utilityai/ai"
)

// moveToward steers the agent's body at the target position and succeeds
// once within the arrive radius. Velocity zeroes on any exit path so a
// cancelled trip does not leave the body drifting.
type moveToward struct {
	body   *cp.Body
	target cp.Vector
	speed  float64
	arrive float64
}

func (m *moveToward) Tick(state ai.ActionState) ai.ActionState {
	switch state {
	case ai.Requested:
		return ai.Executing
	case ai.Executing:
		delta := m.target.Sub(m.body.Position())
		if delta.Length() <= m.arrive {
			m.body.SetVelocity(0, 0)
			return ai.Success
		}
		v := delta.Normalize().Mult(m.speed)
		m.body.SetVelocity(v.X, v.Y)
		return ai.Executing
	case ai.Cancelled:
		m.body.SetVelocity(0, 0)
		return ai.Failure
	default:
		return state
	}
}

// satisfy drains a need at the source until it empties.
type satisfy struct {
	need *Need
	rate float64
	log  *zap.Logger
	name string
}

func (a *satisfy) Tick(state ai.ActionState) ai.ActionState {
	switch state {
	case ai.Requested:
		a.log.Debug("satisfying need", zap.String("need", a.name))
		return ai.Executing
	case ai.Executing:
		if a.need.Reduce(a.rate) {
			a.log.Debug("need satisfied", zap.String("need", a.name))
			return ai.Success
		}
		return ai.Executing
	case ai.Cancelled:
		return ai.Failure
	default:
		return state
	}
}

// meander wanders the agent in a random direction for a short stretch. Used
// as the fallback when no need is urgent.
type meander struct {
	agent *Agent
	speed float64
	left  int
}

func (m *meander) Tick(state ai.ActionState) ai.ActionState {
	switch state {
	case ai.Requested:
		angle := m.agent.Rand.Float64() * 2 * math.Pi
		m.agent.Body.SetVelocity(math.Cos(angle)*m.speed, math.Sin(angle)*m.speed)
		m.left = 30 + m.agent.Rand.Intn(60)
		return ai.Executing
	case ai.Executing:
		m.left--
		if m.left <= 0 {
			m.agent.Body.SetVelocity(0, 0)
			return ai.Success
		}
		return ai.Executing
	case ai.Cancelled:
		m.agent.Body.SetVelocity(0, 0)
		return ai.Failure
	default:
		return state
	}
}

// needScorer maps a need's urgency onto [0, 1].
func needScorer(need *Need) ai.ScorerBuilder {
	return ai.ScorerBuilderFunc(func(ai.Actor) ai.Scorer {
		return ai.ScorerFunc(func() float64 {
			return need.Value / 100
		})
	})
}
