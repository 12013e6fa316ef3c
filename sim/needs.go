package sim

import (
	"go.uber.org/zap"

	"github.com/milk9111/utilityai/ecs"
)

// NeedsSystem makes every agent thirstier and hungrier each tick. This is
// not the AI; it is the world state the AI reacts to.
type NeedsSystem struct {
	log *zap.Logger
}

func NewNeedsSystem(log *zap.Logger) *NeedsSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &NeedsSystem{log: log}
}

func (s *NeedsSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, KindAgent, KindThirst, func(e ecs.Entity, agent *Agent, thirst *Need) {
		thirst.Grow()
		if thirst.Value == 100 {
			s.log.Debug("agent fully parched",
				zap.String("agent", agent.Name),
				zap.Stringer("entity", e))
		}
	})
	ecs.ForEach2(w, KindAgent, KindHunger, func(e ecs.Entity, agent *Agent, hunger *Need) {
		hunger.Grow()
		if hunger.Value == 100 {
			s.log.Debug("agent starving",
				zap.String("agent", agent.Name),
				zap.Stringer("entity", e))
		}
	})
}
