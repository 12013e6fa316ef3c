package script

import (
	"github.com/d5/tengo/v2"
	"go.uber.org/zap"

	"github.com/milk9111/utilityai/ai"
)

// scriptScorer runs a compiled scorer script for one actor. Script runtime
// failures score as zero so one broken scorer cannot stall a thinker.
type scriptScorer struct {
	name     string
	compiled *tengo.Compiled
	memory   *tengo.Map
	world    *tengo.ImmutableMap
	actor    ai.Actor
	log      *zap.Logger
}

func (s *scriptScorer) Score() float64 {
	if err := s.run(); err != nil {
		s.log.Error("scorer script failed",
			zap.String("script", s.name),
			zap.Stringer("actor", s.actor),
			zap.Error(err))
		return 0
	}
	result := s.compiled.Get("__result")
	if result == nil || result.IsUndefined() {
		s.log.Error("scorer script returned no value",
			zap.String("script", s.name),
			zap.Stringer("actor", s.actor))
		return 0
	}
	return ai.Clamp01(result.Float())
}

func (s *scriptScorer) run() error {
	if err := s.compiled.Set("__op", "score"); err != nil {
		return err
	}
	if err := s.compiled.Set("__world", s.world); err != nil {
		return err
	}
	if err := s.compiled.Set("__memory", s.memory); err != nil {
		return err
	}
	return s.compiled.Run()
}
