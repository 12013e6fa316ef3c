package ai

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine drives a set of top-level thinkers, one full decision tick per
// call. Scorer evaluation runs first for every thinker, in parallel, and
// only once all scores are up to date does the pick/act phase start.
// Distinct actors share no mutable state, so both phases fan out across
// workers.
type Engine struct {
	log     *zap.Logger
	workers int

	mu       sync.Mutex
	thinkers []*Thinker
}

// NewEngine returns an engine running at most workers thinkers at a time
// per phase. workers <= 0 means no limit.
func NewEngine(log *zap.Logger, workers int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, workers: workers}
}

// Attach registers a thinker with the engine.
func (e *Engine) Attach(t *Thinker) {
	if t == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.thinkers = append(e.thinkers, t)
}

// Detach removes a thinker. Call it before the actor goes away; a thinker
// must not outlive its actor.
func (e *Engine) Detach(t *Thinker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.thinkers {
		if existing == t {
			e.thinkers = append(e.thinkers[:i], e.thinkers[i+1:]...)
			return
		}
	}
}

// Len reports how many thinkers are attached.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.thinkers)
}

// ClampedScores sums the out-of-range observations across all attached
// thinkers.
func (e *Engine) ClampedScores() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total uint64
	for _, t := range e.thinkers {
		total += t.ClampedScores()
	}
	return total
}

// Tick runs one simulation step for every attached thinker. The context is
// checked between phases; a tick in progress finishes its phase.
func (e *Engine) Tick(ctx context.Context) error {
	e.mu.Lock()
	thinkers := append([]*Thinker(nil), e.thinkers...)
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.runPhase(thinkers, (*Thinker).EvaluateScores); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.runPhase(thinkers, (*Thinker).Step)
}

func (e *Engine) runPhase(thinkers []*Thinker, phase func(*Thinker)) error {
	var g errgroup.Group
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for _, t := range thinkers {
		t := t
		g.Go(func() error {
			phase(t)
			return nil
		})
	}
	return g.Wait()
}
