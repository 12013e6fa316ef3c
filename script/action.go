package script

import (
	"strings"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"

	"github.com/milk9111/utilityai/ai"
)

// State names passed to and returned from action scripts.
const (
	stateRequested = "requested"
	stateExecuting = "executing"
	stateCancelled = "cancelled"
	stateSuccess   = "success"
	stateFailure   = "failure"
)

func stateName(s ai.ActionState) string {
	switch s {
	case ai.Requested:
		return stateRequested
	case ai.Executing:
		return stateExecuting
	case ai.Cancelled:
		return stateCancelled
	case ai.Success:
		return stateSuccess
	case ai.Failure:
		return stateFailure
	default:
		return stateRequested
	}
}

func stateFromName(name string, from ai.ActionState) (ai.ActionState, bool) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case stateExecuting:
		return ai.Executing, true
	case stateCancelled:
		// Only a cancelled action may stay cancelled while it winds down.
		if from == ai.Cancelled {
			return ai.Cancelled, true
		}
		return 0, false
	case stateSuccess:
		return ai.Success, true
	case stateFailure:
		return ai.Failure, true
	default:
		return 0, false
	}
}

// scriptAction drives one actor's compiled action script. The script's tick
// function receives the current state name and returns the next one;
// anything it cannot express, including a runtime error, resolves as
// Failure.
type scriptAction struct {
	name     string
	compiled *tengo.Compiled
	memory   *tengo.Map
	world    *tengo.ImmutableMap
	actor    ai.Actor
	log      *zap.Logger
}

func (a *scriptAction) Tick(state ai.ActionState) ai.ActionState {
	if err := a.run(state); err != nil {
		a.log.Error("action script failed",
			zap.String("script", a.name),
			zap.Stringer("actor", a.actor),
			zap.Error(err))
		return ai.Failure
	}
	result := a.compiled.Get("__result")
	if result == nil || result.IsUndefined() {
		a.log.Error("action script returned no state",
			zap.String("script", a.name),
			zap.Stringer("actor", a.actor))
		return ai.Failure
	}
	next, ok := stateFromName(result.String(), state)
	if !ok {
		a.log.Error("action script returned invalid state",
			zap.String("script", a.name),
			zap.Stringer("actor", a.actor),
			zap.String("state", result.String()))
		return ai.Failure
	}
	return next
}

func (a *scriptAction) run(state ai.ActionState) error {
	if err := a.compiled.Set("__op", "tick"); err != nil {
		return err
	}
	if err := a.compiled.Set("__world", a.world); err != nil {
		return err
	}
	if err := a.compiled.Set("__memory", a.memory); err != nil {
		return err
	}
	if err := a.compiled.Set("__state", stateName(state)); err != nil {
		return err
	}
	return a.compiled.Run()
}
