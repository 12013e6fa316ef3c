package ai

import "errors"

var ErrNoSteps = errors.New("ai: steps requires at least one child action")

type steps struct {
	actor       Actor
	builders    []ActionBuilder
	index       int
	active      Action
	activeState ActionState
}

// NewSteps runs its children one at a time, in order. Each child must
// succeed before the next starts; the first Failure fails the whole
// sequence. A cancelled sequence cancels only its active child, waits for it
// to terminate, and then resolves to Failure.
func NewSteps(children ...ActionBuilder) (ActionBuilder, error) {
	if len(children) == 0 {
		return nil, ErrNoSteps
	}
	builders := append([]ActionBuilder(nil), children...)
	return ActionBuilderFunc(func(actor Actor) Action {
		return &steps{actor: actor, builders: builders}
	}), nil
}

func (s *steps) Tick(state ActionState) ActionState {
	switch state {
	case Requested:
		s.index = 0
		s.active = s.builders[0].Build(s.actor)
		s.activeState = Requested
		return Executing
	case Executing:
		s.activeState = s.active.Tick(s.activeState)
		switch s.activeState {
		case Cancelled, Failure:
			s.active = nil
			return Failure
		case Success:
			if s.index == len(s.builders)-1 {
				s.active = nil
				return Success
			}
			s.index++
			s.active = s.builders[s.index].Build(s.actor)
			s.activeState = Requested
			return Executing
		default:
			return Executing
		}
	case Cancelled:
		if s.active == nil {
			return Failure
		}
		if s.activeState == Requested || s.activeState == Executing {
			s.activeState = Cancelled
		}
		s.activeState = s.active.Tick(s.activeState)
		if s.activeState.Terminal() {
			s.active = nil
			return Failure
		}
		return Cancelled
	default:
		return state
	}
}
