package ai

import "errors"

var ErrNoConcurrentActions = errors.New("ai: concurrently requires at least one child action")

// CompletionPolicy controls when a Concurrently composite resolves.
type CompletionPolicy int

const (
	// AllMustSucceed succeeds only once every child has succeeded. The
	// first child Failure decides the outcome and cancels the rest.
	AllMustSucceed CompletionPolicy = iota
	// AnySucceeds succeeds as soon as one child succeeds, cancelling the
	// rest. It fails only if every child fails.
	AnySucceeds
)

type concurrently struct {
	actor    Actor
	policy   CompletionPolicy
	builders []ActionBuilder
	children []Action
	states   []ActionState
	// outcome locks in the composite's resolution while remaining children
	// wind down. Init means undecided.
	outcome ActionState
}

// NewConcurrently runs all of its children at once, one increment each per
// tick. The completion policy decides the composite's outcome; either way
// the composite stays non-terminal until every child has terminated.
func NewConcurrently(policy CompletionPolicy, children ...ActionBuilder) (ActionBuilder, error) {
	if len(children) == 0 {
		return nil, ErrNoConcurrentActions
	}
	builders := append([]ActionBuilder(nil), children...)
	return ActionBuilderFunc(func(actor Actor) Action {
		return &concurrently{actor: actor, policy: policy, builders: builders}
	}), nil
}

func (c *concurrently) Tick(state ActionState) ActionState {
	switch state {
	case Requested:
		c.children = make([]Action, len(c.builders))
		c.states = make([]ActionState, len(c.builders))
		for i, b := range c.builders {
			c.children[i] = b.Build(c.actor)
			c.states[i] = Requested
		}
		c.outcome = Init
		return Executing
	case Executing:
		c.step()
		c.decide()
		if c.allTerminal() {
			return c.resolve()
		}
		return Executing
	case Cancelled:
		c.cancelRemaining()
		c.step()
		if c.allTerminal() {
			if c.outcome.Terminal() {
				return c.outcome
			}
			return Failure
		}
		return Cancelled
	default:
		return state
	}
}

// step drives one increment of every still-running child.
func (c *concurrently) step() {
	for i, child := range c.children {
		if c.states[i].Terminal() {
			continue
		}
		c.states[i] = child.Tick(c.states[i])
	}
}

// decide locks in an outcome once the policy is satisfied and cancels the
// children that no longer matter.
func (c *concurrently) decide() {
	if c.outcome != Init {
		return
	}
	switch c.policy {
	case AllMustSucceed:
		for _, st := range c.states {
			if st == Failure {
				c.outcome = Failure
				c.cancelRemaining()
				return
			}
		}
	case AnySucceeds:
		for _, st := range c.states {
			if st == Success {
				c.outcome = Success
				c.cancelRemaining()
				return
			}
		}
	}
}

func (c *concurrently) cancelRemaining() {
	for i, st := range c.states {
		if st == Requested || st == Executing {
			c.states[i] = Cancelled
		}
	}
}

func (c *concurrently) allTerminal() bool {
	for _, st := range c.states {
		if !st.Terminal() {
			return false
		}
	}
	return true
}

// resolve is only called once every child is terminal.
func (c *concurrently) resolve() ActionState {
	if c.outcome.Terminal() {
		return c.outcome
	}
	switch c.policy {
	case AnySucceeds:
		// No child succeeded, or decide would have locked Success.
		return Failure
	default:
		// AllMustSucceed with no Failure observed: everything succeeded.
		return Success
	}
}
