package ai

// ActionState is the lifecycle of a running Action instance. The driver
// writes Requested and Cancelled; the action's own logic moves Requested to
// Executing and Executing (or Cancelled) to Success or Failure. Success and
// Failure are terminal.
type ActionState int

const (
	// Init means the action has not started. Nothing should run.
	Init ActionState = iota
	// Requested asks the action to start as soon as possible.
	Requested
	// Executing means the action is doing its work, one increment per tick.
	Executing
	// Cancelled tells a running action to wind down. The action must still
	// move itself to Success or Failure; the driver keeps ticking it until
	// it does.
	Cancelled
	// Success is terminal. Composite actions use it to continue.
	Success
	// Failure is terminal. Composite actions use it to halt.
	Failure
)

func (s ActionState) String() string {
	switch s {
	case Init:
		return "init"
	case Requested:
		return "requested"
	case Executing:
		return "executing"
	case Cancelled:
		return "cancelled"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is Success or Failure.
func (s ActionState) Terminal() bool {
	return s == Success || s == Failure
}

// Action is a stateful executor. The driver owns the state cell: it calls
// Tick with the current state and stores whatever Tick returns. Tick runs
// one increment of work per call and must never block on a later tick.
type Action interface {
	Tick(state ActionState) ActionState
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(state ActionState) ActionState

func (f ActionFunc) Tick(state ActionState) ActionState { return f(state) }

// ActionBuilder produces a fresh Action instance bound to an actor. The
// driver calls Build exactly once per instantiation; a finished instance is
// never reused.
type ActionBuilder interface {
	Build(actor Actor) Action
}

// ActionBuilderFunc adapts a plain function to the ActionBuilder interface.
type ActionBuilderFunc func(actor Actor) Action

func (f ActionBuilderFunc) Build(actor Actor) Action { return f(actor) }
