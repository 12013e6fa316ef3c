package ai

import (
	"errors"
	"math"

	"go.uber.org/zap"
)

var (
	ErrNoPicker  = errors.New("ai: thinker requires a picker")
	ErrNilAction = errors.New("ai: action builder must not be nil")
)

// cancelWarnTicks is how long a cancelled action may keep running before the
// thinker logs about it. The thinker never stops driving the action; an
// action that ignores Cancelled is a defect in the caller's action logic.
const cancelWarnTicks = 100

// Choice pairs a Scorer with the ActionBuilder to run when the Picker picks
// it. Choices are immutable configuration owned by one Thinker; only the
// per-tick score mutates. Pickers and Thinkers compare Choices by pointer.
type Choice struct {
	scorer  Scorer
	builder ActionBuilder
	label   string
	score   float64
}

// Score returns the score computed for this choice on the most recent
// evaluation pass.
func (c *Choice) Score() float64 { return c.score }

// Label returns the optional diagnostic label given at build time.
func (c *Choice) Label() string { return c.label }

type choiceSpec struct {
	scorer ScorerBuilder
	action ActionBuilder
	label  string
}

// ThinkerBuilder configures a Thinker. Configuration errors surface when
// Build is called.
type ThinkerBuilder struct {
	picker    Picker
	choices   []choiceSpec
	otherwise ActionBuilder
	log       *zap.Logger
	err       error
}

// NewThinker starts a ThinkerBuilder.
func NewThinker() *ThinkerBuilder {
	return &ThinkerBuilder{}
}

// Picker sets the selection policy. Required.
func (b *ThinkerBuilder) Picker(p Picker) *ThinkerBuilder {
	b.picker = p
	return b
}

// When adds a scorer/action pair. Declaration order matters to pickers.
func (b *ThinkerBuilder) When(scorer ScorerBuilder, action ActionBuilder) *ThinkerBuilder {
	return b.WhenLabeled("", scorer, action)
}

// WhenLabeled is When with a label that shows up in logs.
func (b *ThinkerBuilder) WhenLabeled(label string, scorer ScorerBuilder, action ActionBuilder) *ThinkerBuilder {
	if b.err == nil && scorer == nil {
		b.err = ErrNilScorer
	}
	if b.err == nil && action == nil {
		b.err = ErrNilAction
	}
	b.choices = append(b.choices, choiceSpec{scorer: scorer, action: action, label: label})
	return b
}

// Otherwise sets the fallback action to run when no choice qualifies.
func (b *ThinkerBuilder) Otherwise(action ActionBuilder) *ThinkerBuilder {
	if b.err == nil && action == nil {
		b.err = ErrNilAction
	}
	b.otherwise = action
	return b
}

// Logger sets the diagnostic logger. Defaults to a no-op logger.
func (b *ThinkerBuilder) Logger(log *zap.Logger) *ThinkerBuilder {
	b.log = log
	return b
}

func (b *ThinkerBuilder) validate() error {
	if b.err != nil {
		return b.err
	}
	if b.picker == nil {
		return ErrNoPicker
	}
	return nil
}

// Build binds the configuration to an actor, instantiating every choice's
// scorer tree.
func (b *ThinkerBuilder) Build(actor Actor) (*Thinker, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	log := b.log
	if log == nil {
		log = zap.NewNop()
	}
	t := &Thinker{
		actor:  actor,
		picker: b.picker,
		log:    log,
	}
	for _, spec := range b.choices {
		t.choices = append(t.choices, &Choice{
			scorer:  spec.scorer.Build(actor),
			builder: spec.action,
			label:   spec.label,
		})
	}
	if b.otherwise != nil {
		t.otherwise = &Choice{builder: b.otherwise, label: "otherwise"}
	}
	return t, nil
}

// AsAction lets the configured Thinker serve as the action of an outer
// Choice, nesting one decision layer inside another.
func (b *ThinkerBuilder) AsAction() (ActionBuilder, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return ActionBuilderFunc(func(actor Actor) Action {
		t, err := b.Build(actor)
		if err != nil {
			// validate already passed; Build cannot fail here.
			panic(err)
		}
		return t
	}), nil
}

// Thinker glues Scorers, a Picker and Actions together for one actor. Each
// tick it re-scores its choices, asks the Picker which should run, applies
// the action lifecycle transitions, and drives one increment of the active
// action. A Thinker is itself an Action, so it can nest under another
// Thinker.
type Thinker struct {
	actor     Actor
	picker    Picker
	choices   []*Choice
	otherwise *Choice
	log       *zap.Logger

	current       Action
	currentState  ActionState
	currentChoice *Choice

	state        ActionState
	clamped      uint64
	cancelTicks  int
	cancelWarned bool
}

// Actor returns the actor this thinker drives.
func (t *Thinker) Actor() Actor { return t.actor }

// ActiveChoice returns the choice whose action is currently held, or nil.
func (t *Thinker) ActiveChoice() *Choice { return t.currentChoice }

// ActiveState returns the held action's state, or Init when idle.
func (t *Thinker) ActiveState() ActionState {
	if t.current == nil {
		return Init
	}
	return t.currentState
}

// ClampedScores reports how many out-of-range scorer values have been
// clamped since the thinker was built.
func (t *Thinker) ClampedScores() uint64 { return t.clamped }

// EvaluateScores recomputes every choice's score for this tick, clamping
// out-of-range values. Safe to run concurrently across distinct thinkers.
func (t *Thinker) EvaluateScores() {
	for _, c := range t.choices {
		raw := c.scorer.Score()
		v := Clamp01(raw)
		if v != raw || math.IsNaN(raw) {
			t.clamped++
			t.log.Warn("scorer returned out-of-range score",
				zap.Stringer("actor", t.actor),
				zap.String("choice", c.label),
				zap.Float64("score", raw))
		}
		c.score = v
	}
}

// Step runs the pick/act half of the tick against the scores from the last
// EvaluateScores call.
func (t *Thinker) Step() {
	t.state = t.advance(t.state)
}

// Update runs one full decision tick: score evaluation, then Step.
func (t *Thinker) Update() {
	t.EvaluateScores()
	t.Step()
}

// Tick implements Action so thinkers can nest. Nested thinkers evaluate
// their own scores inline since no outer barrier covers them.
func (t *Thinker) Tick(state ActionState) ActionState {
	t.EvaluateScores()
	return t.advance(state)
}

func (t *Thinker) advance(state ActionState) ActionState {
	switch state {
	case Init:
		return Requested
	case Requested:
		return Executing
	case Cancelled:
		// Wind down whatever we were running, then report Success.
		if t.current == nil {
			return Success
		}
		if t.currentState == Requested || t.currentState == Executing {
			t.currentState = Cancelled
			t.cancelTicks = 0
			t.cancelWarned = false
		}
		t.driveCurrent()
		if t.currentState.Terminal() {
			t.discardCurrent()
			return Success
		}
		return Cancelled
	case Executing:
		choice := t.picker.Pick(t.choices)
		if choice == nil {
			choice = t.otherwise
		}
		if choice != nil {
			t.execPicked(choice)
		}
		t.driveCurrent()
		return Executing
	default:
		return state
	}
}

// execPicked reconciles the picked choice against the action held from the
// previous tick.
func (t *Thinker) execPicked(choice *Choice) {
	if t.current == nil {
		t.startChoice(choice)
		return
	}
	if choice == t.currentChoice && !t.currentState.Terminal() {
		return
	}
	// Either the pick changed, or the same choice was re-picked after its
	// action already finished on its own. A finished instance is never
	// resumed: it gets discarded and rebuilt fresh.
	switch t.currentState {
	case Requested, Executing:
		t.currentState = Cancelled
		t.cancelTicks = 0
		t.cancelWarned = false
	case Init, Success, Failure:
		t.discardCurrent()
		t.startChoice(choice)
	case Cancelled:
		// Still winding down. Keep driving; the switch happens once the
		// old instance terminates.
	}
}

func (t *Thinker) startChoice(choice *Choice) {
	t.current = choice.builder.Build(t.actor)
	t.currentState = Requested
	t.currentChoice = choice
	t.cancelTicks = 0
	t.cancelWarned = false
	t.log.Debug("action started",
		zap.Stringer("actor", t.actor),
		zap.String("choice", choice.label))
}

func (t *Thinker) discardCurrent() {
	t.current = nil
	t.currentState = Init
	t.currentChoice = nil
}

// driveCurrent runs one increment of the held action's logic.
func (t *Thinker) driveCurrent() {
	if t.current == nil {
		return
	}
	wasCancelled := t.currentState == Cancelled
	t.currentState = t.current.Tick(t.currentState)
	if wasCancelled && t.currentState == Cancelled {
		t.cancelTicks++
		if t.cancelTicks >= cancelWarnTicks && !t.cancelWarned {
			t.cancelWarned = true
			t.log.Warn("cancelled action has not terminated",
				zap.Stringer("actor", t.actor),
				zap.Int("ticks", t.cancelTicks))
		}
	}
}
