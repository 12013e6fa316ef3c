package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// warmUp drives a freshly built thinker through Init and Requested so the
// next Update lands in the Executing phase.
func warmUp(t *Thinker) {
	t.Update()
	t.Update()
}

func TestThinkerBuildErrors(t *testing.T) {
	t.Run("missing_picker", func(t *testing.T) {
		_, err := NewThinker().When(scoreOf(1), succeedAfter(0)).Build(1)
		require.ErrorIs(t, err, ErrNoPicker)
	})

	t.Run("nil_scorer", func(t *testing.T) {
		_, err := NewThinker().Picker(Highest{}).When(nil, succeedAfter(0)).Build(1)
		require.ErrorIs(t, err, ErrNilScorer)
	})

	t.Run("nil_action", func(t *testing.T) {
		_, err := NewThinker().Picker(Highest{}).When(scoreOf(1), nil).Build(1)
		require.ErrorIs(t, err, ErrNilAction)
	})

	t.Run("nil_otherwise", func(t *testing.T) {
		_, err := NewThinker().Picker(Highest{}).Otherwise(nil).Build(1)
		require.ErrorIs(t, err, ErrNilAction)
	})
}

func TestThinkerPicksHighestChoice(t *testing.T) {
	eat := succeedAfter(100)
	drink := succeedAfter(100)
	hunger := 0.3
	thirst := 0.8

	th, err := NewThinker().
		Picker(Highest{Threshold: 0.1}).
		WhenLabeled("eat", scoreAt(&hunger), eat).
		WhenLabeled("drink", scoreAt(&thirst), drink).
		Build(7)
	require.NoError(t, err)

	warmUp(th)
	th.Update()

	require.Len(t, drink.built, 1)
	assert.Empty(t, eat.built)
	assert.Equal(t, "drink", th.ActiveChoice().Label())
}

func TestThinkerSwitchCancelsOldAction(t *testing.T) {
	eat := succeedAfter(100)
	drink := succeedAfter(100)
	hunger := 0.2
	thirst := 0.8

	th, err := NewThinker().
		Picker(Highest{Threshold: 0.1}).
		WhenLabeled("eat", scoreAt(&hunger), eat).
		WhenLabeled("drink", scoreAt(&thirst), drink).
		Build(1)
	require.NoError(t, err)

	warmUp(th)
	th.Update() // drink starts
	th.Update() // drink executing
	require.Equal(t, Executing, th.ActiveState())

	// The world changes: now food matters more.
	hunger, thirst = 0.9, 0.1
	th.Update()

	// Old action is cancelled, not discarded, and keeps being driven.
	drinking := drink.last()
	require.NotNil(t, drinking)
	assert.Equal(t, Cancelled, drinking.seen[len(drinking.seen)-1])
	assert.Empty(t, eat.built, "new action must wait for the old one to terminate")

	// The scripted action resolves its cancellation next tick, freeing the
	// slot for the new pick.
	th.Update()
	th.Update()
	require.Len(t, eat.built, 1)
	assert.Equal(t, "eat", th.ActiveChoice().Label())
}

// Re-picking the same choice whose action already finished must rebuild the
// action from scratch instead of leaving the finished instance in place.
func TestThinkerRestartsFinishedAction(t *testing.T) {
	work := succeedAfter(0)
	score := 0.9

	th, err := NewThinker().
		Picker(Highest{Threshold: 0.1}).
		WhenLabeled("work", scoreAt(&score), work).
		Build(1)
	require.NoError(t, err)

	warmUp(th)
	th.Update() // instance 1 requested + first increment
	for i := 0; i < 3; i++ {
		th.Update()
	}

	require.GreaterOrEqual(t, len(work.built), 2, "finished action was never restarted")
	for _, inst := range work.built[1:] {
		assert.Equal(t, Requested, inst.seen[0], "restarted instance must begin fresh")
	}
}

func TestThinkerOtherwise(t *testing.T) {
	idle := succeedAfter(100)
	busy := succeedAfter(100)
	score := 0.0

	th, err := NewThinker().
		Picker(FirstToScore{Threshold: 0.5}).
		WhenLabeled("busy", scoreAt(&score), busy).
		Otherwise(idle).
		Build(1)
	require.NoError(t, err)

	warmUp(th)
	th.Update()
	require.Len(t, idle.built, 1)
	assert.Equal(t, "otherwise", th.ActiveChoice().Label())

	// A qualifying choice preempts the fallback.
	score = 0.9
	th.Update()
	idling := idle.last()
	assert.Equal(t, Cancelled, idling.seen[len(idling.seen)-1])
	th.Update()
	th.Update()
	require.Len(t, busy.built, 1)
}

func TestThinkerIdleWithoutQualifyingChoice(t *testing.T) {
	busy := succeedAfter(100)
	th, err := NewThinker().
		Picker(FirstToScore{Threshold: 0.5}).
		When(scoreOf(0.1), busy).
		Build(1)
	require.NoError(t, err)

	warmUp(th)
	for i := 0; i < 5; i++ {
		th.Update()
	}
	assert.Empty(t, busy.built)
	assert.Nil(t, th.ActiveChoice())
	assert.Equal(t, Init, th.ActiveState())
}

func TestThinkerClampsRuntimeScores(t *testing.T) {
	rogue := ScorerBuilderFunc(func(Actor) Scorer {
		return ScorerFunc(func() float64 { return 3.5 })
	})
	th, err := NewThinker().
		Picker(Highest{Threshold: 0.1}).
		When(rogue, succeedAfter(100)).
		Build(1)
	require.NoError(t, err)

	warmUp(th)
	th.Update()

	assert.Equal(t, 1.0, th.choices[0].Score(), "out-of-range score must clamp, not halt")
	assert.NotZero(t, th.ClampedScores())
}

func TestThinkerAsAction(t *testing.T) {
	inner := succeedAfter(0)
	nested, err := NewThinker().
		Picker(FirstToScore{Threshold: 0.5}).
		When(scoreOf(0.9), inner).
		AsAction()
	require.NoError(t, err)

	outer, err := NewThinker().
		Picker(FirstToScore{Threshold: 0.5}).
		WhenLabeled("delegate", scoreOf(0.9), nested).
		Build(1)
	require.NoError(t, err)

	warmUp(outer)
	for i := 0; i < 6; i++ {
		outer.Update()
	}
	require.NotEmpty(t, inner.built, "nested thinker never drove its own choices")
}

func TestThinkerAsActionValidates(t *testing.T) {
	_, err := NewThinker().AsAction()
	require.ErrorIs(t, err, ErrNoPicker)
}

func TestThinkerCancellationWindsDown(t *testing.T) {
	busy := succeedAfter(100)
	th, err := NewThinker().
		Picker(FirstToScore{Threshold: 0.5}).
		When(scoreOf(0.9), busy).
		Build(1)
	require.NoError(t, err)

	warmUp(th)
	th.Update()
	require.Len(t, busy.built, 1)

	// Drive the thinker as a nested action being cancelled by its parent.
	state := th.Tick(Cancelled)
	assert.Equal(t, Success, state)
	running := busy.last()
	assert.Contains(t, running.seen, ActionState(Cancelled))
}
