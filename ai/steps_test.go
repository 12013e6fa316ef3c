package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepsEmpty(t *testing.T) {
	_, err := NewSteps()
	require.ErrorIs(t, err, ErrNoSteps)
}

func TestStepsRunsChildrenInOrder(t *testing.T) {
	first := succeedAfter(1)
	second := succeedAfter(1)
	b, err := NewSteps(first, second)
	require.NoError(t, err)

	state := tickUntil(t, b.Build(1), 20)
	assert.Equal(t, Success, state)
	assert.Len(t, first.built, 1)
	assert.Len(t, second.built, 1)
}

func TestStepsFailureHalts(t *testing.T) {
	first := failAfter(0)
	second := succeedAfter(0)
	b, err := NewSteps(first, second)
	require.NoError(t, err)

	state := tickUntil(t, b.Build(1), 20)
	assert.Equal(t, Failure, state)
	assert.Len(t, first.built, 1)
	assert.Empty(t, second.built, "second step must never start after a failure")
}

func TestStepsCancellation(t *testing.T) {
	first := succeedAfter(100)
	b, err := NewSteps(first, succeedAfter(0))
	require.NoError(t, err)
	action := b.Build(1)

	state := action.Tick(Requested)
	state = action.Tick(state)
	require.Equal(t, Executing, state)

	// The driver cancels the sequence; only the active child is told.
	state = action.Tick(Cancelled)
	assert.Equal(t, Failure, state, "cancelled sequence resolves to failure once the child winds down")
	assert.Equal(t, Cancelled, first.last().seen[len(first.last().seen)-1])
}

func TestStepsSlowCancellation(t *testing.T) {
	// A child that needs a few ticks to wind down keeps the sequence in
	// Cancelled until it terminates.
	child := &stubbornBuilder{windDown: 2}
	b, err := NewSteps(child)
	require.NoError(t, err)
	action := b.Build(1)

	state := action.Tick(Requested)
	state = action.Tick(state)
	require.Equal(t, Executing, state)

	state = action.Tick(Cancelled)
	assert.Equal(t, Cancelled, state)
	state = action.Tick(state)
	assert.Equal(t, Cancelled, state)
	state = action.Tick(state)
	assert.Equal(t, Failure, state)
}

// stubbornBuilder builds actions that take windDown extra ticks to honour a
// cancellation.
type stubbornBuilder struct {
	windDown int
}

func (b *stubbornBuilder) Build(actor Actor) Action {
	remaining := b.windDown
	return ActionFunc(func(state ActionState) ActionState {
		switch state {
		case Requested:
			return Executing
		case Executing:
			return Executing
		case Cancelled:
			if remaining > 0 {
				remaining--
				return Cancelled
			}
			return Failure
		default:
			return state
		}
	})
}
