package sim

import (
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/utilityai/ai"
	"github.com/milk9111/utilityai/ecs"
)

// Need is a homeostatic stat in [0, 100]. Higher means more urgent.
type Need struct {
	Value   float64
	PerTick float64
}

// Grow advances the need by its rate, saturating at 100.
func (n *Need) Grow() {
	n.Value += n.PerTick
	if n.Value > 100 {
		n.Value = 100
	}
}

// Reduce satisfies the need by amount, floored at zero. Returns true once
// the need is fully satisfied.
func (n *Need) Reduce(amount float64) bool {
	n.Value -= amount
	if n.Value < 0 {
		n.Value = 0
	}
	return n.Value == 0
}

// Agent is a simulated creature with a physics body.
type Agent struct {
	Name string
	Body *cp.Body
	Rand *rand.Rand
}

// Mind holds an agent's thinker. The mind table doubles as the roster of
// deciding entities.
type Mind struct {
	Thinker *ai.Thinker
}

// SourceKind tags what a source replenishes.
type SourceKind string

const (
	WaterSource SourceKind = "water"
	FoodSource  SourceKind = "food"
)

// Source is a static world feature agents travel to.
type Source struct {
	Kind SourceKind
	Body *cp.Body
}

var (
	KindAgent  = ecs.NewKind[Agent]()
	KindMind   = ecs.NewKind[Mind]()
	KindThirst = ecs.NewKind[Need]()
	KindHunger = ecs.NewKind[Need]()
	KindSource = ecs.NewKind[Source]()
)
