package sim

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/utilityai/ai"
	"github.com/milk9111/utilityai/ecs"
	"github.com/milk9111/utilityai/script"
)

// Sim is a headless world of agents that get thirstier and hungrier over
// time while their thinkers choose between drinking, eating and wandering.
// One call to Tick runs: needs growth, decisions, then a physics step.
type Sim struct {
	cfg    Scenario
	log    *zap.Logger
	world  *ecs.World
	space  *cp.Space
	engine *ai.Engine
	sched  *ecs.Scheduler

	scripts *script.Registry
	watcher *script.Watcher

	water cp.Vector
	food  cp.Vector
	ticks uint64
}

// NewSim builds the world described by the scenario. workers bounds the
// decision parallelism, zero means unlimited.
func NewSim(cfg Scenario, log *zap.Logger, workers int) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Sim{
		cfg:    cfg,
		log:    log,
		world:  ecs.NewWorld(),
		space:  cp.NewSpace(),
		engine: ai.NewEngine(log, workers),
		sched:  ecs.NewScheduler(NewNeedsSystem(log)),
		water:  cp.Vector{X: cfg.World.Width * 0.25, Y: cfg.World.Height * 0.5},
		food:   cp.Vector{X: cfg.World.Width * 0.75, Y: cfg.World.Height * 0.5},
	}

	if cfg.Scripts.Dir != "" {
		s.scripts = script.NewRegistry(cfg.Scripts.Dir, log)
		if cfg.Scripts.Watch {
			w, err := script.Watch(s.scripts, log)
			if err != nil {
				return nil, fmt.Errorf("sim: watch scripts: %w", err)
			}
			s.watcher = w
		}
	}

	s.spawnSource(WaterSource, s.water)
	s.spawnSource(FoodSource, s.food)

	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < cfg.Agents; i++ {
		if err := s.spawnAgent(i, rng.Int63()); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the script watcher, if any.
func (s *Sim) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

// World exposes the entity store for inspection.
func (s *Sim) World() *ecs.World { return s.world }

// Ticks reports how many steps have run.
func (s *Sim) Ticks() uint64 { return s.ticks }

// Tick advances the world one step.
func (s *Sim) Tick(ctx context.Context) error {
	s.sched.Update(s.world)
	if err := s.engine.Tick(ctx); err != nil {
		return err
	}
	s.space.Step(s.cfg.TimeStep)
	s.ticks++
	return nil
}

// Run ticks the world the given number of times, stopping early if the
// context is cancelled.
func (s *Sim) Run(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := s.Tick(ctx); err != nil {
			return fmt.Errorf("sim: tick %d: %w", s.ticks, err)
		}
	}
	return nil
}

func (s *Sim) spawnSource(kind SourceKind, pos cp.Vector) {
	body := cp.NewStaticBody()
	body.SetPosition(pos)
	shape := cp.NewCircle(body, 6, cp.Vector{})
	shape.SetSensor(true)
	s.space.AddBody(body)
	s.space.AddShape(shape)

	e := ecs.CreateEntity(s.world)
	_ = ecs.Add(s.world, e, KindSource, &Source{Kind: kind, Body: body})
}

func (s *Sim) spawnAgent(i int, seed int64) error {
	e := ecs.CreateEntity(s.world)
	rng := rand.New(rand.NewSource(seed))

	body := s.space.AddBody(cp.NewBody(1, cp.INFINITY))
	body.SetPosition(cp.Vector{
		X: rng.Float64() * s.cfg.World.Width,
		Y: rng.Float64() * s.cfg.World.Height,
	})
	shape := s.space.AddShape(cp.NewCircle(body, 4, cp.Vector{}))
	shape.SetSensor(true)

	agent := &Agent{Name: fmt.Sprintf("agent-%d", i), Body: body, Rand: rng}
	thirst := &Need{Value: s.cfg.Thirst.Initial, PerTick: s.cfg.Thirst.PerTick}
	hunger := &Need{Value: s.cfg.Hunger.Initial, PerTick: s.cfg.Hunger.PerTick}

	if err := ecs.Add(s.world, e, KindAgent, agent); err != nil {
		return err
	}
	if err := ecs.Add(s.world, e, KindThirst, thirst); err != nil {
		return err
	}
	if err := ecs.Add(s.world, e, KindHunger, hunger); err != nil {
		return err
	}

	drink, err := s.travelAndSatisfy(agent, thirst, "thirst", s.water)
	if err != nil {
		return err
	}
	eat, err := s.travelAndSatisfy(agent, hunger, "hunger", s.food)
	if err != nil {
		return err
	}

	// A need only competes once it crosses its threshold; below that the
	// choice scores zero and the agent meanders.
	thirsty := ai.NewAllOrNothing(s.cfg.Thirst.Threshold/100, needScorer(thirst))
	hungry := ai.NewAllOrNothing(s.cfg.Hunger.Threshold/100, needScorer(hunger))

	builder := ai.NewThinker().
		Picker(ai.Highest{Threshold: 0.01}).
		WhenLabeled("drink", thirsty, drink).
		WhenLabeled("eat", hungry, eat).
		Otherwise(ai.ActionBuilderFunc(func(ai.Actor) ai.Action {
			return &meander{agent: agent, speed: s.cfg.MoveSpeed * 0.5}
		})).
		Logger(s.log)

	if err := s.addScriptedBehaviors(builder, agent, thirst, hunger); err != nil {
		return err
	}

	th, err := builder.Build(ai.Actor(e))
	if err != nil {
		return err
	}
	if err := ecs.Add(s.world, e, KindMind, &Mind{Thinker: th}); err != nil {
		return err
	}
	s.engine.Attach(th)
	return nil
}

func (s *Sim) travelAndSatisfy(agent *Agent, need *Need, name string, target cp.Vector) (ai.ActionBuilder, error) {
	move := ai.ActionBuilderFunc(func(ai.Actor) ai.Action {
		return &moveToward{
			body:   agent.Body,
			target: target,
			speed:  s.cfg.MoveSpeed,
			arrive: s.cfg.ArriveRadius,
		}
	})
	sat := ai.ActionBuilderFunc(func(ai.Actor) ai.Action {
		return &satisfy{need: need, rate: s.cfg.SatisfyRate, log: s.log, name: name}
	})
	return ai.NewSteps(move, sat)
}

func (s *Sim) addScriptedBehaviors(builder *ai.ThinkerBuilder, agent *Agent, thirst, hunger *Need) error {
	if s.scripts == nil || len(s.cfg.Scripts.Behaviors) == 0 {
		return nil
	}
	env := s.scriptEnv(agent, thirst, hunger)
	for _, b := range s.cfg.Scripts.Behaviors {
		scorer, err := s.scripts.Scorer(b.Scorer, env)
		if err != nil {
			return err
		}
		action, err := s.scripts.Action(b.Action, env)
		if err != nil {
			return err
		}
		builder.WhenLabeled(b.Name, scorer, action)
	}
	return nil
}

// scriptEnv is the host API scripted behaviors see as `world`.
func (s *Sim) scriptEnv(agent *Agent, thirst, hunger *Need) script.Env {
	return func(ai.Actor) *tengo.ImmutableMap {
		return script.Funcs(map[string]tengo.CallableFunc{
			"thirst": func(...tengo.Object) (tengo.Object, error) {
				return &tengo.Float{Value: thirst.Value}, nil
			},
			"hunger": func(...tengo.Object) (tengo.Object, error) {
				return &tengo.Float{Value: hunger.Value}, nil
			},
			"position": func(...tengo.Object) (tengo.Object, error) {
				p := agent.Body.Position()
				return &tengo.Array{Value: []tengo.Object{
					&tengo.Float{Value: p.X},
					&tengo.Float{Value: p.Y},
				}}, nil
			},
			"set_velocity": func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) < 2 {
					return tengo.FalseValue, nil
				}
				x, okX := tengo.ToFloat64(args[0])
				y, okY := tengo.ToFloat64(args[1])
				if !okX || !okY {
					return tengo.FalseValue, nil
				}
				agent.Body.SetVelocity(x, y)
				return tengo.TrueValue, nil
			},
		})
	}
}

// AgentReport is a point-in-time view of one agent for logs and the CLI.
type AgentReport struct {
	Name   string
	X, Y   float64
	Thirst float64
	Hunger float64
	Doing  string
	State  ai.ActionState
}

// Report snapshots every agent.
func (s *Sim) Report() []AgentReport {
	var out []AgentReport
	ecs.ForEach4(s.world, KindAgent, KindThirst, KindHunger, KindMind,
		func(_ ecs.Entity, agent *Agent, thirst *Need, hunger *Need, mind *Mind) {
			pos := agent.Body.Position()
			r := AgentReport{
				Name:   agent.Name,
				X:      pos.X,
				Y:      pos.Y,
				Thirst: thirst.Value,
				Hunger: hunger.Value,
				State:  mind.Thinker.ActiveState(),
			}
			if c := mind.Thinker.ActiveChoice(); c != nil {
				r.Doing = c.Label()
			}
			out = append(out, r)
		})
	return out
}
