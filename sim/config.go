package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NeedSpec configures one need's growth and the urgency threshold above
// which its behavior competes for the agent.
type NeedSpec struct {
	PerTick   float64 `yaml:"per_tick"`
	Threshold float64 `yaml:"threshold"`
	Initial   float64 `yaml:"initial"`
}

type WorldSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Scenario is the YAML root for a simulation run.
type Scenario struct {
	Seed   int64     `yaml:"seed"`
	Agents int       `yaml:"agents"`
	World  WorldSpec `yaml:"world"`

	Thirst NeedSpec `yaml:"thirst"`
	Hunger NeedSpec `yaml:"hunger"`

	MoveSpeed    float64 `yaml:"move_speed"`
	ArriveRadius float64 `yaml:"arrive_radius"`
	SatisfyRate  float64 `yaml:"satisfy_rate"`
	TimeStep     float64 `yaml:"time_step"`

	Scripts ScriptSpec `yaml:"scripts"`
}

// ScriptSpec adds tengo-scripted behaviors on top of the built-in ones.
type ScriptSpec struct {
	Dir       string         `yaml:"dir"`
	Watch     bool           `yaml:"watch"`
	Behaviors []BehaviorSpec `yaml:"behaviors"`
}

// BehaviorSpec names a scorer/action script pair registered as one extra
// choice on every agent's thinker.
type BehaviorSpec struct {
	Name   string `yaml:"name"`
	Scorer string `yaml:"scorer"`
	Action string `yaml:"action"`
}

// DefaultScenario returns a runnable configuration; YAML fields override it.
func DefaultScenario() Scenario {
	return Scenario{
		Seed:   1,
		Agents: 4,
		World:  WorldSpec{Width: 640, Height: 480},
		Thirst: NeedSpec{PerTick: 0.75, Threshold: 80, Initial: 20},
		Hunger: NeedSpec{PerTick: 0.5, Threshold: 80, Initial: 10},

		MoveSpeed:    48,
		ArriveRadius: 8,
		SatisfyRate:  5,
		TimeStep:     1.0 / 60.0,
	}
}

func (s Scenario) Validate() error {
	if s.Agents <= 0 {
		return fmt.Errorf("sim: agents must be positive, got %d", s.Agents)
	}
	if s.World.Width <= 0 || s.World.Height <= 0 {
		return fmt.Errorf("sim: world dimensions must be positive, got %gx%g", s.World.Width, s.World.Height)
	}
	if s.MoveSpeed <= 0 {
		return fmt.Errorf("sim: move_speed must be positive, got %g", s.MoveSpeed)
	}
	if s.TimeStep <= 0 {
		return fmt.Errorf("sim: time_step must be positive, got %g", s.TimeStep)
	}
	for name, n := range map[string]NeedSpec{"thirst": s.Thirst, "hunger": s.Hunger} {
		if n.PerTick < 0 || n.Threshold < 0 || n.Threshold > 100 || n.Initial < 0 || n.Initial > 100 {
			return fmt.Errorf("sim: %s spec out of range", name)
		}
	}
	for _, b := range s.Scripts.Behaviors {
		if s.Scripts.Dir == "" {
			return fmt.Errorf("sim: scripted behavior %q needs scripts.dir", b.Name)
		}
		if b.Name == "" || b.Scorer == "" || b.Action == "" {
			return fmt.Errorf("sim: scripted behavior needs name, scorer and action")
		}
	}
	return nil
}

// LoadSpec reads a YAML file into any spec type.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := os.ReadFile(filename)
	if err != nil {
		return zero, fmt.Errorf("sim: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("sim: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// LoadScenario reads a scenario file over the defaults and validates it.
func LoadScenario(filename string) (Scenario, error) {
	s := DefaultScenario()
	data, err := os.ReadFile(filename)
	if err != nil {
		return Scenario{}, fmt.Errorf("sim: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("sim: unmarshal %s: %w", filename, err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}
