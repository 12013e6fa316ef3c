package ecs

// System mutates the world once per tick.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to the System interface.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

// Scheduler runs systems in registration order. Events pushed during a pass
// are flushed once the pass completes.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	return &Scheduler{systems: append([]System(nil), systems...)}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
	w.events.flush()
}

func (s *Scheduler) Systems() []System {
	return append(make([]System, 0, len(s.systems)), s.systems...)
}
