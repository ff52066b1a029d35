package ecs

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in a fixed order. The arena tick order matters:
// spawning and timers run before AI, and animation runs last so it sees
// every state change of the tick.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{systems: make([]System, 0, len(systems))}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

// Add appends sys. Nil systems are skipped so optional systems can be
// passed through unconditionally.
func (s *Scheduler) Add(sys System) {
	if sys == nil {
		return
	}
	s.systems = append(s.systems, sys)
}

func (s *Scheduler) Update(w *World) {
	for _, sys := range s.systems {
		sys.Update(w)
	}
}

// Systems returns a copy of the run order.
func (s *Scheduler) Systems() []System {
	return append([]System(nil), s.systems...)
}
