package ecs

import (
	"sort"

	"github.com/milk9111/brawler/ecs/component"
)

// World owns entities, component storage and the per-tick clock. It is the
// simulation context handed to every system; nothing in the core is global.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue

	delta   float64
	elapsed float64

	collision *CollisionWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in ascending handle order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.entities()
}

// AddComponent stores value for e under kind id.
func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	s.Set(e, value)
	return nil
}

// RemoveComponent deletes the component of kind id from e.
func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if w == nil {
		return false
	}
	s, ok := w.stores[id]
	if !ok {
		return false
	}
	return s.Remove(e)
}

// HasComponent reports whether e holds a component of kind id.
func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	s, ok := w.stores[id]
	return ok && s.Has(e)
}

// GetComponent returns the raw component of kind id stored for e.
func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	s, ok := w.stores[id]
	if !ok {
		return nil, false
	}
	v := s.Get(e)
	return v, v != nil
}

func (w *World) store(id component.ComponentID) *SparseSet {
	if w == nil {
		return nil
	}
	return w.stores[id]
}

// Query returns the live entities holding every given kind, sorted by handle
// so iteration order is stable across ticks.
func (w *World) Query(kinds ...component.AnyKind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID())
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	out := intersect(sets...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetDelta records the duration of the current tick in seconds.
func (w *World) SetDelta(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.delta = dt
	w.elapsed += dt
}

// Delta returns the duration of the current tick in seconds.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Elapsed returns the total simulated time in seconds.
func (w *World) Elapsed() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetCollisionWorld attaches the obstacle index to this world.
func (w *World) SetCollisionWorld(cw *CollisionWorld) {
	if w == nil {
		return
	}
	w.collision = cw
}

// CollisionWorld returns the attached obstacle index, if any.
func (w *World) CollisionWorld() *CollisionWorld {
	if w == nil {
		return nil
	}
	return w.collision
}
