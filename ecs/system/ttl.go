package system

import (
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// TTLSystem counts TTL components down in seconds and destroys entities when
// they run out.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Remaining -= dt
		if ttl.Remaining > 0 {
			return
		}
		if cw := w.CollisionWorld(); cw != nil {
			if o, ok := cw.ObstacleOf(e); ok {
				cw.Remove(o)
			}
		}
		ecs.DestroyEntity(w, e)
	})
}
