package system

import (
	"log"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// CooldownSystem counts cooldowns down in seconds and notifies AI drivers
// when one finishes by adding an AIStateInterruptComponent event named
// "cooldown_finished".
type CooldownSystem struct{}

func NewCooldownSystem() *CooldownSystem {
	return &CooldownSystem{}
}

func (s *CooldownSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.CooldownComponent.Kind(), func(e ecs.Entity, cd *component.Cooldown) {
		cd.Remaining -= dt
		if cd.Remaining > 0 {
			return
		}

		_ = ecs.Remove(w, e, component.CooldownComponent.Kind())

		// picked up by AISystem on its next pass
		if ecs.Has(w, e, component.AIStateComponent.Kind()) {
			if err := ecs.Add(w, e, component.AIStateInterruptComponent.Kind(), &component.AIStateInterrupt{Event: "cooldown_finished"}); err != nil {
				log.Printf("cooldown: entity=%d raise cooldown_finished: %v", e, err)
			}
		}
	})
}
