package system

import (
	"math"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// PickupBob returns the height offset of a pickup at phase.
func PickupBob(p *component.Pickup) float64 {
	return math.Sin(p.BobPhase) * p.BobAmplitude
}

// PickupHoverSystem bobs dropped loot around the height it landed at.
type PickupHoverSystem struct{}

func NewPickupHoverSystem() *PickupHoverSystem { return &PickupHoverSystem{} }

func (s *PickupHoverSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup, t *component.Transform) {
		if !pickup.Initialized {
			pickup.BaseY = t.Y
			pickup.Initialized = true
			if pickup.BobAmplitude == 0 {
				pickup.BobAmplitude = 0.15
			}
			if pickup.BobSpeed == 0 {
				pickup.BobSpeed = 3
			}
		}

		pickup.BobPhase += pickup.BobSpeed * dt
		t.Y = pickup.BaseY + PickupBob(pickup)
	})
}
