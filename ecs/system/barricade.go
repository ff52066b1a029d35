package system

import (
	"log"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/entity"
	"github.com/milk9111/brawler/prefabs"
)

// previewRayHeight is where a point input ray starts above the arena.
const previewRayHeight = 50.0

// BarricadeSystem owns placement mode, placement validation and the
// destruction sweep of barricades.
type BarricadeSystem struct {
	spec     *prefabs.BarricadeSpec
	combat   *prefabs.CombatSpec
	clips    *component.AnimationSet
	feedback *Feedback
}

func NewBarricadeSystem(spec *prefabs.BarricadeSpec, combat *prefabs.CombatSpec, clips *component.AnimationSet, feedback *Feedback) *BarricadeSystem {
	return &BarricadeSystem{spec: spec, combat: combat, clips: clips, feedback: feedback}
}

func (s *BarricadeSystem) SetCombatSpec(spec *prefabs.CombatSpec) {
	if spec != nil {
		s.combat = spec
	}
}

func (s *BarricadeSystem) size() entity.BarricadeSize {
	return entity.BarricadeSize{Width: s.spec.Width, Height: s.spec.Height, Depth: s.spec.Depth}
}

// TogglePlacement enters previewing when the player has a barricade to place,
// or leaves it, discarding the preview. It reports whether the player is
// previewing afterwards.
func (s *BarricadeSystem) TogglePlacement(w *ecs.World, player ecs.Entity) bool {
	pl, ok := ecs.Get(w, player, component.PlacementComponent.Kind())
	if !ok {
		return false
	}

	if pl.Mode == component.PlacementPreviewing {
		*pl = component.Placement{}
		return false
	}

	inv, ok := ecs.Get(w, player, component.InventoryComponent.Kind())
	if !ok || inv.Barricades <= 0 {
		return false
	}

	pl.Mode = component.PlacementPreviewing
	if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		at := t.Position().Add(common.Heading(t.Yaw).Scale(s.combat.PreviewDistance))
		s.positionPreview(w, pl, at.X, at.Z)
	}
	return true
}

// MovePreview moves the preview to (x, z), resting on whatever is stacked
// there.
func (s *BarricadeSystem) MovePreview(w *ecs.World, player ecs.Entity, x, z float64) bool {
	pl, ok := ecs.Get(w, player, component.PlacementComponent.Kind())
	if !ok || pl.Mode != component.PlacementPreviewing {
		return false
	}
	s.positionPreview(w, pl, x, z)
	return true
}

// MovePreviewRay moves the preview to where a pointer ray meets the
// collision set. A ray that hits nothing leaves the preview in place.
func (s *BarricadeSystem) MovePreviewRay(w *ecs.World, player ecs.Entity, origin, dir common.Vec3, maxDist float64) bool {
	hit := w.CollisionWorld().Raycast(origin, dir, maxDist)
	if !hit.Hit {
		return false
	}
	return s.MovePreview(w, player, hit.Point.X, hit.Point.Z)
}

// BoxAt is the volume a barricade resting at pos would occupy.
func (s *BarricadeSystem) BoxAt(pos common.Vec3) ecs.Box {
	return ecs.BoxAt(pos, s.spec.Width, s.spec.Height, s.spec.Depth)
}

// PointerRay is the straight-down ray used by a top-down pointer at (x, z).
func PointerRay(x, z float64) (origin, dir common.Vec3, maxDist float64) {
	return common.Vec3{X: x, Y: previewRayHeight, Z: z}, common.Vec3{Y: -1}, previewRayHeight * 2
}

func (s *BarricadeSystem) positionPreview(w *ecs.World, pl *component.Placement, x, z float64) {
	y := w.CollisionWorld().RestingHeight(x, z, s.combat.StackTolerance)
	pl.Preview = common.Vec3{X: x, Y: y, Z: z}
	pl.Valid = s.IsPlacementValid(w, pl.Preview)
}

// IsPlacementValid reports whether a barricade at pos stays inside the map
// bounds and overlaps no wall or standing barricade.
func (s *BarricadeSystem) IsPlacementValid(w *ecs.World, pos common.Vec3) bool {
	cw := w.CollisionWorld()
	if cw == nil || !cw.Bounds().Contains(pos) {
		return false
	}
	box := s.BoxAt(pos)
	return len(cw.Intersecting(box)) == 0
}

// PlaceBarricade commits the preview. An invalid placement changes nothing.
func (s *BarricadeSystem) PlaceBarricade(w *ecs.World, player ecs.Entity) (ecs.Entity, bool) {
	pl, ok := ecs.Get(w, player, component.PlacementComponent.Kind())
	if !ok || pl.Mode != component.PlacementPreviewing {
		return 0, false
	}
	inv, ok := ecs.Get(w, player, component.InventoryComponent.Kind())
	if !ok || inv.Barricades <= 0 {
		return 0, false
	}
	if !s.IsPlacementValid(w, pl.Preview) {
		return 0, false
	}

	pos := pl.Preview
	e, err := entity.NewBarricade(w, pos, s.size(), s.spec.PlayerHealth, true, s.clips)
	if err != nil {
		log.Printf("barricade: place: %v", err)
		return 0, false
	}

	inv.Barricades--
	*pl = component.Placement{}

	s.feedback.playSound("barricade_place", 0.8)
	s.feedback.spawnEffect("dust", pos)
	w.Events().Push(ecs.Event{Kind: ecs.EventBarricadePlaced, Entity: e})
	return e, true
}

// BuyBarricade trades money for one more barricade in the inventory.
func (s *BarricadeSystem) BuyBarricade(w *ecs.World, player ecs.Entity) bool {
	inv, ok := ecs.Get(w, player, component.InventoryComponent.Kind())
	if !ok || inv.Money < s.spec.Cost {
		return false
	}
	inv.Money -= s.spec.Cost
	inv.Barricades++
	return true
}

// DamageBarricade applies damage from an enemy strike and shakes the
// barricade. A barricade at or below zero health no longer blocks placement
// and is removed by the next sweep.
func (s *BarricadeSystem) DamageBarricade(w *ecs.World, e ecs.Entity, amount int) bool {
	bar, ok := ecs.Get(w, e, component.BarricadeComponent.Kind())
	if !ok || bar.Destroyed {
		return false
	}
	hp, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return false
	}

	hp.Current -= amount
	if err := ecs.Add(w, e, component.VibrationComponent.Kind(), &component.Vibration{
		Duration:  s.combat.Vibration.Duration,
		Amplitude: s.combat.Vibration.Amplitude,
		Frequency: s.combat.Vibration.Frequency,
	}); err != nil {
		log.Printf("barricade: entity=%d add vibration: %v", e, err)
	}
	s.feedback.playSound("barricade_hit", 0.7)

	if hp.Current <= 0 {
		bar.Destroyed = true
		if o, ok := w.CollisionWorld().ObstacleOf(e); ok {
			o.Destroyed = true
		}
	}
	return true
}

// Update is the destruction sweep. Every barricade at or below zero health
// leaves the collision set at once. With a destroy clip it lingers until the
// clip ends; without one it is removed immediately.
func (s *BarricadeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	cw := w.CollisionWorld()

	ecs.ForEach2(w, component.BarricadeComponent.Kind(), component.HealthComponent.Kind(), func(e ecs.Entity, bar *component.Barricade, hp *component.Health) {
		if hp.Current > 0 || ecs.Has(w, e, component.TTLComponent.Kind()) {
			return
		}
		bar.Destroyed = true

		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		var pos common.Vec3
		if t != nil {
			pos = t.Position()
		}

		if o, ok := cw.ObstacleOf(e); ok {
			cw.Remove(o)
		}
		s.feedback.playSound("barricade_break", 1)
		s.feedback.spawnEffect("splinters", pos)
		w.Events().Push(ecs.Event{Kind: ecs.EventBarricadeDestroyed, Entity: e})

		anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
		if !ok || anim.Set.Destroy == nil || anim.Set.Destroy.Duration <= 0 {
			ecs.DestroyEntity(w, e)
			return
		}
		PlayClip(anim, anim.Set.Destroy, 0)
		if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: anim.Set.Destroy.Duration}); err != nil {
			log.Printf("barricade: entity=%d add destroy ttl: %v", e, err)
			ecs.DestroyEntity(w, e)
		}
	})
}
