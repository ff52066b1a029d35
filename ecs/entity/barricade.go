package entity

import (
	"fmt"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// BarricadeSize is the box of a barricade, bottom-centred on its position.
type BarricadeSize struct {
	Width, Height, Depth float64
}

// NewBarricade creates a barricade at pos and registers its volume in the
// world's collision set.
func NewBarricade(w *ecs.World, pos common.Vec3, size BarricadeSize, health int, playerPlaced bool, set *component.AnimationSet) (ecs.Entity, error) {
	cw := w.CollisionWorld()
	if cw == nil {
		return 0, fmt.Errorf("barricade: world has no collision set")
	}

	entity := ecs.CreateEntity(w)

	t := &component.Transform{}
	t.SetPosition(pos)
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), t); err != nil {
		return 0, fmt.Errorf("barricade: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.BarricadeComponent.Kind(), &component.Barricade{
		PlayerPlaced: playerPlaced,
		Width:        size.Width,
		Height:       size.Height,
		Depth:        size.Depth,
	}); err != nil {
		return 0, fmt.Errorf("barricade: add barricade component: %w", err)
	}

	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health}); err != nil {
		return 0, fmt.Errorf("barricade: add health: %w", err)
	}

	if set != nil {
		if err := ecs.Add(w, entity, component.AnimatorComponent.Kind(), NewAnimator(set)); err != nil {
			return 0, fmt.Errorf("barricade: add animator: %w", err)
		}
	}

	cw.Add(&ecs.Obstacle{
		Entity: entity,
		Box:    ecs.BoxAt(pos, size.Width, size.Height, size.Depth),
	})

	return entity, nil
}
