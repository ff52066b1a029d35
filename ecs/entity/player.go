package entity

import (
	"fmt"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

func NewPlayer(w *ecs.World, spec *prefabs.PlayerSpec, set *component.AnimationSet, start common.Vec3) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("player: nil spec")
	}

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.PlayerComponent.Kind(), &component.Player{MoveSpeed: spec.MoveSpeed}); err != nil {
		return 0, fmt.Errorf("player: add player component: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		X:   start.X + spec.Transform.X,
		Y:   start.Y + spec.Transform.Y,
		Z:   start.Z + spec.Transform.Z,
		Yaw: spec.Transform.Yaw,
	}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &component.Health{Current: spec.Health, Max: spec.Health}); err != nil {
		return 0, fmt.Errorf("player: add health: %w", err)
	}

	if err := ecs.Add(w, entity, component.ComboComponent.Kind(), &component.Combo{}); err != nil {
		return 0, fmt.Errorf("player: add combo: %w", err)
	}

	if err := ecs.Add(w, entity, component.PlacementComponent.Kind(), &component.Placement{}); err != nil {
		return 0, fmt.Errorf("player: add placement: %w", err)
	}

	if err := ecs.Add(w, entity, component.InventoryComponent.Kind(), &component.Inventory{
		Barricades: spec.Barricades,
		Money:      spec.Money,
	}); err != nil {
		return 0, fmt.Errorf("player: add inventory: %w", err)
	}

	if err := ecs.Add(w, entity, component.AnimatorComponent.Kind(), NewAnimator(set)); err != nil {
		return 0, fmt.Errorf("player: add animator: %w", err)
	}

	return entity, nil
}
