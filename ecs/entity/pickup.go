package entity

import (
	"fmt"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

// NewPickup drops a collectible at pos. It bobs in place and expires after
// the loot ttl.
func NewPickup(w *ecs.World, kind component.LootKind, pos common.Vec3, spec prefabs.LootSpec) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	value := spec.GoldValue
	if kind == component.LootHealth {
		value = spec.HealthValue
	}

	if err := ecs.Add(w, entity, component.PickupComponent.Kind(), &component.Pickup{
		Kind:         kind,
		Value:        value,
		BobAmplitude: spec.BobAmplitude,
		BobSpeed:     spec.BobSpeed,
	}); err != nil {
		return 0, fmt.Errorf("pickup: add pickup: %w", err)
	}

	t := &component.Transform{}
	t.SetPosition(pos)
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), t); err != nil {
		return 0, fmt.Errorf("pickup: add transform: %w", err)
	}

	if spec.TTL > 0 {
		if err := ecs.Add(w, entity, component.TTLComponent.Kind(), &component.TTL{Remaining: spec.TTL}); err != nil {
			return 0, fmt.Errorf("pickup: add ttl: %w", err)
		}
	}

	return entity, nil
}
