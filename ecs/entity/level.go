package entity

import (
	"fmt"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/levels"
)

const floorThickness = 1.0

// LoadLevel builds the collision set of an arena map and attaches it to w.
// Map barricades are created as regular barricade entities that were not
// placed by the player; mapHealth applies to those without their own health.
func LoadLevel(w *ecs.World, lvl *levels.Level, mapHealth int, barricadeClips *component.AnimationSet) (*ecs.CollisionWorld, error) {
	if w == nil || lvl == nil {
		return nil, fmt.Errorf("level: nil world or level")
	}

	b := lvl.Bounds
	cw := ecs.NewCollisionWorld(ecs.Bounds{MinX: b.MinX, MaxX: b.MaxX, MinZ: b.MinZ, MaxZ: b.MaxZ})
	w.SetCollisionWorld(cw)

	cw.Add(&ecs.Obstacle{
		Floor: true,
		Box: ecs.Box{
			Min: common.Vec3{X: b.MinX, Y: lvl.FloorY - floorThickness, Z: b.MinZ},
			Max: common.Vec3{X: b.MaxX, Y: lvl.FloorY, Z: b.MaxZ},
		},
	})

	for _, o := range lvl.Obstacles {
		base := common.Vec3{X: o.X, Y: lvl.FloorY, Z: o.Z}
		cw.Add(&ecs.Obstacle{Box: ecs.BoxAt(base, o.Width, o.Height, o.Depth)})
	}

	for i, bar := range lvl.Barricades {
		base := common.Vec3{X: bar.X, Y: lvl.FloorY, Z: bar.Z}
		size := BarricadeSize{Width: bar.Width, Height: bar.Height, Depth: bar.Depth}
		health := bar.Health
		if health <= 0 {
			health = mapHealth
		}
		if _, err := NewBarricade(w, base, size, health, false, barricadeClips); err != nil {
			return nil, fmt.Errorf("level: barricade %d: %w", i, err)
		}
	}

	return cw, nil
}
