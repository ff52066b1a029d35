package entity

import (
	"fmt"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

// NewSpawning creates an enemy placeholder at pos. It only carries a
// transform and the spawning tag until its clips have loaded.
func NewSpawning(w *ecs.World, pos common.Vec3) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.SpawningTagComponent.Kind(), &component.SpawningTag{}); err != nil {
		return 0, fmt.Errorf("enemy: add spawning tag: %w", err)
	}

	t := &component.Transform{}
	t.SetPosition(pos)
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), t); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}

	return entity, nil
}

// ReadyEnemy turns a spawning placeholder into a regular enemy.
func ReadyEnemy(w *ecs.World, e ecs.Entity, spec *prefabs.EnemySpec, set *component.AnimationSet) error {
	if spec == nil || set == nil {
		return fmt.Errorf("enemy: nil spec or clips")
	}

	if err := addEnemyCore(w, e, spec.Health, spec.Helmet, spec.AI, set); err != nil {
		return err
	}

	if err := ecs.Add(w, e, component.AIConfigComponent.Kind(), &component.AIConfig{FSM: spec.FSM}); err != nil {
		return fmt.Errorf("enemy: add ai config: %w", err)
	}

	ecs.Remove(w, e, component.SpawningTagComponent.Kind())
	return nil
}

// ReadyBoss turns a spawning placeholder into the boss. maxFury is the fury
// budget for the whole encounter.
func ReadyBoss(w *ecs.World, e ecs.Entity, spec *prefabs.BossSpec, set *component.AnimationSet, maxFury int) error {
	if spec == nil || set == nil {
		return fmt.Errorf("boss: nil spec or clips")
	}
	if set.Kind != component.KindBoss {
		return fmt.Errorf("boss: clip set is %s", set.Kind)
	}

	if err := addEnemyCore(w, e, spec.Health, spec.Helmet, spec.AI, set); err != nil {
		return err
	}

	if err := ecs.Add(w, e, component.BossComponent.Kind(), &component.Boss{MaxFuryCount: maxFury}); err != nil {
		return fmt.Errorf("boss: add boss component: %w", err)
	}

	if err := ecs.Add(w, e, component.AIConfigComponent.Kind(), &component.AIConfig{Script: spec.Script}); err != nil {
		return fmt.Errorf("boss: add ai config: %w", err)
	}

	ecs.Remove(w, e, component.SpawningTagComponent.Kind())
	return nil
}

func addEnemyCore(w *ecs.World, e ecs.Entity, health int, helmet bool, ai prefabs.AISpec, set *component.AnimationSet) error {
	if !ecs.IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}

	if err := ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{}); err != nil {
		return fmt.Errorf("enemy: add enemy tag: %w", err)
	}

	if err := ecs.Add(w, e, component.EnemyComponent.Kind(), &component.Enemy{State: component.StateIdle}); err != nil {
		return fmt.Errorf("enemy: add enemy component: %w", err)
	}

	if err := ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health}); err != nil {
		return fmt.Errorf("enemy: add health: %w", err)
	}

	if helmet {
		if err := ecs.Add(w, e, component.HelmetComponent.Kind(), &component.Helmet{}); err != nil {
			return fmt.Errorf("enemy: add helmet: %w", err)
		}
	}

	if err := ecs.Add(w, e, component.AIComponent.Kind(), &component.AI{
		MoveSpeed:      ai.MoveSpeed,
		FollowRange:    ai.FollowRange,
		AttackRange:    ai.AttackRange,
		AttackWindup:   ai.AttackWindup,
		AttackCooldown: ai.AttackCooldown,
		Damage:         ai.Damage,
	}); err != nil {
		return fmt.Errorf("enemy: add ai: %w", err)
	}

	if err := ecs.Add(w, e, component.AIStateComponent.Kind(), &component.AIState{}); err != nil {
		return fmt.Errorf("enemy: add ai state: %w", err)
	}

	if err := ecs.Add(w, e, component.AIContextComponent.Kind(), &component.AIContext{}); err != nil {
		return fmt.Errorf("enemy: add ai context: %w", err)
	}

	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), NewAnimator(set)); err != nil {
		return fmt.Errorf("enemy: add animator: %w", err)
	}

	return nil
}
