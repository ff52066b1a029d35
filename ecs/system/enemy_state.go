package system

import (
	"math"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

// TransitionEnemy is the only place an enemy's state changes. It refuses:
//   - any change out of dead
//   - blocking, block_reaction and fury for non-bosses
//   - hit for a boss that is attacking or in fury (poise)
//   - fury once the boss has used its fury budget
//
// Entering fury spends one use of the budget. Leaving blocking clears the
// boss block window.
func TransitionEnemy(w *ecs.World, e ecs.Entity, next component.EnemyState) bool {
	enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	if !ok {
		return false
	}
	if enemy.State == component.StateDead {
		return false
	}

	boss, isBoss := ecs.Get(w, e, component.BossComponent.Kind())

	switch next {
	case component.StateBlocking, component.StateBlockReaction, component.StateFury:
		if !isBoss {
			return false
		}
	case component.StateHit:
		if isBoss && (enemy.State == component.StateAttacking || enemy.State == component.StateFury) {
			return false
		}
	}

	if next == component.StateFury {
		if boss.FuryCount >= boss.MaxFuryCount {
			return false
		}
		boss.FuryCount++
	}

	if isBoss && next != component.StateBlocking {
		boss.Blocking = false
		boss.BlockRemaining = 0
	}

	enemy.State = next
	return true
}

// EnemySystem counts down attack cooldowns and one-shot reactions. When a
// hit, block reaction or fury runs out the enemy returns to idle and the AI
// driver picks it up again.
type EnemySystem struct {
	combat *prefabs.CombatSpec
}

func NewEnemySystem(combat *prefabs.CombatSpec) *EnemySystem { return &EnemySystem{combat: combat} }

// fadeDuration reads the crossfade at use so reloaded tuning applies at once.
func fadeDuration(combat *prefabs.CombatSpec) float64 {
	if combat == nil {
		return 0
	}
	return combat.FadeDuration
}

func (s *EnemySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach(w, component.EnemyComponent.Kind(), func(e ecs.Entity, enemy *component.Enemy) {
		if enemy.State == component.StateDead {
			return
		}

		enemy.AttackCooldown = math.Max(0, enemy.AttackCooldown-dt)

		if enemy.HitTimer <= 0 {
			return
		}
		enemy.HitTimer -= dt
		if enemy.HitTimer > 0 {
			return
		}
		enemy.HitTimer = 0

		switch enemy.State {
		case component.StateHit, component.StateBlockReaction, component.StateFury:
			if TransitionEnemy(w, e, component.StateIdle) {
				if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
					PlayClip(anim, anim.Set.Idle, fadeDuration(s.combat))
				}
			}
		}
	})
}
