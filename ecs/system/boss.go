package system

import (
	"log"
	"math/rand"

	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

const defaultReactionTime = 0.5

// BossSystem runs the boss block window. When it closes, blocking ends and
// a boss still in the blocking state returns to idle.
type BossSystem struct {
	combat *prefabs.CombatSpec
}

func NewBossSystem(combat *prefabs.CombatSpec) *BossSystem { return &BossSystem{combat: combat} }

func (s *BossSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach2(w, component.BossComponent.Kind(), component.EnemyComponent.Kind(), func(e ecs.Entity, boss *component.Boss, enemy *component.Enemy) {
		if !boss.Blocking {
			return
		}
		boss.BlockRemaining -= dt
		if boss.BlockRemaining > 0 {
			return
		}
		boss.Blocking = false
		boss.BlockRemaining = 0
		if enemy.State == component.StateBlocking && TransitionEnemy(w, e, component.StateIdle) {
			if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
				PlayClip(anim, anim.Set.Idle, fadeDuration(s.combat))
			}
		}
	})
}

// SampleMaxFury draws the fury budget for a new boss.
func SampleMaxFury(spec *prefabs.CombatSpec, rng *rand.Rand) int {
	lo, hi := spec.FuryMin, spec.FuryMax
	if hi < lo {
		hi = lo
	}
	if rng == nil || hi == lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// CanBlock reports whether a boss may raise its guard: it is not already
// blocking, not recovering from a broken block, and idle or running.
func CanBlock(w *ecs.World, e ecs.Entity) bool {
	boss, ok := ecs.Get(w, e, component.BossComponent.Kind())
	if !ok || boss.Blocking {
		return false
	}
	if ecs.Has(w, e, component.CooldownComponent.Kind()) {
		return false
	}
	enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	if !ok {
		return false
	}
	return enemy.State == component.StateIdle || enemy.State == component.StateRunning
}

// StartBlock opens a block window of duration seconds.
func StartBlock(w *ecs.World, e ecs.Entity, duration, fade float64) bool {
	if !CanBlock(w, e) || !TransitionEnemy(w, e, component.StateBlocking) {
		return false
	}
	boss, _ := ecs.Get(w, e, component.BossComponent.Kind())
	boss.Blocking = true
	boss.BlockRemaining = duration
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		PlayClip(anim, anim.Set.Block, fade)
	}
	return true
}

// CanFury reports whether the boss has fury uses left.
func CanFury(w *ecs.World, e ecs.Entity) bool {
	boss, ok := ecs.Get(w, e, component.BossComponent.Kind())
	if !ok || boss.FuryCount >= boss.MaxFuryCount {
		return false
	}
	enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	return ok && enemy.State != component.StateDead
}

// EnterFury spends one fury use and plays the fury clip. The boss returns to
// idle when the clip ends.
func EnterFury(w *ecs.World, e ecs.Entity, fade float64) bool {
	if !TransitionEnemy(w, e, component.StateFury) {
		return false
	}
	boss, _ := ecs.Get(w, e, component.BossComponent.Kind())
	boss.OptimalBlockReaction = false

	enemy, _ := ecs.Get(w, e, component.EnemyComponent.Kind())
	var clip *component.Clip
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		clip = anim.Set.Fury
		PlayClip(anim, clip, fade)
	}
	enemy.HitTimer = clipDuration(clip, defaultReactionTime)
	return true
}

// BreakBlock handles a hit landing on a blocking boss: the guard drops into
// the block reaction, a cooldown starts before the next block, and the
// optimal reaction flag is rolled for the AI driver.
func BreakBlock(w *ecs.World, e ecs.Entity, spec *prefabs.CombatSpec, rng *rand.Rand) bool {
	if !TransitionEnemy(w, e, component.StateBlockReaction) {
		return false
	}
	boss, _ := ecs.Get(w, e, component.BossComponent.Kind())
	enemy, _ := ecs.Get(w, e, component.EnemyComponent.Kind())

	if err := ecs.Add(w, e, component.CooldownComponent.Kind(), &component.Cooldown{Remaining: spec.BlockCooldown}); err != nil {
		log.Printf("boss: entity=%d add block cooldown: %v", e, err)
	}

	roll := 1.0
	if rng != nil {
		roll = rng.Float64()
	}
	boss.OptimalBlockReaction = roll < spec.OptimalBlockChance

	var clip *component.Clip
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		clip = anim.Set.BlockReaction
		PlayClip(anim, clip, spec.FadeDuration)
	}
	enemy.HitTimer = clipDuration(clip, defaultReactionTime)
	return true
}
