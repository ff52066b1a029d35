package system

import (
	"log"
	"math/rand"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/entity"
	"github.com/milk9111/brawler/prefabs"
)

// AttackResult lists what a single attack did, in evaluation order.
type AttackResult struct {
	Hit     []ecs.Entity
	Blocked []ecs.Entity
	Killed  []ecs.Entity
	Missed  bool
}

// CombatSystem resolves melee attacks against the enemy population.
type CombatSystem struct {
	spec     *prefabs.CombatSpec
	rng      *rand.Rand
	feedback *Feedback
}

func NewCombatSystem(spec *prefabs.CombatSpec, rng *rand.Rand, feedback *Feedback) *CombatSystem {
	return &CombatSystem{spec: spec, rng: rng, feedback: feedback}
}

// SetSpec swaps the tuning, used when combat.yaml is reloaded.
func (s *CombatSystem) SetSpec(spec *prefabs.CombatSpec) {
	if spec != nil {
		s.spec = spec
	}
}

// ResolveAttack sweeps a cone in front of attacker along attackAngle (yaw in
// radians, 0 facing +Z). Every living enemy strictly inside the range and
// the half cone is struck, in storage order. Height differences are ignored.
func (s *CombatSystem) ResolveAttack(w *ecs.World, attacker ecs.Entity, attackAngle float64) AttackResult {
	var result AttackResult

	at, ok := ecs.Get(w, attacker, component.TransformComponent.Kind())
	if !ok {
		return result
	}
	origin := at.Position()
	dir := common.Heading(attackAngle)
	halfCone := common.DegToRad(s.spec.AttackConeDeg) / 2

	var targets []ecs.Entity
	for _, e := range w.Query(
		component.EnemyTagComponent.Kind(),
		component.EnemyComponent.Kind(),
		component.HealthComponent.Kind(),
		component.TransformComponent.Kind(),
	) {
		hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
		if hp.Current <= 0 {
			continue
		}
		et, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		to := et.Position().Sub(origin).Flat()
		distance := to.Len()
		if distance >= s.spec.AttackRange {
			continue
		}
		// an enemy on top of the attacker has no direction and counts as ahead
		angle := 0.0
		if distance > 0 {
			angle = common.AngleBetween(dir, to.Norm())
		}
		if angle >= halfCone {
			continue
		}
		targets = append(targets, e)
	}

	if len(targets) == 0 {
		result.Missed = true
		s.feedback.playSound("swing_miss", 0.6)
		w.Events().Push(ecs.Event{Kind: ecs.EventAttackMissed, Entity: attacker})
		return result
	}

	for _, e := range targets {
		s.applyHit(w, attacker, e, &result)
	}
	return result
}

func (s *CombatSystem) applyHit(w *ecs.World, attacker, e ecs.Entity, result *AttackResult) {
	enemy, _ := ecs.Get(w, e, component.EnemyComponent.Kind())
	hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	et, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	pos := et.Position()
	anim, hasAnim := ecs.Get(w, e, component.AnimatorComponent.Kind())

	if boss, ok := ecs.Get(w, e, component.BossComponent.Kind()); ok && boss.Blocking {
		BreakBlock(w, e, s.spec, s.rng)
		s.feedback.playSound("block_impact", 1)
		s.feedback.spawnEffect("sparks", pos)
		w.Events().Push(ecs.Event{Kind: ecs.EventBlockImpact, Entity: e})
		result.Blocked = append(result.Blocked, e)
		return
	}

	before := hp.Current
	hp.Current -= s.spec.HitDamage
	result.Hit = append(result.Hit, e)

	s.feedback.playSound("hit", 0.8)
	s.feedback.spawnEffect("blood", pos)
	w.Events().Push(ecs.Event{Kind: ecs.EventEnemyHit, Entity: e, Data: s.spec.HitDamage})

	if helmet, ok := ecs.Get(w, e, component.HelmetComponent.Kind()); ok && !helmet.Hidden {
		half := float64(hp.Max) / 2
		if float64(before) > half && float64(hp.Current) <= half {
			helmet.Hidden = true
			s.feedback.spawnEffect("helmet", pos)
			w.Events().Push(ecs.Event{Kind: ecs.EventHelmetLost, Entity: e})
		}
	}

	if enemy.State != component.StateDead && TransitionEnemy(w, e, component.StateHit) {
		var clip *component.Clip
		if hasAnim {
			clip = pickClip(anim.Set.Hits, s.rng)
			PlayClip(anim, clip, s.spec.FadeDuration)
		}
		enemy.HitTimer = clipDuration(clip, defaultReactionTime)
	}

	if hp.Current <= 0 && enemy.State != component.StateDead {
		s.kill(w, attacker, e, pos, result)
	}
}

func (s *CombatSystem) kill(w *ecs.World, attacker, e ecs.Entity, pos common.Vec3, result *AttackResult) {
	TransitionEnemy(w, e, component.StateDead)
	result.Killed = append(result.Killed, e)

	enemy, _ := ecs.Get(w, e, component.EnemyComponent.Kind())
	enemy.HitTimer = 0

	_, isBoss := ecs.Get(w, e, component.BossComponent.Kind())

	var clip *component.Clip
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		if isBoss {
			if len(anim.Set.Deaths) > 0 {
				clip = anim.Set.Deaths[0]
			}
		} else {
			clip = pickClip(anim.Set.Deaths, s.rng)
		}
		PlayClip(anim, clip, s.spec.FadeDuration)
	}
	s.feedback.playSound("death", 1)

	if inv, ok := ecs.Get(w, attacker, component.InventoryComponent.Kind()); ok {
		inv.Money += s.spec.MoneyPerKill
	}

	s.dropLoot(w, pos)

	linger := clipDuration(clip, 0) + s.spec.CorpseLinger
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: linger}); err != nil {
		log.Printf("combat: entity=%d add corpse ttl: %v", e, err)
	}

	w.Events().Push(ecs.Event{Kind: ecs.EventEnemyKilled, Entity: e})

	if !isBoss {
		return
	}
	encEnt, ok := ecs.First(w, component.EncounterComponent.Kind())
	if !ok {
		return
	}
	enc, _ := ecs.Get(w, encEnt, component.EncounterComponent.Kind())
	if enc.IsFinalWave && !enc.GameWon {
		enc.GameWon = true
		w.Events().Push(ecs.Event{Kind: ecs.EventGameWon, Entity: e})
	}
}

func (s *CombatSystem) dropLoot(w *ecs.World, pos common.Vec3) {
	kind := component.LootHealth
	if s.rng == nil || s.rng.Float64() < s.spec.Loot.GoldChance {
		kind = component.LootGold
	}

	if _, err := entity.NewPickup(w, kind, pos, s.spec.Loot); err != nil {
		log.Printf("combat: drop loot: %v", err)
	}
	s.feedback.registerLoot(kind, pos)
	w.Events().Push(ecs.Event{Kind: ecs.EventLootDropped, Data: kind})
}
