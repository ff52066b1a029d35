package system

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

// AISystem is the decision driver for enemies. Regular enemies run a
// compiled FSM, the boss runs a tengo script. The enemy state is
// authoritative: while an enemy is in a state the driver does not own (a hit
// reaction, say) it is left alone, and when it comes back the driver
// re-enters that state.
type AISystem struct {
	combat     *prefabs.CombatSpec
	rng        *rand.Rand
	barricades *BarricadeSystem
	feedback   *Feedback

	fsmCache    map[string]*FSMDef
	scriptCache map[ecs.Entity]*aiScriptRuntime
}

func NewAISystem(combat *prefabs.CombatSpec, rng *rand.Rand, barricades *BarricadeSystem, feedback *Feedback) *AISystem {
	return &AISystem{
		combat:     combat,
		rng:        rng,
		barricades: barricades,
		feedback:   feedback,
		fsmCache: map[string]*FSMDef{
			component.DefaultAIFSMName: DefaultEnemyFSM(),
		},
		scriptCache: map[ecs.Entity]*aiScriptRuntime{},
	}
}

func (s *AISystem) SetCombatSpec(spec *prefabs.CombatSpec) {
	if spec != nil {
		s.combat = spec
	}
}

// Invalidate drops cached FSMs and scripts so edited files are picked up.
func (s *AISystem) Invalidate() {
	s.fsmCache = map[string]*FSMDef{
		component.DefaultAIFSMName: DefaultEnemyFSM(),
	}
	s.scriptCache = map[ecs.Entity]*aiScriptRuntime{}
}

func (s *AISystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for e := range s.scriptCache {
		if !ecs.IsAlive(w, e) {
			delete(s.scriptCache, e)
		}
	}

	var playerPos common.Vec3
	playerEnt, playerFound := ecs.First(w, component.PlayerTagComponent.Kind())
	if playerFound {
		if hp, ok := ecs.Get(w, playerEnt, component.HealthComponent.Kind()); ok && hp.Current <= 0 {
			playerFound = false
		}
	}
	if playerFound {
		if pt, ok := ecs.Get(w, playerEnt, component.TransformComponent.Kind()); ok {
			playerPos = pt.Position()
		} else {
			playerFound = false
		}
	}

	entities := w.Query(
		component.EnemyTagComponent.Kind(),
		component.EnemyComponent.Kind(),
		component.AIComponent.Kind(),
		component.AIStateComponent.Kind(),
		component.AIContextComponent.Kind(),
		component.AIConfigComponent.Kind(),
		component.TransformComponent.Kind(),
		component.AnimatorComponent.Kind(),
	)
	for _, ent := range entities {
		enemy, _ := ecs.Get(w, ent, component.EnemyComponent.Kind())
		if enemy.State == component.StateDead {
			continue
		}

		aiComp, _ := ecs.Get(w, ent, component.AIComponent.Kind())
		stateComp, _ := ecs.Get(w, ent, component.AIStateComponent.Kind())
		ctxComp, _ := ecs.Get(w, ent, component.AIContextComponent.Kind())
		cfgComp, _ := ecs.Get(w, ent, component.AIConfigComponent.Kind())
		transform, _ := ecs.Get(w, ent, component.TransformComponent.Kind())
		anim, _ := ecs.Get(w, ent, component.AnimatorComponent.Kind())

		pendingEvents := make([]component.EventID, 0, 4)
		enqueue := func(ev component.EventID) {
			if ev == "" {
				return
			}
			pendingEvents = append(pendingEvents, ev)
		}

		// one-shot interrupts raised by other systems
		if irq, ok := ecs.Get(w, ent, component.AIStateInterruptComponent.Kind()); ok {
			if irq.Event != "" {
				enqueue(component.EventID(irq.Event))
			}
			_ = ecs.Remove(w, ent, component.AIStateInterruptComponent.Kind())
		}

		ctx := &AIActionContext{
			World:        w,
			Entity:       ent,
			AI:           aiComp,
			Enemy:        enemy,
			State:        stateComp,
			Context:      ctxComp,
			Config:       cfgComp,
			Transform:    transform,
			Animator:     anim,
			PlayerFound:  playerFound,
			PlayerEntity: playerEnt,
			Player:       playerPos,
			Delta:        w.Delta(),
			EnqueueEvent: enqueue,
			system:       s,
		}

		if strings.TrimSpace(cfgComp.Script) != "" {
			s.updateFromScript(ctx, pendingEvents)
			continue
		}

		fsm := s.fsmFor(cfgComp)
		if fsm == nil {
			continue
		}

		current := component.StateID(enemy.State.String())
		if _, owned := fsm.States[current]; !owned {
			continue
		}
		if stateComp.Current != current {
			stateComp.Current = current
			applyActions(fsm.States[current].OnEnter, ctx)
		}

		enqueueSensorEvents(ctx, enqueue)

		// While runs first so timers it updates are seen by the checkers.
		applyActions(fsm.States[stateComp.Current].While, ctx)

		for _, ch := range fsm.Checkers {
			if ch.From != stateComp.Current {
				continue
			}
			if ch.Check != nil && ch.Check(ctx) {
				enqueue(ch.Event)
			}
		}

		processEvents(fsm, ctx, pendingEvents)
	}
}

func (s *AISystem) fsmFor(cfg *component.AIConfig) *FSMDef {
	if cfg.Spec != nil {
		key := fmt.Sprintf("spec_%p", cfg.Spec)
		if cached, ok := s.fsmCache[key]; ok {
			return cached
		}
		compiled, err := CompileFSMSpec(*cfg.Spec)
		if err != nil {
			log.Printf("ai: compile fsm spec: %v", err)
			return nil
		}
		s.fsmCache[key] = compiled
		return compiled
	}
	return s.getFSM(cfg.FSM)
}

func (s *AISystem) getFSM(name string) *FSMDef {
	if name == "" {
		name = component.DefaultAIFSMName
	}
	if fsm, ok := s.fsmCache[name]; ok {
		return fsm
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		fsm, err := LoadFSMFromPrefab(name)
		if err != nil {
			log.Printf("ai: load fsm %s: %v", name, err)
			s.fsmCache[name] = nil
			return nil
		}
		s.fsmCache[name] = fsm
		return fsm
	}
	return s.fsmCache[component.DefaultAIFSMName]
}

// enqueueSensorEvents turns distance to the player into FSM events. An enemy
// counts as in attack range when it is close enough to the player, or when a
// barricade stands within reach between them, and its attack is off cooldown.
func enqueueSensorEvents(ctx *AIActionContext, enqueue func(ev component.EventID)) {
	if ctx == nil || ctx.AI == nil {
		return
	}
	if !ctx.PlayerFound {
		enqueue(component.EventID("loses_player"))
		return
	}
	dist := ctx.ToPlayer().Len()
	if ctx.AI.FollowRange > 0 {
		if dist <= ctx.AI.FollowRange {
			enqueue(component.EventID("sees_player"))
		} else {
			enqueue(component.EventID("loses_player"))
		}
	}
	if ctx.AI.AttackRange <= 0 {
		return
	}
	inRange := dist <= ctx.AI.AttackRange
	if !inRange {
		_, inRange = barricadeInReach(ctx)
	}
	switch {
	case !inRange:
		enqueue(component.EventID("out_attack_range"))
	case ctx.Enemy == nil || ctx.Enemy.AttackCooldown <= 0:
		enqueue(component.EventID("in_attack_range"))
	}
}

// processEvents feeds events in order to the FSM. The enemy state machine
// has the final say; a refused transition is skipped.
func processEvents(fsm *FSMDef, ctx *AIActionContext, events []component.EventID) {
	if fsm == nil || ctx == nil || ctx.State == nil {
		return
	}
	state := ctx.State
	for _, ev := range events {
		transitions, ok := fsm.Transitions[state.Current]
		if !ok {
			continue
		}
		next, ok := transitions[ev]
		if !ok || next == state.Current {
			continue
		}
		target, ok := component.ParseEnemyState(string(next))
		if !ok || !TransitionEnemy(ctx.World, ctx.Entity, target) {
			continue
		}
		applyActions(fsm.States[state.Current].OnExit, ctx)
		state.Current = next
		applyActions(fsm.States[state.Current].OnEnter, ctx)
	}
}

func applyActions(actions []Action, ctx *AIActionContext) {
	for _, a := range actions {
		if a != nil {
			a(ctx)
		}
	}
}

// barricadeInReach finds a standing barricade between the enemy and the
// player within attack range.
func barricadeInReach(ctx *AIActionContext) (ecs.Entity, bool) {
	cw := ctx.World.CollisionWorld()
	if cw == nil || ctx.AI == nil {
		return 0, false
	}
	dir := ctx.ToPlayer().Norm()
	if dir == (common.Vec3{}) {
		return 0, false
	}
	hit := cw.Raycast(ctx.Position().Add(common.Vec3{Y: 0.5}), dir, ctx.AI.AttackRange)
	if !hit.Hit || hit.Floor || !hit.Entity.Valid() {
		return 0, false
	}
	if !ecs.Has(ctx.World, hit.Entity, component.BarricadeComponent.Kind()) {
		return 0, false
	}
	return hit.Entity, true
}

// strike lands an enemy attack: on a barricade in the way if there is one,
// otherwise on the player when in reach. It is skipped while the attack is
// cooling down.
func (s *AISystem) strike(ctx *AIActionContext) {
	if ctx.Enemy == nil || ctx.AI == nil || ctx.Enemy.AttackCooldown > 0 {
		return
	}
	ctx.Enemy.AttackCooldown = ctx.AI.AttackCooldown

	if bar, ok := barricadeInReach(ctx); ok {
		if s.barricades != nil {
			s.barricades.DamageBarricade(ctx.World, bar, ctx.AI.Damage)
		}
		return
	}

	if !ctx.PlayerFound || ctx.ToPlayer().Len() > ctx.AI.AttackRange {
		s.feedback.playSound("enemy_whiff", 0.4)
		return
	}
	hp, ok := ecs.Get(ctx.World, ctx.PlayerEntity, component.HealthComponent.Kind())
	if !ok {
		return
	}
	hp.Current -= ctx.AI.Damage
	if hp.Current < 0 {
		hp.Current = 0
	}
	s.feedback.playSound("player_hurt", 0.8)
	s.feedback.spawnEffect("blood", ctx.Player)
}
