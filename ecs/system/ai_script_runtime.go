package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

type aiScriptRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
	stateData  *tengo.Map
	initial    component.StateID
	pending    component.StateID
}

const aiLifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// scriptOwned lists the enemy states a script drives. Reactions (hit, block
// reaction) and death belong to combat.
func scriptOwned(st component.EnemyState) bool {
	switch st {
	case component.StateIdle, component.StateRunning, component.StateAttacking,
		component.StateBlocking, component.StateFury:
		return true
	}
	return false
}

func (s *AISystem) updateFromScript(ctx *AIActionContext, events []component.EventID) {
	if s == nil || ctx == nil || ctx.State == nil || ctx.Enemy == nil {
		return
	}

	rt, err := s.getScriptRuntime(ctx.Entity, ctx.Config.Script)
	if err != nil {
		log.Printf("ai: entity=%d load script %s: %v", ctx.Entity, ctx.Config.Script, err)
		return
	}

	if !scriptOwned(ctx.Enemy.State) {
		return
	}

	eventSet := make(map[string]bool, len(events))
	for _, ev := range events {
		if ev != "" {
			eventSet[string(ev)] = true
		}
	}
	engine := buildAIScriptEngine(ctx, rt, eventSet)

	if ctx.State.Current == "" && rt.initial != component.StateID(ctx.Enemy.State.String()) {
		if target, ok := component.ParseEnemyState(string(rt.initial)); ok {
			s.enterScriptState(ctx, target)
		}
	}

	current := component.StateID(ctx.Enemy.State.String())
	if ctx.State.Current != current {
		ctx.State.Current = current
		if err := rt.runPhase("enter", current, engine); err != nil {
			log.Printf("ai: entity=%d script onEnter error: %v", ctx.Entity, err)
			return
		}
	}

	if err := rt.runPhase("update", ctx.State.Current, engine); err != nil {
		log.Printf("ai: entity=%d script update error: %v", ctx.Entity, err)
		return
	}

	next := rt.pending
	rt.pending = ""
	if next == "" || next == ctx.State.Current {
		return
	}
	target, ok := component.ParseEnemyState(string(next))
	if !ok || !s.enterScriptState(ctx, target) {
		return
	}

	prev := ctx.State.Current
	if err := rt.runPhase("exit", prev, engine); err != nil {
		log.Printf("ai: entity=%d script onExit error: %v", ctx.Entity, err)
	}

	ctx.State.Current = next
	if err := rt.runPhase("enter", next, engine); err != nil {
		log.Printf("ai: entity=%d script onEnter error: %v", ctx.Entity, err)
	}
}

// enterScriptState applies a state change requested by a script. Blocking
// and fury go through the boss helpers so their bookkeeping happens.
func (s *AISystem) enterScriptState(ctx *AIActionContext, target component.EnemyState) bool {
	switch target {
	case component.StateBlocking:
		return StartBlock(ctx.World, ctx.Entity, s.combat.BlockDuration, s.combat.FadeDuration)
	case component.StateFury:
		return EnterFury(ctx.World, ctx.Entity, s.combat.FadeDuration)
	}
	return TransitionEnemy(ctx.World, ctx.Entity, target)
}

func (s *AISystem) getScriptRuntime(ent ecs.Entity, scriptPath string) (*aiScriptRuntime, error) {
	if strings.TrimSpace(scriptPath) == "" {
		return nil, fmt.Errorf("empty script path")
	}
	if s.scriptCache == nil {
		s.scriptCache = map[ecs.Entity]*aiScriptRuntime{}
	}

	if rt, ok := s.scriptCache[ent]; ok && rt != nil && rt.scriptPath == scriptPath {
		return rt, nil
	}

	rt, err := compileAIScript(scriptPath)
	if err != nil {
		return nil, err
	}
	s.scriptCache[ent] = rt
	return rt, nil
}

func compileAIScript(scriptPath string) (*aiScriptRuntime, error) {
	scriptBytes, err := prefabs.LoadScript(scriptPath)
	if err != nil {
		return nil, err
	}

	src := string(scriptBytes) + "\n" + aiLifecycleDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	rt := &aiScriptRuntime{
		scriptPath: scriptPath,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
		initial:    component.StateID("idle"),
	}

	// a noop run evaluates the globals, including `initial_state`
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := rt.runPhase("noop", rt.initial, noop); err != nil {
		return nil, err
	}
	if compiled.IsDefined("initial_state") {
		st := strings.TrimSpace(compiled.Get("initial_state").String())
		if st != "" {
			rt.initial = component.StateID(st)
		}
	}

	return rt, nil
}

func (rt *aiScriptRuntime) runPhase(phase string, current component.StateID, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", string(current)); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func floatFunc(name string, fn func() float64) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: fn()}, nil
	}}
}

func boolFunc(name string, fn func() bool) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(fn()), nil
	}}
}

func buildAIScriptEngine(ctx *AIActionContext, rt *aiScriptRuntime, eventSet map[string]bool) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	w, e := ctx.World, ctx.Entity

	request := func(name string) bool {
		if rt == nil || name == "" {
			return false
		}
		rt.pending = component.StateID(name)
		return true
	}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(request(strings.TrimSpace(objectAsString(args[0])))), nil
	}}

	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(eventSet[strings.TrimSpace(objectAsString(args[0]))]), nil
	}}

	values["consume_event"] = &tengo.UserFunction{Name: "consume_event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if eventSet[name] {
			delete(eventSet, name)
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["distance_to_player"] = floatFunc("distance_to_player", func() float64 {
		if !ctx.PlayerFound {
			return -1
		}
		return ctx.ToPlayer().Len()
	})
	values["attack_range"] = floatFunc("attack_range", func() float64 { return ctx.AI.AttackRange })
	values["follow_range"] = floatFunc("follow_range", func() float64 { return ctx.AI.FollowRange })
	values["delta"] = floatFunc("delta", func() float64 { return ctx.Delta })
	values["random"] = floatFunc("random", func() float64 {
		if ctx.system == nil || ctx.system.rng == nil {
			return 0.5
		}
		return ctx.system.rng.Float64()
	})
	values["health_ratio"] = floatFunc("health_ratio", func() float64 {
		hp, ok := ecs.Get(w, e, component.HealthComponent.Kind())
		if !ok || hp.Max <= 0 {
			return 0
		}
		return float64(hp.Current) / float64(hp.Max)
	})

	values["can_attack"] = boolFunc("can_attack", func() bool { return ctx.Enemy.AttackCooldown <= 0 })
	values["can_block"] = boolFunc("can_block", func() bool { return CanBlock(w, e) })
	values["can_fury"] = boolFunc("can_fury", func() bool { return CanFury(w, e) })
	values["optimal_block_reaction"] = boolFunc("optimal_block_reaction", func() bool {
		boss, ok := ecs.Get(w, e, component.BossComponent.Kind())
		return ok && boss.OptimalBlockReaction
	})
	values["start_block"] = boolFunc("start_block", func() bool {
		return CanBlock(w, e) && request(component.StateBlocking.String())
	})
	values["enter_fury"] = boolFunc("enter_fury", func() bool {
		return CanFury(w, e) && request(component.StateFury.String())
	})

	for name, maker := range actionRegistry {
		actionName := name
		makeAction := maker
		values[actionName] = &tengo.UserFunction{Name: actionName, Value: func(args ...tengo.Object) (tengo.Object, error) {
			var arg any
			if len(args) > 0 {
				arg = objectToAny(args[0])
			}
			makeAction(arg)(ctx)
			return tengo.TrueValue, nil
		}}
	}

	for name, maker := range transitionRegistry {
		transitionName := name
		makeTransition := maker
		values[transitionName] = &tengo.UserFunction{Name: transitionName, Value: func(args ...tengo.Object) (tengo.Object, error) {
			var arg any
			if len(args) > 0 {
				arg = objectToAny(args[0])
			}
			return boolObject(makeTransition(arg)(ctx)), nil
		}}
	}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
