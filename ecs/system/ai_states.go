package system

import (
	"fmt"
	"log"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

type Action func(ctx *AIActionContext)

type AIActionContext struct {
	World        *ecs.World
	Entity       ecs.Entity
	AI           *component.AI
	Enemy        *component.Enemy
	State        *component.AIState
	Context      *component.AIContext
	Config       *component.AIConfig
	Transform    *component.Transform
	Animator     *component.Animator
	PlayerFound  bool
	PlayerEntity ecs.Entity
	Player       common.Vec3
	Delta        float64
	EnqueueEvent func(ev component.EventID)

	system *AISystem
}

// Position returns the entity's position.
func (ctx *AIActionContext) Position() common.Vec3 {
	if ctx == nil || ctx.Transform == nil {
		return common.Vec3{}
	}
	return ctx.Transform.Position()
}

// ToPlayer returns the horizontal vector from the entity to the player.
func (ctx *AIActionContext) ToPlayer() common.Vec3 {
	return ctx.Player.Sub(ctx.Position()).Flat()
}

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

type FSMDef struct {
	Initial     component.StateID
	States      map[component.StateID]StateDef
	Transitions map[component.StateID]map[component.EventID]component.StateID
	Checkers    []TransitionCheckerDef
}

type RawFSM struct {
	Initial string
	States  map[string]RawState
	// Transitions maps from -> event -> to. An event that names a
	// transition checker is evaluated each tick instead of waiting for a
	// sensor.
	Transitions map[string]map[string]any
}

type RawState struct {
	OnEnter []map[string]any
	While   []map[string]any
	OnExit  []map[string]any
}

var actionRegistry = map[string]func(any) Action{
	"print": func(arg any) Action {
		msg := fmt.Sprint(arg)
		return func(ctx *AIActionContext) {
			log.Printf("ai: entity=%d %s", ctx.Entity, msg)
		}
	},
	"set_animation": func(arg any) Action {
		slot := fmt.Sprint(arg)
		return func(ctx *AIActionContext) {
			setAnimation(ctx, slot)
		}
	},
	"move_towards_player": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.AI == nil || ctx.Transform == nil || !ctx.PlayerFound {
				return
			}
			to := ctx.ToPlayer()
			dist := to.Len()
			if dist <= ctx.AI.AttackRange {
				return
			}
			step := ctx.AI.MoveSpeed * ctx.Delta
			if step > dist-ctx.AI.AttackRange {
				step = dist - ctx.AI.AttackRange
			}
			dir := to.Norm()
			if blocked(ctx, dir, step) {
				return
			}
			ctx.Transform.SetPosition(ctx.Position().Add(dir.Scale(step)))
		}
	},
	"face_player": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.Transform == nil || !ctx.PlayerFound {
				return
			}
			to := ctx.ToPlayer()
			if to.Len() > 0 {
				ctx.Transform.Yaw = common.Yaw(to)
			}
		}
	},
	"start_timer": func(arg any) Action {
		seconds := asFloat(arg)
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.Context == nil {
				return
			}
			ctx.Context.Timer = seconds
		}
	},
	"start_attack": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.Context == nil || ctx.AI == nil {
				return
			}
			ctx.Context.Timer = ctx.AI.AttackWindup
			setAnimation(ctx, "attack")
		}
	},
	"tick_timer": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.Context == nil || ctx.EnqueueEvent == nil {
				return
			}
			ctx.Context.Timer -= ctx.Delta
			if ctx.Context.Timer <= 0 {
				ctx.EnqueueEvent(component.EventID("timer_expired"))
			}
		}
	},
	"strike": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.system == nil {
				return
			}
			ctx.system.strike(ctx)
		}
	},
	"emit_event": func(arg any) Action {
		name := fmt.Sprint(arg)
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.EnqueueEvent == nil {
				return
			}
			ctx.EnqueueEvent(component.EventID(name))
		}
	},
}

func setAnimation(ctx *AIActionContext, slot string) {
	if ctx == nil || ctx.Animator == nil || ctx.system == nil {
		return
	}
	clip := ClipForSlot(&ctx.Animator.Set, slot, ctx.system.rng)
	PlayClip(ctx.Animator, clip, ctx.system.combat.FadeDuration)
}

// blocked reports whether a standing obstacle lies within step along dir at
// waist height.
func blocked(ctx *AIActionContext, dir common.Vec3, step float64) bool {
	cw := ctx.World.CollisionWorld()
	if cw == nil {
		return false
	}
	origin := ctx.Position().Add(common.Vec3{Y: 0.5})
	hit := cw.Raycast(origin, dir, step+0.5)
	return hit.Hit && !hit.Floor
}

type TransitionChecker func(ctx *AIActionContext) bool

type TransitionCheckerDef struct {
	From  component.StateID
	Event component.EventID
	Check TransitionChecker
}

var transitionRegistry = map[string]func(any) TransitionChecker{
	"always": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return true }
	},
	"timer_expired": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx != nil && ctx.Context != nil && ctx.Context.Timer <= 0
		}
	},
	"player_within": func(arg any) TransitionChecker {
		r := asFloat(arg)
		return func(ctx *AIActionContext) bool {
			return ctx != nil && ctx.PlayerFound && ctx.ToPlayer().Len() <= r
		}
	},
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

// CompileFSM validates raw and binds its actions. State names must be enemy
// states, since every FSM transition is an enemy state transition.
func CompileFSM(raw RawFSM) (*FSMDef, error) {
	if raw.Initial == "" {
		return nil, fmt.Errorf("fsm: missing initial state")
	}
	if _, ok := raw.States[raw.Initial]; !ok {
		return nil, fmt.Errorf("fsm: initial state %q not defined", raw.Initial)
	}

	states := map[component.StateID]StateDef{}
	build := func(list []map[string]any) ([]Action, error) {
		if len(list) == 0 {
			return nil, nil
		}
		out := make([]Action, 0, len(list))
		for _, e := range list {
			for k, v := range e {
				makeAction, ok := actionRegistry[k]
				if !ok {
					return nil, fmt.Errorf("fsm: unknown action %q", k)
				}
				out = append(out, makeAction(v))
			}
		}
		return out, nil
	}

	for name, s := range raw.States {
		if _, ok := component.ParseEnemyState(name); !ok {
			return nil, fmt.Errorf("fsm: state %q is not an enemy state", name)
		}
		onEnter, err := build(s.OnEnter)
		if err != nil {
			return nil, err
		}
		while, err := build(s.While)
		if err != nil {
			return nil, err
		}
		onExit, err := build(s.OnExit)
		if err != nil {
			return nil, err
		}
		states[component.StateID(name)] = StateDef{
			OnEnter: onEnter,
			While:   while,
			OnExit:  onExit,
		}
	}

	transitions := map[component.StateID]map[component.EventID]component.StateID{}
	var checkers []TransitionCheckerDef

	for from, evs := range raw.Transitions {
		fromID := component.StateID(from)
		if _, ok := states[fromID]; !ok {
			return nil, fmt.Errorf("fsm: transitions from undefined state %q", from)
		}
		transitions[fromID] = map[component.EventID]component.StateID{}

		for evName, toVal := range evs {
			var toState string
			var arg any
			switch v := toVal.(type) {
			case string:
				toState = v
			case map[string]any:
				toState, _ = v["to"].(string)
				arg = v["arg"]
			}
			if toState == "" {
				return nil, fmt.Errorf("fsm: missing to state for transition %s.%s", from, evName)
			}
			if _, ok := component.ParseEnemyState(toState); !ok {
				return nil, fmt.Errorf("fsm: transition %s.%s targets unknown state %q", from, evName, toState)
			}

			maker, isChecker := transitionRegistry[evName]
			if !isChecker {
				transitions[fromID][component.EventID(evName)] = component.StateID(toState)
				continue
			}
			eid := component.EventID(fmt.Sprintf("__cond_%s_%s", from, evName))
			transitions[fromID][eid] = component.StateID(toState)
			checkers = append(checkers, TransitionCheckerDef{From: fromID, Event: eid, Check: maker(arg)})
		}
	}

	return &FSMDef{
		Initial:     component.StateID(raw.Initial),
		States:      states,
		Transitions: transitions,
		Checkers:    checkers,
	}, nil
}

func LoadFSMFromPrefab(path string) (*FSMDef, error) {
	spec, err := prefabs.LoadFSMSpec(path)
	if err != nil {
		return nil, err
	}
	return CompileFSM(rawFromPrefab(spec))
}

func rawFromPrefab(spec *prefabs.FSMSpec) RawFSM {
	raw := RawFSM{
		Initial:     spec.Initial,
		States:      map[string]RawState{},
		Transitions: map[string]map[string]any{},
	}
	for from, evs := range spec.Transitions {
		m := map[string]any{}
		for ev, to := range evs {
			m[ev] = to
		}
		raw.Transitions[from] = m
	}
	for name, s := range spec.States {
		raw.States[name] = RawState{OnEnter: s.OnEnter, While: s.While, OnExit: s.OnExit}
	}
	return raw
}

// CompileFSMSpec compiles an FSM built in code rather than loaded from YAML.
func CompileFSMSpec(spec component.AIFSMSpec) (*FSMDef, error) {
	raw := RawFSM{
		Initial:     spec.Initial,
		States:      map[string]RawState{},
		Transitions: map[string]map[string]any{},
	}
	for from, evs := range spec.Transitions {
		m := map[string]any{}
		for ev, to := range evs {
			m[ev] = to
		}
		raw.Transitions[from] = m
	}
	for name, s := range spec.States {
		raw.States[name] = RawState{OnEnter: s.OnEnter, While: s.While, OnExit: s.OnExit}
	}
	return CompileFSM(raw)
}

// DefaultEnemyFSM is used when an enemy names no FSM file.
func DefaultEnemyFSM() *FSMDef {
	return &FSMDef{
		Initial: component.StateID("idle"),
		States: map[component.StateID]StateDef{
			component.StateID("idle"): {
				OnEnter: []Action{actionRegistry["set_animation"]("idle")},
			},
			component.StateID("running"): {
				OnEnter: []Action{actionRegistry["set_animation"]("running")},
				While: []Action{
					actionRegistry["face_player"](nil),
					actionRegistry["move_towards_player"](nil),
				},
			},
			component.StateID("attacking"): {
				OnEnter: []Action{
					actionRegistry["face_player"](nil),
					actionRegistry["start_attack"](nil),
				},
				While:  []Action{actionRegistry["tick_timer"](nil)},
				OnExit: []Action{actionRegistry["strike"](nil)},
			},
		},
		Transitions: map[component.StateID]map[component.EventID]component.StateID{
			component.StateID("idle"): {
				component.EventID("sees_player"):     component.StateID("running"),
				component.EventID("in_attack_range"): component.StateID("attacking"),
			},
			component.StateID("running"): {
				component.EventID("loses_player"):    component.StateID("idle"),
				component.EventID("in_attack_range"): component.StateID("attacking"),
			},
			component.StateID("attacking"): {
				component.EventID("timer_expired"): component.StateID("running"),
				component.EventID("loses_player"):  component.StateID("idle"),
			},
		},
	}
}
