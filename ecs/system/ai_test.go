package system

import (
	"strings"
	"testing"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/entity"
)

func TestLoadEnemyFSMPrefab(t *testing.T) {
	fsm, err := LoadFSMFromPrefab("enemy_fsm.yaml")
	if err != nil {
		t.Fatalf("LoadFSMFromPrefab: %v", err)
	}
	if fsm.Initial != "idle" {
		t.Fatalf("expected initial idle, got %q", fsm.Initial)
	}
	for _, st := range []component.StateID{"idle", "running", "attacking"} {
		if _, ok := fsm.States[st]; !ok {
			t.Fatalf("expected state %q", st)
		}
	}
	if len(fsm.Checkers) != 1 || fsm.Checkers[0].From != "attacking" {
		t.Fatalf("expected one timer checker on attacking, got %+v", fsm.Checkers)
	}
}

func TestCompileFSMErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  RawFSM
		want string
	}{
		{
			name: "missing initial",
			raw:  RawFSM{States: map[string]RawState{"idle": {}}},
			want: "missing initial",
		},
		{
			name: "not an enemy state",
			raw:  RawFSM{Initial: "patrol", States: map[string]RawState{"patrol": {}}},
			want: "not an enemy state",
		},
		{
			name: "unknown action",
			raw: RawFSM{Initial: "idle", States: map[string]RawState{
				"idle": {OnEnter: []map[string]any{{"dance": true}}},
			}},
			want: "unknown action",
		},
		{
			name: "unknown target",
			raw: RawFSM{
				Initial:     "idle",
				States:      map[string]RawState{"idle": {}},
				Transitions: map[string]map[string]any{"idle": {"sees_player": "flee"}},
			},
			want: "unknown state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFSM(tt.raw)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func newTestAI(t *testing.T) (*AISystem, *BarricadeSystem) {
	t.Helper()
	barricades := newTestBarricades(t, false)
	return NewAISystem(testCombatSpec(), newRand(), barricades, nil), barricades
}

func addFSMEnemy(t *testing.T, w *ecs.World, pos common.Vec3) ecs.Entity {
	t.Helper()
	e := addEnemy(t, w, pos, 100)
	cfg, _ := ecs.Get(w, e, component.AIConfigComponent.Kind())
	cfg.FSM = "enemy_fsm.yaml"
	return e
}

func TestEnemyChasesPlayer(t *testing.T) {
	w := newTestWorld(t)
	addPlayer(t, w, common.Vec3{})
	e := addFSMEnemy(t, w, common.Vec3{Z: 10})
	ai, _ := newTestAI(t)

	for i := 0; i < 3; i++ {
		tick(w, 0.5, ai)
	}

	if got := enemyState(t, w, e); got != component.StateRunning {
		t.Fatalf("expected running, got %s", got)
	}
	et, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if et.Z >= 10 || et.Z < 5 {
		t.Fatalf("expected enemy to close in, at z=%v", et.Z)
	}
	anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if anim.Active != "running" {
		t.Fatalf("expected running clip, got %q", anim.Active)
	}
}

func TestEnemyAttacksPlayerInRange(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	e := addFSMEnemy(t, w, common.Vec3{Z: 1})
	ai, _ := newTestAI(t)

	tick(w, 0.1, ai)
	if got := enemyState(t, w, e); got != component.StateAttacking {
		t.Fatalf("expected attacking, got %s", got)
	}
	if got := health(t, w, player); got != 100 {
		t.Fatalf("expected no damage during windup, got %d", got)
	}

	for i := 0; i < 8; i++ {
		tick(w, 0.1, ai)
	}
	if got := health(t, w, player); got != 90 {
		t.Fatalf("expected one strike for 10, got health %d", got)
	}
	if got := enemyState(t, w, e); got != component.StateRunning {
		t.Fatalf("expected running while cooling down, got %s", got)
	}
}

func TestEnemyHitInterruptsAttack(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	e := addFSMEnemy(t, w, common.Vec3{Z: 1})
	ai, _ := newTestAI(t)
	enemies := NewEnemySystem(nil)

	tick(w, 0.1, enemies, ai)
	NewCombatSystem(testCombatSpec(), newRand(), nil).ResolveAttack(w, player, 0)
	if got := enemyState(t, w, e); got != component.StateHit {
		t.Fatalf("expected hit, got %s", got)
	}

	tick(w, 0.3, enemies, ai)
	if got := enemyState(t, w, e); got != component.StateHit {
		t.Fatalf("expected AI to leave the hit reaction alone, got %s", got)
	}
	if got := health(t, w, player); got != 100 {
		t.Fatalf("expected interrupted attack to deal nothing, got %d", got)
	}

	tick(w, 0.2, enemies, ai)
	if got := enemyState(t, w, e); got == component.StateHit {
		t.Fatalf("expected enemy to recover from the hit")
	}
}

func TestEnemyStrikesBarricadeInTheWay(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	e := addFSMEnemy(t, w, common.Vec3{Z: 3})
	ai, _ := newTestAI(t)

	bar, err := entity.NewBarricade(w, common.Vec3{Z: 2}, entity.BarricadeSize{Width: 2, Height: 1, Depth: 0.5}, 100, true, nil)
	if err != nil {
		t.Fatalf("NewBarricade: %v", err)
	}

	tick(w, 0.1, ai)
	if got := enemyState(t, w, e); got != component.StateAttacking {
		t.Fatalf("expected attacking the barricade, got %s", got)
	}
	for i := 0; i < 8; i++ {
		tick(w, 0.1, ai)
	}

	if got := health(t, w, bar); got != 90 {
		t.Fatalf("expected barricade health 90, got %d", got)
	}
	if got := health(t, w, player); got != 100 {
		t.Fatalf("expected player untouched behind the barricade, got %d", got)
	}
	if !ecs.Has(w, bar, component.VibrationComponent.Kind()) {
		t.Fatalf("expected barricade to shake")
	}
}

func TestEnemyIgnoresDefeatedPlayer(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	e := addFSMEnemy(t, w, common.Vec3{Z: 5})
	ai, _ := newTestAI(t)

	tick(w, 0.1, ai)
	hp, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	hp.Current = 0
	tick(w, 0.1, ai)

	if got := enemyState(t, w, e); got != component.StateIdle {
		t.Fatalf("expected idle once the player is down, got %s", got)
	}
}

func TestBossScriptChases(t *testing.T) {
	w := newTestWorld(t)
	addPlayer(t, w, common.Vec3{})
	boss := addBoss(t, w, common.Vec3{Z: 10}, 3)
	ai, _ := newTestAI(t)

	for i := 0; i < 3; i++ {
		tick(w, 0.5, ai)
	}

	if got := enemyState(t, w, boss); got != component.StateRunning {
		t.Fatalf("expected boss running, got %s", got)
	}
	bt, _ := ecs.Get(w, boss, component.TransformComponent.Kind())
	if bt.Z >= 10 {
		t.Fatalf("expected boss to close in, at z=%v", bt.Z)
	}
}

func TestBossScriptFuryAfterOptimalReaction(t *testing.T) {
	w := newTestWorld(t)
	addPlayer(t, w, common.Vec3{})
	boss := addBoss(t, w, common.Vec3{Z: 10}, 3)
	ai, _ := newTestAI(t)

	b, _ := ecs.Get(w, boss, component.BossComponent.Kind())
	b.OptimalBlockReaction = true
	if err := ecs.Add(w, boss, component.AIStateInterruptComponent.Kind(), &component.AIStateInterrupt{Event: "cooldown_finished"}); err != nil {
		t.Fatalf("add interrupt: %v", err)
	}

	tick(w, 0.1, ai)
	if got := enemyState(t, w, boss); got != component.StateFury {
		t.Fatalf("expected fury, got %s", got)
	}
	if b.FuryCount != 1 || b.OptimalBlockReaction {
		t.Fatalf("expected one fury spent and reaction consumed, got %+v", *b)
	}
	anim, _ := ecs.Get(w, boss, component.AnimatorComponent.Kind())
	if anim.Active != "fury" {
		t.Fatalf("expected fury clip, got %q", anim.Active)
	}
}

func TestCompileBossScript(t *testing.T) {
	rt, err := compileAIScript("boss.tengo")
	if err != nil {
		t.Fatalf("compileAIScript: %v", err)
	}
	if rt.initial != "idle" {
		t.Fatalf("expected initial idle, got %q", rt.initial)
	}
	if _, err := compileAIScript("missing.tengo"); err == nil {
		t.Fatalf("expected error for a missing script")
	}
}
