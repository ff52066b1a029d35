package system

import (
	"math"
	"testing"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	cfg, err := LoadArenaConfig("arena.json")
	if err != nil {
		t.Fatalf("LoadArenaConfig: %v", err)
	}
	cfg.Seed = 1
	cfg.LoadClips = resolvedLoader

	a, err := NewArena(cfg)
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	return a
}

func TestNewArena(t *testing.T) {
	a := newTestArena(t)

	if got := a.State().MaxWave; got != 4 {
		t.Fatalf("expected 4 waves including the boss, got %d", got)
	}
	if got := len(a.World.Query(component.BarricadeComponent.Kind())); got != 2 {
		t.Fatalf("expected 2 map barricades, got %d", got)
	}
	for _, e := range a.World.Query(component.BarricadeComponent.Kind()) {
		if got := health(t, a.World, e); got != 500 {
			t.Fatalf("expected map barricade health 500, got %d", got)
		}
	}
	if _, err := NewArena(ArenaConfig{}); err == nil {
		t.Fatalf("expected error for an empty config")
	}
}

func TestArenaAttackMissAndCombo(t *testing.T) {
	a := newTestArena(t)

	result := a.Attack()
	if !result.Missed {
		t.Fatalf("expected a miss in an empty arena, got %+v", result)
	}
	anim, _ := ecs.Get(a.World, a.Player, component.AnimatorComponent.Kind())
	if anim.Active != "punch_left" {
		t.Fatalf("expected first combo attack, got %q", anim.Active)
	}

	a.Tick(0.1)
	a.Attack()
	if anim.Active != "punch_right" {
		t.Fatalf("expected second combo attack, got %q", anim.Active)
	}
}

func TestArenaMoveStopsAtWall(t *testing.T) {
	a := newTestArena(t)
	pt, _ := ecs.Get(a.World, a.Player, component.TransformComponent.Kind())

	a.Move(1, 0, 0.5)
	if math.Abs(pt.X-3) > 1e-9 {
		t.Fatalf("expected player at x=3, got %v", pt.X)
	}
	if math.Abs(pt.Yaw-math.Pi/2) > 1e-9 {
		t.Fatalf("expected player facing +x, got yaw %v", pt.Yaw)
	}

	a.Move(1, 0, 1)
	if math.Abs(pt.X-3) > 1e-9 {
		t.Fatalf("expected wall to stop the player, got x=%v", pt.X)
	}
}

func TestArenaCombatSpecReload(t *testing.T) {
	a := newTestArena(t)
	e := addEnemy(t, a.World, common.Vec3{Z: 2}, 100)

	spec := *a.CombatSpec()
	spec.HitDamage = 35
	a.SetCombatSpec(&spec)

	a.Attack()
	if got := health(t, a.World, e); got != 65 {
		t.Fatalf("expected reloaded damage to apply, got health %d", got)
	}
}

func TestArenaPlaceBarricade(t *testing.T) {
	a := newTestArena(t)

	if !a.TogglePlacement() {
		t.Fatalf("expected placement mode")
	}
	if !a.PointPreview(4, 4) {
		t.Fatalf("expected pointer to hit the floor")
	}
	e, ok := a.PlaceBarricade()
	if !ok {
		t.Fatalf("expected barricade placed")
	}
	bar, _ := ecs.Get(a.World, e, component.BarricadeComponent.Kind())
	if !bar.PlayerPlaced {
		t.Fatalf("expected player placed barricade")
	}

	placed := false
	for _, evt := range a.Events() {
		if evt.Kind == ecs.EventBarricadePlaced && evt.Entity == e {
			placed = true
		}
	}
	if !placed {
		t.Fatalf("expected barricade_placed event")
	}
}

func TestArenaRunsFirstWave(t *testing.T) {
	a := newTestArena(t)

	for i := 0; i < 60; i++ {
		a.Tick(1.0 / 30)
	}

	state := a.State()
	if !state.Started || state.CurrentWave != 1 {
		t.Fatalf("expected wave 1 running, got %+v", state)
	}
	if got := len(a.World.Query(component.EnemyTagComponent.Kind())); got == 0 {
		t.Fatalf("expected enemies to have spawned")
	}
	if state.EnemiesRemaining != 3 {
		t.Fatalf("expected 3 enemies remaining, got %d", state.EnemiesRemaining)
	}
}
