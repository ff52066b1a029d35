package system

import (
	"math/rand"
	"testing"

	"github.com/milk9111/brawler/assets"
	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/entity"
	"github.com/milk9111/brawler/prefabs"
)

func testCombatSpec() *prefabs.CombatSpec {
	return &prefabs.CombatSpec{
		AttackRange:        10,
		AttackConeDeg:      60,
		HitDamage:          20,
		ComboWindow:        1,
		MoneyPerKill:       10,
		FadeDuration:       0.2,
		BlockDuration:      2,
		BlockCooldown:      2,
		OptimalBlockChance: 0.2,
		FuryMin:            3,
		FuryMax:            5,
		StackTolerance:     0.5,
		PreviewDistance:    2,
		CorpseLinger:       1,
		Loot: prefabs.LootSpec{
			GoldChance:  0.5,
			GoldValue:   10,
			HealthValue: 20,
			TTL:         10,
		},
		Vibration: prefabs.VibrationSpec{Duration: 0.3, Amplitude: 0.1, Frequency: 20},
	}
}

func testEnemySpec() *prefabs.EnemySpec {
	return &prefabs.EnemySpec{
		Name:   "grunt",
		Health: 100,
		Helmet: true,
		Clips:  "enemy.yaml",
		AI: prefabs.AISpec{
			MoveSpeed:      2,
			FollowRange:    30,
			AttackRange:    1.5,
			AttackWindup:   0.5,
			AttackCooldown: 1,
			Damage:         10,
		},
	}
}

func testBossSpec() *prefabs.BossSpec {
	return &prefabs.BossSpec{
		Name:   "warlord",
		Health: 200,
		Clips:  "boss.yaml",
		Script: "boss.tengo",
		AI: prefabs.AISpec{
			MoveSpeed:      2,
			FollowRange:    30,
			AttackRange:    2,
			AttackWindup:   0.5,
			AttackCooldown: 1,
			Damage:         20,
		},
	}
}

func testBarricadeSpec() *prefabs.BarricadeSpec {
	return &prefabs.BarricadeSpec{Width: 2, Height: 1, Depth: 0.5, PlayerHealth: 100, MapHealth: 500, Cost: 25}
}

func mustClips(t *testing.T, name string) *component.AnimationSet {
	t.Helper()
	set, err := assets.LoadClipSet(name)
	if err != nil {
		t.Fatalf("load clips %s: %v", name, err)
	}
	return set
}

// resolvedLoader loads clips synchronously so spawns are admitted on the
// next SpawnSystem pass.
func resolvedLoader(name string) *assets.ClipFuture {
	set, err := assets.LoadClipSet(name)
	return assets.Resolved(set, err)
}

// newTestWorld builds a 40x40 arena with a floor and nothing else.
func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	cw := ecs.NewCollisionWorld(ecs.Bounds{MinX: -20, MaxX: 20, MinZ: -20, MaxZ: 20})
	cw.Add(&ecs.Obstacle{
		Floor: true,
		Box: ecs.Box{
			Min: common.Vec3{X: -20, Y: -1, Z: -20},
			Max: common.Vec3{X: 20, Y: 0, Z: 20},
		},
	})
	w.SetCollisionWorld(cw)
	return w
}

func addPlayer(t *testing.T, w *ecs.World, pos common.Vec3) ecs.Entity {
	t.Helper()
	spec := &prefabs.PlayerSpec{Name: "player", MoveSpeed: 5, Health: 100, Barricades: 3, Clips: "player.yaml"}
	e, err := entity.NewPlayer(w, spec, mustClips(t, "player"), pos)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	return e
}

func addEnemy(t *testing.T, w *ecs.World, pos common.Vec3, health int) ecs.Entity {
	t.Helper()
	e, err := entity.NewSpawning(w, pos)
	if err != nil {
		t.Fatalf("NewSpawning: %v", err)
	}
	spec := testEnemySpec()
	spec.Health = 100
	if err := entity.ReadyEnemy(w, e, spec, mustClips(t, "enemy")); err != nil {
		t.Fatalf("ReadyEnemy: %v", err)
	}
	hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	hp.Current = health
	return e
}

func addBoss(t *testing.T, w *ecs.World, pos common.Vec3, maxFury int) ecs.Entity {
	t.Helper()
	e, err := entity.NewSpawning(w, pos)
	if err != nil {
		t.Fatalf("NewSpawning: %v", err)
	}
	if err := entity.ReadyBoss(w, e, testBossSpec(), mustClips(t, "boss"), maxFury); err != nil {
		t.Fatalf("ReadyBoss: %v", err)
	}
	return e
}

func addEncounter(t *testing.T, w *ecs.World, enc component.Encounter) *component.Encounter {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.EncounterComponent.Kind(), &enc); err != nil {
		t.Fatalf("add encounter: %v", err)
	}
	got, _ := ecs.Get(w, e, component.EncounterComponent.Kind())
	return got
}

func enemyState(t *testing.T, w *ecs.World, e ecs.Entity) component.EnemyState {
	t.Helper()
	enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	if !ok {
		t.Fatalf("entity %d has no enemy component", e)
	}
	return enemy.State
}

func health(t *testing.T, w *ecs.World, e ecs.Entity) int {
	t.Helper()
	hp, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		t.Fatalf("entity %d has no health", e)
	}
	return hp.Current
}

// recorder counts feedback hook calls.
type recorder struct {
	sounds  map[string]int
	effects map[string]int
	loot    []component.LootKind
}

func newRecorder() (*recorder, *Feedback) {
	r := &recorder{sounds: map[string]int{}, effects: map[string]int{}}
	return r, &Feedback{
		PlaySound:    func(name string, _ float64) { r.sounds[name]++ },
		LoopSound:    func(name string, _ float64) { r.sounds[name]++ },
		SpawnEffect:  func(name string, _ common.Vec3) { r.effects[name]++ },
		RegisterLoot: func(kind component.LootKind, _ common.Vec3) { r.loot = append(r.loot, kind) },
	}
}

func tick(w *ecs.World, dt float64, systems ...ecs.System) {
	w.SetDelta(dt)
	for _, s := range systems {
		s.Update(w)
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(7))
}
