package system

import (
	"errors"
	"testing"

	"github.com/milk9111/brawler/assets"
	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

func killAll(w *ecs.World) {
	for _, e := range w.Query(component.EnemyComponent.Kind()) {
		TransitionEnemy(w, e, component.StateDead)
	}
}

func TestWavesEscalateToBoss(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	enc := addEncounter(t, w, component.Encounter{})

	spec := &prefabs.WavesSpec{
		Intermission: 1,
		Waves: []prefabs.WaveSpec{
			{Count: 2, SpawnInterval: 0.5},
			{Count: 3, SpawnInterval: 0.25},
		},
	}
	spawner := NewSpawnSystem(testEnemySpec(), testBossSpec(), testCombatSpec(), newRand(), resolvedLoader, nil)
	waves := NewWaveSystem(spec, spawner, []common.Vec3{{X: 10}, {X: -10}}, common.Vec3{Z: 5})

	run := func(ticks int) {
		for i := 0; i < ticks; i++ {
			tick(w, 0.1, spawner, waves)
		}
	}

	run(1)
	if !enc.Started || enc.CurrentWave != 1 || enc.MaxWave != 3 || enc.IsFinalWave {
		t.Fatalf("expected wave 1 of 3, got %+v", *enc)
	}

	run(10)
	if got := len(w.Query(component.EnemyTagComponent.Kind())); got != 2 {
		t.Fatalf("expected 2 enemies in wave 1, got %d", got)
	}
	if enc.EnemiesRemaining != 2 {
		t.Fatalf("expected 2 remaining, got %d", enc.EnemiesRemaining)
	}

	killAll(w)
	run(5)
	if enc.CurrentWave != 1 || !enc.Cleared {
		t.Fatalf("expected wave 1 cleared and in intermission, got %+v", *enc)
	}
	run(10)
	if enc.CurrentWave != 2 {
		t.Fatalf("expected wave 2 after intermission, got %d", enc.CurrentWave)
	}

	run(15)
	if enc.EnemiesRemaining != 3 {
		t.Fatalf("expected 3 remaining in wave 2, got %d", enc.EnemiesRemaining)
	}

	killAll(w)
	run(20)
	if enc.CurrentWave != 3 || !enc.IsFinalWave {
		t.Fatalf("expected final wave, got %+v", *enc)
	}
	bosses := w.Query(component.BossComponent.Kind())
	if len(bosses) != 1 {
		t.Fatalf("expected one boss, got %d", len(bosses))
	}
	if enc.GameWon {
		t.Fatalf("expected game not yet won")
	}

	boss := bosses[0]
	hp, _ := ecs.Get(w, boss, component.HealthComponent.Kind())
	hp.Current = 5
	bt, _ := ecs.Get(w, boss, component.TransformComponent.Kind())
	bt.X, bt.Z = 0, 2
	NewCombatSystem(testCombatSpec(), newRand(), nil).ResolveAttack(w, player, 0)
	if !enc.GameWon {
		t.Fatalf("expected GameWon after boss death on the final wave")
	}

	run(10)
	if !enc.GameWon || enc.CurrentWave != 3 {
		t.Fatalf("expected encounter to stay won, got %+v", *enc)
	}
	if got := len(w.Query(component.BossComponent.Kind())); got != 1 {
		t.Fatalf("expected no second boss, got %d", got)
	}
}

func TestWaveRetriesFailedBossLoad(t *testing.T) {
	w := newTestWorld(t)
	addPlayer(t, w, common.Vec3{})
	enc := addEncounter(t, w, component.Encounter{})

	spawner := NewSpawnSystem(testEnemySpec(), testBossSpec(), testCombatSpec(), newRand(), resolvedLoader, nil)
	waves := NewWaveSystem(&prefabs.WavesSpec{Intermission: 1}, spawner, nil, common.Vec3{})

	boss := testBossSpec()
	boss.Clips = "missing.yaml"
	spawner.boss = boss

	tick(w, 0.1, spawner, waves)
	if !enc.IsFinalWave || !enc.BossSpawned {
		t.Fatalf("expected boss wave to start, got %+v", *enc)
	}
	tick(w, 0.1, spawner, waves)
	if len(w.Query(component.BossComponent.Kind())) != 0 {
		t.Fatalf("expected no boss from a failed load")
	}

	spawner.boss = testBossSpec()
	tick(w, 0.25, spawner, waves)
	tick(w, 0.25, spawner, waves)
	if enc.BossSpawned || spawner.Pending() != 0 {
		t.Fatalf("expected retry to wait out the delay, got %+v", *enc)
	}

	for i := 0; i < 3; i++ {
		tick(w, 0.25, spawner, waves)
	}
	if len(w.Query(component.BossComponent.Kind())) != 1 {
		t.Fatalf("expected boss after retry")
	}
	if enc.BossFailures != 0 {
		t.Fatalf("expected failures reset after a successful load, got %d", enc.BossFailures)
	}
}

func TestWaveBossLoadAttemptsBounded(t *testing.T) {
	w := newTestWorld(t)
	addPlayer(t, w, common.Vec3{})
	enc := addEncounter(t, w, component.Encounter{})

	calls := 0
	failing := func(name string) *assets.ClipFuture {
		calls++
		return assets.Resolved(nil, errors.New("clip set not found"))
	}
	spawner := NewSpawnSystem(testEnemySpec(), testBossSpec(), testCombatSpec(), newRand(), failing, nil)
	waves := NewWaveSystem(&prefabs.WavesSpec{}, spawner, nil, common.Vec3{})

	for i := 0; i < 600; i++ {
		tick(w, 1.0/60.0, spawner, waves)
	}

	if calls != maxBossAttempts {
		t.Fatalf("expected %d boss load attempts over 10s, got %d", maxBossAttempts, calls)
	}
	if enc.BossFailures != maxBossAttempts || enc.BossSpawned {
		t.Fatalf("expected retries to stop, got %+v", *enc)
	}
	if n := len(w.Query(component.SpawningTagComponent.Kind())); n != 0 {
		t.Fatalf("expected no placeholders left, got %d", n)
	}
	if spawner.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", spawner.Pending())
	}
}

func TestPlayerDefeatedIsFinal(t *testing.T) {
	w := newTestWorld(t)
	player := addPlayer(t, w, common.Vec3{})
	enc := addEncounter(t, w, component.Encounter{})

	spawner := NewSpawnSystem(testEnemySpec(), testBossSpec(), testCombatSpec(), newRand(), resolvedLoader, nil)
	waves := NewWaveSystem(&prefabs.WavesSpec{Intermission: 1, Waves: []prefabs.WaveSpec{{Count: 1, SpawnInterval: 1}}}, spawner, nil, common.Vec3{})

	tick(w, 0.1, spawner, waves)
	hp, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	hp.Current = 0
	tick(w, 0.1, spawner, waves)
	if !enc.PlayerDefeated {
		t.Fatalf("expected player defeated")
	}

	hp.Current = 50
	tick(w, 0.1, spawner, waves)
	if !enc.PlayerDefeated {
		t.Fatalf("expected defeat to stay set")
	}
}
