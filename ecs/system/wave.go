package system

import (
	"log"

	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
)

const (
	bossRetryDelay  = 1.0
	maxBossAttempts = 5
)

// WaveSystem owns the encounter counters. Regular waves queue their enemies
// at spawn_interval; once a wave is cleared and the intermission has passed
// the next one starts. The last wave spawns the boss alone.
type WaveSystem struct {
	spec        *prefabs.WavesSpec
	spawner     *SpawnSystem
	spawnPoints []common.Vec3
	bossSpawn   common.Vec3
	next        int
}

func NewWaveSystem(spec *prefabs.WavesSpec, spawner *SpawnSystem, spawnPoints []common.Vec3, bossSpawn common.Vec3) *WaveSystem {
	return &WaveSystem{spec: spec, spawner: spawner, spawnPoints: spawnPoints, bossSpawn: bossSpawn}
}

func (s *WaveSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	encEnt, ok := ecs.First(w, component.EncounterComponent.Kind())
	if !ok {
		return
	}
	enc, _ := ecs.Get(w, encEnt, component.EncounterComponent.Kind())
	if enc.GameWon || enc.PlayerDefeated {
		return
	}

	if playerDefeated(w) {
		enc.PlayerDefeated = true
		w.Events().Push(ecs.Event{Kind: ecs.EventPlayerDefeated})
		return
	}

	dt := w.Delta()
	if !enc.Started {
		enc.Started = true
		enc.MaxWave = s.spec.MaxWave()
		s.startWave(w, enc, 1)
	}

	if enc.IsFinalWave && !enc.BossSpawned && enc.BossFailures < maxBossAttempts {
		enc.BossRetry -= dt
		if enc.BossRetry <= 0 {
			s.spawnBoss(w, enc)
		}
	}

	if enc.ToSpawn > 0 {
		enc.SpawnTimer -= dt
		if enc.SpawnTimer <= 0 {
			s.spawner.SpawnEnemy(w, s.nextSpawnPoint(), nil)
			enc.ToSpawn--
			enc.SpawnTimer = s.spec.Waves[enc.CurrentWave-1].SpawnInterval
		}
	}

	enc.Pending = s.spawner.Pending()
	enc.EnemiesRemaining = enc.ToSpawn + enc.Pending + aliveEnemies(w)

	if enc.IsFinalWave || enc.EnemiesRemaining > 0 {
		return
	}

	if !enc.Cleared {
		enc.Cleared = true
		enc.Intermission = s.spec.Intermission
	}
	enc.Intermission -= dt
	if enc.Intermission > 0 {
		return
	}
	s.startWave(w, enc, enc.CurrentWave+1)
}

func (s *WaveSystem) startWave(w *ecs.World, enc *component.Encounter, n int) {
	enc.CurrentWave = n
	enc.Cleared = false
	enc.Intermission = 0
	enc.SpawnTimer = 0

	if n >= enc.MaxWave {
		enc.IsFinalWave = true
		enc.ToSpawn = 0
		s.spawnBoss(w, enc)
	} else {
		enc.ToSpawn = s.spec.Waves[n-1].Count
	}

	w.Events().Push(ecs.Event{Kind: ecs.EventWaveStarted, Data: n})
}

func (s *WaveSystem) spawnBoss(w *ecs.World, enc *component.Encounter) {
	enc.BossSpawned = true
	enc.BossRetry = 0
	s.spawner.SpawnBoss(w, s.bossSpawn, func(_ ecs.Entity, err error) {
		if err == nil {
			enc.BossFailures = 0
			return
		}
		enc.BossSpawned = false
		enc.BossFailures++
		enc.BossRetry = bossRetryDelay
		if enc.BossFailures >= maxBossAttempts {
			log.Printf("wave: boss failed to load %d times, giving up: %v", enc.BossFailures, err)
		}
	})
}

func (s *WaveSystem) nextSpawnPoint() common.Vec3 {
	if len(s.spawnPoints) == 0 {
		return common.Vec3{}
	}
	p := s.spawnPoints[s.next%len(s.spawnPoints)]
	s.next++
	return p
}

func aliveEnemies(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.EnemyComponent.Kind(), func(e ecs.Entity, enemy *component.Enemy) {
		if enemy.State != component.StateDead {
			n++
		}
	})
	return n
}

func playerDefeated(w *ecs.World) bool {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return false
	}
	hp, ok := ecs.Get(w, player, component.HealthComponent.Kind())
	return ok && hp.Current <= 0
}
