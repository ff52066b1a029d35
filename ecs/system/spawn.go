package system

import (
	"log"
	"math/rand"

	"github.com/milk9111/brawler/assets"
	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/entity"
	"github.com/milk9111/brawler/prefabs"
)

// ClipLoader starts loading the named clip set.
type ClipLoader func(name string) *assets.ClipFuture

// SpawnDone is called exactly once per spawn request, whether the entity
// became ready or its load failed.
type SpawnDone func(e ecs.Entity, err error)

type pendingSpawn struct {
	entity ecs.Entity
	boss   bool
	future *assets.ClipFuture
	done   SpawnDone
}

// SpawnSystem admits enemies once their clips have loaded. Until then the
// entity only carries a transform and the spawning tag and takes no part in
// combat or AI.
type SpawnSystem struct {
	enemy    *prefabs.EnemySpec
	boss     *prefabs.BossSpec
	combat   *prefabs.CombatSpec
	rng      *rand.Rand
	load     ClipLoader
	feedback *Feedback

	pending []*pendingSpawn
}

func NewSpawnSystem(enemy *prefabs.EnemySpec, boss *prefabs.BossSpec, combat *prefabs.CombatSpec, rng *rand.Rand, load ClipLoader, feedback *Feedback) *SpawnSystem {
	if load == nil {
		load = assets.LoadClipSetAsync
	}
	return &SpawnSystem{enemy: enemy, boss: boss, combat: combat, rng: rng, load: load, feedback: feedback}
}

func (s *SpawnSystem) SpawnEnemy(w *ecs.World, pos common.Vec3, done SpawnDone) ecs.Entity {
	return s.spawn(w, pos, false, s.enemy.Clips, done)
}

func (s *SpawnSystem) SpawnBoss(w *ecs.World, pos common.Vec3, done SpawnDone) ecs.Entity {
	return s.spawn(w, pos, true, s.boss.Clips, done)
}

// Pending returns the number of spawns still loading.
func (s *SpawnSystem) Pending() int {
	return len(s.pending)
}

func (s *SpawnSystem) spawn(w *ecs.World, pos common.Vec3, boss bool, clips string, done SpawnDone) ecs.Entity {
	e, err := entity.NewSpawning(w, pos)
	if err != nil {
		log.Printf("spawn: create placeholder: %v", err)
		if done != nil {
			done(0, err)
		}
		return 0
	}
	s.pending = append(s.pending, &pendingSpawn{
		entity: e,
		boss:   boss,
		future: s.load(clips),
		done:   done,
	})
	return e
}

func (s *SpawnSystem) Update(w *ecs.World) {
	if w == nil || len(s.pending) == 0 {
		return
	}

	list := s.pending
	s.pending = nil
	var kept []*pendingSpawn
	for _, p := range list {
		set, done, err := p.future.Poll()
		if !done {
			kept = append(kept, p)
			continue
		}
		if err == nil {
			err = s.admit(w, p, set)
		}
		if err != nil {
			log.Printf("spawn: entity=%d load failed: %v", p.entity, err)
			ecs.DestroyEntity(w, p.entity)
		}
		if p.done != nil {
			p.done(p.entity, err)
		}
	}
	// callbacks may have queued new spawns
	s.pending = append(kept, s.pending...)
}

func (s *SpawnSystem) admit(w *ecs.World, p *pendingSpawn, set *component.AnimationSet) error {
	if !ecs.IsAlive(w, p.entity) {
		return component.ErrEntityNotAlive
	}
	if !p.boss {
		return entity.ReadyEnemy(w, p.entity, s.enemy, set)
	}
	if err := entity.ReadyBoss(w, p.entity, s.boss, set, SampleMaxFury(s.combat, s.rng)); err != nil {
		return err
	}
	s.feedback.loopSound("boss_theme", 0.6)
	w.Events().Push(ecs.Event{Kind: ecs.EventBossSpawned, Entity: p.entity})
	return nil
}
