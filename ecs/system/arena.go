package system

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/brawler/assets"
	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/ecs/entity"
	"github.com/milk9111/brawler/levels"
	"github.com/milk9111/brawler/prefabs"
)

// ArenaConfig is everything needed to build an arena.
type ArenaConfig struct {
	Combat    *prefabs.CombatSpec
	Player    *prefabs.PlayerSpec
	Enemy     *prefabs.EnemySpec
	Boss      *prefabs.BossSpec
	Barricade *prefabs.BarricadeSpec
	Waves     *prefabs.WavesSpec
	Level     *levels.Level

	Seed      int64
	Feedback  *Feedback
	LoadClips ClipLoader
}

// LoadArenaConfig reads every spec from prefabs and the named level.
func LoadArenaConfig(levelName string) (ArenaConfig, error) {
	var cfg ArenaConfig
	var err error

	if cfg.Combat, err = prefabs.LoadCombatSpec(); err != nil {
		return cfg, err
	}
	if cfg.Player, err = prefabs.LoadPlayerSpec(); err != nil {
		return cfg, err
	}
	if cfg.Enemy, err = prefabs.LoadEnemySpec(); err != nil {
		return cfg, err
	}
	if cfg.Boss, err = prefabs.LoadBossSpec(); err != nil {
		return cfg, err
	}
	if cfg.Barricade, err = prefabs.LoadBarricadeSpec(); err != nil {
		return cfg, err
	}
	if cfg.Waves, err = prefabs.LoadWavesSpec(); err != nil {
		return cfg, err
	}
	if cfg.Level, err = levels.LoadLevel(levelName); err != nil {
		return cfg, fmt.Errorf("arena: load level %s: %w", levelName, err)
	}
	return cfg, nil
}

// Arena is one running encounter: a world, its player and the ordered
// systems that advance it. Input operations are called before Tick.
type Arena struct {
	World     *ecs.World
	Player    ecs.Entity
	Encounter ecs.Entity

	combat   *prefabs.CombatSpec
	rng      *rand.Rand
	feedback *Feedback

	Combat     *CombatSystem
	Barricades *BarricadeSystem
	Spawner    *SpawnSystem
	Waves      *WaveSystem
	AI         *AISystem

	scheduler *ecs.Scheduler
}

func NewArena(cfg ArenaConfig) (*Arena, error) {
	if cfg.Combat == nil || cfg.Player == nil || cfg.Enemy == nil || cfg.Boss == nil ||
		cfg.Barricade == nil || cfg.Waves == nil || cfg.Level == nil {
		return nil, fmt.Errorf("arena: incomplete config")
	}

	w := ecs.NewWorld()
	rng := rand.New(rand.NewSource(cfg.Seed))
	combat := *cfg.Combat

	playerClips, err := assets.LoadClipSet(cfg.Player.Clips)
	if err != nil {
		return nil, fmt.Errorf("arena: player clips: %w", err)
	}

	barricadeClips, err := assets.LoadClipSet(cfg.Barricade.Clips)
	if err != nil {
		log.Printf("arena: barricade clips: %v", err)
		barricadeClips = nil
	}

	if _, err := entity.LoadLevel(w, cfg.Level, cfg.Barricade.MapHealth, barricadeClips); err != nil {
		return nil, err
	}

	start := common.Vec3{X: cfg.Level.PlayerStart.X, Y: cfg.Level.FloorY, Z: cfg.Level.PlayerStart.Z}
	player, err := entity.NewPlayer(w, cfg.Player, playerClips, start)
	if err != nil {
		return nil, err
	}

	encounter := ecs.CreateEntity(w)
	if err := ecs.Add(w, encounter, component.EncounterComponent.Kind(), &component.Encounter{MaxWave: cfg.Waves.MaxWave()}); err != nil {
		return nil, fmt.Errorf("arena: add encounter: %w", err)
	}

	spawnPoints := make([]common.Vec3, 0, len(cfg.Level.SpawnPoints))
	for _, p := range cfg.Level.SpawnPoints {
		spawnPoints = append(spawnPoints, common.Vec3{X: p.X, Y: cfg.Level.FloorY, Z: p.Z})
	}
	bossSpawn := spawnPoints[0]
	if cfg.Level.BossSpawn != nil {
		bossSpawn = common.Vec3{X: cfg.Level.BossSpawn.X, Y: cfg.Level.FloorY, Z: cfg.Level.BossSpawn.Z}
	}

	a := &Arena{
		World:     w,
		Player:    player,
		Encounter: encounter,
		combat:    &combat,
		rng:       rng,
		feedback:  cfg.Feedback,
	}
	a.Combat = NewCombatSystem(a.combat, rng, cfg.Feedback)
	a.Barricades = NewBarricadeSystem(cfg.Barricade, a.combat, barricadeClips, cfg.Feedback)
	a.Spawner = NewSpawnSystem(cfg.Enemy, cfg.Boss, a.combat, rng, cfg.LoadClips, cfg.Feedback)
	a.Waves = NewWaveSystem(cfg.Waves, a.Spawner, spawnPoints, bossSpawn)
	a.AI = NewAISystem(a.combat, rng, a.Barricades, cfg.Feedback)

	a.scheduler = ecs.NewScheduler(
		a.Spawner,
		NewComboSystem(),
		NewCooldownSystem(),
		NewBossSystem(a.combat),
		NewEnemySystem(a.combat),
		a.AI,
		a.Barricades,
		a.Waves,
		NewPickupHoverSystem(),
		NewVibrationSystem(),
		NewTTLSystem(),
		NewAnimationSystem(),
	)

	return a, nil
}

// CombatSpec returns the tuning in use.
func (a *Arena) CombatSpec() *prefabs.CombatSpec {
	return a.combat
}

// SetCombatSpec replaces the tuning in place so every system sees it.
func (a *Arena) SetCombatSpec(spec *prefabs.CombatSpec) {
	if spec == nil {
		return
	}
	*a.combat = *spec
}

// Tick advances the simulation by dt seconds.
func (a *Arena) Tick(dt float64) {
	a.World.SetDelta(dt)
	a.scheduler.Update(a.World)
}

func (a *Arena) playerAlive() bool {
	hp, ok := ecs.Get(a.World, a.Player, component.HealthComponent.Kind())
	return ok && hp.Current > 0
}

// Attack plays the next combo attack and resolves it along the player's
// facing. With no attack clips it does nothing.
func (a *Arena) Attack() AttackResult {
	if !a.playerAlive() {
		return AttackResult{}
	}
	combo, ok := ecs.Get(a.World, a.Player, component.ComboComponent.Kind())
	if !ok {
		return AttackResult{}
	}
	anim, ok := ecs.Get(a.World, a.Player, component.AnimatorComponent.Kind())
	if !ok {
		return AttackResult{}
	}

	idx, ok := NextCombo(combo, len(anim.Set.Attacks), a.combat.ComboWindow)
	if !ok {
		return AttackResult{}
	}
	PlayClip(anim, anim.Set.Attacks[idx], a.combat.FadeDuration)

	t, _ := ecs.Get(a.World, a.Player, component.TransformComponent.Kind())
	return a.Combat.ResolveAttack(a.World, a.Player, t.Yaw)
}

// Move walks the player along (dx, dz) for dt seconds and turns it to face
// that way. Walls, standing barricades and the map edge stop it.
func (a *Arena) Move(dx, dz, dt float64) {
	if !a.playerAlive() {
		return
	}
	t, ok := ecs.Get(a.World, a.Player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	speed := 0.0
	if p, ok := ecs.Get(a.World, a.Player, component.PlayerComponent.Kind()); ok {
		speed = p.MoveSpeed
	}
	anim, _ := ecs.Get(a.World, a.Player, component.AnimatorComponent.Kind())

	dir := common.Vec3{X: dx, Z: dz}.Norm()
	if dir == (common.Vec3{}) {
		if anim != nil && anim.Set.Running != nil && anim.Active == anim.Set.Running.Name {
			PlayClip(anim, anim.Set.Idle, a.combat.FadeDuration)
		}
		return
	}
	t.Yaw = common.Yaw(dir)

	step := speed * dt
	cw := a.World.CollisionWorld()
	hit := cw.Raycast(t.Position().Add(common.Vec3{Y: 0.5}), dir, step+0.3)
	if hit.Hit && !hit.Floor {
		return
	}
	next := t.Position().Add(dir.Scale(step))
	if !cw.Bounds().Contains(next) {
		return
	}
	t.SetPosition(next)
	if anim != nil && anim.Set.Running != nil && !isAttackClip(anim) {
		PlayClip(anim, anim.Set.Running, a.combat.FadeDuration)
	}
}

func isAttackClip(anim *component.Animator) bool {
	track, ok := anim.Tracks[anim.Active]
	if !ok || track.Finished {
		return false
	}
	for _, c := range anim.Set.Attacks {
		if c.Name == anim.Active {
			return true
		}
	}
	return false
}

func (a *Arena) TogglePlacement() bool {
	return a.Barricades.TogglePlacement(a.World, a.Player)
}

func (a *Arena) MovePreview(x, z float64) bool {
	return a.Barricades.MovePreview(a.World, a.Player, x, z)
}

// PointPreview moves the preview to where a top-down pointer at (x, z) meets
// the arena.
func (a *Arena) PointPreview(x, z float64) bool {
	origin, dir, maxDist := PointerRay(x, z)
	return a.Barricades.MovePreviewRay(a.World, a.Player, origin, dir, maxDist)
}

func (a *Arena) PlaceBarricade() (ecs.Entity, bool) {
	return a.Barricades.PlaceBarricade(a.World, a.Player)
}

func (a *Arena) BuyBarricade() bool {
	return a.Barricades.BuyBarricade(a.World, a.Player)
}

// State returns a copy of the encounter counters.
func (a *Arena) State() component.Encounter {
	enc, ok := ecs.Get(a.World, a.Encounter, component.EncounterComponent.Kind())
	if !ok {
		return component.Encounter{}
	}
	return *enc
}

// Events drains the gameplay events raised since the last call.
func (a *Arena) Events() []ecs.Event {
	return a.World.Events().Drain()
}
