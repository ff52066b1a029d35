package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// CombatSpec holds the tuning constants the combat core consumes.
type CombatSpec struct {
	AttackRange        float64       `yaml:"attack_range"`
	AttackConeDeg      float64       `yaml:"attack_cone_deg"`
	HitDamage          int           `yaml:"hit_damage"`
	ComboWindow        float64       `yaml:"combo_window"`
	MoneyPerKill       int           `yaml:"money_per_kill"`
	FadeDuration       float64       `yaml:"fade_duration"`
	BlockDuration      float64       `yaml:"block_duration"`
	BlockCooldown      float64       `yaml:"block_cooldown"`
	OptimalBlockChance float64       `yaml:"optimal_block_chance"`
	FuryMin            int           `yaml:"fury_min"`
	FuryMax            int           `yaml:"fury_max"`
	StackTolerance     float64       `yaml:"stack_tolerance"`
	PreviewDistance    float64       `yaml:"preview_distance"`
	CorpseLinger       float64       `yaml:"corpse_linger"`
	Loot               LootSpec      `yaml:"loot"`
	Vibration          VibrationSpec `yaml:"vibration"`
}

type LootSpec struct {
	GoldChance   float64 `yaml:"gold_chance"`
	GoldValue    int     `yaml:"gold_value"`
	HealthValue  int     `yaml:"health_value"`
	TTL          float64 `yaml:"ttl"`
	BobAmplitude float64 `yaml:"bob_amplitude"`
	BobSpeed     float64 `yaml:"bob_speed"`
}

type VibrationSpec struct {
	Duration  float64 `yaml:"duration"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

func LoadCombatSpec() (*CombatSpec, error) {
	spec, err := LoadSpec[CombatSpec]("combat.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TransformSpec struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

type AISpec struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	FollowRange    float64 `yaml:"follow_range"`
	AttackRange    float64 `yaml:"attack_range"`
	AttackWindup   float64 `yaml:"attack_windup"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
	Damage         int     `yaml:"damage"`
}

type PlayerSpec struct {
	Name       string        `yaml:"name"`
	MoveSpeed  float64       `yaml:"move_speed"`
	Health     int           `yaml:"health"`
	Barricades int           `yaml:"barricades"`
	Money      int           `yaml:"money"`
	Clips      string        `yaml:"clips"`
	Transform  TransformSpec `yaml:"transform"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type EnemySpec struct {
	Name   string `yaml:"name"`
	Health int    `yaml:"health"`
	Helmet bool   `yaml:"helmet"`
	Clips  string `yaml:"clips"`
	FSM    string `yaml:"fsm"`
	AI     AISpec `yaml:"ai"`
}

func LoadEnemySpec() (*EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec]("enemy.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BossSpec struct {
	Name   string `yaml:"name"`
	Health int    `yaml:"health"`
	Helmet bool   `yaml:"helmet"`
	Clips  string `yaml:"clips"`
	Script string `yaml:"script"`
	AI     AISpec `yaml:"ai"`
}

func LoadBossSpec() (*BossSpec, error) {
	spec, err := LoadSpec[BossSpec]("boss.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BarricadeSpec struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Depth        float64 `yaml:"depth"`
	PlayerHealth int     `yaml:"player_health"`
	MapHealth    int     `yaml:"map_health"`
	Cost         int     `yaml:"cost"`
	Clips        string  `yaml:"clips"`
}

func LoadBarricadeSpec() (*BarricadeSpec, error) {
	spec, err := LoadSpec[BarricadeSpec]("barricade.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type WaveSpec struct {
	Count         int     `yaml:"count"`
	SpawnInterval float64 `yaml:"spawn_interval"`
}

// WavesSpec lists the regular waves. The wave after the last entry is the
// final wave and spawns the boss instead.
type WavesSpec struct {
	Intermission float64    `yaml:"intermission"`
	Waves        []WaveSpec `yaml:"waves"`
}

// MaxWave is the number of the final (boss) wave.
func (s *WavesSpec) MaxWave() int {
	return len(s.Waves) + 1
}

func LoadWavesSpec() (*WavesSpec, error) {
	spec, err := LoadSpec[WavesSpec]("waves.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type FSMSpec struct {
	Initial     string                       `yaml:"initial"`
	States      map[string]FSMStateSpec      `yaml:"states"`
	Transitions map[string]map[string]string `yaml:"transitions"`
}

type FSMStateSpec struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

func LoadFSMSpec(filename string) (*FSMSpec, error) {
	spec, err := LoadSpec[FSMSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
