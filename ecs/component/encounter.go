package component

// Encounter is the singleton wave state. GameWon and PlayerDefeated are
// one-way flags.
type Encounter struct {
	Started          bool
	CurrentWave      int
	MaxWave          int
	EnemiesRemaining int
	IsFinalWave      bool
	GameWon          bool
	PlayerDefeated   bool

	ToSpawn      int
	Pending      int
	SpawnTimer   float64
	Cleared      bool
	Intermission float64
	BossSpawned  bool

	// BossRetry counts down to the next boss load after a failure.
	// BossFailures stops retries once it reaches the attempt limit.
	BossRetry    float64
	BossFailures int
}

var EncounterComponent = NewComponent[Encounter]()
