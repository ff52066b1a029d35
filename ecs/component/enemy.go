package component

// EnemyState is the single lifecycle enumeration of an enemy. Blocking,
// BlockReaction and Fury are only reachable by bosses; Dead is terminal.
type EnemyState uint8

const (
	StateIdle EnemyState = iota
	StateRunning
	StateAttacking
	StateHit
	StateBlocking
	StateBlockReaction
	StateFury
	StateDead
)

var enemyStateNames = [...]string{
	StateIdle:          "idle",
	StateRunning:       "running",
	StateAttacking:     "attacking",
	StateHit:           "hit",
	StateBlocking:      "blocking",
	StateBlockReaction: "block_reaction",
	StateFury:          "fury",
	StateDead:          "dead",
}

func (s EnemyState) String() string {
	if int(s) < len(enemyStateNames) {
		return enemyStateNames[s]
	}
	return "unknown"
}

// ParseEnemyState maps an FSM state name back onto the enumeration.
func ParseEnemyState(name string) (EnemyState, bool) {
	for i, n := range enemyStateNames {
		if n == name {
			return EnemyState(i), true
		}
	}
	return 0, false
}

// Enemy stores per-enemy lifecycle data. HitTimer counts down the current
// one-shot reaction (hit, block reaction or fury); AttackCooldown counts down
// to the next strike.
type Enemy struct {
	State          EnemyState
	AttackCooldown float64
	HitTimer       float64
}

var EnemyComponent = NewComponent[Enemy]()
