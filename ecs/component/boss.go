package component

// Boss stores boss-only sub-state. MaxFuryCount is sampled once at spawn.
type Boss struct {
	Blocking             bool
	BlockRemaining       float64
	FuryCount            int
	MaxFuryCount         int
	OptimalBlockReaction bool
}

var BossComponent = NewComponent[Boss]()
