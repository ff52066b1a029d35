package component

type LootKind string

const (
	LootGold   LootKind = "gold"
	LootHealth LootKind = "health"
)

// Pickup is a collectible dropped by a defeated enemy. Collection happens
// outside the core; the core only bobs it and lets it expire.
type Pickup struct {
	Kind         LootKind
	Value        int
	BaseY        float64
	BobAmplitude float64
	BobSpeed     float64
	BobPhase     float64
	Initialized  bool
}

var PickupComponent = NewComponent[Pickup]()
