package component

// Cooldown is a countdown in seconds. When it runs out the component is
// removed and an AI entity receives a "cooldown_finished" interrupt.
type Cooldown struct {
	Remaining float64
}

var CooldownComponent = NewComponent[Cooldown]()
