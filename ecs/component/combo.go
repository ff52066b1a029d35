package component

// Combo tracks the player's chained attack input.
type Combo struct {
	Index   int
	Timeout float64
}

var ComboComponent = NewComponent[Combo]()
