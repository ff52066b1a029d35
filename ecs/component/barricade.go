package component

// Barricade is an obstacle with health. Its collision volume is registered
// in the world's CollisionWorld under the same entity.
type Barricade struct {
	PlayerPlaced bool
	Width        float64
	Height       float64
	Depth        float64
	Destroyed    bool
}

var BarricadeComponent = NewComponent[Barricade]()
