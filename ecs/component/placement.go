package component

import "github.com/milk9111/brawler/common"

type PlacementMode uint8

const (
	PlacementInactive PlacementMode = iota
	PlacementPreviewing
)

// Placement holds the transient preview while the player is placing a
// barricade. Valid drives the preview colour.
type Placement struct {
	Mode    PlacementMode
	Preview common.Vec3
	Valid   bool
}

var PlacementComponent = NewComponent[Placement]()

// Inventory holds the player's barricade stock and currency.
type Inventory struct {
	Barricades int
	Money      int
}

var InventoryComponent = NewComponent[Inventory]()
