package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]()

// SpawningTag marks an entity whose assets are still loading. It does not
// take part in the simulation until the tag is removed.
type SpawningTag struct{}

var SpawningTagComponent = NewComponent[SpawningTag]()
