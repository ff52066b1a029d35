package component

// AIFSMSpec is an enemy behaviour graph decoded from a prefab. State names
// must be EnemyState names; Transitions maps state -> event -> next state.
type AIFSMSpec struct {
	Initial     string
	States      map[string]AIFSMStateSpec
	Transitions map[string]map[string]string
}

// AIFSMStateSpec lists the action maps run on entering a state, every tick
// while in it, and on leaving it.
type AIFSMStateSpec struct {
	OnEnter []map[string]any
	While   []map[string]any
	OnExit  []map[string]any
}
