package component

// StateID identifies an AI FSM state. FSM states share their names with
// EnemyState values.
type StateID string

// EventID identifies an AI FSM event.
type EventID string

const DefaultAIFSMName = "enemy_default"

// AIState stores the current FSM state.
type AIState struct {
	Current StateID
}

// AIContext stores per-entity AI runtime data.
type AIContext struct {
	Timer float64
}

// AIConfig selects the driver for an entity: a compiled FSM spec, a named
// FSM, or a tengo script.
type AIConfig struct {
	FSM    string
	Spec   *AIFSMSpec
	Script string
}

var AIStateComponent = NewComponent[AIState]()
var AIContextComponent = NewComponent[AIContext]()
var AIConfigComponent = NewComponent[AIConfig]()
