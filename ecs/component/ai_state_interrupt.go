package component

// AIStateInterrupt carries one FSM event from another system, such as
// "cooldown_finished" when a boss may block again. AISystem queues the event
// for the entity's driver on its next update and removes the component.
type AIStateInterrupt struct {
	Event string
}

var AIStateInterruptComponent = NewComponent[AIStateInterrupt]()
