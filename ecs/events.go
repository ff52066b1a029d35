package ecs

// EventKind identifies gameplay events raised by systems.
type EventKind string

const (
	EventAttackMissed       EventKind = "attack_missed"
	EventEnemyHit           EventKind = "enemy_hit"
	EventEnemyKilled        EventKind = "enemy_killed"
	EventBlockImpact        EventKind = "block_impact"
	EventHelmetLost         EventKind = "helmet_lost"
	EventLootDropped        EventKind = "loot_dropped"
	EventBarricadePlaced    EventKind = "barricade_placed"
	EventBarricadeDestroyed EventKind = "barricade_destroyed"
	EventWaveStarted        EventKind = "wave_started"
	EventBossSpawned        EventKind = "boss_spawned"
	EventGameWon            EventKind = "game_won"
	EventPlayerDefeated     EventKind = "player_defeated"
)

// Event is a gameplay event payload.
type Event struct {
	Kind   EventKind
	Entity Entity
	Data   any
}

// maxQueuedEvents bounds the queue when nobody drains it.
const maxQueuedEvents = 256

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event, dropping the oldest once the queue is full.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	if len(q.items) >= maxQueuedEvents {
		q.items = q.items[1:]
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
