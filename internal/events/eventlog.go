// Package events provides the append-only journal of everything that happens
// in a game session. The UI renders it and the store persists it.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeBattleStarted   EventType = "BATTLE_STARTED"
	EventTypeDamageDealt     EventType = "DAMAGE_DEALT"
	EventTypeCriticalHit     EventType = "CRITICAL_HIT"
	EventTypeAttackEvaded    EventType = "ATTACK_EVADED"
	EventTypeItemUsed        EventType = "ITEM_USED"
	EventTypeItemRefused     EventType = "ITEM_REFUSED"
	EventTypeEscapeAttempted EventType = "ESCAPE_ATTEMPTED"
	EventTypeXPGained        EventType = "XP_GAINED"
	EventTypeLevelUp         EventType = "LEVEL_UP"
	EventTypeHealed          EventType = "HEALED"
	EventTypeLootDropped     EventType = "LOOT_DROPPED"
	EventTypeBattleEnded     EventType = "BATTLE_ENDED"
	EventTypeItemPickedUp    EventType = "ITEM_PICKED_UP"
	EventTypePlayerMoved     EventType = "PLAYER_MOVED"
	EventTypeRegionEntered   EventType = "REGION_ENTERED"
	EventTypeStatsAllocated  EventType = "STATS_ALLOCATED"
	EventTypeGameSaved       EventType = "GAME_SAVED"
	EventTypeGameOver        EventType = "GAME_OVER"
	EventTypeVictory         EventType = "VICTORY"
)

// GameEvent represents an immutable record of an action in the game.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`  // Who performed the action
	TargetID  string      `json:"target_id"` // Who was affected (optional)
	Payload   interface{} `json:"payload"`   // Event-specific data
	Turn      int         `json:"turn"`      // Battle turn, 0 outside battle
	Message   string      `json:"message"`   // Human-readable line for the journal
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
	onError   func(error)
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// SetPersister swaps the durable store, e.g. after a save is loaded.
func (el *EventLog) SetPersister(p EventPersister) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.persister = p
}

// OnPersistError registers a callback for failed writes. The event stays in memory.
func (el *EventLog) OnPersistError(fn func(error)) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.onError = fn
}

// Append adds a new event to the log, filling in ID and timestamp when empty.
// Events are immutable once appended. Persistence is synchronous.
func (el *EventLog) Append(event GameEvent) GameEvent {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	persister, onError := el.persister, el.onError
	el.mu.Unlock()

	if persister != nil {
		if err := persister.Append(event); err != nil && onError != nil {
			onError(err)
		}
	}
	return event
}

// Len returns the number of events recorded.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// Since returns a copy of the events appended after the first n.
func (el *EventLog) Since(n int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(el.events) {
		return nil
	}
	out := make([]GameEvent, len(el.events)-n)
	copy(out, el.events[n:])
	return out
}

// GetByType returns all events of one type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
