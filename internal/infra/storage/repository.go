// Package storage provides the persistence layer for saves and the battle journal.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/events"
)

// GameEvent mirrors the domain event structure for persistence.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	SaveName  string                 `json:"save_name" db:"save_name"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Turn      int                    `json:"turn" db:"turn"`
	Message   string                 `json:"message" db:"message"`
}

// EventRepository defines the interface for journal persistence.
type EventRepository interface {
	// Append adds a new event to the save's immutable journal.
	Append(ctx context.Context, event GameEvent) error

	// GetBySave retrieves a save's journal in append order.
	GetBySave(ctx context.Context, saveName string) ([]GameEvent, error)

	// GetByEventType retrieves a save's events of one type in append order.
	GetByEventType(ctx context.Context, saveName, eventType string) ([]GameEvent, error)
}

// SaveRepository defines the interface for save slots.
type SaveRepository interface {
	// Save inserts or replaces a slot.
	Save(ctx context.Context, snap save.Snapshot) error

	// Load returns a slot, or a NOT_FOUND error.
	Load(ctx context.Context, name string) (save.Snapshot, error)

	// List returns every slot, most recent first.
	List(ctx context.Context) ([]save.Info, error)
}

// FromDomainEvent converts a journal event for storage. Typed payloads are
// flattened to their JSON object form.
func FromDomainEvent(saveName string, e events.GameEvent) (GameEvent, error) {
	out := GameEvent{
		ID:        e.ID,
		SaveName:  saveName,
		Timestamp: e.Timestamp,
		EventType: string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
		Turn:      e.Turn,
		Message:   e.Message,
	}
	if e.Payload == nil {
		return out, nil
	}
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return GameEvent{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(raw, &out.Payload); err != nil {
		// Non-object payloads are kept under a single key.
		out.Payload = map[string]interface{}{"value": e.Payload}
	}
	return out, nil
}

// Journal adapts an EventRepository to events.EventPersister for one save.
type Journal struct {
	repo     EventRepository
	saveName string
	timeout  time.Duration
}

// NewJournal binds a repository to a save slot.
func NewJournal(repo EventRepository, saveName string) *Journal {
	return &Journal{repo: repo, saveName: saveName, timeout: 5 * time.Second}
}

// Append implements events.EventPersister.
func (j *Journal) Append(e events.GameEvent) error {
	stored, err := FromDomainEvent(j.saveName, e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.repo.Append(ctx, stored)
}
