package events

import (
	"errors"
	"testing"
)

type recordingPersister struct {
	got []GameEvent
	err error
}

func (r *recordingPersister) Append(e GameEvent) error {
	r.got = append(r.got, e)
	return r.err
}

func TestAppendFillsIDAndPersists(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	e := el.Append(GameEvent{Type: EventTypeDamageDealt, ActorID: "Hero", TargetID: "Rat"})
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Fatalf("expected ID and timestamp to be filled, got %+v", e)
	}
	if len(p.got) != 1 || p.got[0].ID != e.ID {
		t.Errorf("expected synchronous persistence of %s, got %v", e.ID, p.got)
	}
}

func TestPersistErrorIsReportedButKept(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	el := NewEventLog(p)
	var reported error
	el.OnPersistError(func(err error) { reported = err })

	el.Append(GameEvent{Type: EventTypeGameSaved})
	if reported == nil {
		t.Error("expected the persist error to be reported")
	}
	if el.Len() != 1 {
		t.Error("expected the event to stay in memory")
	}
}

func TestSinceAndFilters(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(GameEvent{Type: EventTypeBattleStarted, ActorID: "Hero"})
	el.Append(GameEvent{Type: EventTypeDamageDealt, ActorID: "Rat"})
	el.Append(GameEvent{Type: EventTypeDamageDealt, ActorID: "Hero"})

	if got := el.Since(1); len(got) != 2 || got[0].ActorID != "Rat" {
		t.Errorf("unexpected Since(1): %v", got)
	}
	if got := el.Since(3); got != nil {
		t.Errorf("expected nothing new, got %v", got)
	}
	if got := el.GetByType(EventTypeDamageDealt); len(got) != 2 {
		t.Errorf("expected 2 damage events, got %d", len(got))
	}
	if GenerateEventID() == GenerateEventID() {
		t.Error("expected unique IDs")
	}
}
