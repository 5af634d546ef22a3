// Package storage - reconstructor.go
// Battle Recap: rebuilds a readable account of past battles from the journal.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/shadowshell/internal/events"
)

// Reconstructor rebuilds battle summaries from the event journal.
// This is used for:
// 1. The "Battle Recap" shown after loading a save
// 2. Auditing and debugging balance changes
type Reconstructor struct {
	eventRepo EventRepository
	now       func() time.Time
}

// NewReconstructor creates a new battle reconstructor.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo, now: time.Now}
}

// BattleSummary is one rebuilt encounter.
type BattleSummary struct {
	Enemy       string    `json:"enemy"`
	EnemyLevel  int       `json:"enemy_level"`
	Outcome     string    `json:"outcome"`
	Turns       int       `json:"turns"`
	DamageDealt int       `json:"damage_dealt"`
	DamageTaken int       `json:"damage_taken"`
	Criticals   int       `json:"criticals"`
	ItemsUsed   int       `json:"items_used"`
	Experience  int       `json:"experience"`
	Loot        []string  `json:"loot,omitempty"`
	EndedAt     time.Time `json:"ended_at"`
}

// RecapEvent is a simplified event for the "Battle Recap" screen.
type RecapEvent struct {
	When    string `json:"when"` // relative, e.g. "3 minutes ago"
	Summary string `json:"summary"`
	Impact  string `json:"impact"` // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// RebuildBattles replays a save's journal into per-battle summaries.
// A battle still open at the end of the journal is reported as in progress.
func (r *Reconstructor) RebuildBattles(ctx context.Context, saveName, hero string) ([]BattleSummary, error) {
	journal, err := r.eventRepo.GetBySave(ctx, saveName)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal for save: %w", err)
	}

	var battles []BattleSummary
	var current *BattleSummary
	for _, e := range journal {
		switch events.EventType(e.EventType) {
		case events.EventTypeBattleStarted:
			battles = append(battles, BattleSummary{
				Enemy:      e.TargetID,
				EnemyLevel: intField(e.Payload, "enemy_level"),
				Outcome:    "in_progress",
			})
			current = &battles[len(battles)-1]
		case events.EventTypeDamageDealt:
			if current == nil {
				continue
			}
			if e.ActorID == hero {
				current.DamageDealt += intField(e.Payload, "amount")
			} else {
				current.DamageTaken += intField(e.Payload, "amount")
			}
		case events.EventTypeEscapeAttempted:
			if current != nil {
				current.DamageTaken += intField(e.Payload, "damage")
			}
		case events.EventTypeCriticalHit:
			if current != nil {
				current.Criticals++
			}
		case events.EventTypeItemUsed:
			if current != nil {
				current.ItemsUsed++
				if e.TargetID != "" {
					current.DamageDealt += intField(e.Payload, "amount")
				}
			}
		case events.EventTypeBattleEnded:
			if current == nil {
				continue
			}
			current.Outcome, _ = e.Payload["outcome"].(string)
			current.Turns = intField(e.Payload, "turns")
			if reward, ok := e.Payload["reward"].(map[string]interface{}); ok {
				current.Experience = intField(reward, "experience")
			}
			if loot, ok := e.Payload["loot"].([]interface{}); ok {
				for _, it := range loot {
					if name, ok := it.(string); ok {
						current.Loot = append(current.Loot, name)
					}
				}
			}
			current.EndedAt = e.Timestamp
			current = nil
		}
	}
	return battles, nil
}

// GenerateRecap creates the "Battle Recap" for the last n battles, oldest first.
func (r *Reconstructor) GenerateRecap(ctx context.Context, saveName, hero string, last int) ([]RecapEvent, error) {
	battles, err := r.RebuildBattles(ctx, saveName, hero)
	if err != nil {
		return nil, err
	}
	if last > 0 && len(battles) > last {
		battles = battles[len(battles)-last:]
	}

	recap := make([]RecapEvent, 0, len(battles))
	for _, b := range battles {
		when := "just now"
		if !b.EndedAt.IsZero() {
			when = humanize.RelTime(b.EndedAt, r.now(), "ago", "from now")
		}
		recap = append(recap, RecapEvent{
			When:    when,
			Summary: r.summarizeBattle(b),
			Impact:  r.determineImpact(b),
		})
	}
	return recap, nil
}

// summarizeBattle creates a human-readable summary.
func (r *Reconstructor) summarizeBattle(b BattleSummary) string {
	switch b.Outcome {
	case "won":
		s := fmt.Sprintf("Defeated %s (lvl %d) in %d turns, dealt %d and took %d damage, +%d XP.",
			b.Enemy, b.EnemyLevel, b.Turns, b.DamageDealt, b.DamageTaken, b.Experience)
		if len(b.Loot) > 0 {
			s += fmt.Sprintf(" Looted %d items.", len(b.Loot))
		}
		return s
	case "lost":
		return fmt.Sprintf("Fell to %s (lvl %d) after %d turns.", b.Enemy, b.EnemyLevel, b.Turns)
	case "fled":
		return fmt.Sprintf("Escaped from %s (lvl %d) after %d turns, took %d damage.",
			b.Enemy, b.EnemyLevel, b.Turns, b.DamageTaken)
	default:
		return fmt.Sprintf("Fighting %s (lvl %d).", b.Enemy, b.EnemyLevel)
	}
}

// determineImpact classifies the battle impact.
func (r *Reconstructor) determineImpact(b BattleSummary) string {
	switch b.Outcome {
	case "won":
		return "POSITIVE"
	case "lost":
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

// intField reads a JSON number out of a decoded payload.
func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
