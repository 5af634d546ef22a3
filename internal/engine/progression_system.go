// Package engine - progression_system.go
// Applies victory rewards and stat allocation, and journals every change.
package engine

import (
	"fmt"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/domain/rules"
	"github.com/MRamiBalles/shadowshell/internal/events"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
)

// ExperiencePayload records experience awarded for a victory.
type ExperiencePayload struct {
	Gained     int    `json:"gained"`
	Experience int    `json:"experience"` // after carry-over
	ToNext     int    `json:"to_next"`
	Source     string `json:"source"` // defeated enemy
}

// LevelUpPayload records the stats reached after one or more level-ups.
type LevelUpPayload struct {
	Levels     int `json:"levels"`
	Level      int `json:"level"`
	StatPoints int `json:"stat_points"`
	MaxHP      int `json:"max_hp"`
	Attack     int `json:"attack"`
	Defense    int `json:"defense"`
}

// AllocationPayload records stat points spent.
type AllocationPayload struct {
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	HP        int `json:"hp"`
	Remaining int `json:"remaining"`
}

// Reward summarises what a won battle granted.
type Reward struct {
	Experience int `json:"experience"`
	Levels     int `json:"levels"`
	Healed     int `json:"healed"`
}

// ProgressionSystem grants experience, levels and stat points.
type ProgressionSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
}

// NewProgressionSystem creates a new progression system.
func NewProgressionSystem(el *events.EventLog, log *logger.Logger, m *metrics.Collector) *ProgressionSystem {
	return &ProgressionSystem{
		eventLog: el,
		logger:   log,
		metrics:  m,
	}
}

// Reward grants enemy.level*10 experience then the flat victory heal.
func (ps *ProgressionSystem) Reward(p *player.Player, e *enemy.Enemy, turn int) Reward {
	xp := rules.VictoryExperience(e.Level())
	levels := p.GainExperience(xp)

	ps.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeXPGained,
		ActorID:  p.Name(),
		TargetID: e.Name(),
		Payload: ExperiencePayload{
			Gained:     xp,
			Experience: p.Experience(),
			ToNext:     p.ExperienceToNextLevel(),
			Source:     e.Name(),
		},
		Turn:    turn,
		Message: fmt.Sprintf("%s gained %d XP!", p.Name(), xp),
	})

	if levels > 0 {
		ps.metrics.RecordLevelUp(levels)
		ps.eventLog.Append(events.GameEvent{
			Type:    events.EventTypeLevelUp,
			ActorID: p.Name(),
			Payload: LevelUpPayload{
				Levels:     levels,
				Level:      p.Level(),
				StatPoints: p.StatPoints(),
				MaxHP:      p.MaxHP(),
				Attack:     p.BaseAttack(),
				Defense:    p.Defense(),
			},
			Turn: turn,
			Message: fmt.Sprintf("%s reached level %d! You have %d stat points to allocate.",
				p.Name(), p.Level(), p.StatPoints()),
		})
		ps.logger.Event(string(events.EventTypeLevelUp), p.Name(), fmt.Sprintf("level %d (+%d)", p.Level(), levels))
	}

	healed := p.Heal(rules.VictoryHeal)
	ps.eventLog.Append(events.GameEvent{
		Type:    events.EventTypeHealed,
		ActorID: p.Name(),
		Turn:    turn,
		Message: fmt.Sprintf("Health restored. %s healed %d HP.", p.Name(), healed),
	})

	return Reward{Experience: xp, Levels: levels, Healed: healed}
}

// Allocate spends unallocated stat points. Negative values are a user input
// error; asking for more points than available is a state violation.
func (ps *ProgressionSystem) Allocate(p *player.Player, attack, defense, hp int) error {
	if attack < 0 || defense < 0 || hp < 0 {
		return shellerrors.New(shellerrors.CodeUserInput, "stat points must not be negative")
	}
	if !p.AllocatePoints(attack, defense, hp) {
		return shellerrors.WithMetadata(shellerrors.CodeStateViolation,
			"Not enough stat points.",
			map[string]string{
				"requested": fmt.Sprint(attack + defense + hp),
				"available": fmt.Sprint(p.StatPoints()),
			})
	}

	ps.eventLog.Append(events.GameEvent{
		Type:    events.EventTypeStatsAllocated,
		ActorID: p.Name(),
		Payload: AllocationPayload{Attack: attack, Defense: defense, HP: hp, Remaining: p.StatPoints()},
		Message: fmt.Sprintf("Allocated %d attack, %d defense, %d HP. %d points left.",
			attack, defense, hp, p.StatPoints()),
	})
	ps.logger.Info(fmt.Sprintf("[PROGRESSION] %s allocated a=%d d=%d h=%d", p.Name(), attack, defense, hp))
	return nil
}
