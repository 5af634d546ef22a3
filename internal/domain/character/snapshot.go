package character

import (
	"fmt"

	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// Stats is the persisted form of a Character.
type Stats struct {
	Name            string `json:"name"`
	Level           int    `json:"level"`
	MaxHP           int    `json:"max_hp"`
	HP              int    `json:"hp"`
	BaseAttack      int    `json:"base_attack"`
	BaseDefense     int    `json:"base_defense"`
	AttackBoost     int    `json:"attack_boost"`
	DamageReduction int    `json:"damage_reduction"`
	Experience      int    `json:"experience"`
	StatPoints      int    `json:"stat_points"`
	Mitigation      string `json:"mitigation"`
}

// Snapshot captures every field for persistence.
func (c *Character) Snapshot() Stats {
	return Stats{
		Name:            c.name,
		Level:           c.level,
		MaxHP:           c.maxHP,
		HP:              c.hp,
		BaseAttack:      c.baseAttack,
		BaseDefense:     c.baseDefense,
		AttackBoost:     c.attackBoost,
		DamageReduction: c.damageReduction,
		Experience:      c.experience,
		StatPoints:      c.statPoints,
		Mitigation:      c.mitigation.String(),
	}
}

// FromStats rebuilds a Character, rejecting records that break its invariants.
func FromStats(s Stats) (*Character, error) {
	switch {
	case s.Level < 1:
		return nil, invalid(s, "level must be at least 1")
	case s.MaxHP < 1:
		return nil, invalid(s, "max hp must be positive")
	case s.HP < 0 || s.HP > s.MaxHP:
		return nil, invalid(s, fmt.Sprintf("hp %d outside [0, %d]", s.HP, s.MaxHP))
	case s.Experience < 0 || s.StatPoints < 0:
		return nil, invalid(s, "experience and stat points must be non-negative")
	case s.DamageReduction < 0 || s.DamageReduction > 100:
		return nil, invalid(s, "damage reduction outside [0, 100]")
	}
	m := MitigateArmor
	if s.Mitigation == MitigateNone.String() {
		m = MitigateNone
	}
	return &Character{
		name:            s.Name,
		level:           s.Level,
		maxHP:           s.MaxHP,
		hp:              s.HP,
		baseAttack:      s.BaseAttack,
		baseDefense:     s.BaseDefense,
		attackBoost:     s.AttackBoost,
		damageReduction: s.DamageReduction,
		experience:      s.Experience,
		statPoints:      s.StatPoints,
		mitigation:      m,
	}, nil
}

func invalid(s Stats, msg string) error {
	return shellerrors.WithMetadata(shellerrors.CodeDataIntegrity, "invalid character: "+msg,
		map[string]string{"name": s.Name})
}
