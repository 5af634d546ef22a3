// Package item defines the core domain entities for in-game items.
// This package is PURE and must NOT import any infrastructure packages.
package item

import (
	"fmt"
	"strings"
)

// Effect is what an item does when used.
type Effect string

const (
	EffectHeal        Effect = "heal"         // Restores player hp
	EffectDamage      Effect = "damage"       // Hits the enemy for its power
	EffectBoostAttack Effect = "boost_attack" // Temporary attack boost
	EffectBoostShield Effect = "boost_shield" // Adds shield reduction percent
)

// ParseEffect accepts the catalog spellings of an effect.
func ParseEffect(s string) (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heal", "health_boost":
		return EffectHeal, nil
	case "damage", "damage_direct":
		return EffectDamage, nil
	case "boost_attack", "attack_boost":
		return EffectBoostAttack, nil
	case "boost_shield", "shield":
		return EffectBoostShield, nil
	}
	return "", fmt.Errorf("unknown item effect %q", s)
}

// Item is a stack of a single kind of usable object.
type Item struct {
	Name        string `json:"name"`
	Effect      Effect `json:"effect"`
	Power       int    `json:"power"`
	Quantity    int    `json:"quantity"`
	Level       int    `json:"level"`
	AttackBonus int    `json:"attack_bonus,omitempty"`
	Boost       int    `json:"boost,omitempty"`
}

// New creates an item stack of one at level 1.
func New(name string, effect Effect, power int) Item {
	return Item{Name: name, Effect: effect, Power: power, Quantity: 1, Level: 1}
}

// IsUsable reports whether at least one unit remains.
func (i Item) IsUsable() bool {
	return i.Quantity > 0
}

// WithQuantity returns a copy with the given quantity.
func (i Item) WithQuantity(q int) Item {
	i.Quantity = q
	return i
}

// String renders the item for inventory listings.
func (i Item) String() string {
	return fmt.Sprintf("%s (%s %d, lvl %d) x%d", i.Name, i.Effect.Label(), i.Power, i.Level, i.Quantity)
}

// Label is the short human name of an effect.
func (e Effect) Label() string {
	switch e {
	case EffectHeal:
		return "Heal"
	case EffectDamage:
		return "Damage"
	case EffectBoostAttack:
		return "Attack+"
	case EffectBoostShield:
		return "Shield"
	}
	return string(e)
}

// Starters returns the inventory every new player begins with.
func Starters() []Item {
	return []Item{
		New("Noob's Dagger", EffectDamage, 10),
		New("Minor Health Potion", EffectHeal, 20),
		New("Wooden Shield", EffectBoostShield, 15),
	}
}
