// Package character defines the combatant shared by players and enemies.
// This package is PURE and must NOT import any infrastructure packages.
//
// Every hp mutation goes through clamp so 0 <= hp <= maxHp always holds.
package character

import (
	"math"

	"github.com/MRamiBalles/shadowshell/internal/domain/rules"
)

// Mitigation selects how incoming damage is reduced.
type Mitigation int

const (
	// MitigateArmor applies the one-shot shield, then flat defense, with a floor of 1.
	MitigateArmor Mitigation = iota
	// MitigateNone subtracts the raw amount from hp. Enemies use it.
	MitigateNone
)

// String returns the name used in saves and logs.
func (m Mitigation) String() string {
	if m == MitigateNone {
		return "none"
	}
	return "armor"
}

// Combatant is what the battle engine needs from either side.
type Combatant interface {
	Name() string
	Level() int
	HP() int
	MaxHP() int
	Attack() int
	Defense() int
	IsAlive() bool
	TakeDamage(amount int) int
	Heal(amount int) int
}

// Character holds stats and progression. Use New or FromStats to construct one.
type Character struct {
	name            string
	level           int
	maxHP           int
	hp              int
	baseAttack      int
	baseDefense     int
	attackBoost     int
	damageReduction int
	experience      int
	statPoints      int
	mitigation      Mitigation
}

// New creates a character at full health with the base stats of its level.
func New(name string, level int) *Character {
	if level < 1 {
		level = 1
	}
	maxHP := rules.BaseMaxHP(level)
	return &Character{
		name:        name,
		level:       level,
		maxHP:       maxHP,
		hp:          maxHP,
		baseAttack:  rules.BaseAttack(level),
		baseDefense: rules.BaseDefense(level),
		mitigation:  MitigateArmor,
	}
}

// Name returns the display name.
func (c *Character) Name() string { return c.name }

// Level returns the current level.
func (c *Character) Level() int { return c.level }

// HP returns current hit points.
func (c *Character) HP() int { return c.hp }

// MaxHP returns the hp ceiling.
func (c *Character) MaxHP() int { return c.maxHP }

// Attack returns the effective attack: base plus any temporary boost.
func (c *Character) Attack() int { return c.baseAttack + c.attackBoost }

// BaseAttack returns attack without the temporary boost.
func (c *Character) BaseAttack() int { return c.baseAttack }

// Defense returns flat damage mitigation.
func (c *Character) Defense() int { return c.baseDefense }

// AttackBoost returns the pending temporary boost.
func (c *Character) AttackBoost() int { return c.attackBoost }

// DamageReduction returns the active shield percentage (0 if none).
func (c *Character) DamageReduction() int { return c.damageReduction }

// Experience returns experience accumulated toward the next level.
func (c *Character) Experience() int { return c.experience }

// ExperienceToNextLevel returns the requirement for the current level.
func (c *Character) ExperienceToNextLevel() int { return rules.ExperienceToNextLevel(c.level) }

// StatPoints returns unallocated stat points.
func (c *Character) StatPoints() int { return c.statPoints }

// Mitigation returns the damage strategy.
func (c *Character) Mitigation() Mitigation { return c.mitigation }

// SetMitigation switches the damage strategy.
func (c *Character) SetMitigation(m Mitigation) { c.mitigation = m }

// SetCombatStats overrides hp and attack, resetting hp to the new maximum.
// Enemy type scaling uses it at construction.
func (c *Character) SetCombatStats(maxHP, attack int) {
	c.maxHP = maxHP
	c.baseAttack = attack
	c.setHP(maxHP)
}

// IsAlive reports whether hp is above zero.
func (c *Character) IsAlive() bool { return c.hp > 0 }

// TakeDamage applies an incoming hit and returns the hp actually lost.
//
// With armor: the shield (if any) scales the amount and is consumed, defense is
// subtracted, and at least 1 damage lands. Without mitigation the raw amount is
// subtracted. Negative amounts are not validated.
func (c *Character) TakeDamage(amount int) int {
	before := c.hp
	switch c.mitigation {
	case MitigateNone:
		c.setHP(c.hp - amount)
	default:
		reduced := float64(amount)
		if c.damageReduction > 0 {
			reduced *= 1 - float64(c.damageReduction)/100
			c.damageReduction = 0
		}
		reduced -= float64(c.baseDefense)
		final := int(math.Trunc(reduced))
		if final < 1 {
			final = 1
		}
		c.setHP(c.hp - final)
	}
	return before - c.hp
}

// LoseHP subtracts hp directly, bypassing shield and defense, and returns
// the hp actually lost.
func (c *Character) LoseHP(amount int) int {
	before := c.hp
	c.setHP(c.hp - amount)
	return before - c.hp
}

// Heal restores hp up to maxHp and returns the amount actually restored.
func (c *Character) Heal(amount int) int {
	before := c.hp
	c.setHP(c.hp + amount)
	return c.hp - before
}

// GainExperience adds xp and levels up while the requirement is met.
// Excess experience carries into the next level. Returns the levels gained.
func (c *Character) GainExperience(xp int) int {
	if xp <= 0 {
		return 0
	}
	c.experience += xp
	gained := 0
	for c.experience >= rules.ExperienceToNextLevel(c.level) {
		c.experience -= rules.ExperienceToNextLevel(c.level)
		c.LevelUp()
		gained++
	}
	return gained
}

// LevelUp raises the level, grants stat points and fully heals.
func (c *Character) LevelUp() {
	c.level++
	c.statPoints += rules.LevelUpStatPoints
	c.maxHP += rules.LevelUpMaxHP
	c.baseAttack += rules.LevelUpAttack
	c.baseDefense += rules.LevelUpDefense
	c.hp = c.maxHP
}

// AllocatePoints spends stat points. It returns false and changes nothing when
// the request is negative or exceeds the unallocated points.
func (c *Character) AllocatePoints(attack, defense, hp int) bool {
	if attack < 0 || defense < 0 || hp < 0 {
		return false
	}
	total := attack + defense + hp
	if total > c.statPoints {
		return false
	}
	c.baseAttack += attack
	c.baseDefense += defense
	c.maxHP += hp * rules.HPPerStatPoint
	c.hp = c.maxHP
	c.statPoints -= total
	return true
}

// ApplyTemporaryAttackBoost adds to the transient attack boost.
func (c *Character) ApplyTemporaryAttackBoost(amount int) {
	c.attackBoost += amount
}

// ResetAttackBoost clears the transient attack boost.
func (c *Character) ResetAttackBoost() {
	c.attackBoost = 0
}

// ActivateShield sets the one-shot reduction percentage, clamped to [0, 100].
func (c *Character) ActivateShield(reductionPercent int) {
	c.damageReduction = clampPercent(reductionPercent)
}

// AddShield stacks reduction onto the active shield, clamped to 100.
func (c *Character) AddShield(reductionPercent int) {
	c.damageReduction = clampPercent(c.damageReduction + reductionPercent)
}

// DeactivateShield clears the shield.
func (c *Character) DeactivateShield() {
	c.damageReduction = 0
}

func (c *Character) setHP(v int) {
	switch {
	case v < 0:
		c.hp = 0
	case v > c.maxHP:
		c.hp = c.maxHP
	default:
		c.hp = v
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
