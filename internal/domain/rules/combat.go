// Package rules contains the pure calculation logic for combat and progression.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "math"

const (
	// VariationMin and VariationMax bound the uniform damage multiplier.
	VariationMin = 0.9
	VariationMax = 1.2

	// MaxCritChance caps the player's critical chance.
	MaxCritChance = 0.5

	// CritMultiplier doubles the base on a critical hit.
	CritMultiplier = 2

	// MaxRunAttempts is how many failed escapes are allowed; the next one always succeeds.
	MaxRunAttempts = 3

	// VictoryHeal is the flat heal granted after a won battle.
	VictoryHeal = 20
)

// CritChance computes the attacker's critical chance against a defender.
// Result is in [0, MaxCritChance].
func CritChance(attackerLevel, attackerAttack, defenderAttack int) float64 {
	diff := float64(attackerAttack - defenderAttack)
	chance := 0.1 + float64(attackerLevel)*0.01 + diff*0.005
	return clamp(chance, 0, MaxCritChance)
}

// EvasionChance computes the player's chance to dodge an enemy attack.
func EvasionChance(playerLevel, playerAttack, enemyAttack int) float64 {
	diff := float64(playerAttack - enemyAttack)
	return clamp(0.05+float64(playerLevel)*0.01+diff*0.005, 0, 1)
}

// EscapeChance computes the odds of a successful run attempt.
func EscapeChance(playerLevel, enemyLevel int) float64 {
	return clamp(0.5+float64(playerLevel-enemyLevel)*0.05, 0, 1)
}

// Damage applies the variation multiplier (and crit doubling) to a base attack.
// The result is never below 1.
func Damage(base int, variation float64, crit bool) int {
	b := float64(base)
	if crit {
		b *= CritMultiplier
	}
	dmg := int(math.Floor(b * variation))
	if dmg < 1 {
		return 1
	}
	return dmg
}

// FailedEscapeDamage is the hit taken when a run attempt fails.
func FailedEscapeDamage(enemyAttack, playerDefense int) int {
	if d := enemyAttack - playerDefense; d > 1 {
		return d
	}
	return 1
}

// VictoryExperience is the experience awarded for defeating an enemy.
func VictoryExperience(enemyLevel int) int {
	return enemyLevel * 10
}

// DropChance returns the per-item loot probability relative to the enemy level.
func DropChance(itemLevel, enemyLevel int) float64 {
	switch {
	case itemLevel == enemyLevel:
		return 0.7
	case itemLevel < enemyLevel:
		return 0.25
	default:
		return 0.05
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
