// Package player defines the player-controlled character.
// This package is PURE and must NOT import any infrastructure packages.
package player

import (
	"github.com/MRamiBalles/shadowshell/internal/domain/character"
	"github.com/MRamiBalles/shadowshell/internal/domain/inventory"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// Player is a Character that owns an Inventory and tracks boost flags.
type Player struct {
	*character.Character

	inventory *inventory.Inventory

	// boostedThisEncounter is set when a boost item is applied and cleared
	// when an attack consumes the boost or the encounter ends.
	boostedThisEncounter bool
	// usedBoostThisTurn is cleared only by EndTurn.
	usedBoostThisTurn bool
}

// New creates a level-1 player carrying the starter items.
func New(name string) *Player {
	return NewAtLevel(name, 1)
}

// NewAtLevel creates a player at the given level carrying the starter items.
func NewAtLevel(name string, level int) *Player {
	p := &Player{
		Character: character.New(name, level),
		inventory: inventory.New(),
	}
	p.AddStarterItems()
	return p
}

// AddStarterItems gives the starter kit, but only to an empty inventory.
func (p *Player) AddStarterItems() {
	if p.inventory.HasItems() {
		return
	}
	for _, it := range item.Starters() {
		p.inventory.AddItem(it)
	}
}

// Inventory returns the player's inventory.
func (p *Player) Inventory() *inventory.Inventory {
	return p.inventory
}

// PickUp adds a copy of an item found in the world.
func (p *Player) PickUp(it item.Item) {
	p.inventory.AddItem(it)
}

// UseItem uses the item at a 1-based index, optionally against a target.
func (p *Player) UseItem(index int, target inventory.Target) (inventory.Outcome, error) {
	return p.inventory.UseItem(index, p, target)
}

// BoostAttack applies a temporary attack boost. Boosts do not stack: a second
// one is refused while one is pending or after one was taken this turn.
func (p *Player) BoostAttack(amount int) error {
	if p.boostedThisEncounter || p.usedBoostThisTurn {
		return shellerrors.New(shellerrors.CodeStateViolation, p.Name()+" already has an active attack boost")
	}
	p.ApplyTemporaryAttackBoost(amount)
	p.boostedThisEncounter = true
	p.usedBoostThisTurn = true
	return nil
}

// ConsumeAttackBoost clears the pending boost after an attack and returns it.
func (p *Player) ConsumeAttackBoost() int {
	b := p.AttackBoost()
	p.ResetAttackBoost()
	p.boostedThisEncounter = false
	return b
}

// HasBoostedAttackThisEncounter reports whether a boost is pending.
func (p *Player) HasBoostedAttackThisEncounter() bool { return p.boostedThisEncounter }

// HasUsedAttackBoostThisTurn reports whether a boost was taken this turn.
func (p *Player) HasUsedAttackBoostThisTurn() bool { return p.usedBoostThisTurn }

// EndTurn is the single reset point for turn-scoped flags.
func (p *Player) EndTurn() {
	p.usedBoostThisTurn = false
}

// EndEncounter drops any unused boost when a battle finishes.
func (p *Player) EndEncounter() {
	p.ConsumeAttackBoost()
	p.usedBoostThisTurn = false
}
