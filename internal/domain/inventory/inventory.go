// Package inventory holds a player's item stacks and applies item effects.
// This package is PURE and must NOT import any infrastructure packages.
package inventory

import (
	"fmt"

	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// User is the combatant consuming an item.
type User interface {
	Name() string
	Heal(amount int) int
	AddShield(reductionPercent int)
	DamageReduction() int
	BoostAttack(amount int) error
}

// Target is the combatant hit by a damage item.
type Target interface {
	Name() string
	TakeDamage(amount int) int
}

// Outcome describes what a used item did.
type Outcome struct {
	Item     item.Item `json:"item"`     // the stack as it was before use
	Amount   int       `json:"amount"`   // hp healed, damage dealt, shield or boost added
	Depleted bool      `json:"depleted"` // the stack was removed
}

// Inventory is an ordered list of item stacks unique by name.
type Inventory struct {
	items []item.Item
}

// New returns an empty inventory.
func New() *Inventory {
	return &Inventory{}
}

// FromItems restores an inventory, merging duplicate names.
func FromItems(items []item.Item) (*Inventory, error) {
	inv := New()
	for _, it := range items {
		if it.Quantity < 0 {
			return nil, shellerrors.New(shellerrors.CodeDataIntegrity,
				fmt.Sprintf("item %s has negative quantity %d", it.Name, it.Quantity))
		}
		inv.AddItem(it)
	}
	return inv, nil
}

// AddItem merges into an existing stack with the same name, or appends a copy.
// Items with no units are ignored.
func (inv *Inventory) AddItem(it item.Item) {
	if it.Quantity <= 0 {
		return
	}
	for i := range inv.items {
		if inv.items[i].Name == it.Name {
			inv.items[i].Quantity += it.Quantity
			return
		}
	}
	inv.items = append(inv.items, it)
}

// GetItem returns the stack at a 1-based index.
func (inv *Inventory) GetItem(index int) (item.Item, error) {
	if index < 1 || index > len(inv.items) {
		return item.Item{}, shellerrors.WithMetadata(shellerrors.CodeUserInput,
			fmt.Sprintf("no item at position %d", index),
			map[string]string{"index": fmt.Sprint(index)})
	}
	return inv.items[index-1], nil
}

// FindItem returns the stack with the given name.
func (inv *Inventory) FindItem(name string) (item.Item, bool) {
	for _, it := range inv.items {
		if it.Name == name {
			return it, true
		}
	}
	return item.Item{}, false
}

// RemoveItem takes up to qty units from the named stack and drops the stack
// once nothing is left. It returns false only when the stack is missing.
func (inv *Inventory) RemoveItem(name string, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	for i := range inv.items {
		if inv.items[i].Name != name {
			continue
		}
		inv.items[i].Quantity -= qty
		if inv.items[i].Quantity <= 0 {
			inv.removeAt(i)
		}
		return true
	}
	return false
}

// UseItem applies the effect of the stack at a 1-based index exactly once.
//
// A bad index is a user input error. An empty stack, a damage item with no
// target or a refused boost is a state violation; nothing is consumed then.
func (inv *Inventory) UseItem(index int, user User, target Target) (Outcome, error) {
	it, err := inv.GetItem(index)
	if err != nil {
		return Outcome{}, err
	}
	if !it.IsUsable() {
		return Outcome{}, shellerrors.New(shellerrors.CodeStateViolation,
			fmt.Sprintf("%s cannot be used right now", it.Name))
	}

	out := Outcome{Item: it}
	switch it.Effect {
	case item.EffectHeal:
		out.Amount = user.Heal(it.Power)
	case item.EffectDamage:
		if target == nil {
			return Outcome{}, shellerrors.New(shellerrors.CodeStateViolation,
				fmt.Sprintf("%s needs a target", it.Name))
		}
		out.Amount = target.TakeDamage(it.Power)
	case item.EffectBoostShield:
		before := user.DamageReduction()
		user.AddShield(it.Power)
		out.Amount = user.DamageReduction() - before
	case item.EffectBoostAttack:
		if err := user.BoostAttack(it.Power); err != nil {
			return Outcome{}, err
		}
		out.Amount = it.Power
	default:
		return Outcome{}, shellerrors.New(shellerrors.CodeDataIntegrity,
			fmt.Sprintf("%s has unknown effect %q", it.Name, it.Effect))
	}

	i := index - 1
	inv.items[i].Quantity--
	if inv.items[i].Quantity <= 0 {
		inv.removeAt(i)
		out.Depleted = true
	}
	return out, nil
}

// Items returns a copy of the stacks in order.
func (inv *Inventory) Items() []item.Item {
	out := make([]item.Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of stacks.
func (inv *Inventory) Len() int { return len(inv.items) }

// HasItems reports whether any stack is present.
func (inv *Inventory) HasItems() bool { return len(inv.items) > 0 }

func (inv *Inventory) removeAt(i int) {
	inv.items = append(inv.items[:i], inv.items[i+1:]...)
}
