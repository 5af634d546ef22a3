// Package sim runs seeded auto-battles to check combat balance.
package sim

import (
	"context"
	"strconv"

	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/engine"
)

// Autopilot is a fixed battle policy:
// 1. Heal when below 30% hp
// 2. Raise a shield when none is active
// 3. Run when the enemy outlevels the player by 3 or more
// 4. Otherwise attack
type Autopilot struct {
	pending int  // 1-based item index chosen at the action prompt
	refused bool // last item was refused; attack instead this turn
	rejects int
}

// NewAutopilot returns a fresh policy. One autopilot per battle.
func NewAutopilot() *Autopilot {
	return &Autopilot{}
}

// Choose implements engine.Controller.
func (a *Autopilot) Choose(ctx context.Context, b *engine.Battle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b.Pending() == engine.DecisionItem {
		if a.pending == 0 {
			return engine.CancelToken, nil
		}
		idx := a.pending
		a.pending = 0
		return strconv.Itoa(idx), nil
	}

	if a.refused {
		a.refused = false
		return string(engine.ActionAttack), nil
	}

	p, e := b.Player(), b.Enemy()
	if p.HP()*10 < p.MaxHP()*3 {
		if idx := findItem(p.Inventory().Items(), item.EffectHeal); idx > 0 {
			a.pending = idx
			return string(engine.ActionUse), nil
		}
	}
	if p.DamageReduction() == 0 {
		if idx := findItem(p.Inventory().Items(), item.EffectBoostShield); idx > 0 {
			a.pending = idx
			return string(engine.ActionUse), nil
		}
	}
	if e.Level()-p.Level() >= 3 {
		return string(engine.ActionRun), nil
	}
	return string(engine.ActionAttack), nil
}

// Reject implements engine.Controller.
func (a *Autopilot) Reject(_ *engine.Battle, _ error) {
	a.rejects++
	a.pending = 0
	a.refused = true
}

// Rejects returns how many tokens the battle refused.
func (a *Autopilot) Rejects() int { return a.rejects }

func findItem(items []item.Item, effect item.Effect) int {
	for i, it := range items {
		if it.Effect == effect && it.IsUsable() {
			return i + 1
		}
	}
	return 0
}
