package engine

import (
	"fmt"
	"strings"

	"github.com/MRamiBalles/shadowshell/internal/domain/inventory"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/domain/world"
	"github.com/MRamiBalles/shadowshell/internal/events"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
)

// ItemUsedPayload represents an item being used by the player.
type ItemUsedPayload struct {
	Item      string      `json:"item"`
	Effect    item.Effect `json:"effect"`
	Amount    int         `json:"amount"`
	Remaining int         `json:"remaining"`
	Target    string      `json:"target,omitempty"`
}

// ItemRefusedPayload records an item use that changed nothing.
type ItemRefusedPayload struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ItemPickedUpPayload represents an item taken from the map.
type ItemPickedUpPayload struct {
	Item     string         `json:"item"`
	Quantity int            `json:"quantity"`
	Position world.Position `json:"position"`
}

// LootPayload lists the items an enemy dropped.
type LootPayload struct {
	Enemy string   `json:"enemy"`
	Items []string `json:"items"`
}

// InventorySystem handles item use, pickups and loot for the player.
type InventorySystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
}

func NewInventorySystem(el *events.EventLog, log *logger.Logger, m *metrics.Collector) *InventorySystem {
	return &InventorySystem{
		eventLog: el,
		logger:   log,
		metrics:  m,
	}
}

// UseItem applies the item at a 1-based index. target may be nil outside battle.
// Refusals are journaled; nothing is consumed when an error is returned.
func (is *InventorySystem) UseItem(p *player.Player, index int, target inventory.Target, turn int) (inventory.Outcome, error) {
	out, err := p.UseItem(index, target)
	if err != nil {
		if shellerrors.HasCode(err, shellerrors.CodeStateViolation) {
			is.eventLog.Append(events.GameEvent{
				Type:    events.EventTypeItemRefused,
				ActorID: p.Name(),
				Payload: ItemRefusedPayload{Index: index, Reason: err.Error()},
				Turn:    turn,
				Message: err.Error(),
			})
			is.logger.Warn(fmt.Sprintf("[INVENTORY] Refused: %s item #%d (%v)", p.Name(), index, err))
		}
		return out, err
	}

	remaining := out.Item.Quantity - 1
	payload := ItemUsedPayload{
		Item:      out.Item.Name,
		Effect:    out.Item.Effect,
		Amount:    out.Amount,
		Remaining: remaining,
	}
	targetID := ""
	if out.Item.Effect == item.EffectDamage && target != nil {
		targetID = target.Name()
		payload.Target = targetID
		is.metrics.RecordDamage(out.Amount, false)
	}

	msg := describeItemUse(p.Name(), out, targetID)
	if out.Depleted {
		msg += fmt.Sprintf(" %s has been used up and removed.", out.Item.Name)
	}
	is.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeItemUsed,
		ActorID:  p.Name(),
		TargetID: targetID,
		Payload:  payload,
		Turn:     turn,
		Message:  msg,
	})
	is.metrics.RecordItemUse()
	is.logger.Info(fmt.Sprintf("[INVENTORY] Used: %s used %s (%s %d, %d left)",
		p.Name(), out.Item.Name, out.Item.Effect, out.Amount, remaining))

	return out, nil
}

// PickUp moves the item lying at pos into the player's inventory.
func (is *InventorySystem) PickUp(p *player.Player, w *world.World, pos world.Position) (item.Item, bool) {
	it, ok := w.TakeItem(pos)
	if !ok {
		return item.Item{}, false
	}
	p.PickUp(it)

	is.eventLog.Append(events.GameEvent{
		Type:    events.EventTypeItemPickedUp,
		ActorID: p.Name(),
		Payload: ItemPickedUpPayload{Item: it.Name, Quantity: it.Quantity, Position: pos},
		Message: fmt.Sprintf("You found a %s and added it to your inventory.", it.Name),
	})
	is.logger.Info(fmt.Sprintf("[INVENTORY] Pickup: %s took %d %s at %s", p.Name(), it.Quantity, it.Name, pos))
	return it, true
}

// GrantLoot adds dropped items to the player's inventory.
func (is *InventorySystem) GrantLoot(p *player.Player, enemyName string, loot []item.Item, turn int) {
	if len(loot) == 0 {
		is.logger.Info(fmt.Sprintf("[INVENTORY] Loot: %s dropped nothing", enemyName))
		return
	}
	names := make([]string, 0, len(loot))
	for _, it := range loot {
		p.PickUp(it)
		names = append(names, it.Name)
	}

	is.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeLootDropped,
		ActorID:  enemyName,
		TargetID: p.Name(),
		Payload:  LootPayload{Enemy: enemyName, Items: names},
		Turn:     turn,
		Message:  fmt.Sprintf("%s dropped: %s.", enemyName, strings.Join(names, ", ")),
	})
	is.logger.Info(fmt.Sprintf("[INVENTORY] Loot: %s dropped %s for %s", enemyName, strings.Join(names, ", "), p.Name()))
}

func describeItemUse(user string, out inventory.Outcome, target string) string {
	switch out.Item.Effect {
	case item.EffectHeal:
		return fmt.Sprintf("Used %s to heal %d HP!", out.Item.Name, out.Amount)
	case item.EffectDamage:
		return fmt.Sprintf("%s uses %s and deals %d damage to %s.", user, out.Item.Name, out.Amount, target)
	case item.EffectBoostShield:
		return fmt.Sprintf("%s raises %s: damage reduction +%d%%.", user, out.Item.Name, out.Amount)
	case item.EffectBoostAttack:
		return fmt.Sprintf("Attack boosted by %d!", out.Amount)
	}
	return fmt.Sprintf("Used %s.", out.Item.Name)
}
