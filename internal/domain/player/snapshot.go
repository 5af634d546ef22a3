package player

import (
	"github.com/MRamiBalles/shadowshell/internal/domain/character"
	"github.com/MRamiBalles/shadowshell/internal/domain/inventory"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// State is the persisted form of a Player.
type State struct {
	Character            character.Stats `json:"character"`
	Items                []item.Item     `json:"items"`
	BoostedThisEncounter bool            `json:"boosted_this_encounter"`
	UsedBoostThisTurn    bool            `json:"used_boost_this_turn"`
}

// Snapshot captures the player for saving.
func (p *Player) Snapshot() State {
	return State{
		Character:            p.Character.Snapshot(),
		Items:                p.inventory.Items(),
		BoostedThisEncounter: p.boostedThisEncounter,
		UsedBoostThisTurn:    p.usedBoostThisTurn,
	}
}

// FromState restores a player. Starter items are not re-added.
func FromState(s State) (*Player, error) {
	c, err := character.FromStats(s.Character)
	if err != nil {
		return nil, err
	}
	if c.Mitigation() != character.MitigateArmor {
		return nil, shellerrors.New(shellerrors.CodeDataIntegrity, "player must use armor mitigation")
	}
	inv, err := inventory.FromItems(s.Items)
	if err != nil {
		return nil, err
	}
	return &Player{
		Character:            c,
		inventory:            inv,
		boostedThisEncounter: s.BoostedThisEncounter,
		usedBoostThisTurn:    s.UsedBoostThisTurn,
	}, nil
}
