package enemy

import (
	"github.com/MRamiBalles/shadowshell/internal/domain/character"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// State is the persisted form of an Enemy.
type State struct {
	Character   character.Stats `json:"character"`
	Type        Type            `json:"type"`
	SpawnChance float64         `json:"spawn_chance"`
	Loot        []item.Item     `json:"loot"`
}

// Snapshot captures the enemy for saving.
func (e *Enemy) Snapshot() State {
	return State{
		Character:   e.Character.Snapshot(),
		Type:        e.kind,
		SpawnChance: e.spawnChance,
		Loot:        e.LootTable(),
	}
}

// FromState restores an enemy, keeping its current hp.
func FromState(s State) (*Enemy, error) {
	c, err := character.FromStats(s.Character)
	if err != nil {
		return nil, err
	}
	if c.Mitigation() != character.MitigateNone {
		return nil, shellerrors.New(shellerrors.CodeDataIntegrity, "enemy "+c.Name()+" must bypass mitigation")
	}
	loot := make([]item.Item, len(s.Loot))
	copy(loot, s.Loot)
	return &Enemy{
		Character:   c,
		kind:        ParseType(string(s.Type)),
		spawnChance: s.SpawnChance,
		loot:        loot,
	}, nil
}
