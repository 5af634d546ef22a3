// Package enemy defines hostile characters, their scaling and their loot.
// This package is PURE and must NOT import any infrastructure packages.
package enemy

import (
	"strings"

	"github.com/MRamiBalles/shadowshell/internal/domain/character"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/domain/rules"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

// Type selects the stat scaling of an enemy.
type Type string

const (
	TypeBasic       Type = "basic"
	TypeTerrestrial Type = "terrestrial"
	TypeAerial      Type = "aerial"
	TypeBoss        Type = "boss"
)

// ParseType maps catalog spellings to a Type. Unknown names scale as basic.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boss":
		return TypeBoss
	case "terrestrial", "terrestre", "ground":
		return TypeTerrestrial
	case "aerial", "aérien", "aerien", "flying":
		return TypeAerial
	}
	return TypeBasic
}

// Stats returns max hp and attack for a type at a level.
func (t Type) Stats(level int) (maxHP, attack int) {
	const baseHP, baseAttack = 100, 10
	l := level - 1
	switch t {
	case TypeBoss:
		return baseHP + l*50, 25 + l*2
	case TypeTerrestrial:
		return baseHP + l*25, baseAttack + l*2
	case TypeAerial:
		return baseHP + l*15, baseAttack + l*4
	default:
		return baseHP + l*20, baseAttack + l*2
	}
}

// Enemy is a Character whose damage bypasses shield and defense.
type Enemy struct {
	*character.Character

	kind        Type
	spawnChance float64
	loot        []item.Item
}

// New creates an enemy scaled by type. The loot table is copied.
func New(name string, level int, kind Type, spawnChance float64, loot []item.Item) *Enemy {
	c := character.New(name, level)
	c.SetMitigation(character.MitigateNone)
	hp, atk := kind.Stats(c.Level())
	c.SetCombatStats(hp, atk)

	table := make([]item.Item, len(loot))
	copy(table, loot)
	return &Enemy{
		Character:   c,
		kind:        kind,
		spawnChance: spawnChance,
		loot:        table,
	}
}

// Type returns the enemy type.
func (e *Enemy) Type() Type { return e.kind }

// SpawnChance returns the probability used when populating the world.
func (e *Enemy) SpawnChance() float64 { return e.spawnChance }

// IsBoss reports whether this is a boss.
func (e *Enemy) IsBoss() bool { return e.kind == TypeBoss }

// LootTable returns a copy of the items this enemy can drop.
func (e *Enemy) LootTable() []item.Item {
	out := make([]item.Item, len(e.loot))
	copy(out, e.loot)
	return out
}

// Clone returns a fresh, full-health enemy built from the same template.
func (e *Enemy) Clone() *Enemy {
	return New(e.Name(), e.Level(), e.kind, e.spawnChance, e.loot)
}

// DropLoot rolls each candidate independently against its level-based chance,
// then picks between 2 and 4 of those that passed. Candidates are normally the
// whole item catalog; with none the enemy's own loot table is used. Drops are
// copies.
func (e *Enemy) DropLoot(src random.Source, candidates []item.Item) []item.Item {
	if candidates == nil {
		candidates = e.loot
	}
	want := 2 + src.Intn(3)

	var passed []item.Item
	for _, it := range candidates {
		if random.Roll(src, rules.DropChance(it.Level, e.Level())) {
			passed = append(passed, it)
		}
	}
	if len(passed) == 0 {
		return nil
	}
	random.Shuffle(src, len(passed), func(i, j int) {
		passed[i], passed[j] = passed[j], passed[i]
	})
	if want > len(passed) {
		want = len(passed)
	}
	return passed[:want]
}
