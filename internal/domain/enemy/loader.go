package enemy

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

//go:embed data/enemies.json
var defaultEnemies []byte

// LootLevelSpread is how far an item's level may sit from the enemy's.
const LootLevelSpread = 1

// Record is one raw enemy catalog entry.
type Record struct {
	Name        *string  `json:"name"`
	Level       *int     `json:"level"`
	Type        *string  `json:"type"`
	SpawnChance *float64 `json:"spawn_chance"`
	LootTable   []string `json:"loot_table"`
}

// FromRecord builds an enemy template. Missing level, type and spawn chance
// default to 1, basic and 0.1. A named loot table restricts the pool to those
// names; otherwise items within LootLevelSpread levels are eligible.
func FromRecord(r Record, pool *item.Catalog) (*Enemy, error) {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return nil, shellerrors.New(shellerrors.CodeDataIntegrity, "enemy record has no name")
	}
	name := *r.Name
	level := 1
	if r.Level != nil {
		level = *r.Level
	}
	if level < 1 {
		return nil, integrity(name, fmt.Sprintf("level %d below 1", level))
	}
	kind := TypeBasic
	if r.Type != nil {
		kind = ParseType(*r.Type)
	}
	spawn := 0.1
	if r.SpawnChance != nil {
		spawn = *r.SpawnChance
	}
	if spawn < 0 || spawn > 1 {
		return nil, integrity(name, fmt.Sprintf("spawn chance %v outside [0, 1]", spawn))
	}

	var loot []item.Item
	if pool != nil {
		if len(r.LootTable) > 0 {
			for _, n := range r.LootTable {
				if it, ok := pool.Get(n); ok {
					loot = append(loot, it)
				}
			}
		} else {
			loot = pool.WithinLevel(level, LootLevelSpread)
		}
	}
	return New(name, level, kind, spawn, loot), nil
}

// LoadEnemies reads a JSON array of enemy records. Malformed records are
// skipped and reported; only unreadable input is fatal.
func LoadEnemies(r io.Reader, pool *item.Catalog) ([]*Enemy, []error, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "decode enemy catalog", err)
	}
	var (
		enemies []*Enemy
		skipped []error
	)
	for i, msg := range raw {
		var rec Record
		if err := json.Unmarshal(msg, &rec); err != nil {
			skipped = append(skipped, fmt.Errorf("enemy record %d: %w",
				i, shellerrors.Wrap(shellerrors.CodeDataIntegrity, "malformed record", err)))
			continue
		}
		e, err := FromRecord(rec, pool)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("enemy record %d: %w", i, err))
			continue
		}
		enemies = append(enemies, e)
	}
	return enemies, skipped, nil
}

// DefaultEnemies decodes the embedded enemy catalog against an item pool.
func DefaultEnemies(pool *item.Catalog) ([]*Enemy, []error, error) {
	return LoadEnemies(bytes.NewReader(defaultEnemies), pool)
}

func integrity(name, msg string) error {
	return shellerrors.WithMetadata(shellerrors.CodeDataIntegrity, "enemy "+name+": "+msg,
		map[string]string{"enemy": name})
}
