package sim

import (
	"fmt"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/domain/world"
)

// DefaultScenarios builds the standard balance checks for a hero level from
// the enemy catalog. It needs at least one enemy template.
func DefaultScenarios(enemies []*enemy.Enemy, items *item.Catalog, level int) ([]Scenario, error) {
	if len(enemies) == 0 {
		return nil, fmt.Errorf("no enemy templates to simulate against")
	}
	weakest, strongest := enemies[0], enemies[0]
	for _, e := range enemies[1:] {
		if e.Level() < weakest.Level() {
			weakest = e
		}
		if e.Level() > strongest.Level() {
			strongest = e
		}
	}

	var bossLoot []item.Item
	if items != nil {
		bossLoot = items.WithinLevel(world.BossLevel, enemy.LootLevelSpread)
	}
	boss := enemy.New(world.BossName, world.BossLevel, enemy.TypeBoss, 1.0, bossLoot)

	return []Scenario{
		{
			Name:        fmt.Sprintf("Even fight: level %d hero vs %s", level, weakest.Name()),
			Enemy:       weakest,
			EnemyLevel:  level,
			PlayerLevel: level,
			Expect: func(r Result) (bool, string) {
				if r.WinRate() < 0.5 {
					return false, fmt.Sprintf("win rate %.2f is below 0.50", r.WinRate())
				}
				return true, "hero wins most even fights"
			},
		},
		{
			Name:        fmt.Sprintf("Outmatched: level %d hero vs %s", level, strongest.Name()),
			Enemy:       strongest,
			EnemyLevel:  level + 4,
			PlayerLevel: level,
			Expect: func(r Result) (bool, string) {
				if r.Won > 0 {
					return false, fmt.Sprintf("autopilot should always run, but won %d battles", r.Won)
				}
				if r.Fled == 0 {
					return false, "no battle ended in a successful escape"
				}
				return true, "hero runs from stronger enemies"
			},
		},
		{
			Name:        fmt.Sprintf("Boss: level %d hero vs %s", level, boss.Name()),
			Enemy:       boss,
			PlayerLevel: level,
			Expect: func(r Result) (bool, string) {
				if r.Won+r.Lost+r.Fled != r.Battles {
					return false, "some battles did not reach an end state"
				}
				return true, "every boss battle resolves"
			},
		},
	}, nil
}
