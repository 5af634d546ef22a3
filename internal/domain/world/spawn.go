package world

import (
	"math"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

// Generate builds a populated world: every enemy template appears at least
// once, extra enemies are drawn by spawn chance, items are scattered up to
// size in total, and the boss guards the far corner.
func Generate(size int, templates []*enemy.Enemy, items *item.Catalog, src random.Source) *World {
	w := New(size, src)
	w.spawnEnemies(templates, src)
	if items != nil {
		w.spawnItems(items.All(), src)
	}
	w.spawnBoss(items)
	return w
}

// quadrant returns the shuffled cells of one region.
func (w *World) quadrant(r Region, src random.Source) []Position {
	var cells []Position
	for row := 0; row < w.size; row++ {
		for col := 0; col < w.size; col++ {
			p := Position{row, col}
			if w.Region(p) == r {
				cells = append(cells, p)
			}
		}
	}
	random.Shuffle(src, len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	return cells
}

// ValidSpawn reports whether an enemy or item may be placed at p: not the
// start or lair, at least two cells from the start, and no enemy in the
// surrounding 3x3 block.
func (w *World) ValidSpawn(p Position) bool {
	if !w.InBounds(p) || p == w.start || p == w.boss {
		return false
	}
	if abs(p.Row-w.start.Row) < 2 && abs(p.Col-w.start.Col) < 2 {
		return false
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if _, ok := w.EnemyAt(Position{p.Row + dr, p.Col + dc}); ok {
				return false
			}
		}
	}
	return true
}

// takeValid pops the first valid position out of a shuffled pool.
func (w *World) takeValid(pool *[]Position, extra func(Position) bool) (Position, bool) {
	for i, p := range *pool {
		if w.ValidSpawn(p) && (extra == nil || extra(p)) {
			*pool = append((*pool)[:i], (*pool)[i+1:]...)
			return p, true
		}
	}
	return Position{}, false
}

func (w *World) spawnEnemies(templates []*enemy.Enemy, src random.Source) {
	if len(templates) == 0 {
		return
	}
	regions := Regions()
	pools := make(map[Region][]Position, len(regions))
	for _, r := range regions {
		pools[r] = w.quadrant(r, src)
	}

	for _, t := range templates {
		r := regions[src.Intn(len(regions))]
		pool := pools[r]
		if p, ok := w.takeValid(&pool, nil); ok {
			w.PlaceEnemy(p, t.Clone())
		}
		pools[r] = pool
	}

	perRegion := int(math.Round(float64(w.size) / 2))
	for _, r := range regions {
		pool := pools[r]
		for i := 0; i < perRegion && len(pool) > 0; i++ {
			p, ok := w.takeValid(&pool, nil)
			if !ok {
				break
			}
			var candidates []*enemy.Enemy
			for _, t := range templates {
				if random.Roll(src, t.SpawnChance()) {
					candidates = append(candidates, t)
				}
			}
			if len(candidates) > 0 {
				w.PlaceEnemy(p, candidates[src.Intn(len(candidates))].Clone())
			}
		}
		pools[r] = pool
	}
}

func (w *World) spawnItems(templates []item.Item, src random.Source) {
	if len(templates) == 0 {
		return
	}
	total := w.size
	perRegion := int(math.Round(float64(total) / 4))
	free := func(p Position) bool {
		_, has := w.ItemAt(p)
		return !has
	}

	regions := Regions()
	pools := make(map[Region][]Position, len(regions))
	for _, r := range regions {
		pools[r] = w.quadrant(r, src)
	}

	placed := 0
	for _, t := range templates {
		if placed >= total {
			break
		}
		r := regions[src.Intn(len(regions))]
		pool := pools[r]
		if p, ok := w.takeValid(&pool, free); ok {
			w.PlaceItem(p, t)
			placed++
		}
		pools[r] = pool
	}

	for _, r := range regions {
		pool := pools[r]
		for n := 0; n < perRegion && placed < total; n++ {
			p, ok := w.takeValid(&pool, free)
			if !ok {
				break
			}
			w.PlaceItem(p, templates[src.Intn(len(templates))])
			placed++
		}
		pools[r] = pool
	}
}

func (w *World) spawnBoss(items *item.Catalog) {
	var loot []item.Item
	if items != nil {
		loot = items.WithinLevel(BossLevel, enemy.LootLevelSpread)
	}
	w.PlaceEnemy(w.boss, enemy.New(BossName, BossLevel, enemy.TypeBoss, 1.0, loot))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
