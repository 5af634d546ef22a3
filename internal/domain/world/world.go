// Package world holds the explorable grid, its regions and what sits in each cell.
// This package is PURE and must NOT import any infrastructure packages.
package world

import (
	"fmt"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

// Boss settings.
const (
	BossName  = "Goblin Overlord"
	BossLevel = 10
)

// DefaultSize is the edge length of a standard map.
const DefaultSize = 12

// World is a size x size grid with a start cell and a boss lair.
type World struct {
	size  int
	start Position
	boss  Position
	cells [][]Cell
}

// New creates an empty grid with per-cell descriptions.
func New(size int, src random.Source) *World {
	w := &World{
		size:  size,
		start: Position{0, 0},
		boss:  Position{size - 1, size - 1},
		cells: make([][]Cell, size),
	}
	for r := range w.cells {
		w.cells[r] = make([]Cell, size)
		for c := range w.cells[r] {
			w.cells[r][c].Description = w.describeCell(Position{r, c}, src)
		}
	}
	return w
}

func (w *World) describeCell(p Position, src random.Source) string {
	switch p {
	case w.start:
		return "You are at the entrance of a dark forest."
	case w.boss:
		return "This is the lair of the final boss!"
	}
	return fmt.Sprintf("The area is a %s. %s", w.Region(p), ambience[src.Intn(len(ambience))])
}

// Size returns the grid edge length.
func (w *World) Size() int { return w.size }

// Start returns the player's starting cell.
func (w *World) Start() Position { return w.start }

// BossLocation returns the boss lair.
func (w *World) BossLocation() Position { return w.boss }

// InBounds reports whether p lies on the grid.
func (w *World) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < w.size && p.Col >= 0 && p.Col < w.size
}

// Cell returns a copy of the cell at p.
func (w *World) Cell(p Position) (Cell, bool) {
	if !w.InBounds(p) {
		return Cell{}, false
	}
	return w.cells[p.Row][p.Col], true
}

// Region returns the quadrant containing p.
func (w *World) Region(p Position) Region {
	half := w.size / 2
	switch {
	case p.Row < half && p.Col < half:
		return Forest
	case p.Row < half:
		return Swamp
	case p.Col < half:
		return Plains
	default:
		return Mountain
	}
}

// Describe returns the cell description, naming any enemy present.
func (w *World) Describe(p Position) string {
	c, ok := w.Cell(p)
	if !ok {
		return "Unknown place."
	}
	if c.Enemy != nil {
		return c.Description + " You see a " + c.Enemy.Name() + " here!"
	}
	return c.Description
}

// EnemyAt returns the enemy at p, if any.
func (w *World) EnemyAt(p Position) (*enemy.Enemy, bool) {
	if !w.InBounds(p) || w.cells[p.Row][p.Col].Enemy == nil {
		return nil, false
	}
	return w.cells[p.Row][p.Col].Enemy, true
}

// ItemAt returns a copy of the item at p, if any.
func (w *World) ItemAt(p Position) (item.Item, bool) {
	if !w.InBounds(p) || w.cells[p.Row][p.Col].Item == nil {
		return item.Item{}, false
	}
	return *w.cells[p.Row][p.Col].Item, true
}

// PlaceEnemy puts an enemy at p, replacing any occupant.
func (w *World) PlaceEnemy(p Position, e *enemy.Enemy) {
	if w.InBounds(p) {
		w.cells[p.Row][p.Col].Enemy = e
	}
}

// PlaceItem puts a copy of an item at p, replacing any item there.
func (w *World) PlaceItem(p Position, it item.Item) {
	if w.InBounds(p) {
		w.cells[p.Row][p.Col].Item = &it
	}
}

// ClearEnemy removes the enemy at p.
func (w *World) ClearEnemy(p Position) {
	if w.InBounds(p) {
		w.cells[p.Row][p.Col].Enemy = nil
	}
}

// ClearItem removes the item at p.
func (w *World) ClearItem(p Position) {
	if w.InBounds(p) {
		w.cells[p.Row][p.Col].Item = nil
	}
}

// TakeItem removes and returns the item at p.
func (w *World) TakeItem(p Position) (item.Item, bool) {
	it, ok := w.ItemAt(p)
	if ok {
		w.ClearItem(p)
	}
	return it, ok
}

// Move returns the neighbour of from in direction d. Moving off the grid is
// a state violation and leaves the caller where it was.
func (w *World) Move(from Position, d Direction) (Position, error) {
	dr, dc := d.Delta()
	if dr == 0 && dc == 0 {
		return from, shellerrors.New(shellerrors.CodeUserInput, fmt.Sprintf("unknown direction %q", d))
	}
	to := Position{from.Row + dr, from.Col + dc}
	if !w.InBounds(to) {
		return from, shellerrors.New(shellerrors.CodeStateViolation, "You can't go that way.")
	}
	return to, nil
}

// EnemiesRemaining counts enemies still on the map.
func (w *World) EnemiesRemaining() int {
	n := 0
	for r := range w.cells {
		for c := range w.cells[r] {
			if w.cells[r][c].Enemy != nil {
				n++
			}
		}
	}
	return n
}

// BossDefeated reports whether the lair is empty.
func (w *World) BossDefeated() bool {
	_, ok := w.EnemyAt(w.boss)
	return !ok
}
