package world

import (
	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
)

// Cell is a single map square. It holds at most one enemy and one item.
type Cell struct {
	Description string
	Enemy       *enemy.Enemy
	Item        *item.Item
}

// HasEnemy reports whether an enemy occupies the cell.
func (c *Cell) HasEnemy() bool { return c.Enemy != nil }

// HasItem reports whether an item lies in the cell.
func (c *Cell) HasItem() bool { return c.Item != nil }
