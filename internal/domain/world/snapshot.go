package world

import (
	"fmt"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// CellState is the persisted form of a non-empty cell.
type CellState struct {
	Position    Position     `json:"position"`
	Description string       `json:"description"`
	Enemy       *enemy.State `json:"enemy,omitempty"`
	Item        *item.Item   `json:"item,omitempty"`
}

// State is the persisted form of a World.
type State struct {
	Size  int         `json:"size"`
	Start Position    `json:"start"`
	Boss  Position    `json:"boss"`
	Cells []CellState `json:"cells"`
}

// Snapshot captures every cell for saving.
func (w *World) Snapshot() State {
	s := State{Size: w.size, Start: w.start, Boss: w.boss}
	for r := range w.cells {
		for c := range w.cells[r] {
			cell := w.cells[r][c]
			cs := CellState{Position: Position{r, c}, Description: cell.Description}
			if cell.Enemy != nil {
				es := cell.Enemy.Snapshot()
				cs.Enemy = &es
			}
			if cell.Item != nil {
				it := *cell.Item
				cs.Item = &it
			}
			s.Cells = append(s.Cells, cs)
		}
	}
	return s
}

// FromState restores a world, rejecting out-of-range cells.
func FromState(s State) (*World, error) {
	if s.Size < 2 {
		return nil, shellerrors.New(shellerrors.CodeDataIntegrity, fmt.Sprintf("world size %d too small", s.Size))
	}
	w := &World{
		size:  s.Size,
		start: s.Start,
		boss:  s.Boss,
		cells: make([][]Cell, s.Size),
	}
	for r := range w.cells {
		w.cells[r] = make([]Cell, s.Size)
	}
	if !w.InBounds(s.Start) || !w.InBounds(s.Boss) {
		return nil, shellerrors.New(shellerrors.CodeDataIntegrity, "start or boss outside the grid")
	}
	for _, cs := range s.Cells {
		if !w.InBounds(cs.Position) {
			return nil, shellerrors.New(shellerrors.CodeDataIntegrity,
				fmt.Sprintf("cell %s outside the grid", cs.Position))
		}
		cell := &w.cells[cs.Position.Row][cs.Position.Col]
		cell.Description = cs.Description
		if cs.Enemy != nil {
			e, err := enemy.FromState(*cs.Enemy)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cs.Position, err)
			}
			cell.Enemy = e
		}
		if cs.Item != nil {
			it := *cs.Item
			cell.Item = &it
		}
	}
	return w, nil
}
