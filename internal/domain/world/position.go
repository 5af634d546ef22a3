package world

import (
	"fmt"
	"strings"
)

// Position is a grid coordinate. Row grows southward, Col grows eastward.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String renders the position as "(row, col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Direction is a cardinal move.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Delta returns the row and column offsets of a direction.
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case West:
		return 0, -1
	case East:
		return 0, 1
	}
	return 0, 0
}

// ParseDirection accepts full names, "go <dir>", the n/s/e/w initials and
// the z/q/s/d keyboard layout.
func ParseDirection(token string) (Direction, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.TrimPrefix(t, "go ")
	switch strings.TrimSpace(t) {
	case "north", "n", "z", "up":
		return North, true
	case "south", "s", "down":
		return South, true
	case "west", "w", "q", "left":
		return West, true
	case "east", "e", "d", "right":
		return East, true
	}
	return "", false
}
