// Package save defines the persisted form of a game session.
// This package is PURE and must NOT import any infrastructure packages.
package save

import (
	"fmt"
	"strings"
	"time"

	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/domain/world"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// Snapshot is everything needed to resume a session: player, world and position.
type Snapshot struct {
	Name     string         `json:"name"`
	Player   player.State   `json:"player"`
	World    world.State    `json:"world"`
	Position world.Position `json:"position"`
	SavedAt  time.Time      `json:"saved_at"`
}

// Info is the listing entry for a save slot.
type Info struct {
	Name    string    `json:"name"`
	Hero    string    `json:"hero"`
	Level   int       `json:"level"`
	SavedAt time.Time `json:"saved_at"`
}

// Info summarises the snapshot for save listings.
func (s Snapshot) Info() Info {
	return Info{
		Name:    s.Name,
		Hero:    s.Player.Character.Name,
		Level:   s.Player.Character.Level,
		SavedAt: s.SavedAt,
	}
}

// ValidateName checks a save slot name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shellerrors.New(shellerrors.CodeUserInput, "save name is required")
	}
	if len(name) > 64 {
		return shellerrors.New(shellerrors.CodeUserInput, fmt.Sprintf("save name %q is too long", name))
	}
	if strings.ContainsAny(name, `/\`) {
		return shellerrors.New(shellerrors.CodeUserInput, fmt.Sprintf("save name %q contains a path separator", name))
	}
	return nil
}

// Restore rebuilds the player and world, checking the position lies on the grid.
func (s Snapshot) Restore() (*player.Player, *world.World, error) {
	p, err := player.FromState(s.Player)
	if err != nil {
		return nil, nil, err
	}
	w, err := world.FromState(s.World)
	if err != nil {
		return nil, nil, err
	}
	if !w.InBounds(s.Position) {
		return nil, nil, shellerrors.WithMetadata(shellerrors.CodeDataIntegrity,
			"saved position is off the map", map[string]string{"save": s.Name, "position": s.Position.String()})
	}
	return p, w, nil
}
