// Package engine - game.go
// A game session: one player walking one world, with autosave.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/domain/world"
	"github.com/MRamiBalles/shadowshell/internal/events"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

// Status is where a session stands.
type Status string

const (
	StatusExploring Status = "exploring"
	StatusFighting  Status = "fighting"
	StatusGameOver  Status = "game_over"
	StatusVictory   Status = "victory"
	StatusQuit      Status = "quit"
)

// Reply tells the front end what to show after an exploration command.
type Reply int

const (
	ReplyNone Reply = iota
	ReplyHelp
	ReplyStats
	ReplyInventory
	ReplyMap
	ReplyQuit
)

// MovedPayload records a step on the map.
type MovedPayload struct {
	From   world.Position `json:"from"`
	To     world.Position `json:"to"`
	Region world.Region   `json:"region"`
}

// SavedPayload records an autosave.
type SavedPayload struct {
	Save     string        `json:"save"`
	Duration time.Duration `json:"duration"`
}

// Game is a running session.
type Game struct {
	engine *Engine
	name   string

	player *player.Player
	world  *world.World
	pos    world.Position
	prev   world.Position

	battle *Battle
	status Status
}

func newGame(e *Engine, name string, p *player.Player, w *world.World, pos world.Position) *Game {
	g := &Game{
		engine: e,
		name:   name,
		player: p,
		world:  w,
		pos:    pos,
		prev:   pos,
		status: StatusExploring,
	}
	if !p.IsAlive() {
		g.status = StatusGameOver
	} else if w.BossDefeated() {
		g.status = StatusVictory
	}
	return g
}

// Name returns the save slot.
func (g *Game) Name() string { return g.name }

// Player returns the hero.
func (g *Game) Player() *player.Player { return g.player }

// World returns the map.
func (g *Game) World() *world.World { return g.world }

// Position returns the player's cell.
func (g *Game) Position() world.Position { return g.pos }

// Battle returns the current battle, or nil while exploring.
func (g *Game) Battle() *Battle { return g.battle }

// Status returns the session state.
func (g *Game) Status() Status { return g.status }

// Over reports whether the session can no longer be played.
func (g *Game) Over() bool {
	return g.status == StatusGameOver || g.status == StatusVictory || g.status == StatusQuit
}

// Enter resolves the current cell: a living enemy starts a battle, an item is
// picked up. It is called after every move and after loading.
func (g *Game) Enter(ctx context.Context) error {
	if g.Over() || g.battle != nil {
		return nil
	}
	if e, ok := g.world.EnemyAt(g.pos); ok {
		g.battle = g.engine.battles.Start(g.player, e)
		g.status = StatusFighting
		if g.battle.Done() {
			return g.resolveBattle(ctx)
		}
		return nil
	}
	g.engine.inventory.PickUp(g.player, g.world, g.pos)
	return nil
}

// Command handles one exploration token. During a battle the token goes to
// the battle instead and the returned Reply is ReplyNone.
func (g *Game) Command(ctx context.Context, token string) (Reply, error) {
	if g.Over() {
		return ReplyNone, shellerrors.New(shellerrors.CodeStateViolation, "the game is over")
	}
	if g.battle != nil {
		err := g.battle.Submit(token)
		if g.battle.Done() {
			if serr := g.resolveBattle(ctx); serr != nil && err == nil {
				err = serr
			}
		}
		return ReplyNone, err
	}

	token = strings.ToLower(strings.TrimSpace(token))
	if d, ok := world.ParseDirection(token); ok {
		return ReplyNone, g.Move(ctx, d)
	}

	fields := strings.Fields(token)
	if len(fields) == 0 {
		return ReplyNone, shellerrors.New(shellerrors.CodeUserInput, "Invalid action. Please try again.")
	}
	switch fields[0] {
	case "help", "h", "?":
		return ReplyHelp, nil
	case "stats", "status":
		return ReplyStats, nil
	case "inventory", "inv", "i":
		return ReplyInventory, nil
	case "map", "m":
		return ReplyMap, nil
	case "quit", "exit":
		err := g.Save(ctx)
		g.status = StatusQuit
		return ReplyQuit, err
	case "save":
		return ReplyNone, g.Save(ctx)
	case "use":
		if len(fields) != 2 {
			return ReplyNone, shellerrors.New(shellerrors.CodeUserInput, "usage: use <item number>")
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return ReplyNone, shellerrors.New(shellerrors.CodeUserInput, "usage: use <item number>")
		}
		_, err = g.engine.inventory.UseItem(g.player, index, nil, 0)
		return ReplyNone, err
	case "allocate", "alloc":
		return ReplyNone, g.allocate(fields[1:])
	}
	return ReplyNone, shellerrors.WithMetadata(shellerrors.CodeUserInput,
		"Invalid action. Please try again.", map[string]string{"token": token})
}

func (g *Game) allocate(args []string) error {
	if len(args) != 3 {
		return shellerrors.New(shellerrors.CodeUserInput, "usage: allocate <attack> <defense> <hp>")
	}
	var pts [3]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return shellerrors.New(shellerrors.CodeUserInput, "usage: allocate <attack> <defense> <hp>")
		}
		pts[i] = n
	}
	return g.engine.progression.Allocate(g.player, pts[0], pts[1], pts[2])
}

// Move steps one cell, resolves the new cell and autosaves. An off-grid move
// leaves the player in place. A save failure is returned after the move has
// been applied; the in-memory session stays valid.
func (g *Game) Move(ctx context.Context, d world.Direction) error {
	if g.battle != nil {
		return shellerrors.New(shellerrors.CodeStateViolation, "You can't leave during a battle.")
	}
	to, err := g.world.Move(g.pos, d)
	if err != nil {
		return err
	}

	fromRegion := g.world.Region(g.pos)
	g.prev, g.pos = g.pos, to
	region := g.world.Region(to)
	g.engine.eventLog.Append(events.GameEvent{
		Type:    events.EventTypePlayerMoved,
		ActorID: g.player.Name(),
		Payload: MovedPayload{From: g.prev, To: to, Region: region},
		Message: g.world.Describe(to),
	})
	if region != fromRegion {
		g.engine.eventLog.Append(events.GameEvent{
			Type:    events.EventTypeRegionEntered,
			ActorID: g.player.Name(),
			Message: region.Description(),
		})
	}
	g.engine.logger.Info(fmt.Sprintf("[WORLD] %s moved %s to %s (%s)", g.player.Name(), d, to, region))

	if err := g.Enter(ctx); err != nil {
		return err
	}
	return g.Save(ctx)
}

// resolveBattle applies the battle result to the map and autosaves.
func (g *Game) resolveBattle(ctx context.Context) error {
	b := g.battle
	g.battle = nil
	g.status = StatusExploring

	switch b.Outcome() {
	case PlayerWon:
		g.world.ClearEnemy(g.pos)
		if b.Enemy().IsBoss() {
			g.status = StatusVictory
			g.engine.eventLog.Append(events.GameEvent{
				Type:    events.EventTypeVictory,
				ActorID: g.player.Name(),
				Message: fmt.Sprintf("%s has defeated the %s. The realm is safe!", g.player.Name(), b.Enemy().Name()),
			})
		} else {
			g.engine.inventory.PickUp(g.player, g.world, g.pos)
		}
	case PlayerLost:
		g.status = StatusGameOver
		g.engine.eventLog.Append(events.GameEvent{
			Type:    events.EventTypeGameOver,
			ActorID: g.player.Name(),
			Message: "GAME OVER",
		})
	case PlayerFled:
		// The enemy keeps the cell; step back to where the player came from.
		g.pos = g.prev
	}
	return g.Save(ctx)
}

// Snapshot captures the session for saving.
func (g *Game) Snapshot() save.Snapshot {
	return save.Snapshot{
		Name:     g.name,
		Player:   g.player.Snapshot(),
		World:    g.world.Snapshot(),
		Position: g.pos,
		SavedAt:  time.Now(),
	}
}

// Save writes the session to the store, if one is configured.
func (g *Game) Save(ctx context.Context) error {
	store := g.engine.store
	if store == nil {
		return nil
	}
	start := time.Now()
	err := store.Save(ctx, g.Snapshot())
	elapsed := time.Since(start)
	g.engine.metrics.RecordSave(elapsed, err)
	if err != nil {
		g.engine.logger.Error(fmt.Sprintf("[SAVE] %s: %v", g.name, err))
		return shellerrors.Wrap(shellerrors.CodePersistence, "save failed", err)
	}

	g.engine.eventLog.Append(events.GameEvent{
		Type:    events.EventTypeGameSaved,
		ActorID: g.player.Name(),
		Payload: SavedPayload{Save: g.name, Duration: elapsed},
	})
	return nil
}
