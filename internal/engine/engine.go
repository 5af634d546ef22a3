package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/domain/world"
	"github.com/MRamiBalles/shadowshell/internal/events"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

// Store persists save slots. Implemented by infra/storage and infra/cache.
type Store interface {
	Save(ctx context.Context, snap save.Snapshot) error
	Load(ctx context.Context, name string) (save.Snapshot, error)
	List(ctx context.Context) ([]save.Info, error)
}

// JournalFactory returns the event persister for one save slot.
type JournalFactory func(saveName string) events.EventPersister

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Source  random.Source
	Metrics *metrics.Collector
	Store   Store
	Journal JournalFactory
	Catalog *item.Catalog
	Enemies []*enemy.Enemy
	MapSize int
}

// Engine is the central orchestrator that wires the event log to the game systems.
type Engine struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
	src      random.Source

	// Sub-systems
	inventory   *InventorySystem
	progression *ProgressionSystem
	battles     *BattleSystem

	store   Store
	journal JournalFactory
	catalog *item.Catalog
	enemies []*enemy.Enemy
	mapSize int
}

// NewEngine initializes the core game systems and dependencies.
func NewEngine(eventLog *events.EventLog, log *logger.Logger, opts Options) *Engine {
	if opts.Source == nil {
		opts.Source = random.NewSource(0)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Get()
	}
	if opts.Catalog == nil {
		opts.Catalog = item.NewCatalog(nil)
	}
	if opts.MapSize <= 0 {
		opts.MapSize = world.DefaultSize
	}

	inv := NewInventorySystem(eventLog, log, opts.Metrics)
	prog := NewProgressionSystem(eventLog, log, opts.Metrics)
	return &Engine{
		eventLog:    eventLog,
		logger:      log,
		metrics:     opts.Metrics,
		src:         opts.Source,
		inventory:   inv,
		progression: prog,
		battles:     NewBattleSystem(eventLog, log, opts.Metrics, opts.Source, inv, prog).WithCatalog(opts.Catalog),
		store:       opts.Store,
		journal:     opts.Journal,
		catalog:     opts.Catalog,
		enemies:     opts.Enemies,
		mapSize:     opts.MapSize,
	}
}

// EventLog exposes the journal the front ends render.
func (e *Engine) EventLog() *events.EventLog { return e.eventLog }

// Metrics exposes the collector.
func (e *Engine) Metrics() *metrics.Collector { return e.metrics }

// Battles exposes the battle system.
func (e *Engine) Battles() *BattleSystem { return e.battles }

// Inventory exposes the inventory system.
func (e *Engine) Inventory() *InventorySystem { return e.inventory }

// Progression exposes the progression system.
func (e *Engine) Progression() *ProgressionSystem { return e.progression }

// NewGame generates a fresh world for a new hero and writes the first save.
// A save error is returned alongside the playable game.
func (e *Engine) NewGame(ctx context.Context, saveName, heroName string) (*Game, error) {
	heroName = strings.TrimSpace(heroName)
	if heroName == "" {
		return nil, shellerrors.New(shellerrors.CodeUserInput, "character name is required")
	}
	if err := save.ValidateName(saveName); err != nil {
		return nil, err
	}
	saveName = strings.TrimSpace(saveName)

	w := world.Generate(e.mapSize, e.enemies, e.catalog, e.src)
	p := player.New(heroName)
	e.bindJournal(saveName)

	g := newGame(e, saveName, p, w, w.Start())
	e.logger.Info(fmt.Sprintf("[WORLD] new game %q for %s on a %dx%d map (%d enemies)",
		saveName, heroName, w.Size(), w.Size(), w.EnemiesRemaining()))
	e.eventLog.Append(events.GameEvent{
		Type:    events.EventTypePlayerMoved,
		ActorID: heroName,
		Payload: MovedPayload{From: w.Start(), To: w.Start(), Region: w.Region(w.Start())},
		Message: w.Describe(w.Start()),
	})
	return g, g.Save(ctx)
}

// SaveExists reports whether a slot is already taken.
func (e *Engine) SaveExists(ctx context.Context, name string) (bool, error) {
	if e.store == nil {
		return false, nil
	}
	_, err := e.store.Load(ctx, strings.TrimSpace(name))
	switch {
	case err == nil:
		return true, nil
	case shellerrors.HasCode(err, shellerrors.CodeNotFound):
		return false, nil
	}
	return false, err
}

// LoadGame restores a session. The player resumes on the saved cell.
func (e *Engine) LoadGame(ctx context.Context, name string) (*Game, error) {
	if e.store == nil {
		return nil, shellerrors.New(shellerrors.CodePersistence, "load failed: storage is not configured")
	}
	snap, err := e.store.Load(ctx, name)
	if err != nil {
		e.metrics.RecordLoadError()
		if shellerrors.HasCode(err, shellerrors.CodeNotFound) {
			return nil, err
		}
		return nil, shellerrors.Wrap(shellerrors.CodePersistence, "load failed", err)
	}
	p, w, err := snap.Restore()
	if err != nil {
		e.metrics.RecordLoadError()
		return nil, shellerrors.Wrap(shellerrors.CodePersistence, "load failed", err)
	}

	e.bindJournal(snap.Name)
	e.logger.Info(fmt.Sprintf("[SAVE] loaded %q (%s, level %d) at %s", snap.Name, p.Name(), p.Level(), snap.Position))
	return newGame(e, snap.Name, p, w, snap.Position), nil
}

// Saves lists the save slots.
func (e *Engine) Saves(ctx context.Context) ([]save.Info, error) {
	if e.store == nil {
		return nil, nil
	}
	infos, err := e.store.List(ctx)
	if err != nil {
		return nil, shellerrors.Wrap(shellerrors.CodePersistence, "list saves failed", err)
	}
	return infos, nil
}

func (e *Engine) bindJournal(saveName string) {
	if e.journal == nil {
		return
	}
	e.eventLog.SetPersister(e.journal(saveName))
}
