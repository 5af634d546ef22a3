// Package main is the entry point for ShadowShell.
// It only handles dependency injection and front end selection.
// NO game rules belong here.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/MRamiBalles/shadowshell/internal/engine"
	"github.com/MRamiBalles/shadowshell/internal/events"
	"github.com/MRamiBalles/shadowshell/internal/infra/cache"
	"github.com/MRamiBalles/shadowshell/internal/infra/storage"
	"github.com/MRamiBalles/shadowshell/internal/platform/config"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
	"github.com/MRamiBalles/shadowshell/internal/ui"
)

// recapBattles is how many past battles are recapped after a load.
const recapBattles = 3

func main() {
	log.SetPrefix("[SHADOWSHELL] ")
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shadowshell:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseGame(flag.NewFlagSet("shadowshell", flag.ExitOnError), os.Args[1:])
	if err != nil {
		return err
	}
	useTUI := wantTUI(cfg.UI)

	appLogger, closeLog, err := openLogger(cfg.LogFile, useTUI)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}
	appLogger.Info(fmt.Sprintf("Starting with seed %d, %s store at %s", seed, cfg.Store, cfg.DBPath))

	saves, journal, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cached, err := cache.NewSaveCache(saves, cfg.CacheSize, appLogger)
	if err != nil {
		return err
	}

	catalog, enemies, err := engine.LoadContent(cfg.ItemsFile, cfg.EnemiesFile, appLogger)
	if err != nil {
		return err
	}

	eventLog := events.NewEventLog(nil)
	eventLog.OnPersistError(func(err error) {
		appLogger.Warn("Failed to persist event: " + err.Error())
	})

	eng := engine.NewEngine(eventLog, appLogger, engine.Options{
		Source:  random.NewSource(seed),
		Metrics: metrics.Get(),
		Store:   cached,
		Journal: func(saveName string) events.EventPersister {
			return storage.NewJournal(journal, saveName)
		},
		Catalog: catalog,
		Enemies: enemies,
		MapSize: cfg.MapSize,
	})

	reconstructor := storage.NewReconstructor(journal)
	recap := func(ctx context.Context, saveName, hero string) ([]string, error) {
		entries, err := reconstructor.GenerateRecap(ctx, saveName, hero, recapBattles)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("%s: %s", e.When, e.Summary))
		}
		return lines, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if useTUI {
		p := tea.NewProgram(ui.NewModel(ctx, eng, recap), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err = p.Run()
	} else {
		err = ui.NewConsole(eng, os.Stdin, os.Stdout).WithRecap(recap).Run(ctx)
	}

	appLogger.Info(fmt.Sprintf("[METRICS] %v", metrics.Get().Snapshot()))
	return err
}

func wantTUI(mode string) bool {
	switch strings.ToLower(mode) {
	case config.UITUI:
		return true
	case config.UIPlain:
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openLogger sends logs to the log file. Without one, the console writes to
// stderr and the TUI discards them so the screen stays intact.
func openLogger(path string, tui bool) (*logger.Logger, func(), error) {
	if path == "" {
		if tui {
			log.SetOutput(io.Discard)
			return logger.Discard(), func() {}, nil
		}
		return logger.NewLoggerTo(os.Stderr), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return logger.NewLoggerTo(f), func() { f.Close() }, nil
}

func openStore(cfg config.Game) (cache.Backend, storage.EventRepository, func(), error) {
	switch strings.ToLower(cfg.Store) {
	case config.StoreBolt:
		store, err := storage.OpenBolt(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, func() { store.Close() }, nil
	default:
		db, err := storage.InitSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage.NewSQLiteSaveRepository(db), storage.NewSQLiteEventRepository(db), func() { db.Close() }, nil
	}
}
