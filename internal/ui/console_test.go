package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/engine"
	"github.com/MRamiBalles/shadowshell/internal/events"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

type memoryStore struct {
	saves map[string]save.Snapshot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saves: map[string]save.Snapshot{}}
}

func (m *memoryStore) Save(_ context.Context, snap save.Snapshot) error {
	m.saves[snap.Name] = snap
	return nil
}

func (m *memoryStore) Load(_ context.Context, name string) (save.Snapshot, error) {
	snap, ok := m.saves[name]
	if !ok {
		return save.Snapshot{}, shellerrors.New(shellerrors.CodeNotFound, "no save named "+name)
	}
	return snap, nil
}

func (m *memoryStore) List(_ context.Context) ([]save.Info, error) {
	var out []save.Info
	for _, s := range m.saves {
		out = append(out, s.Info())
	}
	return out, nil
}

func newTestEngine(store engine.Store) *engine.Engine {
	return engine.NewEngine(events.NewEventLog(nil), logger.Discard(), engine.Options{
		Source:  random.NewSource(1),
		Metrics: metrics.New(),
		Store:   store,
		MapSize: 4,
	})
}

func runConsole(t *testing.T, e *engine.Engine, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := NewConsole(e, strings.NewReader(input), &out).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestConsoleNewGameSession(t *testing.T) {
	store := newMemoryStore()
	out := runConsole(t, newTestEngine(store), "1\nAyla\nslot1\nstats\nmap\nfly\nquit\n")

	for _, want := range []string{
		"Welcome, Ayla!",
		"Ayla - Level 1",
		"🧑",
		"Invalid action",
		"Game saved. Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if _, ok := store.saves["slot1"]; !ok {
		t.Error("expected the game to be saved")
	}
}

func TestConsoleMoveDescribesCell(t *testing.T) {
	e := newTestEngine(newMemoryStore())
	var out bytes.Buffer
	c := NewConsole(e, strings.NewReader("1\nAyla\nslot1\nsouth\nnorth\nnorth\nquit\n"), &out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "can't go that way") {
		t.Errorf("expected the off-grid move to be refused:\n%s", out.String())
	}
	if n := len(e.EventLog().GetByType(events.EventTypePlayerMoved)); n != 3 {
		t.Errorf("expected 3 moved events (start + 2 steps), got %d", n)
	}
}

func TestConsoleLoadShowsRecap(t *testing.T) {
	store := newMemoryStore()
	runConsole(t, newTestEngine(store), "1\nAyla\nslot1\nquit\n")

	var out bytes.Buffer
	c := NewConsole(newTestEngine(store), strings.NewReader("2\nslot1\nstats\nquit\n"), &out).
		WithRecap(func(_ context.Context, saveName, hero string) ([]string, error) {
			return []string{"Defeated Cave Rat for " + hero + " in " + saveName}, nil
		})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"slot1: Ayla, level 1", "Welcome back, Ayla!", "Battle Recap:", "Defeated Cave Rat for Ayla in slot1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestConsoleRefusesOverwrite(t *testing.T) {
	store := newMemoryStore()
	runConsole(t, newTestEngine(store), "1\nAyla\nslot1\nquit\n")
	runConsole(t, newTestEngine(store), "1\nBram\nslot1\nn\n4\n")

	if hero := store.saves["slot1"].Info().Hero; hero != "Ayla" {
		t.Errorf("expected the original save to survive, got hero %q", hero)
	}
}

func TestConsoleAboutAndExit(t *testing.T) {
	out := runConsole(t, newTestEngine(nil), "3\nbogus\n4\n")
	if !strings.Contains(out, "Goblin Overlord") {
		t.Errorf("expected the about text:\n%s", out)
	}
	if !strings.Contains(out, "Invalid choice") || !strings.Contains(out, "Goodbye!") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConsoleEndOfInputSaves(t *testing.T) {
	store := newMemoryStore()
	out := runConsole(t, newTestEngine(store), "1\nAyla\nslot1\n")
	if _, ok := store.saves["slot1"]; !ok {
		t.Errorf("expected a save on end of input:\n%s", out)
	}
}
