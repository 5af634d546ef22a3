package world

import (
	"reflect"
	"strings"
	"testing"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

func testCatalogs(t *testing.T) ([]*enemy.Enemy, *item.Catalog) {
	t.Helper()
	items, _, err := item.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	enemies, _, err := enemy.DefaultEnemies(items)
	if err != nil {
		t.Fatal(err)
	}
	return enemies, items
}

func TestRegionsByQuadrant(t *testing.T) {
	w := New(12, random.NewSource(1))
	cases := map[Position]Region{
		{0, 0}:   Forest,
		{0, 11}:  Swamp,
		{11, 0}:  Plains,
		{11, 11}: Mountain,
		{5, 6}:   Swamp,
		{6, 5}:   Plains,
	}
	for p, want := range cases {
		if got := w.Region(p); got != want {
			t.Errorf("%s: expected %s, got %s", p, want, got)
		}
	}
}

func TestMove(t *testing.T) {
	w := New(4, random.NewSource(1))
	to, err := w.Move(Position{0, 0}, South)
	if err != nil || to != (Position{1, 0}) {
		t.Errorf("expected (1, 0), got %s (%v)", to, err)
	}
	to, err = w.Move(Position{0, 0}, North)
	if !shellerrors.HasCode(err, shellerrors.CodeStateViolation) || to != (Position{0, 0}) {
		t.Errorf("expected blocked move to stay put, got %s (%v)", to, err)
	}
	if _, err := w.Move(Position{0, 0}, Direction("up-left")); !shellerrors.HasCode(err, shellerrors.CodeUserInput) {
		t.Errorf("expected user input error for unknown direction, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{"north": North, "go east": East, "z": North, "q": West, "s": South, "d": East, "W": West}
	for in, want := range cases {
		if got, ok := ParseDirection(in); !ok || got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
	if _, ok := ParseDirection("fly"); ok {
		t.Error("expected fly to be rejected")
	}
}

func TestGenerateRespectsSpawnRules(t *testing.T) {
	enemies, items := testCatalogs(t)
	for seed := int64(1); seed <= 20; seed++ {
		w := Generate(12, enemies, items, random.NewSource(seed))

		boss, ok := w.EnemyAt(w.BossLocation())
		if !ok || boss.Name() != BossName || boss.Level() != BossLevel || !boss.IsBoss() {
			t.Fatalf("seed %d: boss missing or wrong: %v", seed, boss)
		}
		if _, ok := w.EnemyAt(w.Start()); ok {
			t.Fatalf("seed %d: enemy on the start cell", seed)
		}

		itemCount := 0
		for r := 0; r < w.Size(); r++ {
			for c := 0; c < w.Size(); c++ {
				p := Position{r, c}
				if _, ok := w.ItemAt(p); ok {
					itemCount++
				}
				if _, ok := w.EnemyAt(p); !ok || p == w.BossLocation() {
					continue
				}
				if r < 2 && c < 2 {
					t.Errorf("seed %d: enemy at %s too close to start", seed, p)
				}
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						n := Position{r + dr, c + dc}
						if n == p || n == w.BossLocation() {
							continue
						}
						if _, ok := w.EnemyAt(n); ok {
							t.Errorf("seed %d: adjacent enemies at %s and %s", seed, p, n)
						}
					}
				}
			}
		}
		if itemCount == 0 || itemCount > w.Size() {
			t.Errorf("seed %d: expected 1..%d items, got %d", seed, w.Size(), itemCount)
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	enemies, items := testCatalogs(t)
	a := Generate(12, enemies, items, random.NewSource(5)).Snapshot()
	b := Generate(12, enemies, items, random.NewSource(5)).Snapshot()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different worlds")
	}
}

func TestTakeItemAndClearEnemy(t *testing.T) {
	w := New(6, random.NewSource(1))
	p := Position{3, 3}
	w.PlaceItem(p, item.New("Potion", item.EffectHeal, 20))
	w.PlaceEnemy(p, enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil))

	if d := w.Describe(p); d == "" || !strings.Contains(d, "Rat") {
		t.Errorf("expected description to mention the rat, got %q", d)
	}
	it, ok := w.TakeItem(p)
	if !ok || it.Name != "Potion" {
		t.Fatalf("expected to take the potion, got %v", it)
	}
	if _, ok := w.ItemAt(p); ok {
		t.Error("expected the cell to be empty after taking the item")
	}
	w.ClearEnemy(p)
	if w.EnemiesRemaining() != 0 {
		t.Error("expected no enemies left")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	enemies, items := testCatalogs(t)
	w := Generate(8, enemies, items, random.NewSource(3))
	restored, err := FromState(w.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), w.Snapshot()) {
		t.Error("world round trip mismatch")
	}
}

func TestFromStateRejectsOutOfRangeCell(t *testing.T) {
	s := New(4, random.NewSource(1)).Snapshot()
	s.Cells = append(s.Cells, CellState{Position: Position{9, 9}})
	if _, err := FromState(s); !shellerrors.HasCode(err, shellerrors.CodeDataIntegrity) {
		t.Errorf("expected data integrity error, got %v", err)
	}
}
