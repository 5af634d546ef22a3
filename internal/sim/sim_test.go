package sim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/engine"
	"github.com/MRamiBalles/shadowshell/internal/events"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

func startBattle(p *player.Player, e *enemy.Enemy) *engine.Battle {
	el := events.NewEventLog(nil)
	log := logger.Discard()
	m := metrics.New()
	inv := engine.NewInventorySystem(el, log, m)
	prog := engine.NewProgressionSystem(el, log, m)
	return engine.NewBattleSystem(el, log, m, random.NewSequence(), inv, prog).Start(p, e)
}

func choose(t *testing.T, a *Autopilot, b *engine.Battle) string {
	t.Helper()
	token, err := a.Choose(context.Background(), b)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	return token
}

func TestAutopilotRaisesShieldFirst(t *testing.T) {
	p := player.New("Hero")
	b := startBattle(p, enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil))
	a := NewAutopilot()

	if got := choose(t, a, b); got != "use" {
		t.Fatalf("expected use, got %q", got)
	}
	if err := b.Submit("use"); err != nil {
		t.Fatalf("submit use: %v", err)
	}
	// Starter kit: dagger, potion, shield.
	if got := choose(t, a, b); got != "3" {
		t.Errorf("expected shield index 3, got %q", got)
	}
}

func TestAutopilotHealsWhenLow(t *testing.T) {
	p := player.New("Hero")
	p.LoseHP(p.MaxHP() - 10)
	b := startBattle(p, enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil))
	a := NewAutopilot()

	if got := choose(t, a, b); got != "use" {
		t.Fatalf("expected use, got %q", got)
	}
	_ = b.Submit("use")
	if got := choose(t, a, b); got != "2" {
		t.Errorf("expected potion index 2, got %q", got)
	}
}

func TestAutopilotRunsFromStrongerEnemy(t *testing.T) {
	p := player.New("Hero")
	p.Inventory().RemoveItem("Wooden Shield", 1)
	b := startBattle(p, enemy.New("Troll", 4, enemy.TypeTerrestrial, 0.1, nil))

	if got := choose(t, NewAutopilot(), b); got != "run" {
		t.Errorf("expected run, got %q", got)
	}
}

func TestAutopilotAttacksOtherwise(t *testing.T) {
	p := player.New("Hero")
	p.Inventory().RemoveItem("Wooden Shield", 1)
	b := startBattle(p, enemy.New("Rat", 2, enemy.TypeBasic, 0.5, nil))

	if got := choose(t, NewAutopilot(), b); got != "attack" {
		t.Errorf("expected attack, got %q", got)
	}
}

func TestAutopilotAttacksAfterRejection(t *testing.T) {
	p := player.New("Hero")
	b := startBattle(p, enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil))
	a := NewAutopilot()

	a.Reject(b, errors.New("refused"))
	if got := choose(t, a, b); got != "attack" {
		t.Errorf("expected attack after a rejection, got %q", got)
	}
	if a.Rejects() != 1 {
		t.Errorf("expected 1 rejection, got %d", a.Rejects())
	}
}

func TestAutopilotCancelsUnexpectedItemPrompt(t *testing.T) {
	p := player.New("Hero")
	b := startBattle(p, enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil))
	_ = b.Submit("use")

	if got := choose(t, NewAutopilot(), b); got != engine.CancelToken {
		t.Errorf("expected cancel, got %q", got)
	}
}

func TestRunnerOutmatchedNeverWins(t *testing.T) {
	m := metrics.New()
	r := NewRunner(random.NewSource(7), 20, logger.Discard(), m)

	res, err := r.Run(context.Background(), Scenario{
		Name:        "outmatched",
		Enemy:       enemy.New("Troll", 8, enemy.TypeTerrestrial, 0.1, nil),
		PlayerLevel: 1,
		Expect: func(r Result) (bool, string) {
			return r.Won == 0, "never wins"
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Battles != 20 || res.Won+res.Lost+res.Fled != 20 {
		t.Errorf("unexpected tally %+v", res)
	}
	if res.Won != 0 || !res.Passed {
		t.Errorf("expected no wins, got %+v", res)
	}
	if r.Failed() != 0 {
		t.Errorf("expected no failed scenarios, got %d", r.Failed())
	}
}

func TestRunnerReportMarksFailures(t *testing.T) {
	r := NewRunner(random.NewSource(3), 2, logger.Discard(), metrics.New())
	_, err := r.Run(context.Background(), Scenario{
		Name:        "impossible",
		Enemy:       enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil),
		PlayerLevel: 1,
		Expect:      func(Result) (bool, string) { return false, "always fails" },
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var buf bytes.Buffer
	r.Report(&buf)
	if !strings.Contains(buf.String(), "[FAIL] impossible") {
		t.Errorf("expected failure line in report:\n%s", buf.String())
	}
	if r.Failed() != 1 {
		t.Errorf("expected 1 failed scenario, got %d", r.Failed())
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	r := NewRunner(random.NewSource(1), 5, logger.Discard(), metrics.New())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, Scenario{Name: "cancelled", Enemy: enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil), PlayerLevel: 1})
	if err == nil {
		t.Error("expected a context error")
	}
}

func TestDefaultScenarios(t *testing.T) {
	enemies := []*enemy.Enemy{
		enemy.New("Wolf", 2, enemy.TypeTerrestrial, 0.5, nil),
		enemy.New("Rat", 1, enemy.TypeBasic, 0.5, nil),
		enemy.New("Troll", 8, enemy.TypeTerrestrial, 0.1, nil),
	}
	scenarios, err := DefaultScenarios(enemies, nil, 2)
	if err != nil {
		t.Fatalf("scenarios: %v", err)
	}
	if len(scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(scenarios))
	}
	if scenarios[0].Enemy.Name() != "Rat" || scenarios[1].Enemy.Name() != "Troll" {
		t.Errorf("unexpected templates %s, %s", scenarios[0].Enemy.Name(), scenarios[1].Enemy.Name())
	}
	if !scenarios[2].Enemy.IsBoss() {
		t.Error("expected the last scenario to be the boss")
	}
	if _, err := DefaultScenarios(nil, nil, 1); err == nil {
		t.Error("expected an error without templates")
	}
}
