package sim

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/engine"
	"github.com/MRamiBalles/shadowshell/internal/events"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

// Scenario pits a hero of one level against one enemy template, many times.
type Scenario struct {
	Name        string
	Enemy       *enemy.Enemy // template; cloned per battle
	EnemyLevel  int          // 0 keeps the template level
	PlayerLevel int
	Expect      func(Result) (bool, string)
}

// Result captures the outcome of one scenario.
type Result struct {
	ScenarioName string
	Battles      int
	Won          int
	Lost         int
	Fled         int
	Turns        int
	Rejected     int
	Passed       bool
	Reason       string
}

// WinRate returns the share of battles won.
func (r Result) WinRate() float64 { return rate(r.Won, r.Battles) }

// FleeRate returns the share of battles fled.
func (r Result) FleeRate() float64 { return rate(r.Fled, r.Battles) }

// AverageTurns returns the mean battle length.
func (r Result) AverageTurns() float64 { return rate(r.Turns, r.Battles) }

func rate(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Runner executes scenarios against a single seeded source.
type Runner struct {
	battles *engine.BattleSystem
	metrics *metrics.Collector
	logger  *logger.Logger
	count   int
	results []Result
}

// NewRunner creates the simulation harness. Every battle draws from src so a
// fixed seed reproduces the whole run.
func NewRunner(src random.Source, battlesPerScenario int, log *logger.Logger, m *metrics.Collector) *Runner {
	el := events.NewEventLog(nil)
	inv := engine.NewInventorySystem(el, log, m)
	prog := engine.NewProgressionSystem(el, log, m)
	return &Runner{
		battles: engine.NewBattleSystem(el, log, m, src, inv, prog),
		metrics: m,
		logger:  log,
		count:   battlesPerScenario,
	}
}

// WithCatalog rolls victory loot from the whole item catalog.
func (r *Runner) WithCatalog(c *item.Catalog) *Runner {
	r.battles.WithCatalog(c)
	return r
}

// Run plays every battle of a scenario and checks its expectation.
func (r *Runner) Run(ctx context.Context, sc Scenario) (Result, error) {
	res := Result{ScenarioName: sc.Name}
	for i := 0; i < r.count; i++ {
		p := player.NewAtLevel("Simulated Hero", sc.PlayerLevel)
		e := spawn(sc)
		pilot := NewAutopilot()

		b := r.battles.Start(p, e)
		outcome, err := b.Run(ctx, pilot)
		if err != nil {
			return res, fmt.Errorf("scenario %q battle %d: %w", sc.Name, i+1, err)
		}

		res.Battles++
		res.Turns += b.Turn()
		res.Rejected += pilot.Rejects()
		switch outcome {
		case engine.PlayerWon:
			res.Won++
		case engine.PlayerLost:
			res.Lost++
		case engine.PlayerFled:
			res.Fled++
		}
	}

	res.Passed, res.Reason = true, "no expectation"
	if sc.Expect != nil {
		res.Passed, res.Reason = sc.Expect(res)
	}
	r.logger.Info(fmt.Sprintf("[SIM] %s: won=%d lost=%d fled=%d passed=%t",
		sc.Name, res.Won, res.Lost, res.Fled, res.Passed))
	r.results = append(r.results, res)
	return res, nil
}

// Results returns every scenario result so far.
func (r *Runner) Results() []Result {
	return r.results
}

// Failed counts the scenarios whose expectation did not hold.
func (r *Runner) Failed() int {
	failed := 0
	for _, res := range r.results {
		if !res.Passed {
			failed++
		}
	}
	return failed
}

// Report writes a human-readable summary of all results.
func (r *Runner) Report(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "BATTLE SIMULATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for _, res := range r.results {
		mark := "PASS"
		if !res.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, res.ScenarioName)
		fmt.Fprintf(w, "   battles: %s  won: %s%%  fled: %s%%  avg turns: %s\n",
			humanize.Comma(int64(res.Battles)),
			humanize.FormatFloat("#.#", res.WinRate()*100),
			humanize.FormatFloat("#.#", res.FleeRate()*100),
			humanize.FormatFloat("#.##", res.AverageTurns()))
		fmt.Fprintf(w, "   %s\n", res.Reason)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "   damage dealt: %s  taken: %s  crits: %s\n",
		humanize.Comma(atomic.LoadInt64(&r.metrics.DamageDealt)),
		humanize.Comma(atomic.LoadInt64(&r.metrics.DamageTaken)),
		humanize.Comma(atomic.LoadInt64(&r.metrics.CriticalHits)))
	fmt.Fprintf(w, "   passed: %d  failed: %d\n", len(r.results)-r.Failed(), r.Failed())
}

func spawn(sc Scenario) *enemy.Enemy {
	t := sc.Enemy
	if sc.EnemyLevel <= 0 || sc.EnemyLevel == t.Level() {
		return t.Clone()
	}
	return enemy.New(t.Name(), sc.EnemyLevel, t.Type(), t.SpawnChance(), t.LootTable())
}
