// Package metrics collects process-local counters for battles and saves.
package metrics

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers gameplay and persistence metrics.
type Collector struct {
	// Battle metrics
	BattlesWon     int64
	BattlesLost    int64
	BattlesFled    int64
	TurnsPlayed    int64
	DamageDealt    int64
	DamageTaken    int64
	CriticalHits   int64
	Evasions       int64
	EscapeAttempts int64
	ItemsUsed      int64
	LevelUps       int64

	// Save metrics
	SavesWritten   int64
	SaveLatencySum int64 // nanoseconds
	SaveLatencyMax int64
	SaveErrors     int64
	LoadErrors     int64

	// System
	StartTime    time.Time
	LastSaveTime time.Time
	mu           sync.RWMutex
}

// Global collector instance
var collector = New()

// New returns an empty collector. Tests and the simulator use their own.
func New() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordBattle records a finished battle by outcome and turn count.
// Outcome is one of "won", "lost" or "fled".
func (c *Collector) RecordBattle(outcome string, turns int) {
	switch outcome {
	case "won":
		atomic.AddInt64(&c.BattlesWon, 1)
	case "lost":
		atomic.AddInt64(&c.BattlesLost, 1)
	case "fled":
		atomic.AddInt64(&c.BattlesFled, 1)
	}
	atomic.AddInt64(&c.TurnsPlayed, int64(turns))
}

// RecordDamage records damage dealt by (or taken by) the player.
func (c *Collector) RecordDamage(amount int, taken bool) {
	if taken {
		atomic.AddInt64(&c.DamageTaken, int64(amount))
		return
	}
	atomic.AddInt64(&c.DamageDealt, int64(amount))
}

// RecordCritical records a critical hit.
func (c *Collector) RecordCritical() {
	atomic.AddInt64(&c.CriticalHits, 1)
}

// RecordEvasion records an evaded enemy attack.
func (c *Collector) RecordEvasion() {
	atomic.AddInt64(&c.Evasions, 1)
}

// RecordEscapeAttempt records a run attempt.
func (c *Collector) RecordEscapeAttempt() {
	atomic.AddInt64(&c.EscapeAttempts, 1)
}

// RecordItemUse records an inventory item consumed in battle.
func (c *Collector) RecordItemUse() {
	atomic.AddInt64(&c.ItemsUsed, 1)
}

// RecordLevelUp records levels gained.
func (c *Collector) RecordLevelUp(levels int) {
	atomic.AddInt64(&c.LevelUps, int64(levels))
}

// RecordSave records a save write.
func (c *Collector) RecordSave(latency time.Duration, err error) {
	atomic.AddInt64(&c.SavesWritten, 1)
	atomic.AddInt64(&c.SaveLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.SaveLatencyMax) {
		atomic.StoreInt64(&c.SaveLatencyMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.SaveErrors, 1)
	}

	c.mu.Lock()
	c.LastSaveTime = time.Now()
	c.mu.Unlock()
}

// RecordLoadError records a failed load.
func (c *Collector) RecordLoadError() {
	atomic.AddInt64(&c.LoadErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	won := atomic.LoadInt64(&c.BattlesWon)
	lost := atomic.LoadInt64(&c.BattlesLost)
	fled := atomic.LoadInt64(&c.BattlesFled)
	saves := atomic.LoadInt64(&c.SavesWritten)

	var saveAvg float64
	if saves > 0 {
		saveAvg = float64(atomic.LoadInt64(&c.SaveLatencySum)) / float64(saves) / 1e6 // ms
	}
	lastSave := ""
	if !c.LastSaveTime.IsZero() {
		lastSave = c.LastSaveTime.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"battle": map[string]interface{}{
			"won":             won,
			"lost":            lost,
			"fled":            fled,
			"total":           won + lost + fled,
			"turns":           atomic.LoadInt64(&c.TurnsPlayed),
			"damage_dealt":    atomic.LoadInt64(&c.DamageDealt),
			"damage_taken":    atomic.LoadInt64(&c.DamageTaken),
			"critical_hits":   atomic.LoadInt64(&c.CriticalHits),
			"evasions":        atomic.LoadInt64(&c.Evasions),
			"escape_attempts": atomic.LoadInt64(&c.EscapeAttempts),
			"items_used":      atomic.LoadInt64(&c.ItemsUsed),
			"level_ups":       atomic.LoadInt64(&c.LevelUps),
		},

		"saves": map[string]interface{}{
			"written":        saves,
			"avg_latency_ms": saveAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.SaveLatencyMax)) / 1e6,
			"errors":         atomic.LoadInt64(&c.SaveErrors),
			"load_errors":    atomic.LoadInt64(&c.LoadErrors),
			"last_save":      lastSave,
		},
	}
}

// WritePrometheus writes metrics in Prometheus text format.
func (c *Collector) WritePrometheus(w io.Writer) error {
	counter := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, v)
	}

	fmt.Fprintf(w, "# HELP shell_battles_total Finished battles by outcome\n")
	fmt.Fprintf(w, "# TYPE shell_battles_total counter\n")
	fmt.Fprintf(w, "shell_battles_total{outcome=\"won\"} %d\n", atomic.LoadInt64(&c.BattlesWon))
	fmt.Fprintf(w, "shell_battles_total{outcome=\"lost\"} %d\n", atomic.LoadInt64(&c.BattlesLost))
	fmt.Fprintf(w, "shell_battles_total{outcome=\"fled\"} %d\n\n", atomic.LoadInt64(&c.BattlesFled))

	counter("shell_turns_total", "Battle turns played", atomic.LoadInt64(&c.TurnsPlayed))

	fmt.Fprintf(w, "# HELP shell_damage_total Damage by direction\n")
	fmt.Fprintf(w, "# TYPE shell_damage_total counter\n")
	fmt.Fprintf(w, "shell_damage_total{direction=\"dealt\"} %d\n", atomic.LoadInt64(&c.DamageDealt))
	fmt.Fprintf(w, "shell_damage_total{direction=\"taken\"} %d\n\n", atomic.LoadInt64(&c.DamageTaken))

	counter("shell_critical_hits_total", "Critical hits landed", atomic.LoadInt64(&c.CriticalHits))
	counter("shell_evasions_total", "Enemy attacks evaded", atomic.LoadInt64(&c.Evasions))
	counter("shell_escape_attempts_total", "Run attempts", atomic.LoadInt64(&c.EscapeAttempts))
	counter("shell_items_used_total", "Items used in battle", atomic.LoadInt64(&c.ItemsUsed))
	counter("shell_level_ups_total", "Levels gained", atomic.LoadInt64(&c.LevelUps))
	counter("shell_saves_total", "Saves written", atomic.LoadInt64(&c.SavesWritten))
	counter("shell_save_errors_total", "Failed saves", atomic.LoadInt64(&c.SaveErrors))

	fmt.Fprintf(w, "# HELP shell_save_latency_max_ms Maximum save latency\n")
	fmt.Fprintf(w, "# TYPE shell_save_latency_max_ms gauge\n")
	_, err := fmt.Fprintf(w, "shell_save_latency_max_ms %.2f\n", float64(atomic.LoadInt64(&c.SaveLatencyMax))/1e6)
	return err
}
